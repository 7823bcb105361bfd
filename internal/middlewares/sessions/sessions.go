package sessions

import (
	"encoding/gob"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	injectSessionKey = "session"
	sessionDataKey   = "data"
)

type SessionData struct {
	IP        string    // client ip address
	CreatedAt time.Time // first request time
	LastSeen  time.Time // last request time
}

func init() {
	gob.Register(SessionData{})
}

func fromCtx(ctx *fiber.Ctx) *session.Session {
	sess, _ := ctx.Locals(injectSessionKey).(*session.Session)
	return sess
}

// ID returns the id of the session attached to ctx.
func ID(ctx *fiber.Ctx) string {
	if sess := fromCtx(ctx); sess != nil {
		return sess.ID()
	}
	return ""
}

func Get(ctx *fiber.Ctx) SessionData {
	sess := fromCtx(ctx)
	if sess == nil {
		return SessionData{}
	}
	data, _ := sess.Get(sessionDataKey).(SessionData)
	return data
}

// Value returns an arbitrary session value stored under key.
func Value(ctx *fiber.Ctx, key string) any {
	if sess := fromCtx(ctx); sess != nil {
		return sess.Get(key)
	}
	return nil
}

func SetValue(ctx *fiber.Ctx, key string, val any) {
	if sess := fromCtx(ctx); sess != nil {
		sess.Set(key, val)
	}
}

func Destroy(ctx *fiber.Ctx) error {
	if sess := fromCtx(ctx); sess != nil {
		return sess.Destroy()
	}
	return nil
}

// SessionMiddleware attaches the session to every request and saves it once
// the handler chain has run.
func SessionMiddleware(store *session.Store) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess, err := store.Get(ctx)
		if err != nil {
			return err
		}

		ctx.Locals(injectSessionKey, sess)
		if err := ctx.Next(); err != nil {
			return err
		}

		now := time.Now()
		data, ok := sess.Get(sessionDataKey).(SessionData)
		if !ok {
			data = SessionData{IP: ctx.IP(), CreatedAt: now}
		}
		data.LastSeen = now
		sess.Set(sessionDataKey, data)
		return sess.Save()
	}
}
