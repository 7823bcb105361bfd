package csrf

import (
	"crypto/rand"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/signup-form/internal/middlewares/sessions"
	"github.com/khanghh/signup-form/params"
)

const (
	CSRFTokenSessionKey = "_csrf"
	CSRFHeader          = "X-CSRF-Token"
	CSRFFormField       = "_csrf"
)

var (
	ErrInvalidToken = errors.New("invalid CSRF token")
)

type CSRF struct {
	Token     string
	ExpiresAt time.Time
}

func init() {
	gob.Register(CSRF{})
}

// Get returns the CSRF token of the current session, issuing one when the
// session has none or it expired.
func Get(ctx *fiber.Ctx) CSRF {
	csrf, ok := sessions.Value(ctx, CSRFTokenSessionKey).(CSRF)
	if !ok || time.Now().After(csrf.ExpiresAt) {
		csrf = generateCSRF()
		sessions.SetValue(ctx, CSRFTokenSessionKey, csrf)
	}
	return csrf
}

func Verify(ctx *fiber.Ctx) bool {
	token := ctx.Get(CSRFHeader)
	if token == "" {
		token = ctx.FormValue(CSRFFormField)
	}

	csrf, ok := sessions.Value(ctx, CSRFTokenSessionKey).(CSRF)
	if !ok || token == "" || time.Now().After(csrf.ExpiresAt) || csrf.Token != token {
		return false
	}
	return true
}

func randomToken() string {
	const tokenLength = 32
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate CSRF token: " + err.Error())
	}
	return hex.EncodeToString(b)
}

func generateCSRF() CSRF {
	return CSRF{
		Token:     randomToken(),
		ExpiresAt: time.Now().Add(params.CSRFTokenExpiration),
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}

// New exposes the session token on safe requests and rejects state-changing
// requests that do not carry it. Must run after the session middleware.
func New() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if isSafeMethod(ctx.Method()) {
			ctx.Set(CSRFHeader, Get(ctx).Token)
			return ctx.Next()
		}
		if !Verify(ctx) {
			return fiber.NewError(fiber.StatusForbidden, ErrInvalidToken.Error())
		}
		return ctx.Next()
	}
}
