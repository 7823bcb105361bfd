package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/signup-form/internal/form"
	"github.com/khanghh/signup-form/internal/middlewares/csrf"
	"github.com/khanghh/signup-form/internal/middlewares/sessions"
	"github.com/khanghh/signup-form/internal/render"
	"github.com/khanghh/signup-form/internal/signup"
	"github.com/spf13/cast"
)

type SignupHandler struct {
	signupService SignupService
}

func NewSignupHandler(signupService SignupService) *SignupHandler {
	return &SignupHandler{
		signupService: signupService,
	}
}

// Register mounts the sign-up page and its JSON API on router.
func (h *SignupHandler) Register(router fiber.Router) {
	router.Get("/", func(ctx *fiber.Ctx) error {
		return redirect(ctx, "/signup")
	})
	router.Get("/signup", h.GetSignup)
	router.Post("/signup", h.PostSignup)

	api := router.Group("/api/signup")
	api.Get("", h.GetState)
	api.Post("", h.PostSubmit)
	api.Delete("", h.DeleteState)
	api.Put("/fields/:field", h.PutField)
	api.Post("/fields/:field/blur", h.PostBlur)
}

func sessionID(ctx *fiber.Ctx) (string, error) {
	sid := sessions.ID(ctx)
	if sid == "" {
		return "", ErrMissingSession
	}
	return sid, nil
}

func parseField(ctx *fiber.Ctx) (form.FieldName, error) {
	field, err := form.ParseField(ctx.Params("field"))
	if err != nil {
		return "", toHTTPError(err)
	}
	return field, nil
}

func (h *SignupHandler) renderSignup(ctx *fiber.Ctx, rec signup.Record) error {
	pageData := render.NewSignupPageData(rec.Form, csrf.Get(ctx).Token, rec.Notice)
	return render.RenderSignup(ctx, pageData)
}

func (h *SignupHandler) GetSignup(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	rec, err := h.signupService.TakeNotice(ctx.UserContext(), sid)
	if err != nil {
		return err
	}
	return h.renderSignup(ctx, rec)
}

// PostSignup handles the plain HTML form post: it applies every input and
// submits in one request.
func (h *SignupHandler) PostSignup(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	userCtx := ctx.UserContext()

	var rec signup.Record
	for _, field := range form.Fields {
		rec, err = h.signupService.SetValue(userCtx, sid, field, ctx.FormValue(field.String()))
		if err != nil {
			break
		}
	}
	if err == nil {
		var result form.SubmitResult
		rec, result, err = h.signupService.Submit(userCtx, sid)
		if err == nil && !result.Accepted {
			ctx.Status(fiber.StatusUnprocessableEntity)
		}
	}
	if errors.Is(err, form.ErrSubmitting) {
		slog.Debug("Signup form is already being submitted", "error", err)
		ctx.Status(fiber.StatusConflict)
		rec, err = h.signupService.Get(userCtx, sid)
	}
	if err != nil {
		return err
	}
	return h.renderSignup(ctx, rec)
}

func (h *SignupHandler) GetState(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	var rec signup.Record
	if cast.ToBool(ctx.Query("notice")) {
		rec, err = h.signupService.TakeNotice(ctx.UserContext(), sid)
	} else {
		rec, err = h.signupService.Get(ctx.UserContext(), sid)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(newStateResponse(rec))
}

func (h *SignupHandler) PutField(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	field, err := parseField(ctx)
	if err != nil {
		return err
	}

	rec, err := h.signupService.SetValue(ctx.UserContext(), sid, field, ctx.FormValue("value"))
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(newStateResponse(rec))
}

func (h *SignupHandler) PostBlur(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	field, err := parseField(ctx)
	if err != nil {
		return err
	}

	touched := true
	if raw := ctx.FormValue("touched"); raw != "" {
		if touched, err = cast.ToBoolE(raw); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid touched flag")
		}
	}

	rec, err := h.signupService.Blur(ctx.UserContext(), sid, field, touched)
	if err != nil {
		return toHTTPError(err)
	}
	return ctx.JSON(newStateResponse(rec))
}

func (h *SignupHandler) PostSubmit(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	rec, result, err := h.signupService.Submit(ctx.UserContext(), sid)
	if err != nil {
		return toHTTPError(err)
	}
	if !result.Accepted {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(newStateResponse(rec))
	}
	return ctx.Status(fiber.StatusAccepted).JSON(newStateResponse(rec))
}

func (h *SignupHandler) DeleteState(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}
	if err := h.signupService.Reset(ctx.UserContext(), sid); err != nil {
		return err
	}
	return ctx.JSON(newStateResponse(signup.Record{Form: form.NewState()}))
}
