package authkit

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

var (
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit  = regexp.MustCompile(`\d`)
)

// passwordRules enforces the minimum credential policy: at least 8
// characters with one letter and one digit.
func passwordRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(8, 0),
		validation.Match(hasLetter).Error("must contain at least one letter"),
		validation.Match(hasDigit).Error("must contain at least one number"),
	}
}

type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p RegisterPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, passwordRules()...),
	)
}

type LoginRequestPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p LoginRequestPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

type RefreshTokenPayload struct {
	RefreshToken string `json:"refresh_token"`
}

func (p RefreshTokenPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.RefreshToken, validation.Required),
	)
}

type ForgotPasswordPayload struct {
	Email string `json:"email"`
}

func (p ForgotPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
	)
}

type ResetPasswordPayload struct {
	Password string `json:"password"`
}

func (p ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Password, passwordRules()...),
	)
}

// AuthController exposes the auth endpoints as JSON handlers
type AuthController struct {
	Auther    *Auther
	Registrar *RegisterUserHandler
	Logger    Logger
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(auther *Auther, registrar *RegisterUserHandler, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Auther:    auther,
		Registrar: registrar,
		Logger:    defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// RegisterAuthRoutes mounts the auth endpoints. The send-verification-email
// route is the only one requiring an authenticated caller, so it takes the
// route authenticator's Protected middleware.
func RegisterAuthRoutes[T any](app router.Router[T], controller *AuthController, protected router.MiddlewareFunc) {
	app.Post("/auth/register", controller.Register).SetName("auth.register")
	app.Post("/auth/login", controller.Login).SetName("auth.login")
	app.Post("/auth/logout", controller.Logout).SetName("auth.logout")
	app.Post("/auth/refresh-tokens", controller.RefreshTokens).SetName("auth.refresh")
	app.Post("/auth/forgot-password", controller.ForgotPassword).SetName("auth.forgot-password")
	app.Post("/auth/reset-password", controller.ResetPassword).SetName("auth.reset-password")
	app.Post("/auth/send-verification-email", protected(controller.SendVerificationEmail)).SetName("auth.send-verification")
	app.Post("/auth/verify-email", controller.VerifyEmail).SetName("auth.verify-email")
}

func (a *AuthController) Register(ctx router.Context) error {
	payload := RegisterPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.renderValidationError(ctx, err)
	}

	var user *User
	msg := RegisterUserMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		OnResponse: func(u *User) {
			user = u
		},
	}

	if err := a.Registrar.Execute(ctx.Context(), msg); err != nil {
		return a.renderError(ctx, err)
	}

	identity := NewIdentityFromUser(user)
	tokens, err := a.Auther.TokenManager().GenerateAuthTokens(ctx.Context(), identity)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, map[string]any{
		"user":   identityJSON(identity),
		"tokens": tokens,
	})
}

func (a *AuthController) Login(ctx router.Context) error {
	payload := LoginRequestPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.renderValidationError(ctx, err)
	}

	identity, tokens, err := a.Auther.LoginWithTokens(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"user":   identityJSON(identity),
		"tokens": tokens,
	})
}

func (a *AuthController) Logout(ctx router.Context) error {
	payload := RefreshTokenPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.renderValidationError(ctx, err)
	}

	if err := a.Auther.Logout(ctx.Context(), payload.RefreshToken); err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"success": true})
}

func (a *AuthController) RefreshTokens(ctx router.Context) error {
	payload := RefreshTokenPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.renderValidationError(ctx, err)
	}

	tokens, err := a.Auther.RefreshAuth(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"tokens": tokens})
}

func (a *AuthController) ForgotPassword(ctx router.Context) error {
	payload := ForgotPasswordPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.renderValidationError(ctx, err)
	}

	if _, err := a.Auther.RequestPasswordReset(ctx.Context(), payload.Email); err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"success": true})
}

func (a *AuthController) ResetPassword(ctx router.Context) error {
	token := ctx.Query("token", "")
	if token == "" {
		return a.renderError(ctx, ErrUnauthenticated)
	}

	payload := ResetPasswordPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.renderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		return a.renderValidationError(ctx, err)
	}

	if err := a.Auther.ResetPassword(ctx.Context(), token, payload.Password); err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"success": true})
}

func (a *AuthController) SendVerificationEmail(ctx router.Context) error {
	identity, ok := GetRouterIdentity(ctx, IdentityContextKey)
	if !ok {
		return a.renderError(ctx, ErrUnauthenticated)
	}

	if _, err := a.Auther.RequestEmailVerification(ctx.Context(), identity); err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"success": true})
}

func (a *AuthController) VerifyEmail(ctx router.Context) error {
	token := ctx.Query("token", "")
	if token == "" {
		return a.renderError(ctx, ErrUnauthenticated)
	}

	if err := a.Auther.VerifyEmail(ctx.Context(), token); err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"success": true})
}

// renderError is the boundary converter: rich errors map to their HTTP code,
// anything unknown becomes a generic internal error while the detail stays
// in the logs.
func (a *AuthController) renderError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		a.Logger.Error("unexpected controller error", "error", err)
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	code := richErr.Code
	if code == 0 {
		code = errors.CodeInternal
	}

	return ctx.JSON(code, map[string]any{
		"error": map[string]any{
			"message":   richErr.Message,
			"text_code": richErr.TextCode,
		},
	})
}

func (a *AuthController) renderValidationError(ctx router.Context, err error) error {
	return ctx.JSON(fiber.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"message": "validation failed",
			"fields":  err,
		},
	})
}

func identityJSON(identity Identity) map[string]any {
	return map[string]any{
		"id":                identity.ID(),
		"email":             identity.Email(),
		"role":              identity.Role(),
		"is_email_verified": identity.EmailVerified(),
	}
}
