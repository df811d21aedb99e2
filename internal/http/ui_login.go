package httpx

import (
	"errors"
	"net/http"
	"strings"

	domainauth "github.com/ticketdesk/admin-console/internal/domain/auth"
	"github.com/ticketdesk/admin-console/internal/http/validation"
	"github.com/ticketdesk/admin-console/internal/service"
)

const (
	loginTemplate    = "login-page"
	minPasswordRunes = 6

	msgLoginMissingFields = "Por favor, completa todos los campos requeridos"
	msgLoginInvalidEmail  = "Por favor, ingresa un correo electrónico válido"
	msgLoginShortPassword = "La contraseña debe tener al menos 6 caracteres"
	msgLoginFallback      = "Error al iniciar sesión."
)

// loginForm is what the login page shows and posts back.
type loginForm struct {
	Email    string
	Password string
	Redirect string
}

// Login renders the sign-in form. PublicOnly has already sent signed-in
// users elsewhere.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, loginForm{Redirect: r.URL.Query().Get("redirect")}, "")
}

// LoginSubmit validates the form, signs in, and continues to the requested
// page or the landing page.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, loginForm{}, msgLoginFallback)
		return
	}
	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Redirect: r.PostFormValue("redirect"),
	}

	if msg := validateLogin(form); msg != "" {
		h.renderLogin(w, r, form, msg)
		return
	}

	creds, ok := requestCredentials(r)
	if !ok {
		h.logger().ErrorContext(r.Context(), "login without browser identity")
		h.renderLogin(w, r, form, msgLoginFallback)
		return
	}

	if _, err := h.Auth.Login(r.Context(), creds, form.Email, form.Password); err != nil {
		h.logger().InfoContext(r.Context(), "login rejected", "error", err)
		h.renderLogin(w, r, form, loginErrorMessage(err))
		return
	}

	redirectTo(w, r, service.SafeRedirectPath(form.Redirect, service.LandingPath))
}

// validateLogin returns the first problem with the form, checked in the
// order the user fills it in.
func validateLogin(f loginForm) string {
	if f.Email == "" || f.Password == "" {
		return msgLoginMissingFields
	}
	if !validation.IsEmail(f.Email) {
		return msgLoginInvalidEmail
	}
	if validation.MinRunes("La contraseña", minPasswordRunes)(f.Password) != "" {
		return msgLoginShortPassword
	}
	return ""
}

// loginErrorMessage picks the banner text for a failed sign-in.
func loginErrorMessage(err error) string {
	var authErr *domainauth.Error
	if !errors.As(err, &authErr) {
		return msgLoginFallback
	}
	switch authErr.Code {
	case domainauth.CodeInvalidCredentials:
		return "Credenciales incorrectas. Verifica tu email y contraseña."
	case domainauth.CodeTooManyRequests:
		return "Demasiados intentos de login. Por favor, espera unos minutos."
	case domainauth.CodeServerError:
		return "Error en el servidor. Por favor, intenta nuevamente más tarde."
	case domainauth.CodeNetworkError:
		return "Error de conexión. Verifica tu conexión a internet."
	default:
		if authErr.Message != "" {
			return authErr.Message
		}
		return msgLoginFallback
	}
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, form loginForm, errMsg string) {
	builder := NewTemplateData(r, PageMeta{Title: "Iniciar sesión - Consola", PageTitle: "Iniciar sesión"}).
		With("Email", form.Email).
		With("Redirect", service.SafeRedirectPath(form.Redirect, ""))
	if errMsg != "" {
		builder.WithError(errMsg)
	}

	if err := h.T.RenderNamed(w, loginTemplate, builder.Build()); err != nil {
		h.logAndRenderTemplateError(w, r, err, "login page render")
	}
}
