package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultCSRFCookieName names the double-submit cookie. Forms send the
	// same value back in a field of the same name.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the header htmx requests carry the token in.
	DefaultCSRFHeaderName = "X-Csrf-Token"

	csrfTokenBytes  = 32
	csrfCookieTTL   = 12 * time.Hour
	csrfRejectedMsg = "La sesión del formulario expiró. Recarga la página e inténtalo de nuevo."
)

// csrfTokenLen is the encoded length of a token minted by newCSRFToken.
var csrfTokenLen = base64.RawURLEncoding.EncodedLen(csrfTokenBytes)

// CSRFConfig configures CSRFProtection.
type CSRFConfig struct {
	CookieDomain string
	// SecureCookie forces the Secure attribute even on plain HTTP requests,
	// for deployments behind a proxy that does not set X-Forwarded-Proto.
	SecureCookie bool
}

// CSRFProtection guards the console's forms with a double-submit cookie.
// Unsafe methods must echo the cookie in the X-Csrf-Token header (htmx) or
// the csrf_token form field, and must not come from another site according
// to Sec-Fetch-Site. A missing or malformed cookie is replaced with a fresh
// token, which fails the current unsafe request.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrfCookieToken(r)
			if token == "" {
				minted, err := newCSRFToken()
				if err != nil {
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				token = minted
				http.SetCookie(w, &http.Cookie{
					Name:     DefaultCSRFCookieName,
					Value:    token,
					Path:     "/",
					Domain:   cfg.CookieDomain,
					HttpOnly: false, // read by the htmx config script
					Secure:   cfg.SecureCookie || r.TLS != nil || isForwardedHTTPS(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   int(csrfCookieTTL.Seconds()),
				})
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if !isSafeMethod(r.Method) && (isCrossSite(r) || !submittedTokenMatches(r, token)) {
				rejectCSRF(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

// csrfCookieToken returns the cookie token when it has the shape newCSRFToken
// produces, else "".
func csrfCookieToken(r *http.Request) string {
	cookie, err := r.Cookie(DefaultCSRFCookieName)
	if err != nil || len(cookie.Value) != csrfTokenLen {
		return ""
	}
	if _, err := base64.RawURLEncoding.DecodeString(cookie.Value); err != nil {
		return ""
	}
	return cookie.Value
}

// newCSRFToken fails closed: a broken random source is an error, never a
// predictable token.
func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// isCrossSite reports a request a browser marked as initiated by another site.
// Clients that omit Sec-Fetch-Site rely on the token check alone.
func isCrossSite(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Sec-Fetch-Site"), "cross-site")
}

// submittedTokenMatches compares the header token, or for form posts the
// form field, with the cookie in constant time.
func submittedTokenMatches(r *http.Request, cookieToken string) bool {
	submitted := r.Header.Get(DefaultCSRFHeaderName)
	if submitted == "" && isFormPost(r) {
		submitted = r.PostFormValue(DefaultCSRFCookieName)
	}
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) == 1
}

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// rejectCSRF answers 403. htmx callers also get an error toast since the
// swap target would otherwise stay unchanged.
func rejectCSRF(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		triggerToast(w, csrfRejectedMsg, "error")
	}
	http.Error(w, csrfRejectedMsg, http.StatusForbidden)
}

// isForwardedHTTPS reports whether a proxy saw the request over HTTPS.
// X-Forwarded-Proto may hold a comma-separated chain.
func isForwardedHTTPS(r *http.Request) bool {
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

type csrfTokenKey struct{}

// GetCSRFToken returns the token templates embed in forms and htmx headers.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
