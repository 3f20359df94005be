package middleware

import (
	"net/http"

	"github.com/infinite-track/hris-backend-go/internal/pkg/i18n"
)

// Locale resolves Accept-Language once per request.
func Locale(t *i18n.Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := t.Match(r.Header.Get("Accept-Language"))
			next.ServeHTTP(w, r.WithContext(i18n.WithLocale(r.Context(), locale)))
		})
	}
}
