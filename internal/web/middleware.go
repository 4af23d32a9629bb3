package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/erazemk/lostfound/internal/submission"
)

type webContextKey string

const noticeKey webContextKey = "notice"

const flashCookie = "flash"

// FlashMiddleware moves a notice left by the previous request from its
// cookie into the request context, and clears the cookie.
func FlashMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(flashCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		clearFlashCookie(w)

		raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		var n submission.Notice
		if err := json.Unmarshal(raw, &n); err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), noticeKey, &n)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// setFlash stores n for the next page the browser loads.
func setFlash(w http.ResponseWriter, n *submission.Notice) {
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearFlashCookie clears the flash cookie with consistent attributes.
func clearFlashCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetNotice retrieves the flashed notice from the request context.
func GetNotice(ctx context.Context) *submission.Notice {
	n, _ := ctx.Value(noticeKey).(*submission.Notice)
	return n
}
