package session

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const (
	// CookieMaxAge is the validity window of session cookies: 30 days.
	CookieMaxAge = 30 * 24 * 60 * 60
	cookiePath   = "/"
)

// CookieBackend is the client's cookie store, bound to one request/response pair.
// Values are sent URL-escaped. Writes are applied to the response and stay
// visible to reads of the same request.
//
// Cookies are neither Secure nor HttpOnly: they hold a cached profile shape, not a secret,
// and must stay readable by client scripts.
type CookieBackend struct {
	req     *http.Request
	w       http.ResponseWriter
	pending map[string]*string // nil: removed during this request
}

var _ Backend = (*CookieBackend)(nil)

func NewCookieBackend(r *http.Request, w http.ResponseWriter) *CookieBackend {
	return &CookieBackend{
		req:     r,
		w:       w,
		pending: make(map[string]*string),
	}
}

func (b *CookieBackend) Read(_ context.Context, key string) (string, error) {
	if raw, ok := b.pending[key]; ok {
		if raw == nil {
			return "", ErrNoEntry
		}
		return *raw, nil
	}

	c, err := b.req.Cookie(key)
	if err != nil {
		if err == http.ErrNoCookie {
			return "", ErrNoEntry
		}
		return "", errors.Wrapf(err, "reading cookie %q", key)
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", errors.Wrapf(ErrCorrupt, "unescaping cookie %q: %v", key, err)
	}
	return raw, nil
}

func (b *CookieBackend) Write(_ context.Context, key, raw string) error {
	http.SetCookie(b.w, &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(raw),
		Path:     cookiePath,
		MaxAge:   CookieMaxAge,
		SameSite: http.SameSiteStrictMode,
	})
	b.pending[key] = &raw
	return nil
}

// Delete expires the cookie (Max-Age=0 on the wire).
func (b *CookieBackend) Delete(_ context.Context, key string) error {
	http.SetCookie(b.w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     cookiePath,
		MaxAge:   -1,
		SameSite: http.SameSiteStrictMode,
	})
	b.pending[key] = nil
	return nil
}
