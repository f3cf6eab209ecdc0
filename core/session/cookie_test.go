package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieBackend_Write(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	b := NewCookieBackend(req, rec)

	require.NoError(t, b.Write(context.Background(), "user", `{"schoolId":{"_id":"abc123"}}`))

	headers := rec.Header().Values("Set-Cookie")
	require.Len(t, headers, 1)
	assert.Equal(t,
		"user=%7B%22schoolId%22%3A%7B%22_id%22%3A%22abc123%22%7D%7D; Path=/; Max-Age=2592000; SameSite=Strict",
		headers[0],
	)
	assert.NotContains(t, headers[0], "Secure")
	assert.NotContains(t, headers[0], "HttpOnly")
}

func TestCookieBackend_Delete(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "user", Value: "%22x%22"})
	rec := httptest.NewRecorder()
	b := NewCookieBackend(req, rec)
	ctx := context.Background()

	raw, err := b.Read(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `"x"`, raw)

	require.NoError(t, b.Delete(ctx, "user"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "user", cookies[0].Name)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Less(t, cookies[0].MaxAge, 0)

	_, err = b.Read(ctx, "user")
	assert.ErrorIs(t, err, ErrNoEntry)
}

func TestCookieBackend_Read(t *testing.T) {
	tests := []struct {
		name    string
		cookies []*http.Cookie
		want    string
		wantErr error
	}{
		{name: "no cookies", wantErr: ErrNoEntry},
		{name: "other cookie", cookies: []*http.Cookie{{Name: "theme", Value: "%22dark%22"}}, wantErr: ErrNoEntry},
		{name: "escaped", cookies: []*http.Cookie{{Name: "user", Value: "%7B%22a%22%3A1%7D"}}, want: `{"a":1}`},
		{name: "plus is a space", cookies: []*http.Cookie{{Name: "user", Value: "%22a+b%22"}}, want: `"a b"`},
		{name: "bad escape", cookies: []*http.Cookie{{Name: "user", Value: "%G1"}}, wantErr: ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, c := range tt.cookies {
				req.AddCookie(c)
			}
			b := NewCookieBackend(req, httptest.NewRecorder())

			got, err := b.Read(context.Background(), "user")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKVBackend(t *testing.T) {
	c := newClient()
	ctx := context.Background()
	b := NewKVBackend(c.kv, c.clientID)
	other := NewKVBackend(c.kv, "cid-2")

	_, err := b.Read(ctx, "user")
	assert.ErrorIs(t, err, ErrNoEntry)

	require.NoError(t, b.Write(ctx, "user", `"x"`))
	raw, err := b.Read(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `"x"`, raw)

	_, err = other.Read(ctx, "user")
	assert.ErrorIs(t, err, ErrNoEntry, "clients do not share entries")

	require.NoError(t, b.Delete(ctx, "user"))
	_, err = b.Read(ctx, "user")
	assert.ErrorIs(t, err, ErrNoEntry)
}
