package echoapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/session"
	"github.com/trezcool/masomo-dashboard/storage/kv"
)

var (
	contextClientKey = "client"
	contextStoreKey  = "session"
)

// clientMiddleware identifies the client (browser profile) with its client id cookie,
// minting one on first contact, and binds the client's session.Store to the request.
func clientMiddleware(cookieName string, store kv.Store, logger core.Logger, metrics *session.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			client := core.Client{ID: clientID(ctx, cookieName)}
			sess := session.New(
				session.NewKVBackend(store, client.ID),
				session.NewCookieBackend(ctx.Request(), ctx.Response()),
				session.WithLogger(logger),
				session.WithMetrics(metrics),
			)
			ctx.Set(contextClientKey, client)
			ctx.Set(contextStoreKey, sess)
			return next(ctx)
		}
	}
}

func clientID(ctx echo.Context, cookieName string) string {
	if c, err := ctx.Cookie(cookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	ctx.SetCookie(&http.Cookie{
		Name:     cookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   session.CookieMaxAge,
		SameSite: http.SameSiteStrictMode,
		HttpOnly: true,
	})
	return id
}

func getContextStore(ctx echo.Context) (*session.Store, error) {
	if sess, ok := ctx.Get(contextStoreKey).(*session.Store); ok {
		return sess, nil
	}
	return nil, errStoreNotInContext
}
