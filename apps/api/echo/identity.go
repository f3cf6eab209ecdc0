package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/identity"
)

type identityApi struct {
	userKey string
	logger  core.Logger
}

func registerIdentityAPI(g *echo.Group, userKey string, logger core.Logger) {
	api := identityApi{
		userKey: userKey,
		logger:  logger,
	}

	ig := g.Group("/identity")
	ig.GET("/school", api.school)
}

// school resolves the school id of the client's Session Record.
// Every request is a fresh mount: the record is read again.
func (api *identityApi) school(ctx echo.Context) error {
	sess, err := getContextStore(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context store")
	}

	accessor := identity.NewAccessor(
		sess,
		identity.WithKey(api.userKey),
		identity.WithLogger(api.logger),
	)
	state := accessor.Resolve(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, state.Result())
}
