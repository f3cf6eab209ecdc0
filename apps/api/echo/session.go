package echoapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
)

// maxValueSize bounds stored values: they are replicated into a cookie (4KB max in browsers).
const maxValueSize = 4 << 10

type sessionApi struct {
	validate     *validator.Validate
	reservedKeys []string
}

func registerSessionAPI(g *echo.Group, validate *validator.Validate, reservedKeys ...string) {
	api := sessionApi{
		validate:     validate,
		reservedKeys: reservedKeys,
	}

	sg := g.Group("/session/:key")
	sg.GET("", api.get)
	sg.PUT("", api.set)
	sg.DELETE("", api.remove)
}

// Handlers

func (api *sessionApi) get(ctx echo.Context) error {
	key, err := api.bindKey(ctx)
	if err != nil {
		return err
	}
	sess, err := getContextStore(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context store")
	}

	// absence is not an error: `null`
	p := sess.Get(ctx.Request().Context(), key)
	return ctx.JSONBlob(http.StatusOK, []byte(p.String()))
}

func (api *sessionApi) set(ctx echo.Context) error {
	key, err := api.bindKey(ctx)
	if err != nil {
		return err
	}
	sess, err := getContextStore(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context store")
	}

	body, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxValueSize+1))
	if err != nil {
		return errors.Wrap(err, "reading body")
	}
	if len(body) > maxValueSize {
		return errPayloadTooLarge
	}
	if !json.Valid(body) {
		return core.NewValidationError(errInvalidJSON, core.FieldError{Field: "value", Error: errInvalidJSON.Error()})
	}

	sess.Set(ctx.Request().Context(), key, json.RawMessage(body))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) remove(ctx echo.Context) error {
	key, err := api.bindKey(ctx)
	if err != nil {
		return err
	}
	sess, err := getContextStore(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context store")
	}

	sess.Remove(ctx.Request().Context(), key)
	return ctx.NoContent(http.StatusNoContent)
}

type keyParam struct {
	Key string `param:"key" validate:"required,max=64,alphanum_"`
}

func (api *sessionApi) bindKey(ctx echo.Context) (string, error) {
	var p keyParam
	if err := (&echo.DefaultBinder{}).BindPathParams(ctx, &p); err != nil {
		return "", errors.Wrap(err, "binding to keyParam")
	}
	p.Key = core.CleanString(p.Key)
	if err := api.validate.Struct(p); err != nil {
		return "", err
	}
	for _, reserved := range api.reservedKeys {
		if p.Key == reserved {
			return "", core.NewValidationError(errReservedKey, core.FieldError{Field: "key", Error: errReservedKey.Error()})
		}
	}
	return p.Key, nil
}
