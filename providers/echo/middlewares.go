package echo

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/crypto/bcrypt"
)

var ErrNotFoundZerolog = errors.New("not found zerolog")

// CORSDefault allows requests from any origin wth GET, HEAD, PUT, POST or DELETE method.
func CORSDefault() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowHeaders: []string{
			"Accept",
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"X-CSRF-Token",
			"Authorization",
			"X-Request-Id",
		},
		ExposeHeaders: []string{
			echo.HeaderContentDisposition,
			echo.HeaderXRequestID,
		},
	})
}

func generator(ctx context.Context) string {
	logger := zerolog.Ctx(ctx)
	rid := ""
	id, err := uuid.NewRandom()
	if err != nil {
		logger.Err(err).Msg("generate request id")
	} else {
		rid = id.String()
	}
	return rid
}

func RequestID(ctx context.Context) echo.MiddlewareFunc {
	requestIDConfig := middleware.RequestIDConfig{
		Skipper: middleware.DefaultSkipper,
		Generator: func() string {
			return generator(ctx)
		},
	}

	return middleware.RequestIDWithConfig(requestIDConfig)
}

// GetReqID returns request id from response, it is set there by RequestID
// middleware for generated ids too.
func GetReqID(ec echo.Context) string {
	if rid := ec.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return ec.Request().Header.Get(echo.HeaderXRequestID)
}

const zerologCtxKey = "zerolog"

// HydrationZerolog puts logger with request id into echo context and
// request context.
func HydrationZerolog(ctx context.Context) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := zerolog.Ctx(ctx).With().Str("request_id", GetReqID(c)).Logger()
			c.Set(zerologCtxKey, &l)
			c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
			return next(c)
		}
	}
}

func GetZerologger(ec echo.Context) (*zerolog.Logger, error) {
	l := ec.Get(zerologCtxKey)
	logger, ok := l.(*zerolog.Logger)
	if !ok {
		return nil, ErrNotFoundZerolog
	}
	return logger, nil
}

// BasicAuth accepts only user with password matching bcrypt hash.
func BasicAuth(user, passwordHash string) echo.MiddlewareFunc {
	return middleware.BasicAuth(func(username, password string, c echo.Context) (bool, error) {
		if subtle.ConstantTimeCompare([]byte(username), []byte(user)) != 1 {
			return false, nil
		}

		err := bcrypt.ComparePasswords(passwordHash, password)
		if errors.Is(err, bcrypt.ErrMismatchedPassword) {
			return false, nil
		}
		if err != nil {
			return false, errors.Wrap(err, "check password")
		}

		return true, nil
	})
}
