package swagger

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
)

const (
	indexPage = "index.html"
	docPage   = "doc.json"
)

// EchoHandler serves swagger UI and registered document. It must be
// mounted on a route ending with "/*".
func EchoHandler(ctx context.Context, confs ...func(c *Config)) echo.HandlerFunc {
	logger := zerolog.Ctx(ctx)
	handler := swaggerFiles.Handler

	config := &Config{
		URL: docPage,
	}

	for _, c := range confs {
		c(config)
	}

	index, err := template.New("swagger_index.html").Parse(IndexTempl)
	if err != nil {
		logger.Err(err).Msg("parse template")
	}

	return func(c echo.Context) error {
		path := c.Param("*")
		prefix := strings.TrimSuffix(c.Request().URL.Path, path)

		switch path {
		case "":
			return c.Redirect(http.StatusMovedPermanently, prefix+indexPage)
		case indexPage:
			if index == nil {
				return c.String(http.StatusInternalServerError, "swagger index is not available")
			}
			c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
			return index.Execute(c.Response().Writer, &Config{
				URL:  prefix + config.URL,
				Name: config.Name,
			})
		case docPage:
			doc, err := ReadDoc(config.Name)
			if err != nil {
				if errors.Is(err, ErrNotYetRegistered) {
					return c.String(http.StatusNotFound, "404 page not found")
				}
				return err
			}
			return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(doc))
		default:
			handler.Prefix = prefix
			handler.ServeHTTP(c.Response().Writer, c.Request())
			return nil
		}
	}
}
