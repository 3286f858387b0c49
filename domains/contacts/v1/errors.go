package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/soldatov-s/go-contacts/domains/contacts"
	"github.com/soldatov-s/go-contacts/x/httpx"
	"github.com/soldatov-s/go-contacts/x/phone"
	"github.com/soldatov-s/go-contacts/x/vcard"
)

const (
	CodeInvalidPhone       = "INVALID_PHONE"
	CodeEmptyName          = "EMPTY_NAME"
	CodeNoContactsSelected = "NO_CONTACTS_SELECTED"
)

var (
	errInvalidPhone  = errors.New("Phone number must be a valid 10-digit number.")
	errEmptyName     = errors.New("Name is required.")
	errNoSelection   = errors.New("No contacts selected.")
	errInternalError = errors.New("Something went wrong, please try again.")
)

// answerFor maps service errors to API answers. Unknown errors are
// hidden behind a generic message.
func answerFor(err error) (httpx.ErrorAnsw, bool) {
	switch {
	case errors.Is(err, phone.ErrInvalidLength):
		return httpx.NewErrorAnsw(http.StatusBadRequest, CodeInvalidPhone, errInvalidPhone), true
	case errors.Is(err, contacts.ErrEmptyName):
		return httpx.NewErrorAnsw(http.StatusBadRequest, CodeEmptyName, errEmptyName), true
	case errors.Is(err, vcard.ErrEmptySelection):
		return httpx.NewErrorAnsw(http.StatusBadRequest, CodeNoContactsSelected, errNoSelection), true
	case errors.Is(err, contacts.ErrNotFound):
		return httpx.NotFound(err), true
	default:
		return httpx.InternalServerError(errInternalError), false
	}
}

func writeError(c echo.Context, err error) error {
	answ, known := answerFor(err)
	logger := zerolog.Ctx(c.Request().Context())
	if known {
		logger.Debug().Err(err).Msg("request rejected")
	} else {
		logger.Error().Err(err).Msg("request failed")
	}

	return c.JSON(answ.Body.StatusCode, answ)
}

func writeBadRequest(c echo.Context, err error) error {
	answ := httpx.BadRequest(err)
	return c.JSON(answ.Body.StatusCode, answ)
}
