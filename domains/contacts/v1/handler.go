// Package v1 is the first version of contacts HTTP API.
package v1

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/soldatov-s/go-contacts/domains/contacts"
	"github.com/soldatov-s/go-contacts/x/httpx"
	"github.com/soldatov-s/go-contacts/x/vcard"
)

const nameQueryParam = "name"

// Contact is a contact as API returns it.
type Contact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	RawPhone string `json:"rawPhone"`
	E164     string `json:"e164,omitempty"`
	Avatar   string `json:"avatar"`
	Valid    bool   `json:"valid"`
}

func newContact(c *contacts.Contact) Contact {
	avatar := c.Initials()
	if avatar == "" {
		avatar = contacts.FallbackInitials
	}

	result := Contact{
		Name:     c.Name,
		Phone:    c.Phone.Display,
		RawPhone: c.Phone.Raw,
		Avatar:   avatar,
		Valid:    c.Valid,
	}
	if c.Valid {
		result.E164 = c.Phone.E164()
	}

	return result
}

func newContacts(list []contacts.Contact) []Contact {
	result := make([]Contact, 0, len(list))
	for i := range list {
		result = append(result, newContact(&list[i]))
	}
	return result
}

type ContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ExportRequest selects contacts to export. Absent or null Names selects
// every contact, an empty list selects nothing.
type ExportRequest struct {
	Names []string `json:"names"`
}

type Handler struct {
	service  *contacts.Service
	theme    *Theme
	fileName string
}

type Option func(*Handler)

func WithTheme(theme *Theme) Option {
	return func(h *Handler) {
		h.theme = theme.SetDefault()
	}
}

// WithFileName sets name of exported vCard attachment.
func WithFileName(name string) Option {
	return func(h *Handler) {
		if name != "" {
			h.fileName = name
		}
	}
}

func NewHandler(service *contacts.Service, opts ...Option) *Handler {
	h := &Handler{
		service:  service,
		theme:    (&Theme{}).SetDefault(),
		fileName: vcard.DefaultFileName,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Register mounts viewer endpoints on api group and admin endpoints on
// admin group. Admin group must be protected by caller, nil admin
// leaves admin API unmounted.
func (h *Handler) Register(api, admin *echo.Group) {
	api.GET("/contacts", h.List)
	api.GET("/contacts/export", h.Download)
	api.POST("/contacts/export", h.Export)
	api.GET("/theme", h.Theme)

	if admin == nil {
		return
	}

	admin.GET("/contacts", h.Search)
	admin.POST("/contacts", h.Create)
	admin.GET("/contacts/:name", h.Get)
	admin.PUT("/contacts/:name", h.Update)
	admin.DELETE("/contacts/:name", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, httpx.ResultAnsw{Body: newContacts(list)})
}

func (h *Handler) Theme(c echo.Context) error {
	return c.JSON(http.StatusOK, httpx.ResultAnsw{Body: h.theme})
}

// Download exports contacts selected by repeated "name" query parameter,
// every contact without it.
func (h *Handler) Download(c echo.Context) error {
	names, ok := c.QueryParams()[nameQueryParam]
	if !ok {
		names = nil
	}

	return h.export(c, names)
}

func (h *Handler) Export(c echo.Context) error {
	req := &ExportRequest{}
	if err := c.Bind(req); err != nil {
		return writeBadRequest(c, errors.Wrap(err, "bind export request"))
	}

	return h.export(c, req.Names)
}

func (h *Handler) export(c echo.Context, names []string) error {
	data, err := h.service.Export(c.Request().Context(), names)
	if err != nil {
		return writeError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+h.fileName+`"`)
	return c.Blob(http.StatusOK, vcard.MIMEType+"; charset=utf-8", []byte(data))
}

func (h *Handler) Search(c echo.Context) error {
	list, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, httpx.ResultAnsw{Body: newContacts(list)})
}

func (h *Handler) Get(c echo.Context) error {
	contact, err := h.service.Get(c.Request().Context(), nameParam(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, httpx.ResultAnsw{Body: newContact(&contact)})
}

func (h *Handler) Create(c echo.Context) error {
	return h.save(c, "", http.StatusCreated)
}

func (h *Handler) Update(c echo.Context) error {
	return h.save(c, nameParam(c), http.StatusOK)
}

func (h *Handler) save(c echo.Context, originalName string, status int) error {
	req := &ContactRequest{}
	if err := c.Bind(req); err != nil {
		return writeBadRequest(c, errors.Wrap(err, "bind contact request"))
	}

	contact, err := h.service.Save(c.Request().Context(), &contacts.SaveRequest{
		OriginalName: originalName,
		Name:         req.Name,
		Phone:        req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(status, httpx.ResultAnsw{Body: newContact(&contact)})
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), nameParam(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, httpx.OkResult())
}

func nameParam(c echo.Context) string {
	name := c.Param("name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
