package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/passreset/internal/i18n"
	"github.com/nfrund/passreset/internal/view"
	"github.com/nfrund/passreset/web/src/templates/layouts"
	"github.com/nfrund/passreset/web/src/templates/pages"
)

// HomeHandler handles requests for the home page.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// HomeGet handles the GET request for the home page.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	p, lang := printerFor(c)
	flashes := view.GetFlashData(c)

	page := layouts.Base(lang, p.Sprintf(i18n.MsgHomeTitle), flashes, pages.Home(p))
	return c.Render(http.StatusOK, "", page)
}
