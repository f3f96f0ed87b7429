package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/passreset/internal/i18n"
	"github.com/nfrund/passreset/internal/view"
	"golang.org/x/text/message"
)

const (
	headerHXRequest  = "HX-Request"
	headerHXRedirect = "HX-Redirect"
)

// queryReader reads the query string of the current request.
type queryReader struct {
	c echo.Context
}

func (q queryReader) Get(key string) string {
	return q.c.QueryParam(key)
}

// echoNavigator sends the browser to another path. Plain requests get a 303;
// htmx requests get an HX-Redirect header so the whole page changes.
type echoNavigator struct {
	c echo.Context
	// flash is shown on the destination page.
	flash string
}

func (n *echoNavigator) Navigate(path string) error {
	if n.flash != "" {
		view.SetFlashSuccess(n.c, n.flash)
	}
	if isHTMX(n.c) {
		n.c.Response().Header().Set(headerHXRedirect, path)
		return n.c.NoContent(http.StatusOK)
	}
	return n.c.Redirect(http.StatusSeeOther, path)
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get(headerHXRequest) == "true"
}

// printerFor picks the message printer and page language for the request.
func printerFor(c echo.Context) (*message.Printer, string) {
	accept := c.Request().Header.Get("Accept-Language")
	lang, _ := i18n.Match(accept).Base()
	return i18n.Printer(accept), lang.String()
}
