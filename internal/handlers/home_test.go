package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/passreset/internal/handlers"
	"github.com/nfrund/passreset/internal/rendering"
	"github.com/nfrund/passreset/internal/view"
	"github.com/stretchr/testify/assert"
)

func TestHomeGet_ShowsFlash(t *testing.T) {
	e := echo.New()
	e.Renderer = rendering.NewUniversalRenderer()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))

	e.GET("/", handlers.NewHomeHandler().HomeGet)
	e.GET("/set", func(c echo.Context) error {
		view.SetFlashSuccess(c, "Your password has been changed.")
		return c.Redirect(http.StatusSeeOther, "/")
	})

	setRec := httptest.NewRecorder()
	e.ServeHTTP(setRec, httptest.NewRequest(http.MethodGet, "/set", nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range setRec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<div class="alert alert-success" role="alert">Your password has been changed.</div>`)
	assert.Contains(t, rec.Body.String(), "<title>Home - Passreset</title>")
}
