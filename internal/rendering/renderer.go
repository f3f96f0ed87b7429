package rendering

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// UniversalRenderer renders templ components and gomponents nodes. It
// implements echo.Renderer so handlers can use c.Render(status, "", component).
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

// gomponentNode matches gomponents.Node without importing it.
type gomponentNode interface {
	Render(w io.Writer) error
}

func (tr *UniversalRenderer) render(ctx context.Context, component interface{}, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case gomponentNode:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type: %T. Component must be templ.Component or implement Render(io.Writer) error (like gomponents.Node)", component)
	}
}

// Render implements the echo.Renderer interface. The component is passed as data; name is ignored.
func (tr *UniversalRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return tr.render(c.Request().Context(), data, w)
}
