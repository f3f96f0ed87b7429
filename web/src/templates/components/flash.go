package components

import (
	"github.com/nfrund/passreset/internal/view"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Flashes renders the success and error flash messages, if any.
func Flashes(flashes view.FlashData) g.Node {
	if flashes.Empty() {
		return nil
	}
	return h.Div(
		h.ID("flash-messages"),
		g.Map(flashes.Success, func(msg string) g.Node {
			return Alert("success", msg)
		}),
		g.Map(flashes.Error, func(msg string) g.Node {
			return Alert("danger", msg)
		}),
	)
}

// Alert renders a single message box. kind is "success" or "danger".
func Alert(kind, msg string) g.Node {
	return h.Div(
		h.Class("alert alert-"+kind),
		h.Role("alert"),
		g.Text(msg),
	)
}
