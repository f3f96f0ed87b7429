package pages

import (
	"github.com/nfrund/passreset/internal/i18n"
	"golang.org/x/text/message"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Home is the landing page users arrive at after changing their password.
func Home(p *message.Printer) g.Node {
	return h.Div(
		h.Class("container"),
		h.H1(g.Text(p.Sprintf(i18n.MsgHomeWelcome))),
	)
}
