package layouts

import (
	"github.com/nfrund/passreset/internal/view"
	"github.com/nfrund/passreset/web/src/templates/components"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps page content in the HTML document shared by every page.
func Base(lang, title string, flashes view.FlashData, content g.Node) g.Node {
	return h.Doctype(
		h.HTML(
			h.Lang(lang),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.TitleEl(g.Text(CalculateTitle(title))),
				h.Link(h.Rel("stylesheet"), h.Href("/static/css/app.css")),
				h.Script(h.Src(htmxSrc), h.Defer()),
			),
			h.Body(
				hx.Boost("true"),
				components.Flashes(flashes),
				h.Main(content),
			),
		),
	)
}
