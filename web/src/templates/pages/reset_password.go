package pages

import (
	"net/url"

	"github.com/nfrund/passreset/internal/i18n"
	dto "github.com/nfrund/passreset/internal/view/dto/recovery"
	"github.com/nfrund/passreset/web/src/templates/components"
	"golang.org/x/text/message"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// ResetPasswordFormID is the element htmx swaps after a failed submission.
const ResetPasswordFormID = "reset-password-form"

// ResetPassword is the password reset page.
func ResetPassword(p *message.Printer, data dto.ResetPasswordData) g.Node {
	label := data.TokenLabel
	if !data.HasToken() {
		label = p.Sprintf(i18n.MsgNoToken)
	}

	return h.Div(
		h.Class("container"),
		h.H1(g.Text(p.Sprintf(i18n.MsgTitle))),
		h.P(h.ID("token"), g.Text(p.Sprintf(i18n.MsgTokenLabel, label))),
		ResetPasswordForm(p, data),
	)
}

// ResetPasswordForm is the form itself, rendered alone for htmx requests.
func ResetPasswordForm(p *message.Printer, data dto.ResetPasswordData) g.Node {
	action := FormAction(data.Token)

	return h.Form(
		h.ID(ResetPasswordFormID),
		h.Method("post"),
		h.Action(action),
		hx.Post(action),
		hx.Target("this"),
		hx.Swap("outerHTML"),
		g.If(data.Error != "", components.Alert("danger", data.Error)),
		h.Div(
			h.Class("mb-3"),
			h.Label(h.For("password"), h.Class("form-label"), g.Text(p.Sprintf(i18n.MsgPassword))),
			h.Input(h.Name("password"), h.Type("password"), h.Class("form-control"), h.ID("password"), h.AutoComplete("new-password")),
		),
		h.Div(
			h.Class("mb-3"),
			h.Label(h.For("passwordConfirm"), h.Class("form-label"), g.Text(p.Sprintf(i18n.MsgPasswordConfirm))),
			h.Input(h.Name("passwordConfirm"), h.Type("password"), h.Class("form-control"), h.ID("passwordConfirm"), h.AutoComplete("new-password")),
			h.Div(h.Class("form-text"), g.Text(p.Sprintf(i18n.MsgPasswordHelp))),
		),
		h.Button(h.Type("submit"), h.Class("btn btn-primary"), g.Text(p.Sprintf(i18n.MsgSubmit))),
	)
}

// FormAction is the URL the form posts to. The token stays in the query string.
func FormAction(token string) string {
	if token == "" {
		return "/changepassword"
	}
	return "/changepassword?" + url.Values{"token": {token}}.Encode()
}
