// Package i18n selects the language for user-facing messages.
//
// Messages are keyed by their English text; Spanish translations are
// registered in the catalog below.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	MsgTitle             = "Reset your password"
	MsgTokenLabel        = "Token: %s"
	MsgNoToken           = "No token provided"
	MsgPassword          = "Password"
	MsgPasswordConfirm   = "Confirm password"
	MsgPasswordHelp      = "Confirm your password."
	MsgSubmit            = "Submit"
	MsgPasswordMismatch  = "Passwords do not match."
	MsgInvalidInput      = "Please check the form and try again."
	MsgRejected          = "The password could not be changed."
	MsgRejectedDetail    = "The password could not be changed: %s"
	MsgUnreachable       = "Could not reach the server. Please try again."
	MsgAlreadyChanged    = "Your password has already been changed."
	MsgPasswordChanged   = "Your password has been changed."
	MsgHomeTitle         = "Home"
	MsgHomeWelcome       = "Welcome"
	MsgTooManyRequests   = "Too many requests. Please try again later."
	MsgUnexpectedFailure = "Something went wrong. Please try again."
)

var supported = []language.Tag{
	language.English,
	language.Spanish,
}

var matcher = language.NewMatcher(supported)

var spanish = map[string]string{
	MsgTitle:             "Restablecer su clave",
	MsgTokenLabel:        "Token: %s",
	MsgNoToken:           "No se proporcionó un token",
	MsgPassword:          "Clave",
	MsgPasswordConfirm:   "Confirme la clave",
	MsgPasswordHelp:      "Confirme su clave.",
	MsgSubmit:            "Enviar",
	MsgPasswordMismatch:  "Las claves no coinciden.",
	MsgInvalidInput:      "Revise el formulario e intente de nuevo.",
	MsgRejected:          "No se pudo cambiar la clave.",
	MsgRejectedDetail:    "No se pudo cambiar la clave: %s",
	MsgUnreachable:       "No se pudo contactar al servidor. Intente de nuevo.",
	MsgAlreadyChanged:    "Su clave ya fue cambiada.",
	MsgPasswordChanged:   "Clave cambiada.",
	MsgHomeTitle:         "Inicio",
	MsgHomeWelcome:       "Bienvenido",
	MsgTooManyRequests:   "Demasiadas solicitudes. Intente más tarde.",
	MsgUnexpectedFailure: "Algo salió mal. Intente de nuevo.",
}

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, translation := range spanish {
		_ = b.SetString(language.Spanish, key, translation)
	}
	return b
}

// Match returns the best supported language for an Accept-Language header.
func Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	// The index is used instead of the returned tag, which may carry
	// extensions the catalog does not know about.
	_, idx, _ := matcher.Match(tags...)
	return supported[idx]
}

// Printer returns a message printer for the given Accept-Language header.
func Printer(acceptLanguage string) *message.Printer {
	return message.NewPrinter(Match(acceptLanguage), message.Catalog(messages))
}
