// Package contact construye el enlace de contacto por WhatsApp.
package contact

import (
	"net/url"
	"strings"
)

const (
	DefaultNumber  = "94752455812"
	DefaultMessage = "Hi! I'm interested in your products. Can you help me?"
)

// WhatsAppLink devuelve https://wa.me/<number>?text=<message>. Del número se
// quedan sólo los dígitos; sin mensaje se omite el parámetro text.
func WhatsAppLink(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	u := url.URL{Scheme: "https", Host: "wa.me", Path: "/" + digits}
	if message != "" {
		u.RawQuery = url.Values{"text": {message}}.Encode()
	}
	return u.String()
}
