// File: internal/contact/whatsapp.go
package contact

import (
	"fmt"
	"net/url"
	"strings"
)

// waBaseURL is WhatsApp's click-to-chat endpoint.
const waBaseURL = "https://wa.me/"

// inquiryTemplate is the prefilled message opened in WhatsApp. The agency
// phone number comes from configuration.
const inquiryTemplate = "Hola, mi nombre es %s. Mi teléfono es %s.\n\nConsulta: %s"

// ContactRequest is the inquiry form payload.
type ContactRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Phone   string `json:"phone" binding:"required,min=6,max=30"`
	Message string `json:"message" binding:"required,max=2000"`
}

// ContactLinkResponse carries the composed deep link.
type ContactLinkResponse struct {
	URL string `json:"url"`
}

// BuildInquiryMessage renders the prefilled inquiry text.
func BuildInquiryMessage(name, phone, message string) string {
	return fmt.Sprintf(inquiryTemplate,
		strings.TrimSpace(name),
		strings.TrimSpace(phone),
		strings.TrimSpace(message),
	)
}

// BuildPropertyInquiry fills a localized interest template. The template
// carries {title} and {price} placeholders.
func BuildPropertyInquiry(template, title, price string) string {
	return strings.NewReplacer(
		"{title}", title,
		"{price}", price,
	).Replace(template)
}

// BuildWhatsAppLink composes a wa.me deep link that opens a chat with the
// agency number and the inquiry prefilled.
func BuildWhatsAppLink(number, text string) string {
	return waBaseURL + number + "?text=" + encodeText(text)
}

// encodeText percent-encodes the message the way browsers expect in a
// wa.me link: spaces as %20, not "+".
func encodeText(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
