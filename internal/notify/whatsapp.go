// Package notify composes the WhatsApp hand-off shown to shoppers after checkout.
package notify

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/doctorpiscinas/storefront-backend/pkg/db/models"
)

const waBaseURL = "https://wa.me/"

// Message is a composed order notification and its deep link.
type Message struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// WhatsAppComposer formats placed orders for the store's WhatsApp number.
type WhatsAppComposer struct {
	number string
}

// NewWhatsAppComposer keeps only the digits of number.
func NewWhatsAppComposer(number string) (*WhatsAppComposer, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return nil, fmt.Errorf("whatsapp number required")
	}
	return &WhatsAppComposer{number: digits}, nil
}

// Compose renders the order summary sent to the store.
func (c *WhatsAppComposer) Compose(order *models.Order) Message {
	text := OrderText(order)
	return Message{Text: text, URL: c.Link(text)}
}

// Link builds a wa.me deep link with text percent-encoded.
func (c *WhatsAppComposer) Link(text string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return waBaseURL + c.number + "?text=" + encoded
}

// OrderText renders the plain message body for an order.
func OrderText(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*¡Nuevo Pedido!* - #%s\n\n", order.ID)
	fmt.Fprintf(&b, "*Cliente:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "*Teléfono:* %s\n", order.CustomerPhone)
	fmt.Fprintf(&b, "*Domicilio:* %s\n\n", order.CustomerAddress)
	if order.Notes != nil && *order.Notes != "" {
		fmt.Fprintf(&b, "*Notas:* %s\n\n", *order.Notes)
	}

	b.WriteString("*Productos:*\n")
	for i, item := range order.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (x%d)", item.Name, item.Quantity)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "*Subtotal:* $%s\n", order.Subtotal.StringFixed(2))
	if order.CouponCode != nil && *order.CouponCode != "" {
		fmt.Fprintf(&b, "*Descuento (%s):* -$%s\n", *order.CouponCode, order.DiscountAmount.StringFixed(2))
	}
	fmt.Fprintf(&b, "*Total:* $%s\n\n", order.Total.StringFixed(2))
	b.WriteString("Por favor, confirmar recepción del pedido.")
	return b.String()
}
