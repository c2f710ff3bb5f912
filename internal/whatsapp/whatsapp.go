// Package whatsapp composes the chat messages the shop receives for new
// and cancelled orders, and the wa.me links that open them.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"delicias-urbanas/internal/domain"
)

const (
	baseURL = "https://wa.me/"
	divider = "----------------------------------"
)

// Composer renders messages addressed to one shop phone.
type Composer struct {
	phone   string
	printer *message.Printer
}

// New returns a Composer for the given phone in international format
// without the leading plus sign.
func New(phone string) *Composer {
	return &Composer{
		phone:   phone,
		printer: message.NewPrinter(language.MustParse("es-AR")),
	}
}

func (c *Composer) Phone() string { return c.phone }

// Amount formats pesos with the local thousands separator.
func (c *Composer) Amount(v int64) string {
	return "$" + c.printer.Sprintf("%d", v)
}

func (c *Composer) OrderMessage(o domain.Order) string {
	var b strings.Builder
	b.WriteString("¡Hola Delicias Urbanas! 👋\n\n")
	b.WriteString("*NUEVO PEDIDO PARA RETIRAR*\n")
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", o.Details.CustomerName)
	fmt.Fprintf(&b, "📞 *Teléfono:* %s\n", o.Details.Phone)
	fmt.Fprintf(&b, "🕒 *Retiro:* %s hs\n", o.Details.PickupTime)
	b.WriteString(divider + "\n")
	b.WriteString("*PRODUCTOS:*\n")
	for i, item := range o.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %dx %s (%s)", item.Quantity, item.Product.Name, c.Amount(item.Subtotal()))
		if item.Flavors != "" {
			fmt.Fprintf(&b, "\n  _(%s)_", item.Flavors)
		}
	}
	b.WriteString("\n" + divider + "\n")
	fmt.Fprintf(&b, "💰 *TOTAL: %s*\n", c.Amount(o.Total))
	if o.Details.PaymentMethod == domain.PaymentTransfer {
		b.WriteString("💳 *Pago:* Transferencia/MP (Adjunto comprobante)\n")
	} else {
		b.WriteString("💵 *Pago:* Efectivo en el local\n")
	}
	if o.Details.Notes != "" {
		fmt.Fprintf(&b, "\n📝 *Notas:* %s", o.Details.Notes)
	}
	return b.String()
}

func (c *Composer) CancelMessage(o domain.Order) string {
	var b strings.Builder
	b.WriteString("⚠️ *CANCELACIÓN DE PEDIDO*\n")
	b.WriteString(divider + "\n")
	b.WriteString("Hola Delicias Urbanas, quiero *CANCELAR* mi pedido:\n")
	fmt.Fprintf(&b, "🆔 *Orden:* #%s\n", o.ShortID())
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", o.Details.CustomerName)
	fmt.Fprintf(&b, "🕒 *Era para las:* %s hs\n", o.Details.PickupTime)
	b.WriteString(divider + "\n")
	b.WriteString("Disculpen las molestias.")
	return b.String()
}

// Link opens a chat with the shop prefilled with text.
func (c *Composer) Link(text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return baseURL + c.phone + "?text=" + escaped
}

// ContactLink opens an empty chat with the shop.
func (c *Composer) ContactLink() string {
	return baseURL + c.phone
}

func (c *Composer) OrderLink(o domain.Order) string  { return c.Link(c.OrderMessage(o)) }
func (c *Composer) CancelLink(o domain.Order) string { return c.Link(c.CancelMessage(o)) }
