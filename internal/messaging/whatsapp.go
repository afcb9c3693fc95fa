// Package messaging builds the pre-filled chat messages used to hand an
// order off to the store's WhatsApp account. The handoff is one way: nothing
// comes back into the system.
package messaging

import (
	"fmt"
	"net/url"
	"strings"

	"coqueta/internal/cart"
	"coqueta/internal/domain"

	"github.com/shopspring/decimal"
)

const deepLinkBase = "https://wa.me/"

// Composer renders order messages for one store phone and public site
type Composer struct {
	phone   string
	baseURL string
}

// NewComposer creates a Composer. phone may contain formatting characters,
// only digits are kept.
func NewComposer(phone, baseURL string) *Composer {
	return &Composer{
		phone:   digitsOnly(phone),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// CartMessage itemizes a cart with quantities, unit prices and the total
func (c *Composer) CartMessage(ct cart.Cart) string {
	var b strings.Builder
	b.WriteString("Hola 👋, quiero hacer un pedido con los siguientes productos:\n\n")

	for i, it := range ct.Items() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		image := it.Product.FirstImage()
		if image == "" {
			image = "Sin imagen"
		}
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, it.Product.Name)
		fmt.Fprintf(&b, "   🛒 Cantidad: %d\n", it.Quantity)
		fmt.Fprintf(&b, "   💰 Precio: %s\n", Money(it.UnitPrice()))
		fmt.Fprintf(&b, "   🔗 Link: %s\n", c.ProductURL(it.Product.ID))
		fmt.Fprintf(&b, "   🖼️ Imagen: %s", image)
	}

	fmt.Fprintf(&b, "\n\n🧾 Total: %s\n\nQuedo atento(a) 😊", Money(ct.Total()))
	return b.String()
}

// ProductMessage asks for a single product
func (c *Composer) ProductMessage(p domain.Product, quantity int) string {
	price := decimal.Zero
	if p.SalePrice != nil {
		price = *p.SalePrice
	}
	return fmt.Sprintf("Hola, quiero comprar *%s* (%s) x%d.\n\nVer producto: %s",
		p.Name, Money(price), quantity, c.ProductURL(p.ID))
}

// ProductURL is the public page of a product
func (c *Composer) ProductURL(id string) string {
	return c.baseURL + "/productos/" + url.PathEscape(id)
}

// DeepLink returns the chat link that opens with text pre-filled
func (c *Composer) DeepLink(text string) string {
	return DeepLink(c.phone, text)
}

// DeepLink builds https://wa.me/<phone>?text=<text>
func DeepLink(phone, text string) string {
	link := deepLinkBase + digitsOnly(phone)
	if text == "" {
		return link
	}
	// spaces as %20, the way browsers encode a URI component
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// Money formats an amount in quetzales with two decimals
func Money(d decimal.Decimal) string {
	return "Q" + d.StringFixed(2)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
