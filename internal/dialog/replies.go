package dialog

import (
	"fmt"
	"strings"

	"tiendabot/internal/cart"
	"tiendabot/internal/catalog"
	"tiendabot/internal/config"
	"tiendabot/internal/order"
	"tiendabot/internal/session"
)

// Reply is what the resolver hands back to the transport. A nil *Reply
// means stay silent.
type Reply struct {
	Text         string
	ImageURL     string
	ImageCaption string
}

func textReply(format string, args ...any) *Reply {
	return &Reply{Text: fmt.Sprintf(format, args...)}
}

func formatPrice(p float64) string {
	if p == float64(int64(p)) {
		return fmt.Sprintf("$%d", int64(p))
	}
	return fmt.Sprintf("$%.2f", p)
}

func priceLabel(it *catalog.Item) string {
	if it.HasFixedPrice() {
		return formatPrice(it.Price)
	}
	return "desde " + formatPrice(it.PriceFrom)
}

func greetingReply(cfg *config.Config) *Reply {
	return textReply("¡Hola! Soy el asistente de %s 🙌\n"+
		"Contame qué estás buscando y te digo si lo tenemos.\n"+
		"También podés escribir:\n"+
		"• *catálogo* para ver qué vendemos\n"+
		"• *carrito* para ver tu pedido\n"+
		"• *horario*, *dirección* o *medios de pago*",
		cfg.Store.Name)
}

func fallbackReply() *Reply {
	return textReply("Perdón, no te entendí 😅\n" +
		"Podés escribirme el producto que buscás (por ejemplo \"cuaderno a4\"),\n" +
		"o usar: *catálogo*, *carrito*, *horario*, *dirección*, *medios de pago*.")
}

func handoffAck() *Reply {
	return textReply("Dale, ya le aviso a una persona del local para que siga la conversación 🙋\n" +
		"Te responde apenas pueda.")
}

func singleHitReply(it *catalog.Item, qty int) *Reply {
	return textReply("Encontré *%s* (%s).\n¿Agrego %d al carrito? (si/no)",
		it.DisplayName, priceLabel(it), qty)
}

func outOfStockReply(it *catalog.Item) *Reply {
	return textReply("Tenemos *%s* pero ahora mismo está sin stock 😔\n"+
		"Si querés te aviso cuando vuelva a entrar.", it.DisplayName)
}

func candidateListReply(c *session.Candidates, totalMatches int) *Reply {
	var b strings.Builder
	b.WriteString("Encontré varias opciones, respondé con el número:\n")
	for i, it := range c.Items {
		fmt.Fprintf(&b, "%d) %s (%s)\n", i+1, it.DisplayName, priceLabel(it))
	}
	if extra := totalMatches - len(c.Items); extra > 0 {
		fmt.Fprintf(&b, "…y %d más. Afiná la búsqueda si no está en la lista.\n", extra)
	}
	b.WriteString("O escribí *cancelar* para buscar otra cosa.")
	return &Reply{Text: b.String()}
}

func addedToCartReply(line session.CartItem) *Reply {
	return textReply("Listo, agregué %d × *%s* 🛒\n"+
		"Podés seguir pidiendo, escribir *carrito* para ver el pedido o *confirmar* para cerrarlo.",
		line.Quantity, line.Item.DisplayName)
}

func cartView(items []session.CartItem, t cart.Totals) *Reply {
	var b strings.Builder
	b.WriteString("Tu pedido:\n")
	for i, line := range items {
		fmt.Fprintf(&b, "%d) %d × %s — %s\n",
			i+1, line.Quantity, line.Item.DisplayName,
			formatPrice(line.Item.UnitPrice()*float64(line.Quantity)))
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", formatPrice(t.Subtotal))
	if t.Discount > 0 {
		fmt.Fprintf(&b, "Descuento: -%s\n", formatPrice(t.Discount))
	}
	fmt.Fprintf(&b, "Total: %s\n", formatPrice(t.Total))
	b.WriteString("Escribí *confirmar* para cerrar el pedido, *sacar N* para quitar un ítem o *cancelar* para empezar de nuevo.")
	return &Reply{Text: b.String()}
}

func deliveryChoiceReply(fee float64) *Reply {
	return textReply("¿Cómo lo querés recibir?\n"+
		"1) Retiro por el local\n"+
		"2) Envío a domicilio (+%s)\n"+
		"Respondé 1 o 2.", formatPrice(fee))
}

func orderConfirmedReply(d *order.Draft) *Reply {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Pedido confirmado! 🎉 (n° %s)\n", shortID(d.ID))
	for _, line := range d.Lines {
		fmt.Fprintf(&b, "• %d × %s\n", line.Quantity, line.DisplayName)
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", formatPrice(d.Subtotal))
	if d.Discount > 0 {
		fmt.Fprintf(&b, "Descuento: -%s\n", formatPrice(d.Discount))
	}
	if d.Delivery > 0 {
		fmt.Fprintf(&b, "Envío: %s\n", formatPrice(d.Delivery))
	}
	fmt.Fprintf(&b, "Total: %s\n", formatPrice(d.Total))
	if d.DeliveryType == "envio" {
		b.WriteString("En breve te contactamos para coordinar el envío. ¡Gracias!")
	} else {
		b.WriteString("Te esperamos por el local para retirarlo. ¡Gracias!")
	}
	return &Reply{Text: b.String()}
}

func stockLostReply(names []string) *Reply {
	return textReply("Ojo: se quedaron sin stock mientras armabas el pedido:\n• %s\n"+
		"Sacalos con *sacar N* y volvé a escribir *confirmar*.",
		strings.Join(names, "\n• "))
}

func recordFailedReply() *Reply {
	return textReply("Uy, no pude registrar el pedido 😥 Tu carrito sigue igual.\n" +
		"Probá escribir *confirmar* de nuevo en un ratito.")
}

func customServiceReply(svc *catalog.Item) *Reply {
	return textReply("¡Sí! Hacemos *%s* (%s).\n"+
		"Pasame los datos que querés incluir y te preparamos el trabajo.\n"+
		"Si preferís, escribí *cancelar* y seguimos con otra cosa.",
		svc.DisplayName, priceLabel(svc))
}

func customDataReceivedReply(cfg *config.Config) *Reply {
	return textReply("¡Gracias! Ya guardamos los datos 📝\n"+
		"Una persona de %s te contacta para cerrar los detalles y el precio final.",
		cfg.Store.Name)
}

func hoursReply(cfg *config.Config) *Reply {
	return textReply("Nuestro horario: %s", cfg.Store.Hours)
}

func locationReply(cfg *config.Config) *Reply {
	return textReply("Estamos en %s. ¡Te esperamos!", cfg.Store.Address)
}

func paymentReply(cfg *config.Config) *Reply {
	return textReply("Aceptamos: %s.", strings.Join(cfg.Store.PaymentMethods, ", "))
}

func contactReply(cfg *config.Config) *Reply {
	return textReply("Podés llamarnos o escribirnos al %s.", cfg.Store.Phone)
}

func listingReply(ix *catalog.Index) *Reply {
	cats := ix.Categories()
	if len(cats) == 0 {
		return textReply("Todavía estamos cargando el catálogo, probá en un rato 🙏")
	}
	var b strings.Builder
	b.WriteString("Trabajamos estos rubros:\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "• %s\n", catalog.TitleCase(c))
	}
	b.WriteString("Escribime qué producto buscás y te digo si lo tenemos.")
	return &Reply{Text: b.String()}
}

func historyReply(drafts []order.Draft) *Reply {
	if len(drafts) == 0 {
		return textReply("Todavía no tenés pedidos registrados por acá.")
	}
	var b strings.Builder
	b.WriteString("Tus últimos pedidos:\n")
	for _, d := range drafts {
		fmt.Fprintf(&b, "• %s — %s (%s)\n",
			d.CreatedAt.Format("02/01"), formatPrice(d.Total), shortID(d.ID))
	}
	return &Reply{Text: b.String()}
}

func noPhotoReply() *Reply {
	return textReply("No tengo ninguna foto para mostrarte ahora.\n" +
		"Buscá primero un producto y después pedime la foto 📷")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
