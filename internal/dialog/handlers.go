package dialog

import (
	"strings"

	"go.uber.org/zap"

	"tiendabot/internal/cart"
	"tiendabot/internal/catalog"
	"tiendabot/internal/order"
	"tiendabot/internal/session"
)

// Rule 1: while a human has the conversation, the bot stays silent. Release
// is owner-only and handled before the cascade; a customer typing the resume
// command is just more text the human will read.
func (r *Resolver) handoffActive(t *turn) (*Reply, bool) {
	if !r.sessions.IsHandoff(t.customerID) {
		return nil, false
	}
	return nil, true
}

// Rule 2: the customer asked for a human.
func (r *Resolver) handoffRequest(t *turn) (*Reply, bool) {
	if !reHandoffRequest.MatchString(t.text) {
		return nil, false
	}
	r.sessions.MarkHandoff(t.customerID)
	r.log.Info("human handoff requested", zap.String("customer", t.customerID))
	return handoffAck(), true
}

// Rule 3: an active custom-order sub-flow consumes free text as the data
// for the quoted service.
func (r *Resolver) customOrderData(t *turn) (*Reply, bool) {
	if t.sess == nil || t.sess.Subflow != session.SubflowCustomOrder {
		return nil, false
	}
	if isCancel(t.text) {
		t.sess.Subflow = session.SubflowNone
		t.sess.CustomService = ""
		return textReply("Dale, lo dejamos para otro momento."), true
	}
	r.log.Info("custom order data received",
		zap.String("customer", t.customerID),
		zap.String("service", t.sess.CustomService),
		zap.String("data", t.raw))
	t.sess.Subflow = session.SubflowNone
	t.sess.CustomService = ""
	return customDataReceivedReply(r.cfg), true
}

// Rule 4: the checkout asked "1 retiro / 2 envío"; a bare "1" here must
// never be read as a product quantity or candidate pick.
func (r *Resolver) deliveryChoice(t *turn) (*Reply, bool) {
	if t.sess == nil || t.sess.Subflow != session.SubflowDeliveryChoice {
		return nil, false
	}
	switch {
	case t.text == "1" || t.text == "retiro" || strings.Contains(t.text, "retir"):
		return r.finalizeCheckout(t, false), true
	case t.text == "2" || t.text == "envio" || strings.Contains(t.text, "envi"):
		return r.finalizeCheckout(t, true), true
	case isCancel(t.text) || isNo(t.text, r.cfg.Matching.YesNoTolerance):
		t.sess.Subflow = session.SubflowNone
		return textReply("Dale, tu carrito queda como está. Escribí *confirmar* cuando quieras cerrarlo."), true
	default:
		return deliveryChoiceReply(r.cfg.Orders.DeliveryFee), true
	}
}

// Rule 5: an open candidate list: a number picks, a cancel phrase clears,
// anything else falls through to the rest of the cascade.
func (r *Resolver) candidateChoice(t *turn) (*Reply, bool) {
	if t.sess == nil || t.sess.Candidates() == nil {
		return nil, false
	}
	c := t.sess.Candidates()
	if n, ok := parseOrdinal(t.text); ok {
		if n < 1 || n > len(c.Items) {
			return textReply("Elegí un número del 1 al %d, o escribí *cancelar*.", len(c.Items)), true
		}
		chosen := c.Items[n-1]
		if !chosen.InStock {
			t.sess.ClearChoices()
			return outOfStockReply(chosen), true
		}
		t.sess.SetPending(&session.Pending{Item: chosen, Quantity: c.Quantity})
		t.sess.LastShown = chosen
		return singleHitReply(chosen, c.Quantity), true
	}
	if isCancel(t.text) || isNo(t.text, r.cfg.Matching.YesNoTolerance) {
		t.sess.ClearChoices()
		return textReply("Dale, ¿qué otra cosa estás buscando?"), true
	}
	return nil, false
}

// Rule 6: an item awaiting yes/no confirmation.
func (r *Resolver) pendingConfirm(t *turn) (*Reply, bool) {
	if t.sess == nil || t.sess.Pending() == nil {
		return nil, false
	}
	tol := r.cfg.Matching.YesNoTolerance
	switch {
	case isYes(t.text, tol):
		line, err := cart.AddPending(t.sess)
		if err != nil {
			return fallbackReply(), true
		}
		return addedToCartReply(line), true
	case isNo(t.text, tol) || isCancel(t.text):
		t.sess.ClearChoices()
		return textReply("Dale, lo dejamos. ¿Buscás otra cosa?"), true
	}
	return nil, false
}

// Rule 7: a new custom-service intent (résumé, invitations, business
// cards). Stale disambiguation state is dropped; if the service is not in
// the catalog the bot stays silent rather than fabricate an offer.
func (r *Resolver) customService(t *turn) (*Reply, bool) {
	var names []string
	switch {
	case reCustomCV.MatchString(t.text):
		names = []string{"curriculum vitae", "curriculum"}
	case reCustomInvite.MatchString(t.text):
		names = []string{"invitaciones", "invitaciones de cumpleanos"}
	case reCustomCards.MatchString(t.text):
		names = []string{"tarjetas personales", "tarjetas de presentacion"}
	default:
		return nil, false
	}
	var svc *catalog.Item
	for _, name := range names {
		if it, ok := t.ix.FindByExactName(name); ok {
			svc = it
			break
		}
	}
	if svc == nil {
		return nil, true
	}
	sess := t.session(r)
	sess.ClearChoices()
	sess.Subflow = session.SubflowCustomOrder
	sess.CustomService = svc.Name
	sess.LastShown = svc
	return customServiceReply(svc), true
}

// Rule 8: cart commands, only reachable with a non-empty cart.
func (r *Resolver) cartCommands(t *turn) (*Reply, bool) {
	if t.sess == nil || t.sess.CartEmpty() {
		return nil, false
	}
	switch {
	case reViewCart.MatchString(t.text):
		totals := cart.ComputeTotals(t.sess.Items, r.cfg.Orders.DiscountPct, r.cfg.Orders.DeliveryFee, false)
		return cartView(t.sess.Items, totals), true

	case reConfirmCart.MatchString(t.text):
		if gone := cart.OutOfStock(t.sess.Items, t.ix); len(gone) > 0 {
			return stockLostReply(gone), true
		}
		t.sess.Subflow = session.SubflowDeliveryChoice
		return deliveryChoiceReply(r.cfg.Orders.DeliveryFee), true

	case reCancelCart.MatchString(t.text):
		r.sessions.Clear(t.customerID)
		t.sess = nil
		return textReply("Listo, cancelé el pedido. Cuando quieras arrancamos otro 👍"), true

	case reRemoveItem.MatchString(t.text):
		m := reRemoveItem.FindStringSubmatch(t.text)
		n, _ := parseOrdinal(m[len(m)-1])
		removed, err := cart.RemoveOrdinal(t.sess, n)
		if err != nil {
			return textReply("No encontré el ítem %d. Escribí *carrito* para ver los números.", n), true
		}
		if t.sess.CartEmpty() {
			return textReply("Saqué *%s*. Tu carrito quedó vacío.", removed.Item.DisplayName), true
		}
		return textReply("Saqué *%s*. Escribí *carrito* para ver cómo quedó.", removed.Item.DisplayName), true
	}
	return nil, false
}

// Rule 9: stateless informational commands.
func (r *Resolver) infoCommands(t *turn) (*Reply, bool) {
	switch {
	case reGreeting.MatchString(t.text):
		return greetingReply(r.cfg), true
	case reHours.MatchString(t.text):
		return hoursReply(r.cfg), true
	case reLocation.MatchString(t.text):
		return locationReply(r.cfg), true
	case rePayment.MatchString(t.text):
		return paymentReply(r.cfg), true
	case reContact.MatchString(t.text):
		return contactReply(r.cfg), true
	case reListing.MatchString(t.text):
		return listingReply(t.ix), true
	case reStockQ.MatchString(t.text):
		return r.stockQuery(t), true
	case reHistory.MatchString(t.text):
		return r.orderHistory(t), true
	}
	return nil, false
}

func (r *Resolver) stockQuery(t *turn) *Reply {
	m := reStockQ.FindStringSubmatch(t.text)
	query := m[2]
	if query == "" {
		query = m[3]
	}
	results := t.ix.Search(query)
	if len(results) == 0 {
		return textReply("No encontré %q en el catálogo. Probá con otro nombre.", query)
	}
	it := results[0].Item
	if it.InStock {
		return textReply("Sí, tenemos *%s* en stock (%s) ✅", it.DisplayName, priceLabel(it))
	}
	return outOfStockReply(it)
}

func (r *Resolver) orderHistory(t *turn) *Reply {
	drafts, err := r.orders.ListByCustomer(t.ctx, t.customerID, 5)
	if err != nil {
		r.log.Error("listing orders failed", zap.String("customer", t.customerID), zap.Error(err))
		return textReply("No pude consultar tus pedidos ahora, probá más tarde 🙏")
	}
	return historyReply(drafts)
}

// Rule 10: fuzzy product search. Fires only when the index produced at
// least one hit; misses fall through so off-topic chatter can stay silent.
func (r *Resolver) productSearch(t *turn) (*Reply, bool) {
	if t.text == "" {
		return nil, false
	}
	results := t.ix.Search(t.text)
	if len(results) == 0 {
		return nil, false
	}
	qty := parseQuantity(t.text)
	sess := t.session(r)

	// A lone hit, a true exact full-name match, or a strictly best score is
	// presented directly; score ties become a numbered list no matter how
	// high the tied score is.
	if len(results) == 1 || results[0].Exact || results[0].Score > results[1].Score {
		it := results[0].Item
		sess.LastShown = it
		if !it.InStock {
			sess.ClearChoices()
			return outOfStockReply(it), true
		}
		sess.SetPending(&session.Pending{Item: it, Quantity: qty})
		return singleHitReply(it, qty), true
	}

	limit := r.cfg.Matching.CandidateLimit
	shown := results
	if len(shown) > limit {
		shown = shown[:limit]
	}
	items := make([]*catalog.Item, len(shown))
	for i, res := range shown {
		items[i] = res.Item
	}
	c := &session.Candidates{Items: items, Quantity: qty}
	sess.SetCandidates(c)
	sess.LastShown = items[0]
	return candidateListReply(c, len(results)), true
}

// Rule 11: a photo request is only valid when a product was recently
// searched or selected.
func (r *Resolver) photoRequest(t *turn) (*Reply, bool) {
	if !rePhoto.MatchString(t.text) {
		return nil, false
	}
	if t.sess == nil || t.sess.LastShown == nil || len(t.sess.LastShown.Images) == 0 {
		return noPhotoReply(), true
	}
	it := t.sess.LastShown
	return &Reply{
		ImageURL:     it.Images[0].URL,
		ImageCaption: it.DisplayName + " — " + priceLabel(it),
	}, true
}

// Rule 12: recognized non-business chatter gets silence, not a menu; the
// bot must not insert itself into personal conversations.
func (r *Resolver) offTopic(t *turn) (*Reply, bool) {
	if reOffTopic.MatchString(t.text) {
		return nil, true
	}
	return nil, false
}

// Rule 13: the generic menu, only when the message plausibly relates to the
// business; otherwise silence.
func (r *Resolver) fallback(t *turn) (*Reply, bool) {
	if reBusiness.MatchString(t.text) {
		return fallbackReply(), true
	}
	return nil, true
}

// finalizeCheckout re-validates stock, records the order, and only then
// clears the cart. A failed persistence call keeps the cart intact.
func (r *Resolver) finalizeCheckout(t *turn, ship bool) *Reply {
	if gone := cart.OutOfStock(t.sess.Items, t.ix); len(gone) > 0 {
		t.sess.Subflow = session.SubflowNone
		return stockLostReply(gone)
	}

	totals := cart.ComputeTotals(t.sess.Items, r.cfg.Orders.DiscountPct, r.cfg.Orders.DeliveryFee, ship)
	deliveryType := "retiro"
	if ship {
		deliveryType = "envio"
	}
	draft := &order.Draft{
		CustomerID:   t.customerID,
		Subtotal:     totals.Subtotal,
		Discount:     totals.Discount,
		Delivery:     totals.Delivery,
		Total:        totals.Total,
		DeliveryType: deliveryType,
		CreatedAt:    r.now(),
	}
	for _, line := range t.sess.Items {
		draft.Lines = append(draft.Lines, order.Line{
			Category:    line.Item.Category,
			Subcategory: line.Item.Subcategory,
			Name:        line.Item.Name,
			DisplayName: line.Item.DisplayName,
			Quantity:    line.Quantity,
			UnitPrice:   line.Item.UnitPrice(),
		})
	}

	id, err := r.orders.Record(t.ctx, draft)
	if err != nil {
		r.log.Error("order record failed", zap.String("customer", t.customerID), zap.Error(err))
		t.sess.Subflow = session.SubflowNone
		return recordFailedReply()
	}
	draft.ID = id
	r.log.Info("order recorded",
		zap.String("customer", t.customerID),
		zap.String("order", id),
		zap.Float64("total", draft.Total))

	r.sessions.Clear(t.customerID)
	t.sess = nil
	return orderConfirmedReply(draft)
}
