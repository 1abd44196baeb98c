// Package cart mutates the session cart and computes checkout totals.
package cart

import (
	"errors"
	"fmt"

	"tiendabot/internal/catalog"
	"tiendabot/internal/session"
)

// ErrNoPending is returned when there is no confirmed selection to add.
var ErrNoPending = errors.New("no pending item")

// AddPending moves the session's pending item into the cart, merging the
// quantity if the same product is already present, and closes the
// confirmation.
func AddPending(s *session.Session) (session.CartItem, error) {
	p := s.Pending()
	if p == nil {
		return session.CartItem{}, ErrNoPending
	}
	s.ClearChoices()
	for i := range s.Items {
		if s.Items[i].Item == p.Item {
			s.Items[i].Quantity += p.Quantity
			return s.Items[i], nil
		}
	}
	line := session.CartItem{Item: p.Item, Quantity: p.Quantity}
	s.Items = append(s.Items, line)
	return line, nil
}

// RemoveOrdinal removes the 1-based line the customer named. Out-of-range
// ordinals are a user error, reported, never a crash.
func RemoveOrdinal(s *session.Session, ordinal int) (session.CartItem, error) {
	if ordinal < 1 || ordinal > len(s.Items) {
		return session.CartItem{}, fmt.Errorf("no existe el ítem %d del carrito", ordinal)
	}
	i := ordinal - 1
	removed := s.Items[i]
	s.Items = append(s.Items[:i], s.Items[i+1:]...)
	return removed, nil
}

// Totals is the computed checkout breakdown.
type Totals struct {
	Subtotal float64
	Discount float64
	Delivery float64
	Total    float64
}

// ComputeTotals applies the order formula: subtotal is the sum of line
// prices, discount is a percentage of the subtotal, delivery is a flat fee
// when shipping. Line items are never rounded; only the display is.
func ComputeTotals(items []session.CartItem, discountPct, deliveryFee float64, ship bool) Totals {
	var t Totals
	for _, line := range items {
		t.Subtotal += line.Item.UnitPrice() * float64(line.Quantity)
	}
	t.Discount = t.Subtotal * discountPct / 100
	if ship {
		t.Delivery = deliveryFee
	}
	t.Total = t.Subtotal - t.Discount + t.Delivery
	return t
}

// OutOfStock re-checks every cart line against the current index and returns
// the display names that are no longer purchasable. Stock may have changed
// since the item entered the cart; confirmation must report the losers
// rather than silently dropping them.
func OutOfStock(items []session.CartItem, ix *catalog.Index) []string {
	var gone []string
	for _, line := range items {
		current, ok := ix.FindByExactName(line.Item.Name)
		if !ok || !current.InStock {
			gone = append(gone, line.Item.DisplayName)
		}
	}
	return gone
}
