package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tiendabot/internal/catalog"
	"tiendabot/internal/session"
)

func item(name string, price float64, inStock bool) *catalog.Item {
	return &catalog.Item{
		Category: "libreria", Subcategory: "x", Name: name,
		DisplayName: catalog.TitleCase(name), Price: price, InStock: inStock,
	}
}

func TestAddPending_MergesQuantity(t *testing.T) {
	cuaderno := item("cuaderno a4", 1000, true)
	s := &session.Session{CustomerID: "c"}

	s.SetPending(&session.Pending{Item: cuaderno, Quantity: 2})
	line, err := AddPending(s)
	require.NoError(t, err)
	require.Equal(t, 2, line.Quantity)
	require.Nil(t, s.Pending(), "confirmation closes after commit")

	s.SetPending(&session.Pending{Item: cuaderno, Quantity: 3})
	line, err = AddPending(s)
	require.NoError(t, err)
	require.Equal(t, 5, line.Quantity, "same product merges")
	require.Len(t, s.Items, 1)
}

func TestAddPending_NoPending(t *testing.T) {
	s := &session.Session{CustomerID: "c"}
	_, err := AddPending(s)
	require.ErrorIs(t, err, ErrNoPending)
}

func TestRemoveOrdinal(t *testing.T) {
	s := &session.Session{CustomerID: "c"}
	s.Items = []session.CartItem{
		{Item: item("cuaderno a4", 1000, true), Quantity: 1},
		{Item: item("globo", 500, true), Quantity: 10},
	}

	removed, err := RemoveOrdinal(s, 1)
	require.NoError(t, err)
	require.Equal(t, "cuaderno a4", removed.Item.Name)
	require.Len(t, s.Items, 1)

	_, err = RemoveOrdinal(s, 5)
	require.Error(t, err, "out of range is a user error, not a panic")
	_, err = RemoveOrdinal(s, 0)
	require.Error(t, err)
}

func TestComputeTotals(t *testing.T) {
	items := []session.CartItem{
		{Item: item("cuaderno a4", 1000, true), Quantity: 2},
		{Item: item("globo", 500, true), Quantity: 3},
	}

	t.Run("NoDiscountNoDelivery", func(t *testing.T) {
		tot := ComputeTotals(items, 0, 1500, false)
		require.Equal(t, 3500.0, tot.Subtotal)
		require.Equal(t, 0.0, tot.Discount)
		require.Equal(t, 0.0, tot.Delivery)
		require.Equal(t, 3500.0, tot.Total)
	})

	t.Run("DiscountAndShipping", func(t *testing.T) {
		tot := ComputeTotals(items, 10, 1500, true)
		require.Equal(t, 3500.0, tot.Subtotal)
		require.Equal(t, 350.0, tot.Discount)
		require.Equal(t, 1500.0, tot.Delivery)
		require.Equal(t, 4650.0, tot.Total)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		tot := ComputeTotals(nil, 10, 1500, true)
		require.Equal(t, 0.0, tot.Subtotal)
		require.Equal(t, 1500.0, tot.Total, "delivery fee still applies to the formula")
	})
}

func TestOutOfStock(t *testing.T) {
	inStock := item("cuaderno a4", 1000, true)
	soldOut := item("globo", 500, true)
	items := []session.CartItem{
		{Item: inStock, Quantity: 1},
		{Item: soldOut, Quantity: 2},
	}

	// The current index says the globo lost its stock since it was added.
	ix := catalog.NewIndex(&catalog.Snapshot{Items: []*catalog.Item{
		item("cuaderno a4", 1000, true),
		item("globo", 500, false),
	}}, 75)

	gone := OutOfStock(items, ix)
	require.Equal(t, []string{"Globo"}, gone)

	// An item dropped from the catalog entirely also counts as gone.
	ix = catalog.NewIndex(&catalog.Snapshot{Items: []*catalog.Item{
		item("cuaderno a4", 1000, true),
	}}, 75)
	gone = OutOfStock(items, ix)
	require.Equal(t, []string{"Globo"}, gone)
}
