package order

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDraft(customerID string, total float64, at time.Time) *Draft {
	return &Draft{
		CustomerID:   customerID,
		Subtotal:     total,
		Total:        total,
		DeliveryType: "retiro",
		CreatedAt:    at,
		Lines: []Line{
			{Category: "libreria", Subcategory: "cuadernos", Name: "cuaderno a4",
				DisplayName: "Cuaderno A4", Quantity: 2, UnitPrice: total / 2},
		},
	}
}

func TestStore_RecordAssignsID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, sampleDraft("549111", 2000, time.Now()))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	drafts, err := s.ListByCustomer(ctx, "549111", 5)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, id, drafts[0].ID)
	require.Equal(t, 2000.0, drafts[0].Total)
	require.Equal(t, "retiro", drafts[0].DeliveryType)
}

func TestStore_ListNewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		_, err := s.Record(ctx, sampleDraft("549111", float64(100*(i+1)), base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}
	_, err := s.Record(ctx, sampleDraft("549222", 999, base))
	require.NoError(t, err)

	drafts, err := s.ListByCustomer(ctx, "549111", 5)
	require.NoError(t, err)
	require.Len(t, drafts, 5)
	require.Equal(t, 700.0, drafts[0].Total, "newest order comes first")
	require.Equal(t, 300.0, drafts[4].Total)
}

func TestStore_ListUnknownCustomerIsEmpty(t *testing.T) {
	s := openTestStore(t)
	drafts, err := s.ListByCustomer(context.Background(), "nadie", 5)
	require.NoError(t, err)
	require.Empty(t, drafts)
}
