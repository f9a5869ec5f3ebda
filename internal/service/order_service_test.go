package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/service"
)

func TestOrderService_CreateAssignsSequentialIDs(t *testing.T) {
	clock := newServiceClock()
	svc := service.NewOrderService(&stubRepo{}, clock.Now)

	first := svc.Create(domain.OrderRequest{SKU: "A", Quantity: 5, OrderType: "manual"})
	second := svc.Create(domain.OrderRequest{SKU: "B", Quantity: 3, OrderType: "recommended"})

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, clock.Now(), first.CreatedAt)
}

func TestOrderService_ListEnrichesWithCatalogNames(t *testing.T) {
	repo := &stubRepo{
		catalog: []domain.CatalogEntry{{SKU: "A", Name: "Widget"}},
	}
	svc := service.NewOrderService(repo, newServiceClock().Now)

	svc.Create(domain.OrderRequest{SKU: "A", Quantity: 5})
	svc.Create(domain.OrderRequest{SKU: "MISSING", Quantity: 1})

	orders := svc.List(context.Background())
	require.Len(t, orders, 2)
	assert.Equal(t, "Widget", orders[0].Name)
	assert.Equal(t, "Unknown", orders[1].Name)
}

func TestOrderService_ListDegradesWhenCatalogFails(t *testing.T) {
	repo := &stubRepo{err: errors.New("catalog down")}
	svc := service.NewOrderService(repo, newServiceClock().Now)

	svc.Create(domain.OrderRequest{SKU: "A", Quantity: 5})

	orders := svc.List(context.Background())
	require.Len(t, orders, 1)
	assert.Equal(t, "Unknown", orders[0].Name)
}

func TestOrderService_ListEmpty(t *testing.T) {
	svc := service.NewOrderService(&stubRepo{}, newServiceClock().Now)
	assert.Empty(t, svc.List(context.Background()))
}

func TestOrderService_Update(t *testing.T) {
	svc := service.NewOrderService(&stubRepo{}, newServiceClock().Now)

	created := svc.Create(domain.OrderRequest{SKU: "A", Quantity: 5})

	updated, err := svc.Update(created.ID, domain.OrderRequest{SKU: "A", Quantity: 9})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 9, updated.Quantity)

	_, err = svc.Update(999, domain.OrderRequest{SKU: "A", Quantity: 1})
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderService_Delete(t *testing.T) {
	clock := newServiceClock()
	svc := service.NewOrderService(&stubRepo{}, clock.Now)

	created := svc.Create(domain.OrderRequest{SKU: "A", Quantity: 5})
	require.NoError(t, svc.Delete(created.ID))
	assert.Empty(t, svc.List(context.Background()))

	assert.ErrorIs(t, svc.Delete(created.ID), service.ErrOrderNotFound)

	// ids are never reused after a delete
	next := svc.Create(domain.OrderRequest{SKU: "B", Quantity: 1})
	assert.Equal(t, 2, next.ID)
}
