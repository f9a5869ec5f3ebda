package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/warinyupa/stocklens/internal/domain"
	"github.com/warinyupa/stocklens/internal/repository"
)

// ErrOrderNotFound is returned when an order id does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderService keeps replenishment orders in memory. Orders are demo-grade
// bookkeeping: they do not survive a restart and are scoped to the process.
type OrderService struct {
	skuRepo repository.SKURepository
	clock   func() time.Time

	mu     sync.Mutex
	nextID int
	orders []domain.Order
}

func NewOrderService(skuRepo repository.SKURepository, clock func() time.Time) *OrderService {
	if clock == nil {
		clock = time.Now
	}
	return &OrderService{skuRepo: skuRepo, clock: clock, nextID: 1}
}

// Create stores a new order and returns it with its assigned id.
func (s *OrderService) Create(req domain.OrderRequest) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := domain.Order{
		ID:           s.nextID,
		OrderRequest: req,
		CreatedAt:    s.clock(),
	}
	s.nextID++
	s.orders = append(s.orders, order)
	return order
}

// List returns all orders enriched with their SKU descriptions. Enrichment
// failures degrade to unenriched orders rather than failing the listing.
func (s *OrderService) List(ctx context.Context) []domain.EnrichedOrder {
	s.mu.Lock()
	orders := append([]domain.Order(nil), s.orders...)
	s.mu.Unlock()

	names := make(map[string]string)
	if len(orders) > 0 {
		skus := make([]string, 0, len(orders))
		seen := make(map[string]bool, len(orders))
		for _, o := range orders {
			if !seen[o.SKU] {
				seen[o.SKU] = true
				skus = append(skus, o.SKU)
			}
		}

		entries, err := s.skuRepo.GetCatalogForSKUs(ctx, skus)
		if err != nil {
			log.Warn().Err(err).Msg("orders: catalog enrichment failed")
		}
		for _, e := range entries {
			names[e.SKU] = e.Name
		}
	}

	enriched := make([]domain.EnrichedOrder, 0, len(orders))
	for _, o := range orders {
		name := names[o.SKU]
		if name == "" {
			name = "Unknown"
		}
		enriched = append(enriched, domain.EnrichedOrder{Order: o, Name: name})
	}
	return enriched
}

// Update replaces the order with the given id.
func (s *OrderService) Update(id int, req domain.OrderRequest) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID == id {
			s.orders[i].OrderRequest = req
			return s.orders[i], nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

// Delete removes the order with the given id.
func (s *OrderService) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return ErrOrderNotFound
}
