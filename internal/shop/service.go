package shop

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// Service owns the in-memory catalog and cart registry. One lock guards both
// collections and every Save: mutations build the next state, persist it, and
// publish in memory only after the store accepted it. A failed Save therefore
// leaves both memory and disk on the previous state, and readers never see a
// half-applied mutation.
type Service struct {
	store SnapshotStore
	log   *zap.Logger

	mu       sync.RWMutex
	products []Product
	carts    map[string][]CartItem
	nextID   int
}

func NewService(store SnapshotStore, log *zap.Logger) *Service {
	return &Service{
		store:  store,
		log:    log,
		carts:  map[string][]CartItem{},
		nextID: 1,
	}
}

// Load seeds state from the store. Called once at startup, before the server
// accepts requests.
func (s *Service) Load(ctx context.Context) error {
	products, carts, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = products
	s.carts = carts
	if s.carts == nil {
		s.carts = map[string][]CartItem{}
	}
	s.nextID = len(products) + 1
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) ListProducts(ctx context.Context) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Service) FindProduct(ctx context.Context, id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// CreateProduct coerces the form, assigns the next sequential id and appends
// the product. IDs are string-typed, assigned once and never reused; the
// counter is seeded from the loaded catalog size and products are never
// deleted.
func (s *Service) CreateProduct(ctx context.Context, form ProductForm, imagenURL string) (Product, error) {
	p, err := form.parse()
	if err != nil {
		return Product{}, err
	}
	if imagenURL == "" {
		return Product{}, ErrMissingImage
	}
	p.ImagenURL = imagenURL

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = strconv.Itoa(s.nextID)
	next := append(slices.Clone(s.products), p)

	if err := s.store.Save(ctx, next, s.carts); err != nil {
		return Product{}, fmt.Errorf("persist products: %w", err)
	}

	s.products = next
	s.nextID++
	return p, nil
}

// DecrementStock subtracts amount from a product's stock. Stock has no floor
// and may go negative; an unknown id is a no-op, not an error, so a stale
// cart reference can never fail a purchase.
func (s *Service) DecrementStock(ctx context.Context, id string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := decremented(s.products, id, amount)
	if !changed {
		return nil
	}

	if err := s.store.Save(ctx, next, s.carts); err != nil {
		return fmt.Errorf("persist products: %w", err)
	}

	s.products = next
	return nil
}

// GetCart returns the user's cart, empty if none exists. Reading never
// creates an entry.
func (s *Service) GetCart(ctx context.Context, userID string) []CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.carts[userID]
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}

// AddCartItem appends the item to the user's cart, creating the cart if
// absent. A line with the same product id accumulates Cantidad instead of
// duplicating; repeated identical requests compound the quantity.
func (s *Service) AddCartItem(ctx context.Context, userID string, item CartItem) ([]CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := slices.Clone(s.carts[userID])
	if items == nil {
		items = []CartItem{}
	}

	idx := slices.IndexFunc(items, func(it CartItem) bool { return it.ID == item.ID })
	if idx >= 0 {
		items[idx].Cantidad += item.Cantidad
	} else {
		items = append(items, item)
	}

	nextCarts := maps.Clone(s.carts)
	nextCarts[userID] = items

	if err := s.store.Save(ctx, s.products, nextCarts); err != nil {
		return nil, fmt.Errorf("persist carts: %w", err)
	}

	s.carts = nextCarts
	return items, nil
}

// ClearCart empties the user's cart. The entry is kept (created if absent) so
// a later read yields [] rather than not-found.
func (s *Service) ClearCart(ctx context.Context, userID string) ([]CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextCarts := maps.Clone(s.carts)
	nextCarts[userID] = []CartItem{}

	if err := s.store.Save(ctx, s.products, nextCarts); err != nil {
		return nil, fmt.Errorf("persist carts: %w", err)
	}

	s.carts = nextCarts
	return []CartItem{}, nil
}

// Checkout walks the user's cart in order, decrements stock for every line
// whose product still exists (missing products are skipped, best effort),
// empties the cart and persists both collections in a single Save.
func (s *Service) Checkout(ctx context.Context, userID string) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextProducts := s.products
	for _, item := range s.carts[userID] {
		nextProducts, _ = decremented(nextProducts, item.ID, item.Cantidad)
	}

	nextCarts := maps.Clone(s.carts)
	nextCarts[userID] = []CartItem{}

	if err := s.store.Save(ctx, nextProducts, nextCarts); err != nil {
		return nil, fmt.Errorf("persist checkout: %w", err)
	}

	s.products = nextProducts
	s.carts = nextCarts

	out := make([]Product, len(nextProducts))
	copy(out, nextProducts)
	return out, nil
}

// decremented returns products with the matching product's stock reduced by
// amount. The input slice is not modified; changed reports whether a product
// matched.
func decremented(products []Product, id string, amount int) ([]Product, bool) {
	for i, p := range products {
		if p.ID == id {
			next := slices.Clone(products)
			next[i].Stock -= amount
			return next, true
		}
	}
	return products, false
}
