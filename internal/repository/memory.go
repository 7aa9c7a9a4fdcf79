package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RomanEsin/candle-shop-backend/internal/domain"
)

// MemoryStore is an in-memory stand-in for PostgresStore with the same
// observable semantics, used by tests. A single mutex plays the role of
// the store's transactional guarantees.
type MemoryStore struct {
	mu sync.Mutex

	products map[int64]*domain.Product
	baskets  map[int64]*domain.Basket
	items    map[int64]*domain.BasketItem
	orders   map[int64]*domain.Order
	links    map[int64]*domain.TelegramLink

	nextProduct int64
	nextBasket  int64
	nextItem    int64
	nextOrder   int64
	nextLink    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]*domain.Product),
		baskets:  make(map[int64]*domain.Basket),
		items:    make(map[int64]*domain.BasketItem),
		orders:   make(map[int64]*domain.Order),
		links:    make(map[int64]*domain.TelegramLink),
	}
}

// --- products ---

func (s *MemoryStore) Create(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProduct++
	p.ID = s.nextProduct
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if f.PriceFrom != nil && p.Price < *f.PriceFrom {
			continue
		}
		if f.PriceTo != nil && p.Price > *f.PriceTo {
			continue
		}
		if f.Type != nil && p.Type != *f.Type {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.products, id)
	return nil
}

// --- baskets ---

func (s *MemoryStore) GetOpen(_ context.Context, userID uuid.UUID) (*domain.Basket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.findOpen(userID)
	if b == nil {
		return nil, ErrNotFound
	}
	return s.hydrateBasket(b), nil
}

func (s *MemoryStore) CreateOpen(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findOpen(userID) != nil {
		return nil
	}
	s.nextBasket++
	s.baskets[s.nextBasket] = &domain.Basket{ID: s.nextBasket, UserID: userID}
	return nil
}

func (s *MemoryStore) UpsertItem(_ context.Context, basketID, productID int64) (*domain.BasketItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.BasketID == basketID && it.ProductID == productID {
			it.Quantity++
			return s.hydrateItem(it), nil
		}
	}
	s.nextItem++
	it := &domain.BasketItem{ID: s.nextItem, BasketID: basketID, ProductID: productID, Quantity: 1}
	s.items[it.ID] = it
	return s.hydrateItem(it), nil
}

func (s *MemoryStore) DecrementItem(_ context.Context, basketID, productID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, it := range s.items {
		if it.BasketID == basketID && it.ProductID == productID {
			it.Quantity--
			if it.Quantity == 0 {
				delete(s.items, id)
			}
			return it.Quantity, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) findOpen(userID uuid.UUID) *domain.Basket {
	for _, b := range s.baskets {
		if b.UserID == userID && !b.Ordered {
			return b
		}
	}
	return nil
}

func (s *MemoryStore) hydrateBasket(b *domain.Basket) *domain.Basket {
	cp := *b
	cp.Items = []domain.BasketItem{}
	var ids []int64
	for id, it := range s.items {
		if it.BasketID == b.ID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		cp.Items = append(cp.Items, *s.hydrateItem(s.items[id]))
	}
	return &cp
}

func (s *MemoryStore) hydrateItem(it *domain.BasketItem) *domain.BasketItem {
	cp := *it
	if p, ok := s.products[it.ProductID]; ok {
		pc := *p
		cp.Product = &pc
	}
	return &cp
}

// --- orders ---

func (s *MemoryStore) CreateOrder(_ context.Context, userID uuid.UUID, basketID int64, address, comments string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.baskets[basketID]
	if !ok {
		return 0, ErrNotFound
	}
	b.Ordered = true
	s.nextOrder++
	s.orders[s.nextOrder] = &domain.Order{
		ID:         s.nextOrder,
		UserID:     userID,
		BasketID:   basketID,
		Status:     domain.StatusCreated,
		Address:    address,
		Comments:   comments,
		CreateDate: time.Now(),
	}
	return s.nextOrder, nil
}

func (s *MemoryStore) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.hydrateOrder(o), nil
}

func (s *MemoryStore) UpdateOrderStatus(_ context.Context, id int64, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

func (s *MemoryStore) ListOrdersByUser(_ context.Context, userID uuid.UUID) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listOrders(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (s *MemoryStore) ListAllOrders(_ context.Context) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listOrders(func(*domain.Order) bool { return true }), nil
}

func (s *MemoryStore) listOrders(match func(*domain.Order) bool) []domain.Order {
	var ids []int64
	for id, o := range s.orders {
		if match(o) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.hydrateOrder(s.orders[id]))
	}
	return out
}

func (s *MemoryStore) hydrateOrder(o *domain.Order) *domain.Order {
	cp := *o
	if b, ok := s.baskets[o.BasketID]; ok {
		cp.Basket = s.hydrateBasket(b)
	}
	return &cp
}

func (s *MemoryStore) TopProducts(_ context.Context, limit int) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int64]int)
	for _, o := range s.orders {
		for _, it := range s.items {
			if it.BasketID == o.BasketID {
				counts[it.ProductID]++
			}
		}
	}
	var ids []int64
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

// --- telegram links ---

func (s *MemoryStore) GetLinkByUser(_ context.Context, userID uuid.UUID) (*domain.TelegramLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.UserID == userID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateLink(_ context.Context, userID uuid.UUID, linkHex string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.UserID == userID {
			return nil
		}
	}
	s.nextLink++
	s.links[s.nextLink] = &domain.TelegramLink{ID: s.nextLink, UserID: userID, LinkHex: linkHex}
	return nil
}

func (s *MemoryStore) GetLinkByToken(_ context.Context, linkHex string) (*domain.TelegramLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.LinkHex == linkHex {
			cp := *l
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) SetLinkChatID(_ context.Context, id int64, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[id]
	if !ok {
		return ErrNotFound
	}
	l.ChatID = &chatID
	return nil
}
