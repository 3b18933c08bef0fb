package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/neomdavid/IAX-ROLEX-backend/app/models"
)

// NewMemory builds process-local stores. Data is lost on exit; used by
// tests and by STORE_DRIVER=memory for running without MongoDB.
func NewMemory() Stores {
	return Stores{
		Watches: NewMemoryWatches(),
		Carts:   NewMemoryCarts(),
		Users:   NewMemoryUsers(),
	}
}

// ─── Watches ──────────────────────────────────────────────────────────────────

type MemoryWatches struct {
	mu    sync.RWMutex
	byID  map[primitive.ObjectID]models.Watch
	order []primitive.ObjectID
	now   func() time.Time
}

func NewMemoryWatches() *MemoryWatches {
	return &MemoryWatches{byID: map[primitive.ObjectID]models.Watch{}, now: time.Now}
}

func (s *MemoryWatches) Create(_ context.Context, w *models.Watch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	w.ID = primitive.NewObjectID()
	w.CreatedAt, w.UpdatedAt = now, now
	s.byID[w.ID] = *w
	s.order = append(s.order, w.ID)
	return nil
}

func (s *MemoryWatches) FindByID(_ context.Context, id string) (*models.Watch, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.byID[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &w, nil
}

func (s *MemoryWatches) Find(_ context.Context, f WatchFilter) ([]models.Watch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Watch{}
	for _, id := range s.order {
		w := s.byID[id]
		if f.Category != "" && w.Category != f.Category {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *MemoryWatches) Update(_ context.Context, id string, u models.WatchUpdate) (*models.Watch, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.byID[oid]
	if !ok {
		return nil, ErrNotFound
	}
	u.Apply(&w)
	w.UpdatedAt = s.now().UTC()
	s.byID[oid] = w
	return &w, nil
}

func (s *MemoryWatches) Delete(_ context.Context, id string) (*models.Watch, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.byID[oid]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.byID, oid)
	for i, v := range s.order {
		if v == oid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return &w, nil
}

// ─── Carts ────────────────────────────────────────────────────────────────────

type MemoryCarts struct {
	mu     sync.Mutex
	byUser map[primitive.ObjectID]*models.Cart
	now    func() time.Time
}

func NewMemoryCarts() *MemoryCarts {
	return &MemoryCarts{byUser: map[primitive.ObjectID]*models.Cart{}, now: time.Now}
}

func (s *MemoryCarts) Get(_ context.Context, userID string) (*models.Cart, error) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byUser[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCart(c), nil
}

func (s *MemoryCarts) AddItem(_ context.Context, userID, watchID string, qty int) (*models.Cart, error) {
	uid, ok1 := parseID(userID)
	wid, ok2 := parseID(watchID)
	if !ok1 || !ok2 {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	c, ok := s.byUser[uid]
	if !ok {
		c = models.EmptyCart(uid)
		c.ID = primitive.NewObjectID()
		c.CreatedAt = now
		s.byUser[uid] = c
	}
	c.UpdatedAt = now

	for i := range c.Items {
		if c.Items[i].Watch == wid {
			c.Items[i].Quantity += qty
			return copyCart(c), nil
		}
	}
	c.Items = append(c.Items, models.CartItem{Watch: wid, Quantity: qty})
	return copyCart(c), nil
}

func (s *MemoryCarts) SetQuantity(_ context.Context, userID, watchID string, qty int) (*models.Cart, error) {
	return s.withLine(userID, watchID, func(c *models.Cart, i int) {
		c.Items[i].Quantity = qty
	})
}

func (s *MemoryCarts) RemoveItem(_ context.Context, userID, watchID string) (*models.Cart, error) {
	return s.withLine(userID, watchID, func(c *models.Cart, i int) {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	})
}

func (s *MemoryCarts) Clear(_ context.Context, userID string) (*models.Cart, error) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byUser[uid]
	if !ok {
		return models.EmptyCart(uid), nil
	}
	c.Items = []models.CartItem{}
	c.UpdatedAt = s.now().UTC()
	return copyCart(c), nil
}

// withLine runs fn on the line for watchID under the lock.
func (s *MemoryCarts) withLine(userID, watchID string, fn func(c *models.Cart, i int)) (*models.Cart, error) {
	uid, ok1 := parseID(userID)
	wid, ok2 := parseID(watchID)
	if !ok1 || !ok2 {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byUser[uid]
	if !ok {
		return nil, ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].Watch == wid {
			fn(c, i)
			c.UpdatedAt = s.now().UTC()
			return copyCart(c), nil
		}
	}
	return nil, ErrNotFound
}

func copyCart(c *models.Cart) *models.Cart {
	out := *c
	out.Items = append([]models.CartItem{}, c.Items...)
	return &out
}

// ─── Users ────────────────────────────────────────────────────────────────────

type MemoryUsers struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]models.User
	byEmail map[string]primitive.ObjectID
	now     func() time.Time
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:    map[primitive.ObjectID]models.User{},
		byEmail: map[string]primitive.ObjectID{},
		now:     time.Now,
	}
}

func (s *MemoryUsers) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(u.Email)
	if _, taken := s.byEmail[email]; taken {
		return ErrDuplicate
	}
	u.ID = primitive.NewObjectID()
	u.Email = email
	u.CreatedAt = s.now().UTC()
	s.byID[u.ID] = *u
	s.byEmail[email] = u.ID
	return nil
}

func (s *MemoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *MemoryUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[oid]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUsers) SetRole(_ context.Context, email, role string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.byID[id]
	u.Role = role
	s.byID[id] = u
	return &u, nil
}
