package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/port"
)

type inMemoryMenu struct {
	mu     sync.RWMutex
	items  []domain.MenuItem
	nextID int64
}

// NewInMemoryMenu keeps menu items in insertion order. Seed items keep their
// ids; new items get max(id)+1.
func NewInMemoryMenu(seed ...domain.MenuItem) port.MenuRepository {
	r := &inMemoryMenu{nextID: 1}
	for _, item := range seed {
		r.items = append(r.items, item)
		if item.ID >= r.nextID {
			r.nextID = item.ID + 1
		}
	}
	return r
}

func (r *inMemoryMenu) ListItems(_ context.Context) ([]domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.MenuItem, len(r.items))
	copy(items, r.items)
	return items, nil
}

func (r *inMemoryMenu) GetItem(_ context.Context, id int64) (domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.MenuItem{}, domain.ErrMenuItemNotFound
}

func (r *inMemoryMenu) CreateItem(_ context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.items = append(r.items, item)
	return item, nil
}

func (r *inMemoryMenu) UpdateItem(_ context.Context, item domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = item
			return nil
		}
	}
	return fmt.Errorf("id[%d]: %w", item.ID, domain.ErrMenuItemNotFound)
}

func (r *inMemoryMenu) DeleteItem(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
