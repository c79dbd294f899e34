package port

import (
	"context"

	"github.com/nikolayk812/gourmet-ledger/internal/domain"
)

type MenuRepository interface {
	ListItems(ctx context.Context) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id int64) (domain.MenuItem, error)
	CreateItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	UpdateItem(ctx context.Context, item domain.MenuItem) error
	DeleteItem(ctx context.Context, id int64) (bool, error)
}
