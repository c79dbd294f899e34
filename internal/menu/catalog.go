package menu

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/port"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrItemNotFound = domain.ErrMenuItemNotFound
	ErrInvalidItem  = errors.New("invalid menu item")
)

// Catalog is the restaurant owner's view of the menu.
type Catalog struct {
	repo port.MenuRepository
}

func NewCatalog(repo port.MenuRepository) *Catalog {
	return &Catalog{repo: repo}
}

type Section struct {
	Category string
	Title    string
	Items    []domain.MenuItem
}

func (c *Catalog) List(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := c.repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.ListItems: %w", err)
	}
	return items, nil
}

func (c *Catalog) Add(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	if err := validate(item); err != nil {
		return domain.MenuItem{}, err
	}

	created, err := c.repo.CreateItem(ctx, normalize(item))
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("repo.CreateItem: %w", err)
	}
	return created, nil
}

func (c *Catalog) Update(ctx context.Context, item domain.MenuItem) error {
	if err := validate(item); err != nil {
		return err
	}

	if err := c.repo.UpdateItem(ctx, normalize(item)); err != nil {
		return fmt.Errorf("repo.UpdateItem: %w", err)
	}
	return nil
}

func (c *Catalog) Delete(ctx context.Context, id int64) error {
	deleted, err := c.repo.DeleteItem(ctx, id)
	if err != nil {
		return fmt.Errorf("repo.DeleteItem: %w", err)
	}
	if !deleted {
		return fmt.Errorf("id[%d]: %w", id, ErrItemNotFound)
	}
	return nil
}

func (c *Catalog) ToggleAvailability(ctx context.Context, id int64) (domain.MenuItem, error) {
	item, err := c.repo.GetItem(ctx, id)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("repo.GetItem: %w", err)
	}

	item.Available = !item.Available
	if err := c.repo.UpdateItem(ctx, item); err != nil {
		return domain.MenuItem{}, fmt.Errorf("repo.UpdateItem: %w", err)
	}
	return item, nil
}

// Search matches query case-insensitively against name and description.
// An empty query matches everything.
func (c *Catalog) Search(ctx context.Context, query string) ([]domain.MenuItem, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items, nil
	}

	var matched []domain.MenuItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

// Sections groups items by category; sections are ordered by category and
// items keep their catalog order. Empty categories are never produced.
func Sections(items []domain.MenuItem) []Section {
	byCategory := make(map[string][]domain.MenuItem)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	sections := make([]Section, 0, len(byCategory))
	for category, grouped := range byCategory {
		sections = append(sections, Section{
			Category: category,
			Title:    FormatCategory(category),
			Items:    grouped,
		})
	}

	sort.Slice(sections, func(i, j int) bool {
		return sections[i].Category < sections[j].Category
	})

	return sections
}

// FormatCategory turns "north-indian" into "North Indian".
func FormatCategory(category string) string {
	return cases.Title(language.Und, cases.NoLower).String(strings.ReplaceAll(category, "-", " "))
}

func validate(item domain.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidItem)
	}
	if !item.Price.Amount.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrInvalidItem)
	}
	return nil
}

func normalize(item domain.MenuItem) domain.MenuItem {
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	item.Category = strings.ToLower(strings.TrimSpace(item.Category))
	return item
}
