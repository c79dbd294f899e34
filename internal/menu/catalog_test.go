package menu_test

import (
	"testing"
	"unicode/utf8"

	"github.com/nikolayk812/gourmet-ledger/internal/domain"
	"github.com/nikolayk812/gourmet-ledger/internal/menu"
	"github.com/nikolayk812/gourmet-ledger/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func rupees(amount int64) domain.Money {
	return domain.Money{Amount: decimal.NewFromInt(amount), Currency: currency.INR}
}

func sampleMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{
			ID:          1,
			Name:        "Chicken Biryani",
			Description: "Aromatic basmati rice with tender chicken pieces",
			Category:    "biryani",
			Price:       rupees(299),
			Available:   true,
		},
		{
			ID:          2,
			Name:        "Paneer Tikka",
			Description: "Cottage cheese marinated in spices",
			Category:    "appetizers",
			Price:       rupees(249),
			Vegetarian:  true,
			Available:   true,
		},
		{
			ID:          3,
			Name:        "Margherita Pizza",
			Description: "Classic pizza with tomato sauce and cheese",
			Category:    "pizza",
			Price:       rupees(349),
			Vegetarian:  true,
			Available:   true,
		},
	}
}

func newCatalog() *menu.Catalog {
	return menu.NewCatalog(repository.NewInMemoryMenu(sampleMenu()...))
}

func TestCatalog_Search(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []int64
	}{
		{
			name:    "empty query: everything",
			query:   "  ",
			wantIDs: []int64{1, 2, 3},
		},
		{
			name:    "name match is case-insensitive",
			query:   "PIZZA",
			wantIDs: []int64{3},
		},
		{
			name:    "description match",
			query:   "cheese",
			wantIDs: []int64{2, 3},
		},
		{
			name:  "no match",
			query: "sushi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := newCatalog().Search(t.Context(), tt.query)
			require.NoError(t, err)

			var ids []int64
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestCatalog_Add(t *testing.T) {
	tests := []struct {
		name      string
		item      domain.MenuItem
		wantID    int64
		wantError string
	}{
		{
			name: "add item: next id",
			item: domain.MenuItem{
				Name:     "  Masala Dosa ",
				Category: "South-Indian",
				Price:    rupees(149),
			},
			wantID: 4,
		},
		{
			name:      "empty name: error",
			item:      domain.MenuItem{Name: " ", Price: rupees(10)},
			wantError: "invalid menu item: name is empty",
		},
		{
			name:      "zero price: error",
			item:      domain.MenuItem{Name: "Water", Price: rupees(0)},
			wantError: "invalid menu item: price must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newCatalog()

			created, err := catalog.Add(t.Context(), tt.item)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				require.ErrorIs(t, err, menu.ErrInvalidItem)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantID, created.ID)
			assert.Equal(t, "Masala Dosa", created.Name)
			assert.Equal(t, "south-indian", created.Category)

			items, err := catalog.List(t.Context())
			require.NoError(t, err)
			assert.Len(t, items, 4)
		})
	}
}

func TestCatalog_UpdateAndDelete(t *testing.T) {
	catalog := newCatalog()
	ctx := t.Context()

	item := sampleMenu()[0]
	item.Price = rupees(319)
	require.NoError(t, catalog.Update(ctx, item))

	items, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INR 319.00", items[0].Price.String())

	require.NoError(t, catalog.Delete(ctx, 2))
	require.ErrorIs(t, catalog.Delete(ctx, 2), menu.ErrItemNotFound)

	missing := sampleMenu()[1]
	require.ErrorIs(t, catalog.Update(ctx, missing), menu.ErrItemNotFound)

	items, err = catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// ids are never reused
	created, err := catalog.Add(ctx, domain.MenuItem{Name: "Lassi", Price: rupees(60)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
}

func TestCatalog_ToggleAvailability(t *testing.T) {
	catalog := newCatalog()

	item, err := catalog.ToggleAvailability(t.Context(), 3)
	require.NoError(t, err)
	assert.False(t, item.Available)

	item, err = catalog.ToggleAvailability(t.Context(), 3)
	require.NoError(t, err)
	assert.True(t, item.Available)

	_, err = catalog.ToggleAvailability(t.Context(), 42)
	require.ErrorIs(t, err, menu.ErrItemNotFound)
}

func TestSections(t *testing.T) {
	items := append(sampleMenu(), domain.MenuItem{ID: 4, Name: "Veg Biryani", Category: "biryani", Price: rupees(199)})

	sections := menu.Sections(items)
	require.Len(t, sections, 3)

	assert.Equal(t, "appetizers", sections[0].Category)
	assert.Equal(t, "Biryani", sections[1].Title)
	require.Len(t, sections[1].Items, 2)
	assert.Equal(t, int64(1), sections[1].Items[0].ID)
	assert.Equal(t, int64(4), sections[1].Items[1].ID)

	assert.Empty(t, menu.Sections(nil))
}

func TestFormatCategory(t *testing.T) {
	tests := map[string]string{
		"biryani":      "Biryani",
		"north-indian": "North Indian",
		"":             "",
		"a--b":         "A  B",
		"BBQ-grill":    "BBQ Grill",

		"ñoquis":           "Ñoquis",
		"édition-spéciale": "Édition Spéciale",
		"дальний-восток":   "Дальний Восток",
	}

	for in, want := range tests {
		got := menu.FormatCategory(in)
		assert.Equal(t, want, got, in)
		assert.True(t, utf8.ValidString(got), in)
	}
}
