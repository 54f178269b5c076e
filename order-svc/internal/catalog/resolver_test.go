package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda/order-svc/internal/domain"
)

func menuProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Pizza Margarita", Price: 125.50, IsActive: true},
		{ID: "p2", Name: "Refrescos (Cola, Fresa, Toronja)", Price: 25.00, IsActive: true},
		{ID: "p3", Name: "Torta de Jamón", Price: 45.00, IsActive: true},
		{ID: "p4", Name: "Agua Mineral", Price: 20.00, IsActive: true},
	}
}

func TestFindProductByName(t *testing.T) {
	products := menuProducts()

	tests := []struct {
		name       string
		search     string
		expectedID string
	}{
		{"exact_match", "pizza margarita", "p1"},
		{"exact_match_ignores_case_and_space", "  PIZZA MARGARITA ", "p1"},
		{"inclusion_partial_name", "margarita", "p1"},
		{"variant_in_parenthetical", "coca cola", "p2"},
		{"variant_flavor_name", "fresa", "p2"},
		{"keyword_longer_phrase", "una pizza grande por favor", "p1"},
		{"synonym_brand_name", "pepsi", "p2"},
		{"synonym_spanish_alias", "sandwich", "p3"},
		{"synonym_generic_drink", "bebida", "p2"},
		{"no_match", "ensalada", ""},
		{"empty_term", "   ", ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			found := FindProductByName(products, testCase.search)
			if testCase.expectedID == "" {
				assert.Nil(t, found)
				return
			}
			require.NotNil(t, found)
			assert.Equal(t, testCase.expectedID, found.ID)
		})
	}
}

func TestFindProductByName_Deterministic(t *testing.T) {
	// Two products could plausibly answer the same term; repeated calls must
	// keep picking the same one.
	products := []domain.Product{
		{ID: "a", Name: "Refresco de Toronja", IsActive: true},
		{ID: "b", Name: "Refresco de Fresa", IsActive: true},
	}

	first := FindProductByName(products, "refresco")
	require.NotNil(t, first)
	for i := 0; i < 20; i++ {
		again := FindProductByName(products, "refresco")
		require.NotNil(t, again)
		assert.Equal(t, first.ID, again.ID)
	}
}

func TestFindProductByName_EmptyCatalog(t *testing.T) {
	assert.Nil(t, FindProductByName(nil, "pizza"))
}
