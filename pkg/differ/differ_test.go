package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawprint/pawprint/pkg/catalog"
)

func fptr(v float64) *float64 { return &v }

func TestProducts(t *testing.T) {
	base := catalog.Products{
		{Key: "acme::adult::dry", BrandSlug: "acme", Name: "Adult", KcalPer100g: fptr(350)},
		{Key: "acme::puppy::dry", BrandSlug: "acme", Name: "Puppy"},
		{Key: "acme::senior::dry", BrandSlug: "acme", Name: "Senior"},
	}
	next := catalog.Products{
		// Unchanged.
		{Key: "acme::puppy::dry", BrandSlug: "acme", Name: "Puppy"},
		// Updated field.
		{Key: "acme::adult::dry", BrandSlug: "acme", Name: "Adult", KcalPer100g: fptr(360)},
		// Added.
		{Key: "acme::kitten::wet", BrandSlug: "acme", Name: "Kitten"},
		// acme::senior::dry removed.
	}

	changes := Products(base, next)
	assert.True(t, changes.HasChanges())

	require.Len(t, changes.Added, 1)
	assert.Equal(t, "acme::kitten::wet", changes.Added[0].Key)

	require.Len(t, changes.Updated, 1)
	assert.Equal(t, "acme::adult::dry", changes.Updated[0].Key)
	assert.Contains(t, changes.Updated[0].Fields, "kcal_per_100g")

	require.Len(t, changes.Removed, 1)
	assert.Equal(t, "acme::senior::dry", changes.Removed[0].Key)
}

func TestProductsNoChanges(t *testing.T) {
	products := catalog.Products{
		{Key: "acme::adult::dry", BrandSlug: "acme", Name: "Adult"},
	}
	changes := Products(products, products)
	assert.False(t, changes.HasChanges())
	assert.Empty(t, changes.Added)
	assert.Empty(t, changes.Updated)
	assert.Empty(t, changes.Removed)
}
