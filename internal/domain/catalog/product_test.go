package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_Defaults(t *testing.T) {
	p, err := NewProduct("Hoodie Classic")
	require.NoError(t, err)

	assert.Equal(t, ProductTypeSimple, p.Type)
	assert.Equal(t, ProductStatusPublish, p.Status)
	assert.Equal(t, StockStatusInStock, p.StockStatus)
	assert.Equal(t, VisibilityVisible, p.CatalogVisibility)
	assert.False(t, p.ManageStock)
	assert.Equal(t, "hoodie-classic", p.Slug)
}

func TestNewProduct_EmptyName(t *testing.T) {
	_, err := NewProduct("   ")
	assert.Error(t, err)
}

func TestRename_RegeneratesDerivedSlug(t *testing.T) {
	p, err := NewProduct("Old Name")
	require.NoError(t, err)
	require.Equal(t, "old-name", p.Slug)

	require.NoError(t, p.Rename("New Name"))
	assert.Equal(t, "new-name", p.Slug)
}

func TestRename_KeepsCustomSlug(t *testing.T) {
	p, err := NewProduct("Old Name")
	require.NoError(t, err)
	p.Slug = "custom-slug"

	require.NoError(t, p.Rename("New Name"))
	assert.Equal(t, "custom-slug", p.Slug)
}

func TestSetStockQuantity_IgnoredWithoutManageStock(t *testing.T) {
	p, err := NewProduct("Widget")
	require.NoError(t, err)

	p.SetStockQuantity(10)
	assert.Nil(t, p.StockQuantity)

	p.ManageStock = true
	p.SetStockQuantity(10)
	require.NotNil(t, p.StockQuantity)
	assert.Equal(t, int64(10), *p.StockQuantity)
}

func TestOnSale_Window(t *testing.T) {
	p, err := NewProduct("Widget")
	require.NoError(t, err)

	now := time.Now()
	sale := decimal.NewFromInt(5)
	p.SalePrice = &sale

	assert.True(t, p.OnSale(now))

	future := now.Add(time.Hour)
	p.SaleStart = &future
	assert.False(t, p.OnSale(now))

	past := now.Add(-2 * time.Hour)
	ended := now.Add(-time.Hour)
	p.SaleStart = &past
	p.SaleEnd = &ended
	assert.False(t, p.OnSale(now))
}

func TestSetSaleWindow(t *testing.T) {
	p, err := NewProduct("Widget")
	require.NoError(t, err)

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.SetSaleWindow(&from, &to))
	assert.Equal(t, &from, p.SaleStart)
	assert.Equal(t, &to, p.SaleEnd)

	// open-ended on either side is allowed
	require.NoError(t, p.SetSaleWindow(nil, &to))
	assert.Nil(t, p.SaleStart)
	require.NoError(t, p.SetSaleWindow(&from, nil))
	assert.Nil(t, p.SaleEnd)

	err = p.SetSaleWindow(&to, &from)
	assert.Error(t, err)
	assert.Equal(t, &from, p.SaleStart, "rejected window leaves the product untouched")
}

func TestEffectivePrice(t *testing.T) {
	p, err := NewProduct("Widget")
	require.NoError(t, err)

	regular := decimal.NewFromInt(20)
	sale := decimal.NewFromInt(15)
	p.RegularPrice = &regular

	assert.True(t, p.EffectivePrice(time.Now()).Equal(regular))

	p.SalePrice = &sale
	assert.True(t, p.EffectivePrice(time.Now()).Equal(sale))
}

func TestLowOnStock(t *testing.T) {
	p, err := NewProduct("Widget")
	require.NoError(t, err)

	// No managed stock - never low
	assert.False(t, p.LowOnStock(5))

	p.ManageStock = true
	qty := int64(3)
	p.StockQuantity = &qty
	assert.True(t, p.LowOnStock(5))
	assert.False(t, p.LowOnStock(2))

	// Draft products do not alert
	p.Status = ProductStatusDraft
	assert.False(t, p.LowOnStock(5))

	p.Status = ProductStatusPublish
	p.StockStatus = StockStatusOutOfStock
	assert.False(t, p.LowOnStock(5))
}

func TestTrash(t *testing.T) {
	p, err := NewProduct("Widget")
	require.NoError(t, err)

	p.Trash()
	assert.True(t, p.IsTrashed())
	assert.Equal(t, ProductStatusTrash, p.Status)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "a-b-c", Slugify("  a  b  c  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestValidProductStatus(t *testing.T) {
	assert.True(t, ValidProductStatus("publish"))
	assert.True(t, ValidProductStatus("trash"))
	assert.False(t, ValidProductStatus("published"))
	assert.False(t, ValidProductStatus(""))
}
