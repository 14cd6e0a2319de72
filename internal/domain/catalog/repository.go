package catalog

import (
	"context"

	"github.com/storemanager/backend/internal/domain/shared"
)

// ProductRepository defines the persistence contract for products.
// Recognized filter keys: status, type, stock_status, manage_stock.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int64) error
	ReplaceTerms(ctx context.Context, product *Product, taxonomy Taxonomy, termIDs []int64) error
	FindLowStock(ctx context.Context, threshold int64, filter shared.Filter) ([]Product, int64, error)
}

// TermRepository defines the persistence contract for categories and tags
type TermRepository interface {
	FindByIDs(ctx context.Context, taxonomy Taxonomy, ids []int64) ([]Term, error)
	FindByProduct(ctx context.Context, taxonomy Taxonomy, productID int64) ([]Term, error)
}
