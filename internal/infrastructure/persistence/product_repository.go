package persistence

import (
	"context"
	"errors"

	"github.com/storemanager/backend/internal/domain/catalog"
	"github.com/storemanager/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// FindByID finds a product by its ID, loading its categories and tags
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Categories").
		Preload("Tags").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter).
		Preload("Categories").
		Preload("Tags")

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts the products matching the filter, ignoring pagination
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product. Term associations are managed through
// ReplaceTerms, never implicitly here.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).
		Omit("Categories", "Tags").
		Save(product).Error
}

// Delete removes a product permanently, including its term associations
func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product := catalog.Product{Entity: shared.Entity{ID: id}}
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&product).Association("Tags").Clear(); err != nil {
			return err
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ReplaceTerms replaces the product's term set for a taxonomy wholesale
func (r *GormProductRepository) ReplaceTerms(ctx context.Context, product *catalog.Product, taxonomy catalog.Taxonomy, termIDs []int64) error {
	var terms []catalog.Term
	if len(termIDs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("taxonomy = ? AND id IN ?", taxonomy, termIDs).
			Find(&terms).Error; err != nil {
			return err
		}
	}

	assoc := "Categories"
	if taxonomy == catalog.TaxonomyTag {
		assoc = "Tags"
	}
	return r.db.WithContext(ctx).Model(product).Association(assoc).Replace(terms)
}

// FindLowStock lists published, stock-managed, in-stock products whose
// quantity is at or below the threshold, ascending by quantity then id.
func (r *GormProductRepository) FindLowStock(ctx context.Context, threshold int64, filter shared.Filter) ([]catalog.Product, int64, error) {
	base := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("status = ?", catalog.ProductStatusPublish).
		Where("manage_stock = ?", true).
		Where("stock_status = ?", catalog.StockStatusInStock).
		Where("stock_quantity IS NOT NULL").
		Where("stock_quantity <= ?", threshold)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Order("stock_quantity ASC, id ASC")
	if filter.Paged() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var products []catalog.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Paged() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "exclude_status":
			query = query.Where("status <> ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "stock_status":
			query = query.Where("stock_status = ?", value)
		case "manage_stock":
			query = query.Where("manage_stock = ?", value)
		}
	}

	return query
}
