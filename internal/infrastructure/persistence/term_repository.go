package persistence

import (
	"context"

	"github.com/storemanager/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormTermRepository implements catalog.TermRepository using GORM
type GormTermRepository struct {
	db *gorm.DB
}

// NewGormTermRepository creates a new GormTermRepository
func NewGormTermRepository(db *gorm.DB) *GormTermRepository {
	return &GormTermRepository{db: db}
}

var _ catalog.TermRepository = (*GormTermRepository)(nil)

// FindByIDs loads the terms of a taxonomy matching the given ids. Unknown
// ids are silently absent from the result; callers compare lengths.
func (r *GormTermRepository) FindByIDs(ctx context.Context, taxonomy catalog.Taxonomy, ids []int64) ([]catalog.Term, error) {
	if len(ids) == 0 {
		return []catalog.Term{}, nil
	}
	var terms []catalog.Term
	if err := r.db.WithContext(ctx).
		Where("taxonomy = ? AND id IN ?", taxonomy, ids).
		Order("id ASC").
		Find(&terms).Error; err != nil {
		return nil, err
	}
	return terms, nil
}

// FindByProduct loads the terms of a taxonomy attached to a product
func (r *GormTermRepository) FindByProduct(ctx context.Context, taxonomy catalog.Taxonomy, productID int64) ([]catalog.Term, error) {
	join := "product_categories"
	if taxonomy == catalog.TaxonomyTag {
		join = "product_tags"
	}

	var terms []catalog.Term
	if err := r.db.WithContext(ctx).
		Joins("JOIN "+join+" pt ON pt.term_id = terms.id").
		Where("pt.product_id = ? AND terms.taxonomy = ?", productID, taxonomy).
		Order("terms.name ASC").
		Find(&terms).Error; err != nil {
		return nil, err
	}
	return terms, nil
}
