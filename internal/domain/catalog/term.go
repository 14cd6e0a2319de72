package catalog

import "github.com/storemanager/backend/internal/domain/shared"

// Taxonomy identifies the classification a term belongs to
type Taxonomy string

const (
	TaxonomyCategory Taxonomy = "category"
	TaxonomyTag      Taxonomy = "tag"
)

// Term is a category or tag that products can be assigned to
type Term struct {
	shared.Entity
	Name     string   `gorm:"type:varchar(200);not null"`
	Slug     string   `gorm:"type:varchar(200);not null;uniqueIndex:idx_term_taxonomy_slug,priority:2"`
	Taxonomy Taxonomy `gorm:"type:varchar(20);not null;uniqueIndex:idx_term_taxonomy_slug,priority:1"`
}

// TableName returns the table name for GORM
func (Term) TableName() string {
	return "terms"
}
