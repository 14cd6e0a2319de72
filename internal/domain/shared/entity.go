package shared

import "time"

// Entity is the base for all persisted entities. IDs are numeric and
// assigned by the database, matching the identifiers exposed over the API.
type Entity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Touch updates the modification timestamp
func (e *Entity) Touch() {
	e.UpdatedAt = time.Now()
}
