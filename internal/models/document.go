package models

import (
	"time"

	"gamescope/app/internal/backend"

	"gorm.io/datatypes"
)

// Document is a stored document. The composite primary key (Collection, ID)
// keeps IDs unique per collection only.
type Document struct {
	Collection string            `gorm:"primaryKey;size:64"`
	ID         string            `gorm:"primaryKey;size:64"`
	Data       datatypes.JSONMap `gorm:"not null"`
	CreatedAt  time.Time         `gorm:"index"`
	UpdatedAt  time.Time
}

// ToBackend converts the stored row to the wire shape.
func (d Document) ToBackend() backend.Document {
	data := make(map[string]any, len(d.Data))
	for k, v := range d.Data {
		data[k] = v
	}
	return backend.Document{
		ID:         d.ID,
		Collection: d.Collection,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		Data:       data,
	}
}
