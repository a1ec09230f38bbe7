package entity

import (
	"time"

	"gorm.io/gorm"
)

// Airport represents reference information for an airport code
type Airport struct {
	ID        uint
	Code      string
	Name      string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
