package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartCategory struct {
	BaseUUIDModel
	Name        string `gorm:"type:text;uniqueIndex;not null" json:"name" validate:"required"`
	Description string `gorm:"type:text"                      json:"description"`
}

// Part is an inventory item. CurrentStock is only ever mutated through
// PartRepository.Consume and Restock, which adjust atomically and never
// let the counter go negative.
type Part struct {
	BaseUUIDModel
	Code         string           `gorm:"type:text;uniqueIndex;not null" json:"code" validate:"required"`
	Name         string           `gorm:"type:text;not null"             json:"name" validate:"required"`
	CategoryID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_parts_category" json:"categoryId"`
	Description  string           `gorm:"type:text"                      json:"description"`
	MinimumStock decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"minimumStock"`
	CurrentStock decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"currentStock"`
	CostPrice    *decimal.Decimal `gorm:"type:decimal(10,2)"             json:"costPrice,omitempty"`
	Supplier     *string          `gorm:"type:text"                      json:"supplier,omitempty"`

	Category *PartCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (p *Part) BeforeCreate(tx *gorm.DB) error {
	if err := p.EnsureID(); err != nil {
		return err
	}
	if p.Code == "" || p.Name == "" {
		return gorm.ErrInvalidValue
	}
	if p.CurrentStock.IsNegative() {
		return gorm.ErrInvalidValue
	}
	return nil
}

// IsLowStock reports whether the part has fallen below its minimum.
func (p *Part) IsLowStock() bool {
	return p.CurrentStock.LessThan(p.MinimumStock)
}
