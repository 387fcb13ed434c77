package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationType string

const (
	LocationTypePlant     LocationType = "plant"
	LocationTypeSector    LocationType = "sector"
	LocationTypeLine      LocationType = "line"
	LocationTypeEquipment LocationType = "equipment"
	LocationTypeComponent LocationType = "component"
	LocationTypeArea      LocationType = "area"
)

func (t LocationType) Valid() bool {
	switch t {
	case LocationTypePlant, LocationTypeSector, LocationTypeLine,
		LocationTypeEquipment, LocationTypeComponent, LocationTypeArea:
		return true
	}
	return false
}

// PathSeparator joins location names in a full path, root first.
const PathSeparator = " > "

// Location is one node of the physical-asset hierarchy
// (plant > sector > line > equipment > component).
//
// ParentID is a lookup key, never a loaded back-pointer: children are
// derived from the parent_id index, so the in-memory graph stays acyclic
// even though the table is self-referential.
type Location struct {
	BaseUUIDModel
	Name        string       `gorm:"type:text;not null"             json:"name" validate:"required"`
	Code        string       `gorm:"type:text;uniqueIndex;not null" json:"code" validate:"required"`
	Type        LocationType `gorm:"type:text;not null;index:idx_locations_type" json:"type" validate:"required"`
	ParentID    *uuid.UUID   `gorm:"type:uuid;index:idx_locations_parent" json:"parentId,omitempty"`
	Description string       `gorm:"type:text"                      json:"description"`
	IsActive    bool         `gorm:"type:bool;default:true;index:idx_locations_active" json:"isActive"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if err := l.EnsureID(); err != nil {
		return err
	}
	if l.Name == "" || l.Code == "" {
		return gorm.ErrInvalidValue
	}
	if !l.Type.Valid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

// LocationNode is a Location plus its nested active children, used by the
// tree endpoint.
type LocationNode struct {
	Location
	Children []*LocationNode `json:"children"`
}
