package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"upkeep/internal/logger"
	. "upkeep/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxHierarchyDepth bounds every ancestor walk. Cycle prevention at write
// time should make this unreachable; hitting it means the stored tree is
// corrupt and the walk fails instead of looping.
const MaxHierarchyDepth = 64

type LocationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, location *Location) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Location, error)
	Update(ctx context.Context, tx *gorm.DB, location *Location) error
	Reparent(ctx context.Context, tx *gorm.DB, id uuid.UUID, newParentID *uuid.UUID) error
	Ancestors(ctx context.Context, tx *gorm.DB, id uuid.UUID) ([]*Location, error)
	Descendants(ctx context.Context, tx *gorm.DB, id uuid.UUID) ([]*Location, error)
	Children(ctx context.Context, tx *gorm.DB, parentID uuid.UUID) ([]*Location, error)
	Roots(ctx context.Context, tx *gorm.DB) ([]*Location, error)
	FullPath(ctx context.Context, tx *gorm.DB, id uuid.UUID) (string, error)
	Level(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	GetByType(ctx context.Context, tx *gorm.DB, locationType LocationType) ([]*Location, error)
}

type locationRepository struct {
	log logger.Logger
}

func NewLocationRepository() LocationRepository {
	return &locationRepository{
		log: logger.New("locationRepository"),
	}
}

func (r *locationRepository) Create(ctx context.Context, tx *gorm.DB, location *Location) error {
	log := r.log.Function("Create")

	taken, err := r.codeTaken(ctx, tx, location.Code, uuid.Nil)
	if err != nil {
		return log.Err("failed to check location code", err, "code", location.Code)
	}
	if taken {
		return fmt.Errorf("%w: location code %q already in use", ErrDuplicateCode, location.Code)
	}

	if location.ParentID != nil {
		parent, err := r.GetByID(ctx, tx, *location.ParentID)
		if err != nil {
			return err
		}
		if err := validateKinds(parent.Type, location.Type); err != nil {
			return err
		}
	}

	if err := tx.WithContext(ctx).Create(location).Error; err != nil {
		return log.Err("failed to create location", err, "code", location.Code)
	}

	return nil
}

func (r *locationRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Location, error) {
	log := r.log.Function("GetByID")

	var location Location
	if err := tx.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: location %s", ErrNotFound, id)
		}
		return nil, log.Err("failed to get location", err, "locationID", id)
	}

	return &location, nil
}

// getForUpdate reads a location with a row lock. Postgres emits FOR
// UPDATE; the sqlite driver used in tests drops the clause, where the
// single-writer model serializes the callers anyway.
func (r *locationRepository) getForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Location, error) {
	log := r.log.Function("getForUpdate")

	var location Location
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&location, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: location %s", ErrNotFound, id)
		}
		return nil, log.Err("failed to lock location", err, "locationID", id)
	}

	return &location, nil
}

func (r *locationRepository) Update(ctx context.Context, tx *gorm.DB, location *Location) error {
	log := r.log.Function("Update")

	taken, err := r.codeTaken(ctx, tx, location.Code, location.ID)
	if err != nil {
		return log.Err("failed to check location code", err, "code", location.Code)
	}
	if taken {
		return fmt.Errorf("%w: location code %q already in use", ErrDuplicateCode, location.Code)
	}

	if err := tx.WithContext(ctx).Save(location).Error; err != nil {
		return log.Err("failed to update location", err, "locationID", location.ID)
	}

	return nil
}

// Reparent moves a node under newParentID (nil makes it a root). It walks
// the ancestor chain of the new parent and rejects the move if the node
// itself appears there, which is the only way a cycle could form.
//
// The moved node and every node of the walk are read FOR UPDATE, so two
// concurrent moves touching the same chain serialize instead of both
// passing the check against the pre-move state.
func (r *locationRepository) Reparent(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	newParentID *uuid.UUID,
) error {
	log := r.log.Function("Reparent")

	location, err := r.getForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}

	if newParentID != nil {
		if *newParentID == id {
			return fmt.Errorf("%w: location %s cannot be its own parent", ErrCircularReference, id)
		}

		parent, err := r.getForUpdate(ctx, tx, *newParentID)
		if err != nil {
			return err
		}
		if err := validateKinds(parent.Type, location.Type); err != nil {
			return err
		}

		current := parent
		depth := 0
		for current.ParentID != nil {
			if *current.ParentID == id {
				return fmt.Errorf(
					"%w: location %s is a descendant of %s",
					ErrCircularReference, *newParentID, id,
				)
			}

			depth++
			if depth > MaxHierarchyDepth {
				return log.ErrorWithType(
					ErrCorruptHierarchy,
					"ancestor walk exceeded maximum depth",
					"locationID", *newParentID,
					"maxDepth", MaxHierarchyDepth,
				)
			}

			next, err := r.getForUpdate(ctx, tx, *current.ParentID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return fmt.Errorf(
						"%w: dangling parent %s on location %s",
						ErrCorruptHierarchy, *current.ParentID, current.ID,
					)
				}
				return err
			}
			current = next
		}
	}

	if err := tx.WithContext(ctx).
		Model(&Location{}).
		Where("id = ?", id).
		Update("parent_id", newParentID).Error; err != nil {
		return log.Err("failed to reparent location", err, "locationID", id)
	}

	return nil
}

// Ancestors returns the parent chain nearest first, empty for a root.
func (r *locationRepository) Ancestors(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) ([]*Location, error) {
	log := r.log.Function("Ancestors")

	current, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	ancestors := make([]*Location, 0)
	for current.ParentID != nil {
		if len(ancestors) >= MaxHierarchyDepth {
			return nil, log.ErrorWithType(
				ErrCorruptHierarchy,
				"ancestor walk exceeded maximum depth",
				"locationID", id,
				"maxDepth", MaxHierarchyDepth,
			)
		}

		parent, err := r.GetByID(ctx, tx, *current.ParentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, fmt.Errorf(
					"%w: dangling parent %s on location %s",
					ErrCorruptHierarchy, *current.ParentID, current.ID,
				)
			}
			return nil, err
		}

		ancestors = append(ancestors, parent)
		current = parent
	}

	return ancestors, nil
}

// Descendants returns the full transitive closure of children via an
// iterative worklist. Order is unspecified; completeness is the contract.
func (r *locationRepository) Descendants(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) ([]*Location, error) {
	log := r.log.Function("Descendants")

	if _, err := r.GetByID(ctx, tx, id); err != nil {
		return nil, err
	}

	descendants := make([]*Location, 0)
	seen := map[uuid.UUID]bool{id: true}
	worklist := []uuid.UUID{id}

	for len(worklist) > 0 {
		parentID := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		var children []*Location
		if err := tx.WithContext(ctx).
			Where("parent_id = ?", parentID).
			Find(&children).Error; err != nil {
			return nil, log.Err("failed to load children", err, "parentID", parentID)
		}

		for _, child := range children {
			if seen[child.ID] {
				return nil, fmt.Errorf(
					"%w: location %s reached twice during traversal",
					ErrCorruptHierarchy, child.ID,
				)
			}
			seen[child.ID] = true
			descendants = append(descendants, child)
			worklist = append(worklist, child.ID)
		}
	}

	return descendants, nil
}

func (r *locationRepository) Children(
	ctx context.Context,
	tx *gorm.DB,
	parentID uuid.UUID,
) ([]*Location, error) {
	log := r.log.Function("Children")

	var children []*Location
	if err := tx.WithContext(ctx).
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Order("name ASC").
		Find(&children).Error; err != nil {
		return nil, log.Err("failed to get children", err, "parentID", parentID)
	}

	return children, nil
}

func (r *locationRepository) Roots(ctx context.Context, tx *gorm.DB) ([]*Location, error) {
	log := r.log.Function("Roots")

	var roots []*Location
	if err := tx.WithContext(ctx).
		Where("parent_id IS NULL AND is_active = ?", true).
		Order("name ASC").
		Find(&roots).Error; err != nil {
		return nil, log.Err("failed to get root locations", err)
	}

	return roots, nil
}

// FullPath joins the names from the root down to the node itself.
func (r *locationRepository) FullPath(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (string, error) {
	location, err := r.GetByID(ctx, tx, id)
	if err != nil {
		return "", err
	}

	ancestors, err := r.Ancestors(ctx, tx, id)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		names = append(names, ancestors[i].Name)
	}
	names = append(names, location.Name)

	return strings.Join(names, PathSeparator), nil
}

func (r *locationRepository) Level(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (int, error) {
	ancestors, err := r.Ancestors(ctx, tx, id)
	if err != nil {
		return 0, err
	}
	return len(ancestors), nil
}

// SoftDelete deactivates a node and its entire subtree. The affected id set
// is collected before any write so the cascade applies as one batch UPDATE;
// run it inside a transaction to keep a half-deactivated subtree from ever
// being observable.
func (r *locationRepository) SoftDelete(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) error {
	log := r.log.Function("SoftDelete")

	descendants, err := r.Descendants(ctx, tx, id)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(descendants)+1)
	ids = append(ids, id)
	for _, descendant := range descendants {
		ids = append(ids, descendant.ID)
	}

	if err := tx.WithContext(ctx).
		Model(&Location{}).
		Where("id IN ?", ids).
		Update("is_active", false).Error; err != nil {
		return log.Err("failed to soft delete subtree", err, "locationID", id, "count", len(ids))
	}

	return nil
}

func (r *locationRepository) GetByType(
	ctx context.Context,
	tx *gorm.DB,
	locationType LocationType,
) ([]*Location, error) {
	log := r.log.Function("GetByType")

	var locations []*Location
	if err := tx.WithContext(ctx).
		Where("type = ? AND is_active = ?", locationType, true).
		Order("name ASC").
		Find(&locations).Error; err != nil {
		return nil, log.Err("failed to get locations by type", err, "type", locationType)
	}

	return locations, nil
}

func (r *locationRepository) codeTaken(
	ctx context.Context,
	tx *gorm.DB,
	code string,
	excludeID uuid.UUID,
) (bool, error) {
	// Codes stay unique across active and inactive nodes alike.
	var count int64
	query := tx.WithContext(ctx).Model(&Location{}).Where("code = ?", code)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// validateKinds enforces the single typing rule of the hierarchy: a
// component may only have components beneath it. Everything else is
// advisory.
func validateKinds(parentType, childType LocationType) error {
	if parentType == LocationTypeComponent && childType != LocationTypeComponent {
		return fmt.Errorf(
			"%w: a %s cannot be placed under a component",
			ErrInvalidHierarchy, childType,
		)
	}
	return nil
}
