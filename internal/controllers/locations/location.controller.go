package locationController

import (
	"context"
	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/logger"
	. "upkeep/internal/models"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationController struct {
	locationRepo       repositories.LocationRepository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateLocationRequest struct {
	Name        string       `json:"name"        validate:"required"`
	Code        string       `json:"code"        validate:"required"`
	Type        LocationType `json:"type"        validate:"required"`
	ParentID    *uuid.UUID   `json:"parentId,omitempty"`
	Description string       `json:"description,omitempty"`
}

type UpdateLocationRequest struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type LocationPathResponse struct {
	Path     []*Location `json:"path"`
	FullPath string      `json:"fullPath"`
	Level    int         `json:"level"`
}

type LocationControllerInterface interface {
	CreateLocation(ctx context.Context, request *CreateLocationRequest) (*Location, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, request *UpdateLocationRequest) (*Location, error)
	ReparentLocation(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) error
	DeleteLocation(ctx context.Context, id uuid.UUID) error
	GetLocation(ctx context.Context, id uuid.UUID) (*Location, error)
	GetTree(ctx context.Context) ([]*LocationNode, error)
	GetChildren(ctx context.Context, id uuid.UUID) ([]*Location, error)
	GetPath(ctx context.Context, id uuid.UUID) (*LocationPathResponse, error)
	GetByType(ctx context.Context, locationType LocationType) ([]*Location, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) LocationControllerInterface {
	return &LocationController{
		locationRepo:       repos.Location,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
		log:                logger.New("locationController"),
	}
}

func (c *LocationController) CreateLocation(
	ctx context.Context,
	request *CreateLocationRequest,
) (*Location, error) {
	log := c.log.Function("CreateLocation")

	if request.Name == "" || request.Code == "" {
		return nil, log.ErrMsg("name and code are required")
	}
	if !request.Type.Valid() {
		return nil, log.ErrMsg("invalid location type")
	}

	location := &Location{
		Name:        request.Name,
		Code:        request.Code,
		Type:        request.Type,
		ParentID:    request.ParentID,
		Description: request.Description,
		IsActive:    true,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.locationRepo.Create(ctx, tx, location)
	})
	if err != nil {
		return nil, err
	}

	return location, nil
}

func (c *LocationController) UpdateLocation(
	ctx context.Context,
	id uuid.UUID,
	request *UpdateLocationRequest,
) (*Location, error) {
	var updated *Location

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		location, err := c.locationRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if request.Name != nil {
			location.Name = *request.Name
		}
		if request.Code != nil {
			location.Code = *request.Code
		}
		if request.Description != nil {
			location.Description = *request.Description
		}
		if request.IsActive != nil {
			location.IsActive = *request.IsActive
		}

		if err := c.locationRepo.Update(ctx, tx, location); err != nil {
			return err
		}

		updated = location
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (c *LocationController) ReparentLocation(
	ctx context.Context,
	id uuid.UUID,
	newParentID *uuid.UUID,
) error {
	// The cycle check and the parent update run in one transaction, with
	// the walked rows locked, so a concurrent move cannot slip a cycle in
	// between them.
	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.locationRepo.Reparent(ctx, tx, id, newParentID)
	})
}

// DeleteLocation soft-deletes a node and its whole subtree in one
// transaction. Nothing is ever hard-deleted.
func (c *LocationController) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.locationRepo.SoftDelete(ctx, tx, id)
	})
}

func (c *LocationController) GetLocation(ctx context.Context, id uuid.UUID) (*Location, error) {
	return c.locationRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
}

// GetTree returns all active root locations with their active descendants
// nested, children sorted by name at every level.
func (c *LocationController) GetTree(ctx context.Context) ([]*LocationNode, error) {
	roots, err := c.locationRepo.Roots(ctx, c.db.SQLWithContext(ctx))
	if err != nil {
		return nil, err
	}

	tree := make([]*LocationNode, 0, len(roots))
	for _, root := range roots {
		node, err := c.buildSubtree(ctx, root, 0)
		if err != nil {
			return nil, err
		}
		tree = append(tree, node)
	}

	return tree, nil
}

func (c *LocationController) buildSubtree(
	ctx context.Context,
	location *Location,
	depth int,
) (*LocationNode, error) {
	if depth > repositories.MaxHierarchyDepth {
		return nil, ErrCorruptHierarchy
	}

	node := &LocationNode{
		Location: *location,
		Children: make([]*LocationNode, 0),
	}

	children, err := c.locationRepo.Children(ctx, c.db.SQLWithContext(ctx), location.ID)
	if err != nil {
		return nil, err
	}

	for _, child := range children {
		childNode, err := c.buildSubtree(ctx, child, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}

	return node, nil
}

func (c *LocationController) GetChildren(
	ctx context.Context,
	id uuid.UUID,
) ([]*Location, error) {
	if _, err := c.locationRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id); err != nil {
		return nil, err
	}

	return c.locationRepo.Children(ctx, c.db.SQLWithContext(ctx), id)
}

// GetPath returns the chain from the root down to the location, the joined
// path string, and the depth.
func (c *LocationController) GetPath(
	ctx context.Context,
	id uuid.UUID,
) (*LocationPathResponse, error) {
	location, err := c.locationRepo.GetByID(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	ancestors, err := c.locationRepo.Ancestors(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	path := make([]*Location, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		path = append(path, ancestors[i])
	}
	path = append(path, location)

	fullPath, err := c.locationRepo.FullPath(ctx, c.db.SQLWithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	return &LocationPathResponse{
		Path:     path,
		FullPath: fullPath,
		Level:    len(ancestors),
	}, nil
}

func (c *LocationController) GetByType(
	ctx context.Context,
	locationType LocationType,
) ([]*Location, error) {
	log := c.log.Function("GetByType")

	if !locationType.Valid() {
		return nil, log.ErrMsg("invalid location type")
	}

	return c.locationRepo.GetByType(ctx, c.db.SQLWithContext(ctx), locationType)
}
