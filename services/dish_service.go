package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Dish listing filters accepted by List
const (
	DishFilterLowPrice  = 1
	DishFilterHighPrice = 2
	DishFilterNone      = 3
)

const (
	maxDishNameLength        = 50
	maxDishDescriptionLength = 100
)

// NewDishInput describes a dish to add, optionally with its recipe
type NewDishInput struct {
	Name        string
	Price       decimal.Decimal
	Description *string
	CategoryID  uint
	Ingredients []RecipeLineInput
}

// DishPatch carries the optional fields of a dish update
type DishPatch struct {
	Name        *string
	Price       *decimal.Decimal
	Description *string
	CategoryID  *uint
}

// DishDeletion summarises what deleting a dish did to existing orders
type DishDeletion struct {
	DishID         uint   `json:"dish_id"`
	RemovedItems   int    `json:"removed_items"`
	DetachedItems  int    `json:"detached_items"`
	AffectedOrders []uint `json:"affected_orders"`
}

// DishService manages dishes on the menu
type DishService struct {
	store  *repository.Store
	cache  CatalogCache
	images ImageService
	events EventPublisher
	log    *zap.Logger
}

// NewDishService builds the dish service. images may be nil when object
// storage is not configured.
func NewDishService(store *repository.Store, cache CatalogCache, images ImageService, events EventPublisher, log *zap.Logger) *DishService {
	return &DishService{store: store, cache: cache, images: images, events: events, log: log}
}

func validateDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	d := strings.TrimSpace(*description)
	if len(d) > maxDishDescriptionLength {
		return nil, validationError("Dish description cannot exceed %d characters", maxDishDescriptionLength)
	}
	if d == "" {
		return nil, nil
	}
	return &d, nil
}

// Create adds a dish and its recipe lines in one transaction
func (s *DishService) Create(ctx context.Context, in NewDishInput) (*models.Dish, error) {
	name, err := validateName("Dish name", in.Name, maxDishNameLength)
	if err != nil {
		return nil, err
	}
	price, err := validatePrice("Dish price", in.Price)
	if err != nil {
		return nil, err
	}
	if err := validateID("Category id", in.CategoryID); err != nil {
		return nil, err
	}
	description, err := validateDescription(in.Description)
	if err != nil {
		return nil, err
	}
	for _, line := range in.Ingredients {
		if err := line.validate(); err != nil {
			return nil, err
		}
	}

	dish := &models.Dish{
		Name:        name,
		Price:       price,
		Description: description,
		CategoryID:  in.CategoryID,
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		category, err := tx.Categories.FindByID(ctx, in.CategoryID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrCategoryNotFound
			}
			return err
		}
		taken, err := tx.Dishes.NameTaken(ctx, name, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflictError("DISH_EXISTS", "Dish %q already exists", name)
		}
		if err := tx.Dishes.Create(ctx, dish); err != nil {
			if repository.IsDuplicateKey(err) {
				return conflictError("DISH_EXISTS", "Dish %q already exists", name)
			}
			return err
		}
		dish.Category = category

		if len(in.Ingredients) == 0 {
			return nil
		}
		lines, err := newRecipeLines(ctx, tx, dish.ID, in.Ingredients)
		if err != nil {
			return err
		}
		if err := tx.DishIngredients.CreateMany(ctx, lines); err != nil {
			return err
		}
		dish.Ingredients, err = tx.DishIngredients.ListByDish(ctx, dish.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, dish.ID)
	return dish, nil
}

// Update applies a partial change to a dish. Existing order items keep their
// price snapshot.
func (s *DishService) Update(ctx context.Context, id uint, patch DishPatch) (*models.Dish, error) {
	if err := validateID("Dish id", id); err != nil {
		return nil, err
	}
	if patch.Name == nil && patch.Price == nil && patch.Description == nil && patch.CategoryID == nil {
		return nil, validationError("Nothing to update")
	}

	var dish *models.Dish
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		dish, err = tx.Dishes.FindByIDForUpdate(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrDishNotFound
			}
			return err
		}

		if patch.Name != nil {
			name, err := validateName("Dish name", *patch.Name, maxDishNameLength)
			if err != nil {
				return err
			}
			taken, err := tx.Dishes.NameTaken(ctx, name, id)
			if err != nil {
				return err
			}
			if taken {
				return conflictError("DISH_EXISTS", "Dish %q already exists", name)
			}
			dish.Name = name
		}
		if patch.Price != nil {
			price, err := validatePrice("Dish price", *patch.Price)
			if err != nil {
				return err
			}
			dish.Price = price
		}
		if patch.Description != nil {
			description, err := validateDescription(patch.Description)
			if err != nil {
				return err
			}
			dish.Description = description
		}
		if patch.CategoryID != nil {
			if err := validateID("Category id", *patch.CategoryID); err != nil {
				return err
			}
			if _, err := tx.Categories.FindByID(ctx, *patch.CategoryID); err != nil {
				if repository.IsNotFound(err) {
					return ErrCategoryNotFound
				}
				return err
			}
			dish.CategoryID = *patch.CategoryID
		}

		if err := tx.Dishes.Save(ctx, dish); err != nil {
			return err
		}
		dish, err = tx.Dishes.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return dish, nil
}

// Delete removes a dish. Items on pending orders are dropped and the order
// totals reduced; items on any other order keep their snapshot and are marked
// as referring to a deleted dish. Recipe lines go, then the dish row.
func (s *DishService) Delete(ctx context.Context, id uint) (*DishDeletion, error) {
	if err := validateID("Dish id", id); err != nil {
		return nil, err
	}

	result := &DishDeletion{DishID: id, AffectedOrders: []uint{}}
	var imageKey *string

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		dish, err := tx.Dishes.FindByIDForUpdate(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrDishNotFound
			}
			return err
		}
		imageKey = dish.ImageKey

		items, err := tx.OrderItems.ListByDish(ctx, id)
		if err != nil {
			return err
		}

		// Lock every referenced order in id order before reading its status
		orderIDs := make([]uint, 0)
		seen := make(map[uint]bool)
		for _, item := range items {
			if !seen[item.OrderID] {
				seen[item.OrderID] = true
				orderIDs = append(orderIDs, item.OrderID)
			}
		}
		sort.Slice(orderIDs, func(i, j int) bool { return orderIDs[i] < orderIDs[j] })

		pending := make(map[uint]bool, len(orderIDs))
		for _, orderID := range orderIDs {
			order, err := tx.Orders.FindByIDForUpdate(ctx, orderID)
			if err != nil {
				return err
			}
			pending[orderID] = order.Status == models.OrderStatusPending
		}

		var removeIDs, detachIDs []uint
		decrements := make(map[uint]decimal.Decimal)
		for _, item := range items {
			if pending[item.OrderID] {
				removeIDs = append(removeIDs, item.ID)
				decrements[item.OrderID] = decrements[item.OrderID].Add(item.LineTotal())
				continue
			}
			detachIDs = append(detachIDs, item.ID)
		}

		for _, orderID := range orderIDs {
			amount, ok := decrements[orderID]
			if !ok {
				continue
			}
			if err := tx.Orders.AdjustTotal(ctx, orderID, amount.Neg()); err != nil {
				return err
			}
			result.AffectedOrders = append(result.AffectedOrders, orderID)
		}

		if err := tx.OrderItems.DeleteByIDs(ctx, removeIDs); err != nil {
			return err
		}
		if err := tx.OrderItems.MarkDishDeleted(ctx, detachIDs, dish.Name); err != nil {
			return err
		}
		if err := tx.DishIngredients.DeleteByDish(ctx, id); err != nil {
			return err
		}
		if err := tx.Dishes.Delete(ctx, id); err != nil {
			return err
		}

		result.RemovedItems = len(removeIDs)
		result.DetachedItems = len(detachIDs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if imageKey != nil && s.images != nil {
		if err := s.images.DeleteImage(ctx, *imageKey); err != nil {
			s.log.Warn("failed to delete dish image", zap.Uint("dish_id", id), zap.Error(err))
		}
	}
	s.invalidate(ctx, id)
	publishEvent(ctx, s.events, s.log, Event{
		Type:   EventDishDeleted,
		DishID: id,
		Data: map[string]interface{}{
			"removed_items":   result.RemovedItems,
			"detached_items":  result.DetachedItems,
			"affected_orders": result.AffectedOrders,
		},
	})
	return result, nil
}

// List returns the menu ordered by the given filter
func (s *DishService) List(ctx context.Context, filter int) ([]models.Dish, error) {
	if filter == 0 {
		filter = DishFilterNone
	}
	var sortBy repository.DishSort
	switch filter {
	case DishFilterLowPrice:
		sortBy = repository.DishSortPriceAsc
	case DishFilterHighPrice:
		sortBy = repository.DishSortPriceDesc
	case DishFilterNone:
		sortBy = repository.DishSortByName
	default:
		return nil, validationError("Filter must be 1 (low price), 2 (high price) or 3 (none)")
	}

	key := dishListCacheKey(filter)
	var dishes []models.Dish
	hit, err := s.cache.Get(ctx, key, &dishes)
	if err != nil {
		s.log.Warn("dish cache read failed", zap.Error(err))
	}
	if hit {
		return dishes, nil
	}

	dishes, err = s.store.Dishes.List(ctx, sortBy)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	if err := s.cache.Set(ctx, key, dishes); err != nil {
		s.log.Warn("dish cache write failed", zap.Error(err))
	}
	return dishes, nil
}

func (s *DishService) ListByCategory(ctx context.Context, categoryID uint) ([]models.Dish, error) {
	if err := validateID("Category id", categoryID); err != nil {
		return nil, err
	}
	if _, err := s.store.Categories.FindByID(ctx, categoryID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	dishes, err := s.store.Dishes.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list dishes by category: %w", err)
	}
	return dishes, nil
}

// SearchByName returns dishes whose name contains term
func (s *DishService) SearchByName(ctx context.Context, term string) ([]models.Dish, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validationError("Dish name is required")
	}
	dishes, err := s.store.Dishes.SearchByName(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search dishes: %w", err)
	}
	return dishes, nil
}

// GetByID returns one dish, served from the cache when possible
func (s *DishService) GetByID(ctx context.Context, id uint) (*models.Dish, error) {
	if err := validateID("Dish id", id); err != nil {
		return nil, err
	}

	var dish models.Dish
	hit, err := s.cache.Get(ctx, dishCacheKey(id), &dish)
	if err != nil {
		s.log.Warn("dish cache read failed", zap.Error(err))
	}
	if hit {
		return &dish, nil
	}

	found, err := s.store.Dishes.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("find dish: %w", err)
	}
	if err := s.cache.Set(ctx, dishCacheKey(id), found); err != nil {
		s.log.Warn("dish cache write failed", zap.Error(err))
	}
	return found, nil
}

func (s *DishService) GetByName(ctx context.Context, name string) (*models.Dish, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("Dish name is required")
	}
	dish, err := s.store.Dishes.FindByName(ctx, name)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("find dish: %w", err)
	}
	return dish, nil
}

// UploadImage stores a new photo for a dish and replaces the previous one
func (s *DishService) UploadImage(ctx context.Context, id uint, fileHeader *multipart.FileHeader) (*models.Dish, error) {
	if s.images == nil {
		return nil, ErrImageStorageDisabled
	}
	if err := validateID("Dish id", id); err != nil {
		return nil, err
	}

	dish, err := s.store.Dishes.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("find dish: %w", err)
	}

	key, err := s.images.UploadDishImage(ctx, id, fileHeader)
	if err != nil {
		return nil, err
	}
	if err := s.store.Dishes.SetImageKey(ctx, id, &key); err != nil {
		if delErr := s.images.DeleteImage(ctx, key); delErr != nil {
			s.log.Warn("failed to clean up uploaded image", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("save image key: %w", err)
	}

	if dish.ImageKey != nil && *dish.ImageKey != key {
		if err := s.images.DeleteImage(ctx, *dish.ImageKey); err != nil {
			s.log.Warn("failed to delete replaced image", zap.String("key", *dish.ImageKey), zap.Error(err))
		}
	}
	dish.ImageKey = &key

	url, err := s.images.GetImageURL(ctx, key)
	if err != nil {
		s.log.Warn("failed to generate image URL", zap.String("key", key), zap.Error(err))
	} else {
		dish.ImageURL = &url
	}

	s.invalidate(ctx, id)
	return dish, nil
}

// ImageURL returns a presigned link to the dish photo
func (s *DishService) ImageURL(ctx context.Context, id uint) (string, error) {
	if s.images == nil {
		return "", ErrImageStorageDisabled
	}
	dish, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if dish.ImageKey == nil {
		return "", notFoundError("IMAGE_NOT_FOUND", "Dish has no image")
	}
	return s.images.GetImageURL(ctx, *dish.ImageKey)
}

func (s *DishService) invalidate(ctx context.Context, dishIDs ...uint) {
	if err := s.cache.Delete(ctx, menuCacheKeys(dishIDs...)...); err != nil {
		s.log.Warn("menu cache invalidation failed", zap.Error(err))
	}
}
