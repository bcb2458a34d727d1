package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxIngredientNameLength = 100

// IngredientService manages the ingredient catalogue
type IngredientService struct {
	store *repository.Store
	log   *zap.Logger
}

func NewIngredientService(store *repository.Store, log *zap.Logger) *IngredientService {
	return &IngredientService{store: store, log: log}
}

// IngredientPatch carries the optional fields of an ingredient update
type IngredientPatch struct {
	Name  *string
	Price *decimal.Decimal
}

// validatePrice rejects negative prices and rounds the rest to cents, the
// scale of every price column
func validatePrice(field string, price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, validationError("%s cannot be less than 0", field)
	}
	return price.Round(2), nil
}

func (s *IngredientService) Create(ctx context.Context, name string, price decimal.Decimal) (*models.Ingredient, error) {
	name, err := validateName("Ingredient name", name, maxIngredientNameLength)
	if err != nil {
		return nil, err
	}
	price, err = validatePrice("Ingredient price", price)
	if err != nil {
		return nil, err
	}

	taken, err := s.store.Ingredients.NameTaken(ctx, name, 0)
	if err != nil {
		return nil, fmt.Errorf("check ingredient name: %w", err)
	}
	if taken {
		return nil, conflictError("INGREDIENT_EXISTS", "Ingredient %q already exists", name)
	}

	ingredient := &models.Ingredient{Name: name, Price: price}
	if err := s.store.Ingredients.Create(ctx, ingredient); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, conflictError("INGREDIENT_EXISTS", "Ingredient %q already exists", name)
		}
		return nil, fmt.Errorf("create ingredient: %w", err)
	}
	return ingredient, nil
}

func (s *IngredientService) Update(ctx context.Context, id uint, patch IngredientPatch) (*models.Ingredient, error) {
	if err := validateID("Ingredient id", id); err != nil {
		return nil, err
	}
	if patch.Name == nil && patch.Price == nil {
		return nil, validationError("Nothing to update")
	}

	ingredient, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name, err := validateName("Ingredient name", *patch.Name, maxIngredientNameLength)
		if err != nil {
			return nil, err
		}
		taken, err := s.store.Ingredients.NameTaken(ctx, name, id)
		if err != nil {
			return nil, fmt.Errorf("check ingredient name: %w", err)
		}
		if taken {
			return nil, conflictError("INGREDIENT_EXISTS", "Ingredient %q already exists", name)
		}
		ingredient.Name = name
	}
	if patch.Price != nil {
		price, err := validatePrice("Ingredient price", *patch.Price)
		if err != nil {
			return nil, err
		}
		ingredient.Price = price
	}

	if err := s.store.Ingredients.Save(ctx, ingredient); err != nil {
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	return ingredient, nil
}

// Delete removes an ingredient no recipe uses
func (s *IngredientService) Delete(ctx context.Context, id uint) error {
	if err := validateID("Ingredient id", id); err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Ingredients.FindByID(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return ErrIngredientNotFound
			}
			return err
		}
		used, err := tx.Ingredients.CountRecipeUsage(ctx, id)
		if err != nil {
			return err
		}
		if used > 0 {
			return ErrIngredientInUse
		}
		return tx.Ingredients.Delete(ctx, id)
	})
}

func (s *IngredientService) GetByID(ctx context.Context, id uint) (*models.Ingredient, error) {
	if err := validateID("Ingredient id", id); err != nil {
		return nil, err
	}
	ingredient, err := s.store.Ingredients.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("find ingredient: %w", err)
	}
	return ingredient, nil
}

func (s *IngredientService) GetByName(ctx context.Context, name string) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("Ingredient name is required")
	}
	ingredient, err := s.store.Ingredients.FindByName(ctx, name)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("find ingredient: %w", err)
	}
	return ingredient, nil
}

func (s *IngredientService) List(ctx context.Context) ([]models.Ingredient, error) {
	ingredients, err := s.store.Ingredients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return ingredients, nil
}
