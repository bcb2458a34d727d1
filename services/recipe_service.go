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

// RecipeLineInput describes one ingredient of a dish
type RecipeLineInput struct {
	IngredientID uint
	Quantity     decimal.Decimal
	Unit         models.Unit
}

func (in RecipeLineInput) validate() error {
	if err := validateID("Ingredient id", in.IngredientID); err != nil {
		return err
	}
	if !in.Quantity.IsPositive() {
		return validationError("Quantity must be greater than 0")
	}
	if in.Unit != models.UnitGram && in.Unit != models.UnitKilo {
		return validationError("Unit must be Gram or Kilo")
	}
	return nil
}

// DishCostReport is the outcome of the pricing operations for one dish
type DishCostReport struct {
	DishID           uint             `json:"dish_id"`
	Price            decimal.Decimal  `json:"price"`
	Cost             decimal.Decimal  `json:"cost"`
	RecommendedPrice *decimal.Decimal `json:"recommended_price,omitempty"`
	Evaluation       PriceBand        `json:"evaluation,omitempty"`
}

// RecipeService manages recipe lines and dish pricing
type RecipeService struct {
	store *repository.Store
	log   *zap.Logger
}

func NewRecipeService(store *repository.Store, log *zap.Logger) *RecipeService {
	return &RecipeService{store: store, log: log}
}

func (s *RecipeService) requireDish(ctx context.Context, store *repository.Store, dishID uint) (*models.Dish, error) {
	if err := validateID("Dish id", dishID); err != nil {
		return nil, err
	}
	dish, err := store.Dishes.FindByID(ctx, dishID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrDishNotFound
		}
		return nil, fmt.Errorf("find dish: %w", err)
	}
	return dish, nil
}

// Add puts one ingredient on a dish's recipe
func (s *RecipeService) Add(ctx context.Context, dishID uint, in RecipeLineInput) (*models.DishIngredient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var line *models.DishIngredient
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := s.requireDish(ctx, tx, dishID); err != nil {
			return err
		}
		ingredient, err := tx.Ingredients.FindByID(ctx, in.IngredientID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrIngredientNotFound
			}
			return err
		}
		exists, err := tx.DishIngredients.Exists(ctx, dishID, in.IngredientID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateRecipeLine
		}

		line = &models.DishIngredient{
			DishID:       dishID,
			IngredientID: in.IngredientID,
			Quantity:     in.Quantity,
			Unit:         in.Unit,
		}
		if err := tx.DishIngredients.Create(ctx, line); err != nil {
			if repository.IsDuplicateKey(err) {
				return ErrDuplicateRecipeLine
			}
			return err
		}
		line.Ingredient = ingredient
		return nil
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// AddMany adds the lines not yet on the recipe and returns how many were added.
// Lines for ingredients already present, or repeated in the input, are skipped.
func (s *RecipeService) AddMany(ctx context.Context, dishID uint, inputs []RecipeLineInput) (int, error) {
	if len(inputs) == 0 {
		return 0, validationError("At least one ingredient is required")
	}
	for _, in := range inputs {
		if err := in.validate(); err != nil {
			return 0, err
		}
	}

	added := 0
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := s.requireDish(ctx, tx, dishID); err != nil {
			return err
		}
		lines, err := newRecipeLines(ctx, tx, dishID, inputs)
		if err != nil {
			return err
		}
		if err := tx.DishIngredients.CreateMany(ctx, lines); err != nil {
			return err
		}
		added = len(lines)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// newRecipeLines checks that every ingredient exists and drops lines the
// dish already has
func newRecipeLines(ctx context.Context, tx *repository.Store, dishID uint, inputs []RecipeLineInput) ([]models.DishIngredient, error) {
	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.IngredientID)
	}
	ingredients, err := tx.Ingredients.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	existing, err := tx.DishIngredients.IngredientIDsForDish(ctx, dishID)
	if err != nil {
		return nil, err
	}

	var lines []models.DishIngredient
	for _, in := range inputs {
		if _, ok := ingredients[in.IngredientID]; !ok {
			return nil, notFoundError("INGREDIENT_NOT_FOUND", "Ingredient %d not found", in.IngredientID)
		}
		if existing[in.IngredientID] {
			continue
		}
		existing[in.IngredientID] = true
		lines = append(lines, models.DishIngredient{
			DishID:       dishID,
			IngredientID: in.IngredientID,
			Quantity:     in.Quantity,
			Unit:         in.Unit,
		})
	}
	return lines, nil
}

// Update changes quantity and/or unit of an existing line
func (s *RecipeService) Update(ctx context.Context, dishID, ingredientID uint, quantity *decimal.Decimal, unit *models.Unit) (*models.DishIngredient, error) {
	if quantity == nil && unit == nil {
		return nil, validationError("Nothing to update")
	}
	line, err := s.Get(ctx, dishID, ingredientID)
	if err != nil {
		return nil, err
	}
	if quantity != nil {
		line.Quantity = *quantity
	}
	if unit != nil {
		line.Unit = *unit
	}
	check := RecipeLineInput{IngredientID: ingredientID, Quantity: line.Quantity, Unit: line.Unit}
	if err := check.validate(); err != nil {
		return nil, err
	}

	if err := s.store.DishIngredients.Update(ctx, line); err != nil {
		return nil, fmt.Errorf("update dish ingredient: %w", err)
	}
	return line, nil
}

func (s *RecipeService) Delete(ctx context.Context, dishID, ingredientID uint) error {
	if _, err := s.Get(ctx, dishID, ingredientID); err != nil {
		return err
	}
	if err := s.store.DishIngredients.Delete(ctx, dishID, ingredientID); err != nil {
		return fmt.Errorf("delete dish ingredient: %w", err)
	}
	return nil
}

func (s *RecipeService) Get(ctx context.Context, dishID, ingredientID uint) (*models.DishIngredient, error) {
	if err := validateID("Dish id", dishID); err != nil {
		return nil, err
	}
	if err := validateID("Ingredient id", ingredientID); err != nil {
		return nil, err
	}
	line, err := s.store.DishIngredients.Find(ctx, dishID, ingredientID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRecipeLineNotFound
		}
		return nil, fmt.Errorf("find dish ingredient: %w", err)
	}
	return line, nil
}

func (s *RecipeService) List(ctx context.Context) ([]models.DishIngredient, error) {
	lines, err := s.store.DishIngredients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dish ingredients: %w", err)
	}
	return lines, nil
}

// ListByDish returns the recipe of a dish
func (s *RecipeService) ListByDish(ctx context.Context, dishID uint) ([]models.DishIngredient, error) {
	if _, err := s.requireDish(ctx, s.store, dishID); err != nil {
		return nil, err
	}
	lines, err := s.store.DishIngredients.ListByDish(ctx, dishID)
	if err != nil {
		return nil, fmt.Errorf("list recipe: %w", err)
	}
	return lines, nil
}

// DishesUsingIngredient returns every dish whose recipe contains the ingredient
func (s *RecipeService) DishesUsingIngredient(ctx context.Context, ingredientID uint) ([]models.Dish, error) {
	if err := validateID("Ingredient id", ingredientID); err != nil {
		return nil, err
	}
	lines, err := s.store.DishIngredients.ListByIngredient(ctx, ingredientID)
	if err != nil {
		return nil, fmt.Errorf("list dishes by ingredient: %w", err)
	}
	dishes := make([]models.Dish, 0, len(lines))
	for _, line := range lines {
		if line.Dish != nil {
			dishes = append(dishes, *line.Dish)
		}
	}
	return dishes, nil
}

// EventualIngredientCost prices a prospective quantity of an ingredient
func (s *RecipeService) EventualIngredientCost(ctx context.Context, ingredientID uint, quantity decimal.Decimal) (decimal.Decimal, error) {
	if err := validateID("Ingredient id", ingredientID); err != nil {
		return decimal.Zero, err
	}
	if !quantity.IsPositive() {
		return decimal.Zero, validationError("Quantity must be greater than 0")
	}
	ingredient, err := s.store.Ingredients.FindByID(ctx, ingredientID)
	if err != nil {
		if repository.IsNotFound(err) {
			return decimal.Zero, ErrIngredientNotFound
		}
		return decimal.Zero, fmt.Errorf("find ingredient: %w", err)
	}
	return ingredient.Price.Mul(quantity), nil
}

// Cost returns the ingredient cost of a dish
func (s *RecipeService) Cost(ctx context.Context, dishID uint) (*DishCostReport, error) {
	dish, err := s.requireDish(ctx, s.store, dishID)
	if err != nil {
		return nil, err
	}
	lines, err := s.store.DishIngredients.ListByDish(ctx, dishID)
	if err != nil {
		return nil, fmt.Errorf("list recipe: %w", err)
	}
	return &DishCostReport{DishID: dish.ID, Price: dish.Price, Cost: DishCost(lines)}, nil
}

// RecommendedPrice returns max(price, cost × margin) for a dish
func (s *RecipeService) RecommendedPrice(ctx context.Context, dishID uint) (*DishCostReport, error) {
	report, err := s.Cost(ctx, dishID)
	if err != nil {
		return nil, err
	}
	recommended, err := RecommendedPrice(report.Price, report.Cost)
	if err != nil {
		s.log.Warn("recommended price unavailable", zap.Uint("dish_id", dishID))
		return nil, err
	}
	report.RecommendedPrice = &recommended
	return report, nil
}

// EvaluatePrice classifies the stored price of a dish against its cost
func (s *RecipeService) EvaluatePrice(ctx context.Context, dishID uint) (*DishCostReport, error) {
	report, err := s.Cost(ctx, dishID)
	if err != nil {
		return nil, err
	}
	if report.Price.IsZero() {
		s.log.Warn("dish has no price to evaluate", zap.Uint("dish_id", dishID))
		return nil, ErrPriceUnavailable
	}
	report.Evaluation = EvaluatePrice(report.Price, report.Cost)
	return report, nil
}

func (s *RecipeService) HasIngredient(ctx context.Context, dishID, ingredientID uint) (bool, error) {
	if err := validateID("Dish id", dishID); err != nil {
		return false, err
	}
	if err := validateID("Ingredient id", ingredientID); err != nil {
		return false, err
	}
	ok, err := s.store.DishIngredients.Exists(ctx, dishID, ingredientID)
	if err != nil {
		return false, fmt.Errorf("check dish ingredient: %w", err)
	}
	return ok, nil
}

func (s *RecipeService) HasIngredientByName(ctx context.Context, dishID uint, name string) (bool, error) {
	if err := validateID("Dish id", dishID); err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false, validationError("Ingredient name is required")
	}
	ok, err := s.store.DishIngredients.ExistsByIngredientName(ctx, dishID, name)
	if err != nil {
		return false, fmt.Errorf("check dish ingredient: %w", err)
	}
	return ok, nil
}
