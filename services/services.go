// Package services holds the pizzeria business rules. Services validate
// input, run multi-row changes inside repository transactions and return
// *ServiceError for expected failures.
package services

import (
	"github.com/kendall-kelly/pizzeria-api/config"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"go.uber.org/zap"
)

// Dependencies are the collaborators shared by the services. Cache, Events
// and Images may be left nil.
type Dependencies struct {
	Store    *repository.Store
	Config   *config.Config
	Cache    CatalogCache
	Events   EventPublisher
	Images   ImageService
	Receipts ReceiptGenerator
	Logger   *zap.Logger
}

// Services bundles every service used by the HTTP layer
type Services struct {
	Categories  *CategoryService
	Dishes      *DishService
	Ingredients *IngredientService
	Recipes     *RecipeService
	Orders      *OrderService
	OrderItems  *OrderItemService
	Users       *UserService
	Tokens      *TokenService
}

func New(deps Dependencies) *Services {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cache := deps.Cache
	if cache == nil {
		cache = NoopCatalogCache{}
	}
	events := deps.Events
	if events == nil {
		events = NewLogEventPublisher(log)
	}
	receipts := deps.Receipts
	if receipts == nil {
		receipts = QRReceiptGenerator{BaseURL: deps.Config.ReceiptBaseURL}
	}

	tokens := NewTokenService(deps.Config)
	return &Services{
		Categories:  NewCategoryService(deps.Store, cache, log),
		Dishes:      NewDishService(deps.Store, cache, deps.Images, events, log),
		Ingredients: NewIngredientService(deps.Store, log),
		Recipes:     NewRecipeService(deps.Store, log),
		Orders:      NewOrderService(deps.Store, events, receipts, log),
		OrderItems:  NewOrderItemService(deps.Store, log),
		Users:       NewUserService(deps.Store, tokens, log),
		Tokens:      tokens,
	}
}
