package services

import (
	"testing"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDishCost(t *testing.T) {
	cheese := &models.Ingredient{Name: "Cheese", Price: dec("2.50")}
	tomato := &models.Ingredient{Name: "Tomato", Price: dec("0.25")}

	lines := []models.DishIngredient{
		{Quantity: dec("2"), Unit: models.UnitGram, Ingredient: cheese},
		{Quantity: dec("4"), Unit: models.UnitKilo, Ingredient: tomato},
		{Quantity: dec("9"), Unit: models.UnitGram}, // ingredient not loaded
	}

	assert.True(t, dec("6").Equal(DishCost(lines)), "got %s", DishCost(lines))
	assert.True(t, DishCost(nil).IsZero())
}

func TestRecommendedPrice(t *testing.T) {
	testCases := []struct {
		name     string
		price    string
		cost     string
		expected string
		err      error
	}{
		{"price above margin", "15", "10", "15", nil},
		{"price below margin", "11", "10", "12", nil},
		{"zero price", "0", "10", "", ErrPriceUnavailable},
		{"zero cost", "10", "0", "", ErrPriceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RecommendedPrice(dec(tc.price), dec(tc.cost))
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.True(t, dec(tc.expected).Equal(got), "got %s", got)
		})
	}
}

func TestEvaluatePrice(t *testing.T) {
	testCases := []struct {
		price    string
		expected PriceBand
	}{
		{"9.99", PriceTooLow},
		{"10", PriceJustRight},
		{"11", PriceJustRight},
		{"12", PriceJustRight},
		{"12.01", PriceTooHigh},
	}

	for _, tc := range testCases {
		t.Run(tc.price, func(t *testing.T) {
			assert.Equal(t, tc.expected, EvaluatePrice(dec(tc.price), dec("10")))
		})
	}
}

func TestPizzaUnits(t *testing.T) {
	pizza := &models.Category{Name: "pizza"}
	drinks := &models.Category{Name: "Drinks"}

	items := []models.OrderItem{
		{Quantity: 2, Dish: &models.Dish{Category: pizza}},
		{Quantity: 5, Dish: &models.Dish{Category: drinks}},
		{Quantity: 1, Dish: &models.Dish{Category: pizza}},
		{Quantity: 4, DishDeleted: true},
	}

	assert.Equal(t, 3, PizzaUnits(items))
	assert.Equal(t, 0, PizzaUnits(nil))
}

func TestApplyPizzaDiscount(t *testing.T) {
	assert.True(t, dec("40").Equal(ApplyPizzaDiscount(dec("50"))))
	assert.True(t, dec("8.79").Equal(ApplyPizzaDiscount(dec("10.99"))))
	assert.True(t, ApplyPizzaDiscount(decimal.Zero).IsZero())
}

func TestBonusRules(t *testing.T) {
	assert.False(t, CanRedeemBonus(99))
	assert.False(t, CanRedeemBonus(100))
	assert.True(t, CanRedeemBonus(101))

	testCases := []struct {
		name    string
		user    models.User
		pending bool
		want    bool
	}{
		{"premium with points and pending order", models.User{Role: models.RolePremiumUser, BonusPoints: 100}, true, true},
		{"premium without pending order", models.User{Role: models.RolePremiumUser, BonusPoints: 150}, false, false},
		{"premium below threshold", models.User{Role: models.RolePremiumUser, BonusPoints: 99}, true, false},
		{"regular user", models.User{Role: models.RoleRegularUser, BonusPoints: 500}, true, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BonusEligible(&tc.user, tc.pending))
		})
	}
}
