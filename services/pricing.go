package services

import (
	"strings"

	"github.com/kendall-kelly/pizzeria-api/models"
	"github.com/shopspring/decimal"
)

const (
	// MinBonusPoints is the redemption and eligibility threshold
	MinBonusPoints = 100
	// BonusPointsPerOrder is credited to premium users for each paid order without redemption
	BonusPointsPerOrder = 10
	// PizzaDiscountMinUnits is the number of pizza units that triggers the premium discount
	PizzaDiscountMinUnits = 3
)

var (
	// ProfitMargin is the markup applied to ingredient cost
	ProfitMargin = decimal.RequireFromString("1.2")
	// PizzaDiscountRate is taken off the total of qualifying premium orders
	PizzaDiscountRate = decimal.RequireFromString("0.2")
)

// PriceBand classifies a dish price against its ingredient cost
type PriceBand string

const (
	PriceTooLow    PriceBand = "TooLow"
	PriceJustRight PriceBand = "JustRight"
	PriceTooHigh   PriceBand = "TooHigh"
)

// DishCost sums ingredient price × quantity over the recipe lines.
// Lines must have their Ingredient loaded.
func DishCost(lines []models.DishIngredient) decimal.Decimal {
	cost := decimal.Zero
	for _, line := range lines {
		cost = cost.Add(line.Cost())
	}
	return cost
}

// RecommendedPrice returns max(price, cost × margin). Both inputs must be non-zero.
func RecommendedPrice(price, cost decimal.Decimal) (decimal.Decimal, error) {
	if price.IsZero() || cost.IsZero() {
		return decimal.Zero, ErrPriceUnavailable
	}
	return decimal.Max(price, cost.Mul(ProfitMargin)), nil
}

// EvaluatePrice places price into its band relative to cost
func EvaluatePrice(price, cost decimal.Decimal) PriceBand {
	switch {
	case price.LessThan(cost):
		return PriceTooLow
	case price.GreaterThan(cost.Mul(ProfitMargin)):
		return PriceTooHigh
	}
	return PriceJustRight
}

// PizzaUnits counts the units on items whose dish is in the pizza category.
// Items need Dish.Category loaded; deleted dishes never count.
func PizzaUnits(items []models.OrderItem) int {
	units := 0
	for _, item := range items {
		if item.Dish == nil || item.Dish.Category == nil {
			continue
		}
		if strings.EqualFold(item.Dish.Category.Name, models.PizzaCategoryName) {
			units += item.Quantity
		}
	}
	return units
}

// ApplyPizzaDiscount takes PizzaDiscountRate off total, never going below zero
func ApplyPizzaDiscount(total decimal.Decimal) decimal.Decimal {
	discounted := total.Sub(total.Mul(PizzaDiscountRate)).Round(2)
	return decimal.Max(decimal.Zero, discounted)
}

// CanRedeemBonus reports whether a balance is high enough to redeem at payment
func CanRedeemBonus(points int) bool {
	return points > MinBonusPoints
}

// BonusEligible reports whether a user can use their bonus right now
func BonusEligible(user *models.User, hasPendingOrder bool) bool {
	return user.IsPremium() && user.BonusPoints >= MinBonusPoints && hasPendingOrder
}
