package acceptance

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

// OrderAcceptanceTestSuite plays out a dinner order from menu to receipt
type OrderAcceptanceTestSuite struct {
	suite.Suite
	server     *server
	adminToken string
	customer   string
	pizzaCat   float64
	dishes     map[string]float64
}

func (suite *OrderAcceptanceTestSuite) SetupTest() {
	t := suite.T()
	suite.server = newServer(t, nil)

	_, err := suite.server.svc.Users.SeedAdmin(t.Context(), "admin", "admin@pizzeria.test", "admin-password")
	suite.Require().NoError(err)
	suite.adminToken = suite.login("admin", "admin-password")

	suite.pizzaCat = suite.adminCreate("/api/Category/AddCategory", map[string]interface{}{"name": "Pizza"})
	dessertCat := suite.adminCreate("/api/Category/AddCategory", map[string]interface{}{"name": "Desserts"})
	suite.dishes = map[string]float64{
		"Margherita": suite.adminCreate("/api/Dish/AddDish", map[string]interface{}{"name": "Margherita", "price": "9.50", "category_id": suite.pizzaCat}),
		"Capricciosa": suite.adminCreate("/api/Dish/AddDish", map[string]interface{}{
			"name": "Capricciosa", "price": "12.25", "category_id": suite.pizzaCat, "description": "Ham, mushrooms, artichokes",
		}),
		"Tiramisu": suite.adminCreate("/api/Dish/AddDish", map[string]interface{}{"name": "Tiramisu", "price": "5.75", "category_id": dessertCat}),
	}

	resp, result := suite.server.makeRequest(t, http.MethodPost, "/api/PizzeriaUser/Register", map[string]interface{}{
		"username": "hungry", "email": "hungry@pizzeria.test", "password": "pepperoni",
	}, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode, "%v", result)
	suite.customer = suite.login("hungry", "pepperoni")
}

func (suite *OrderAcceptanceTestSuite) login(username, password string) string {
	resp, result := suite.server.makeRequest(suite.T(), http.MethodPost, "/api/PizzeriaUser/Login",
		map[string]interface{}{"username": username, "password": password}, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode, "%v", result)
	return dataOf(suite.T(), result)["token"].(string)
}

func (suite *OrderAcceptanceTestSuite) adminCreate(path string, body map[string]interface{}) float64 {
	resp, result := suite.server.makeRequest(suite.T(), http.MethodPost, path, body, suite.adminToken)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, "%s: %v", path, result)
	return dataOf(suite.T(), result)["id"].(float64)
}

func (suite *OrderAcceptanceTestSuite) TestBrowseMenu() {
	t := suite.T()

	resp, result := suite.server.makeRequest(t, http.MethodGet, "/api/Dish/GetAllDishes", nil, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Len(result["data"], 3)

	resp, result = suite.server.makeRequest(t, http.MethodGet, fmt.Sprintf("/api/Dish/GetDishesByCategoryId?category_id=%v", suite.pizzaCat), nil, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Len(result["data"], 2)

	resp, result = suite.server.makeRequest(t, http.MethodGet, "/api/Dish/GetDishesByName?name=tira", nil, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Len(result["data"], 1)

	resp, result = suite.server.makeRequest(t, http.MethodGet, "/api/Category/GetCategoryByName?name=PIZZA", nil, "")
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(suite.pizzaCat, dataOf(t, result)["id"])
}

func (suite *OrderAcceptanceTestSuite) TestDinnerOrderToReceipt() {
	t := suite.T()

	resp, result := suite.server.makeRequest(t, http.MethodPost, "/api/Order/CreateOrder", nil, suite.customer)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	orderID := dataOf(t, result)["id"]

	for name, qty := range map[string]int{"Margherita": 1, "Capricciosa": 2, "Tiramisu": 2} {
		resp, result = suite.server.makeRequest(t, http.MethodPost, "/api/OrderItem/AddOneOrderItem",
			map[string]interface{}{"order_id": orderID, "dish_id": suite.dishes[name], "quantity": qty}, suite.customer)
		suite.Require().Equal(http.StatusOK, resp.StatusCode, "%s: %v", name, result)
		suite.Equal(name, dataOf(t, result)["dish_name"])
	}

	// a price change after ordering does not reprice the snapshot
	resp, _ = suite.server.makeRequest(t, http.MethodPut, "/api/Dish/UpdateDish",
		map[string]interface{}{"id": suite.dishes["Tiramisu"], "price": "6.25"}, suite.adminToken)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, result = suite.server.makeRequest(t, http.MethodGet, "/api/Order/GetMyPendingOrder", nil, suite.customer)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("45.5", dataOf(t, result)["total_price"])

	resp, result = suite.server.makeRequest(t, http.MethodPost, "/api/Order/SetOrderPaid",
		map[string]interface{}{"order_id": orderID, "amount_paid": "45.50"}, suite.customer)
	suite.Require().Equal(http.StatusOK, resp.StatusCode, "%v", result)
	suite.Equal("45.5", dataOf(t, result)["total_price"], "regular customers get no pizza discount")

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/Order/GetOrderReceiptQR?order_id=%v", suite.server.URL, orderID), nil)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+suite.customer)
	qrResp, err := suite.server.Client().Do(req)
	suite.Require().NoError(err)
	defer qrResp.Body.Close()

	suite.Require().Equal(http.StatusOK, qrResp.StatusCode)
	suite.Equal("image/png", qrResp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(qrResp.Body)
	suite.Require().NoError(err)
	img, err := png.Decode(bytes.NewReader(raw))
	suite.Require().NoError(err)
	suite.Greater(img.Bounds().Dx(), 0)

	resp, result = suite.server.makeRequest(t, http.MethodGet, "/api/PizzeriaUser/GetUsersByOrderStatus?status=Paid", nil, suite.adminToken)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Len(result["data"], 1)
}

func (suite *OrderAcceptanceTestSuite) TestChangeOfMind() {
	t := suite.T()

	resp, result := suite.server.makeRequest(t, http.MethodPost, "/api/Order/CreateOrder", nil, suite.customer)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	orderID := dataOf(t, result)["id"]

	resp, result = suite.server.makeRequest(t, http.MethodPost, "/api/OrderItem/AddOneOrderItem",
		map[string]interface{}{"order_id": orderID, "dish_id": suite.dishes["Margherita"], "quantity": 1}, suite.customer)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	itemID := dataOf(t, result)["id"]

	resp, _ = suite.server.makeRequest(t, http.MethodDelete, fmt.Sprintf("/api/OrderItem/DeleteOrderItem?id=%v", itemID), nil, suite.customer)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, result = suite.server.makeRequest(t, http.MethodGet, "/api/Order/GetMyPendingOrder", nil, suite.customer)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("0", dataOf(t, result)["total_price"])

	resp, result = suite.server.makeRequest(t, http.MethodPut, "/api/Order/CancelOrder",
		map[string]interface{}{"order_id": orderID}, suite.customer)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	cancelled := dataOf(t, result)
	suite.Equal("Cancelled", cancelled["status"])
	suite.NotEmpty(cancelled["cancellation_reason"])
	suite.NotNil(cancelled["cancelled_at"])

	// a new order can be opened once the old one is cancelled
	resp, _ = suite.server.makeRequest(t, http.MethodPost, "/api/Order/CreateOrder", nil, suite.customer)
	suite.Equal(http.StatusOK, resp.StatusCode)

	resp, result = suite.server.makeRequest(t, http.MethodGet, "/api/Order/GetMyOrders", nil, suite.customer)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Len(result["data"], 2)
}

func TestOrderAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderAcceptanceTestSuite))
}
