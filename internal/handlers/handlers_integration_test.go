package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"productstore/internal/handlers"
	"productstore/internal/repositories"
	"productstore/internal/services"
)

// setupApp builds a Fiber app backed by the in-memory repository.
func setupApp() *fiber.App {
	repo := repositories.NewMemoryProductRepository()
	service := services.NewProductService(repo, nil)
	handler := handlers.NewProductHandler(service)

	app := fiber.New()
	app.Get("/health", handlers.HandleHealthCheck)
	app.Get("/", handlers.HandleIndex)

	apiV1 := app.Group("/api/v1")
	handler.RegisterRoutes(apiV1)

	return app
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	resp.Body.Close()
	return data
}

func decodeJSONList(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()
	var data []map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	resp.Body.Close()
	return data
}

func validProductBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Fedora",
		"description": "A red hat",
		"price":       "12.50",
		"available":   true,
		"category":    "CLOTHS",
	}
}

// createProduct posts a product and returns its assigned id.
func createProduct(t *testing.T, app *fiber.App, body map[string]interface{}) int {
	t.Helper()
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products", body), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "could not create test product")
	created := decodeJSON(t, resp)
	return int(created["id"].(float64))
}

func TestHealthEndpoint(t *testing.T) {
	app := setupApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, "OK", body["message"])
}

func TestIndexEndpoint(t *testing.T) {
	app := setupApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, "Product Catalog REST API Service", body["name"])
}

func TestCreateProduct(t *testing.T) {
	app := setupApp()

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products", validProductBody()), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "/api/v1/products/1", resp.Header.Get("Location"))

	created := decodeJSON(t, resp)
	assert.Equal(t, float64(1), created["id"])
	assert.Equal(t, "Fedora", created["name"])
	assert.Equal(t, "A red hat", created["description"])
	assert.Equal(t, "12.50", created["price"])
	assert.Equal(t, true, created["available"])
	assert.Equal(t, "CLOTHS", created["category"])
}

func TestCreateProductKeepsPriceExact(t *testing.T) {
	app := setupApp()

	// A numeric JSON price must not pick up float rounding noise.
	body := bytes.NewBufferString(`{"name":"Wrench","description":"Adjustable","price":19.99,"available":true,"category":"TOOLS"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeJSON(t, resp)
	assert.Equal(t, "19.99", created["price"])
}

func TestCreateProductIgnoresClientID(t *testing.T) {
	app := setupApp()

	body := validProductBody()
	body["id"] = 999

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products", body), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeJSON(t, resp)
	assert.Equal(t, float64(1), created["id"])
}

func TestCreateProductMissingName(t *testing.T) {
	app := setupApp()

	body := validProductBody()
	delete(body, "name")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products", body), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errBody := decodeJSON(t, resp)
	assert.Contains(t, errBody["error"], "name")
}

func TestCreateProductEmptyName(t *testing.T) {
	app := setupApp()

	body := validProductBody()
	body["name"] = ""

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products", body), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateProductNameTooLong(t *testing.T) {
	app := setupApp()

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	body := validProductBody()
	body["name"] = string(long)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products", body), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateProductAvailableNotBoolean(t *testing.T) {
	app := setupApp()

	body := validProductBody()
	body["available"] = "yes"

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products", body), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errBody := decodeJSON(t, resp)
	assert.Contains(t, errBody["error"], "available")
}

func TestCreateProductUnknownCategory(t *testing.T) {
	app := setupApp()

	body := validProductBody()
	body["category"] = "SPACESHIP"

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/v1/products", body), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errBody := decodeJSON(t, resp)
	assert.Contains(t, errBody["error"], "SPACESHIP")
}

func TestCreateProductNoContentType(t *testing.T) {
	app := setupApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString("{}"))
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestCreateProductNullBody(t *testing.T) {
	app := setupApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewBufferString("null"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errBody := decodeJSON(t, resp)
	assert.Contains(t, errBody["error"], "bad or no data")
}

func TestGetProduct(t *testing.T) {
	app := setupApp()
	id := createProduct(t, app, validProductBody())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", id), nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, "Fedora", body["name"])
}

func TestGetProductNotFound(t *testing.T) {
	app := setupApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/42", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProduct(t *testing.T) {
	app := setupApp()
	id := createProduct(t, app, validProductBody())

	update := map[string]interface{}{
		"name":        "Panama hat",
		"description": "A straw hat",
		"price":       "24.00",
		"available":   false,
		"category":    "CLOTHS",
	}
	resp, err := app.Test(jsonRequest(http.MethodPut, fmt.Sprintf("/api/v1/products/%d", id), update), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, float64(id), body["id"])
	assert.Equal(t, "Panama hat", body["name"])
	assert.Equal(t, "24.00", body["price"])
	assert.Equal(t, false, body["available"])
}

func TestUpdateProductNotFound(t *testing.T) {
	app := setupApp()

	resp, err := app.Test(jsonRequest(http.MethodPut, "/api/v1/products/42", validProductBody()), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateProductInvalidBody(t *testing.T) {
	app := setupApp()
	id := createProduct(t, app, validProductBody())

	update := validProductBody()
	update["available"] = "true"

	resp, err := app.Test(jsonRequest(http.MethodPut, fmt.Sprintf("/api/v1/products/%d", id), update), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteProduct(t *testing.T) {
	app := setupApp()
	id := createProduct(t, app, validProductBody())

	url := fmt.Sprintf("/api/v1/products/%d", id)
	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, url, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, url, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Deleting again is still a 204.
	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, url, nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestListProducts(t *testing.T) {
	app := setupApp()
	for i := 0; i < 3; i++ {
		createProduct(t, app, validProductBody())
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeJSONList(t, resp), 3)
}

func TestListProductsByName(t *testing.T) {
	app := setupApp()
	createProduct(t, app, validProductBody())

	other := validProductBody()
	other["name"] = "Wrench"
	other["category"] = "TOOLS"
	createProduct(t, app, other)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/name/Wrench", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	results := decodeJSONList(t, resp)
	assert.Len(t, results, 1)
	assert.Equal(t, "Wrench", results[0]["name"])
}

func TestListProductsByCategory(t *testing.T) {
	app := setupApp()
	for i := 0; i < 2; i++ {
		createProduct(t, app, validProductBody())
	}

	// The path value is upper-cased before the lookup.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/category/cloths", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeJSONList(t, resp), 2)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/category/UNKNOWN", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeJSONList(t, resp))
}

func TestListProductsByInvalidCategory(t *testing.T) {
	app := setupApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/category/spaceship", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListProductsByAvailability(t *testing.T) {
	app := setupApp()
	for i := 0; i < 5; i++ {
		body := validProductBody()
		body["available"] = i%2 == 0
		createProduct(t, app, body)
	}

	for _, value := range []string{"true", "yes", "1", "YES"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/availability/"+value, nil), -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		results := decodeJSONList(t, resp)
		assert.Len(t, results, 3, "value %s", value)
		for _, r := range results {
			assert.Equal(t, true, r["available"])
		}
	}

	// Anything else coerces to false.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/availability/maybe", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeJSONList(t, resp), 2)
}

func TestListProductsByPrice(t *testing.T) {
	app := setupApp()
	createProduct(t, app, validProductBody())

	dear := validProductBody()
	dear["price"] = "19.99"
	createProduct(t, app, dear)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/price/19.99", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	results := decodeJSONList(t, resp)
	assert.Len(t, results, 1)
	assert.Equal(t, "19.99", results[0]["price"])
}

func TestListProductsByInvalidPrice(t *testing.T) {
	app := setupApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products/price/expensive", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
