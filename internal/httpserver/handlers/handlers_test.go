package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tradedesk-system/internal/auth"
	"tradedesk-system/internal/database/models"
	"tradedesk-system/internal/httpserver/middleware"
	"tradedesk-system/internal/services/analytics"
	"tradedesk-system/internal/services/catalog"
	"tradedesk-system/internal/services/sales"
	"tradedesk-system/internal/services/users"
)

func testRouter(t *testing.T, initKey string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	tokens := auth.NewTokenManager("test-secret")
	userSvc := users.NewService(db, tokens)

	authHandler := NewAuthHTTPHandler(userSvc)
	catalogHandler := NewCatalogHTTPHandler(catalog.NewService(db, nil))
	salesHandler := NewSalesHTTPHandler(sales.NewEngine(db))
	analyticsHandler := NewAnalyticsHTTPHandler(analytics.NewService(db, nil))
	adminHandler := NewAdminHTTPHandler(db, initKey)

	r := gin.New()
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/register", authHandler.Register)
	r.POST("/init-db", adminHandler.InitDB)

	protected := r.Group("/")
	protected.Use(middleware.JWTAuth(tokens, userSvc))
	{
		protected.GET("/products", catalogHandler.ListProducts)
		protected.POST("/products", catalogHandler.CreateProduct)
		protected.PUT("/products", catalogHandler.UpdateProduct)
		protected.DELETE("/products", catalogHandler.DeleteProduct)
		protected.GET("/sales", salesHandler.ListSales)
		protected.POST("/sales", salesHandler.CreateSale)
		protected.DELETE("/sales", salesHandler.DeleteSale)
		protected.GET("/analytics", analyticsHandler.Dashboard)
	}

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	fields := map[string]json.RawMessage{}
	_ = json.Unmarshal(w.Body.Bytes(), &fields)
	return w, fields
}

func registerAndLogin(t *testing.T, r *gin.Engine, username, role string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"abcdef","full_name":"Test User","role":%q}`, username, username, role)
	w, fields := doJSON(t, r, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var token string
	require.NoError(t, json.Unmarshal(fields["token"], &token))
	return token
}

func TestRegisterResponseShape(t *testing.T) {
	r, _ := testRouter(t, "")

	w, fields := doJSON(t, r, http.MethodPost, "/auth/register",
		"", `{"username":"newrep","email":"newrep@example.com","password":"abcdef","full_name":"New Rep"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, fields, "user")
	require.Contains(t, fields, "token")

	var user map[string]interface{}
	require.NoError(t, json.Unmarshal(fields["user"], &user))
	require.Equal(t, "sales_rep", user["role"])
	require.NotContains(t, user, "password", "password hash must never be serialized")
}

func TestRegisterValidationMessage(t *testing.T) {
	r, _ := testRouter(t, "")

	w, fields := doJSON(t, r, http.MethodPost, "/auth/register",
		"", `{"username":"ok_name","email":"ok@example.com","password":"abc12","full_name":"Some Person"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var message string
	require.NoError(t, json.Unmarshal(fields["message"], &message))
	require.Contains(t, message, "at least 6 characters")
}

func TestLoginFailureShape(t *testing.T) {
	r, _ := testRouter(t, "")

	w, fields := doJSON(t, r, http.MethodPost, "/auth/login", "", `{"username":"ghost","password":"abcdef"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, fields, "message")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := testRouter(t, "")

	w, _ := doJSON(t, r, http.MethodGet, "/products", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/products", "garbage-token", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInitDBDisabledWithoutKey(t *testing.T) {
	r, _ := testRouter(t, "")

	w, _ := doJSON(t, r, http.MethodPost, "/init-db", "", `{"key":""}`)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestInitDBKeyGuard(t *testing.T) {
	r, db := testRouter(t, "bootstrap-key")

	w, _ := doJSON(t, r, http.MethodPost, "/init-db", "", `{"key":"wrong"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/init-db", "", `{"key":"bootstrap-key"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// Seeded demo admin can log in.
	w, fields := doJSON(t, r, http.MethodPost, "/auth/login", "", `{"username":"admin","password":"demo123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, fields, "token")

	// Idempotent: a second call must not duplicate seed rows.
	var before, after int64
	require.NoError(t, db.Model(&models.Product{}).Count(&before).Error)
	w, _ = doJSON(t, r, http.MethodPost, "/init-db", "", `{"key":"bootstrap-key"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.Model(&models.Product{}).Count(&after).Error)
	require.Equal(t, before, after)
}

func TestInitDBHeaderKey(t *testing.T) {
	r, _ := testRouter(t, "bootstrap-key")

	req := httptest.NewRequest(http.MethodPost, "/init-db", nil)
	req.Header.Set("X-Init-Key", "bootstrap-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMutationsRequireIDQueryParam(t *testing.T) {
	r, _ := testRouter(t, "")
	token := registerAndLogin(t, r, "boss", "admin")

	w, fields := doJSON(t, r, http.MethodPut, "/products", token, `{"name":"Renamed"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var message string
	require.NoError(t, json.Unmarshal(fields["message"], &message))
	require.Contains(t, message, "id query parameter")

	w, _ = doJSON(t, r, http.MethodDelete, "/products?id=zero", token, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaleLifecycleOverHTTP(t *testing.T) {
	r, _ := testRouter(t, "")
	adminToken := registerAndLogin(t, r, "boss", "admin")
	repToken := registerAndLogin(t, r, "rep", "sales_rep")

	w, fields := doJSON(t, r, http.MethodPost, "/products", adminToken,
		`{"name":"Widget","cost_price":"6.00","selling_price":"10.00","stock_quantity":20}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var productID int64
	require.NoError(t, json.Unmarshal(fields["id"], &productID))

	saleBody := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2,"unit_price":"10.00"}],"discount_amount":"2.00","tax_amount":"1.00"}`, productID)
	w, fields = doJSON(t, r, http.MethodPost, "/sales", repToken, saleBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saleID int64
	require.NoError(t, json.Unmarshal(fields["id"], &saleID))
	var total string
	require.NoError(t, json.Unmarshal(fields["total_amount"], &total))
	require.Equal(t, "19", total)

	// Reps cannot delete sales.
	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/sales?id=%d", saleID), repToken, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/sales?id=%d", saleID), adminToken, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/sales?id=%d", saleID), adminToken, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
