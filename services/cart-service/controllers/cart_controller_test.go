package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/controllers"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/database"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubCheckout struct{}

func (stubCheckout) Checkout(context.Context, string, *models.CheckoutRequest) (*models.CheckoutEvent, *services.ServiceError) {
	return &models.CheckoutEvent{}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := database.NewCartRepository(client, time.Hour)

	controller := controllers.NewCartController(repo, stubCheckout{}, zap.NewNop())

	r := gin.New()
	api := r.Group("/cart")
	{
		api.GET("/", controller.GetCart)
		api.POST("/add", controller.AddItem)
		api.DELETE("/remove/:product_id", controller.RemoveItem)
		api.DELETE("/clear", controller.ClearCart)
		api.POST("/apply-coupon", controller.ApplyCoupon)
		api.POST("/remove-coupon", controller.RemoveCoupon)
		api.POST("/checkout", controller.CheckoutCart)
	}
	return r
}

func TestCartEndpointsRejectMissingUser(t *testing.T) {
	router := newTestRouter(t)

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/cart/", ""},
		{http.MethodPost, "/cart/add", `{"product_id":"f3b4d1c8-0000-0000-0000-000000000001","quantity":1}`},
		{http.MethodDelete, "/cart/remove/f3b4d1c8-0000-0000-0000-000000000001", ""},
		{http.MethodDelete, "/cart/clear", ""},
		{http.MethodPost, "/cart/apply-coupon", `{"coupon_code":"SAVE5"}`},
		{http.MethodPost, "/cart/remove-coupon", ""},
		{http.MethodPost, "/cart/checkout", `{}`},
	}

	for _, req := range requests {
		w := httptest.NewRecorder()
		httpReq := httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
		httpReq.Header.Set("Content-Type", "application/json")
		// No X-User-ID header.
		router.ServeHTTP(w, httpReq)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s must reject anonymous callers", req.method, req.path)
	}
}
