package controllers

import (
	"net/http"

	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/database"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/models"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartController struct {
	Repo     *database.CartRepository
	Checkout services.CheckoutService
	Logger   *zap.Logger
}

func NewCartController(repo *database.CartRepository, checkout services.CheckoutService, logger *zap.Logger) *CartController {
	return &CartController{
		Repo:     repo,
		Checkout: checkout,
		Logger:   logger,
	}
}

// GetCart returns the current cart for a user
func (cc *CartController) GetCart(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	cart, err := cc.Repo.GetCart(c.Request.Context(), userID)
	if err != nil {
		cc.Logger.Error("failed to get cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to get cart"})
		return
	}
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": cart})
}

// AddItem adds or updates an item in the cart
func (cc *CartController) AddItem(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}
	if item.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "quantity must be positive"})
		return
	}

	ctx := c.Request.Context()
	cart, _ := cc.Repo.GetCart(ctx, userID)
	if cart == nil {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	found := false
	for i, existing := range cart.Items {
		if existing.ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, item)
	}

	if err := cc.Repo.SaveCart(ctx, cart); err != nil {
		cc.Logger.Error("failed to save cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": cart})
}

// RemoveItem removes a specific item from the cart
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}
	productID := c.Param("product_id")
	ctx := c.Request.Context()

	cart, _ := cc.Repo.GetCart(ctx, userID)
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "cart not found"})
		return
	}

	newItems := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.ProductID.String() != productID {
			newItems = append(newItems, item)
		}
	}
	cart.Items = newItems

	if err := cc.Repo.SaveCart(ctx, cart); err != nil {
		cc.Logger.Error("failed to update cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": cart})
}

// ClearCart removes all items from the cart
func (cc *CartController) ClearCart(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	if err := cc.Repo.DeleteCart(c.Request.Context(), userID); err != nil {
		cc.Logger.Error("failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart cleared"})
}

// ApplyCoupon stores a coupon code on the cart
func (cc *CartController) ApplyCoupon(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var body struct {
		CouponCode string `json:"coupon_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	cart, err := cc.Repo.GetCart(ctx, userID)
	if err != nil || cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "cart not found"})
		return
	}

	cart.CouponCode = body.CouponCode
	if err := cc.Repo.SaveCart(ctx, cart); err != nil {
		cc.Logger.Error("failed to apply coupon", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to apply coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": cart})
}

// RemoveCoupon clears the coupon code from the cart
func (cc *CartController) RemoveCoupon(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}
	ctx := c.Request.Context()

	cart, err := cc.Repo.GetCart(ctx, userID)
	if err != nil || cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "cart not found"})
		return
	}

	cart.CouponCode = ""
	if err := cc.Repo.SaveCart(ctx, cart); err != nil {
		cc.Logger.Error("failed to remove coupon", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to remove coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": cart})
}

// CheckoutCart validates the request and hands it to the checkout service,
// which publishes the checkout event and clears the cart on success.
func (cc *CartController) CheckoutCart(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid payload"})
		return
	}

	event, svcErr := cc.Checkout.Checkout(c.Request.Context(), userID, &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"success": false, "message": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "checkout initiated",
		"result":  gin.H{"request_token": event.RequestToken},
	})
}
