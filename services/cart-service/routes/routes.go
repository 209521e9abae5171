package routes

import (
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/config"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/controllers"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/database"
	"github.com/reazulhasan44/MangoRestaurent/services/cart-service/services"
	"github.com/reazulhasan44/MangoRestaurent/services/common/messagebus"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func RegisterCartRoutes(
	r *gin.Engine,
	redisClient *redis.Client,
	db *gorm.DB,
	bus messagebus.MessageBus,
	cfg config.Config,
	logger *zap.Logger,
) {
	carts := database.NewCartRepository(redisClient, cfg.CartTTL)
	coupons := database.NewGormCouponRepository(db)
	checkout := services.NewCheckoutService(carts, coupons, bus, cfg.CheckoutTopic, logger)
	controller := controllers.NewCartController(carts, checkout, logger)

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
}
