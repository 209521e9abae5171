package routes

import (
	"github.com/reazulhasan44/MangoRestaurent/services/payment-service/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterPaymentRoutes(r *gin.Engine, pc *controllers.PaymentController) {
	payments := r.Group("/payments")
	{
		payments.POST("/webhook/stripe", pc.StripeWebhook)
		payments.GET("/order/:orderID", pc.GetPaymentByOrderID)
	}
}
