package routes

import (
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterOrderRoutes(r *gin.Engine, controller *controllers.OrderController) {
	orders := r.Group("/orders")
	{
		orders.GET("/", controller.GetOrders)
		orders.GET("/:id", controller.GetOrderByID)
	}
}
