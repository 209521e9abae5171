package controllers

import (
	"net/http"
	"strconv"

	apperrors "github.com/reazulhasan44/MangoRestaurent/services/common/errors"
	"github.com/reazulhasan44/MangoRestaurent/services/order-service/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderController serves the read API. Failures are attached to the gin
// context and rendered by the shared error middleware.
type OrderController struct {
	Repo   repository.OrderRepository
	Logger *zap.Logger
}

func NewOrderController(repo repository.OrderRepository, logger *zap.Logger) *OrderController {
	return &OrderController{Repo: repo, Logger: logger}
}

// GetOrders returns the caller's orders, newest first, paginated.
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.Error(apperrors.ErrUnauthorized)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := oc.Repo.FindByUserID(c.Request.Context(), userID, page, limit)
	if err != nil {
		oc.Logger.Error("failed to list orders", zap.String("user_id", userID), zap.Error(err))
		c.Error(apperrors.New(http.StatusInternalServerError, "failed to list orders", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  orders,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetOrderByID returns one of the caller's orders.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.Error(apperrors.ErrUnauthorized)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperrors.New(http.StatusBadRequest, "invalid order id", err))
		return
	}

	order, err := oc.Repo.FindByID(c.Request.Context(), orderID)
	if err != nil || order.UserID != userID {
		c.Error(apperrors.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": order})
}
