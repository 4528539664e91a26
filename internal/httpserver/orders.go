package httpserver

import (
	"net/http"

	"onlinestore/internal/domain"
	ordersvc "onlinestore/internal/service/order"
	"github.com/gin-gonic/gin"
)

type statusUpdateRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

func checkoutHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := pathUUID(c, "cartId")
		if !ok {
			return
		}
		order, err := svc.Checkout(c.Request.Context(), cartID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func getOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		order, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func listOrdersHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
	}
}

// updateOrderStatusHandler is the plain status-update path: it writes the
// status directly and performs no restock.
func updateOrderStatusHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var req statusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := svc.UpdateStatus(c.Request.Context(), id, req.Status, req.Comment)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
