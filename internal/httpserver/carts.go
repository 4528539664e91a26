package httpserver

import (
	"net/http"

	cartsvc "onlinestore/internal/service/cart"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type addItemRequest struct {
	CartID    string `json:"cartId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	LineItemID string `json:"lineItemId"`
	Quantity   int    `json:"quantity"`
}

func getCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathUUID(c, "userId")
		if !ok {
			return
		}
		cart, err := svc.GetOrCreate(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart, "totalPriceCents": cart.TotalCents()})
	}
}

func addCartItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if _, err := uuid.Parse(req.CartID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cartId"})
			return
		}
		if _, err := uuid.Parse(req.ProductID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
			return
		}
		cart, err := svc.AddItem(c.Request.Context(), req.CartID, req.ProductID, req.Quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart, "totalPriceCents": cart.TotalCents()})
	}
}

func updateCartItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if _, err := uuid.Parse(req.LineItemID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lineItemId"})
			return
		}
		if err := svc.UpdateItemQuantity(c.Request.Context(), req.LineItemID, req.Quantity); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func removeCartItemHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineID, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		removed, err := svc.RemoveItem(c.Request.Context(), lineID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	}
}

func clearCartHandler(svc *cartsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := pathUUID(c, "userId")
		if !ok {
			return
		}
		cleared, err := svc.Clear(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cleared": cleared})
	}
}
