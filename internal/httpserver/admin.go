package httpserver

import (
	"net/http"

	adminsvc "onlinestore/internal/service/admin"
	ordersvc "onlinestore/internal/service/order"
	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Comment string `json:"comment"`
}

func approveOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := pathUUID(c, "cartId")
		if !ok {
			return
		}
		var req commentRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}
		order, err := svc.Approve(c.Request.Context(), cartID, req.Comment)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func rejectOrderHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := pathUUID(c, "cartId")
		if !ok {
			return
		}
		var req commentRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}
		order, err := svc.Reject(c.Request.Context(), cartID, req.Comment)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func statsHandler(svc *adminsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func orderWithCommentHandler(svc *adminsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "cartId")
		if !ok {
			return
		}
		order, err := svc.GetWithComment(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func commentOrderHandler(svc *adminsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID, ok := pathUUID(c, "cartId")
		if !ok {
			return
		}
		var req commentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := svc.Comment(c.Request.Context(), cartID, req.Comment)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
