package httpserver

import (
	"net/http"

	usersvc "onlinestore/internal/service/user"
	"github.com/gin-gonic/gin"
)

func registerUserHandler(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in usersvc.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		u, err := svc.Register(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Location", "/users/"+u.ID)
		c.JSON(http.StatusCreated, u)
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authenticateUserHandler verifies credentials for the external identity
// provider sitting in front of the service. No token is issued here.
func authenticateUserHandler(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		u, err := svc.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func getUserHandler(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		u, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
