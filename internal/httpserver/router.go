package httpserver

import (
	"log"

	adminsvc "onlinestore/internal/service/admin"
	cartsvc "onlinestore/internal/service/cart"
	catalogsvc "onlinestore/internal/service/catalog"
	ordersvc "onlinestore/internal/service/order"
	usersvc "onlinestore/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps bundles the services the router needs.
type Deps struct {
	CatalogSvc *catalogsvc.Service
	CartSvc    *cartsvc.Service
	OrderSvc   *ordersvc.Service
	AdminSvc   *adminsvc.Service
	UserSvc    *usersvc.Service
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())
	router.Use(identityMiddleware())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:id", getProductHandler(deps.CatalogSvc))
	router.POST("/products", createProductHandler(deps.CatalogSvc))
	router.PUT("/products/:id", updateProductHandler(deps.CatalogSvc))
	router.DELETE("/products/:id", deleteProductHandler(deps.CatalogSvc))

	router.GET("/carts/:userId", getCartHandler(deps.CartSvc))
	router.DELETE("/carts/:userId/clear", clearCartHandler(deps.CartSvc))
	router.POST("/carts/items", addCartItemHandler(deps.CartSvc))
	router.PUT("/carts/items", updateCartItemHandler(deps.CartSvc))
	router.DELETE("/carts/items/:id", removeCartItemHandler(deps.CartSvc))

	router.POST("/orders/cart/:cartId/checkout", checkoutHandler(deps.OrderSvc))
	router.GET("/orders", listOrdersHandler(deps.OrderSvc))
	router.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
	router.PUT("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))

	admin := router.Group("/admin", requireAdmin())
	admin.PUT("/orders/:cartId/approve", approveOrderHandler(deps.OrderSvc))
	admin.PUT("/orders/:cartId/reject", rejectOrderHandler(deps.OrderSvc))
	admin.PUT("/orders/:cartId/comment", commentOrderHandler(deps.AdminSvc))
	admin.GET("/orders/stats", statsHandler(deps.AdminSvc))
	admin.GET("/orders/:cartId/with-comment", orderWithCommentHandler(deps.AdminSvc))

	router.POST("/users", registerUserHandler(deps.UserSvc))
	router.POST("/users/authenticate", authenticateUserHandler(deps.UserSvc))
	router.GET("/users/:id", getUserHandler(deps.UserSvc))

	return router
}
