package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"onlinestore/internal/comments"
	"onlinestore/internal/config"
	"onlinestore/internal/db"
	"onlinestore/internal/httpserver"
	cartrepo "onlinestore/internal/repository/cart"
	productrepo "onlinestore/internal/repository/product"
	userrepo "onlinestore/internal/repository/user"
	adminsvc "onlinestore/internal/service/admin"
	cartsvc "onlinestore/internal/service/cart"
	catalogsvc "onlinestore/internal/service/catalog"
	ordersvc "onlinestore/internal/service/order"
	usersvc "onlinestore/internal/service/user"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	// The comment store is process-scoped: advisory admin notes do not
	// survive a restart.
	commentStore := comments.NewStore()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)

	catalogService := catalogsvc.New(productRepo)
	cartService := cartsvc.New(cartRepo, productRepo)
	orderService := ordersvc.New(cartRepo, commentStore)
	adminService := adminsvc.New(cartRepo, orderService, commentStore)
	userService := usersvc.New(userRepo, cartRepo)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc: catalogService,
		CartSvc:    cartService,
		OrderSvc:   orderService,
		AdminSvc:   adminService,
		UserSvc:    userService,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
