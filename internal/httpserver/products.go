package httpserver

import (
	"net/http"
	"strconv"

	"onlinestore/internal/domain"
	productrepo "onlinestore/internal/repository/product"
	catalogsvc "onlinestore/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

func listProductsHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := productrepo.ListFilter{
			Search:     c.Query("q"),
			InStock:    c.Query("inStock") == "true",
			SortBy:     c.DefaultQuery("sortBy", "id"),
			Descending: c.Query("desc") == "true",
		}
		if v := c.Query("minPrice"); v != "" {
			cents, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minPrice"})
				return
			}
			filter.MinPriceCents = &cents
		}
		if v := c.Query("maxPrice"); v != "" {
			cents, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxPrice"})
				return
			}
			filter.MaxPriceCents = &cents
		}
		switch filter.SortBy {
		case "id", "name", "price":
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "sortBy must be one of id, name, price"})
			return
		}

		products, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		if products == nil {
			products = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
	}
}

func getProductHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		p, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func createProductHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalogsvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		p, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Location", "/products/"+p.ID)
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		var in catalogsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		p, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(svc *catalogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathUUID(c, "id")
		if !ok {
			return
		}
		deleted, err := svc.Delete(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}
