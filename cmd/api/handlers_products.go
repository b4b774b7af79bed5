package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fashionsmith/fashionsmith-api/internal/product"
)

// listProductsHandler godoc
// @Summary Browse the garment catalog
// @Tags products
// @Produce json
// @Param q query string false "search text"
// @Param category query string false "garment category"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} product.ListResponse
// @Router /products [get]
func listProductsHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		q := product.Query{
			Q:        c.Query("q"),
			Category: c.Query("category"),
			Limit:    limit,
			Offset:   offset,
		}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
			return
		}
		q.Clamp()
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, product.ListResponse{
			Q: q.Q, Category: q.Category, Limit: q.Limit, Offset: q.Offset, Items: items,
		})
	}
}

func getProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func parsePrice(s string) (string, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.LessThanOrEqual(decimal.Zero) {
		return "", errors.New("price must be a positive number")
	}
	return d.StringFixed(2), nil
}

func createProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		price, err := parsePrice(req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p := &product.Product{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       price,
			ImageURL:    req.ImageURL,
			Active:      true,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create product"})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		p := &product.Product{
			ID:          c.Param("id"),
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			ImageURL:    req.ImageURL,
		}
		updatePrice := false
		if req.Price != "" {
			price, err := parsePrice(req.Price)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			p.Price = price
			updatePrice = true
		}
		if err := repo.Update(c.Request.Context(), p, updatePrice, req.Active); err != nil {
			if errors.Is(err, product.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update product"})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteProductHandler(repo product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete product"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
