package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fashionsmith/fashionsmith-api/internal/dashboard"
	"github.com/fashionsmith/fashionsmith-api/internal/httpx"
	"github.com/fashionsmith/fashionsmith-api/internal/order"
	"github.com/fashionsmith/fashionsmith-api/internal/user"
)

// dashboardHandler godoc
// @Summary Caller's overview stats
// @Tags dashboard
// @Produce json
// @Success 200 {object} dashboard.Stats
// @Router /dashboard [get]
func dashboardHandler(repo dashboard.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := repo.StatsFor(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func dashQuery(c *gin.Context) dashboard.Query {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return dashboard.Query{
		Status: order.Status(c.Query("status")),
		Q:      c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}
}

func ordersPage(c *gin.Context, repo dashboard.Repository, userID string) {
	q := dashQuery(c)
	if q.Status != "" && !order.ValidStatus(q.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}
	items, err := repo.Orders(c.Request.Context(), userID, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}
	views := make([]orderView, 0, len(items))
	for _, o := range items {
		views = append(views, viewOf(o))
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

// dashboardOrdersHandler godoc
// @Summary Caller's orders, filterable and paginated
// @Tags dashboard
// @Produce json
// @Param status query string false "order status filter"
// @Param q query string false "garment search"
// @Router /dashboard/orders [get]
func dashboardOrdersHandler(repo dashboard.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ordersPage(c, repo, httpx.UserID(c))
	}
}

func adminOrdersHandler(repo dashboard.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ordersPage(c, repo, c.Query("user_id"))
	}
}

func adminUsersHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		items, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list users"})
			return
		}
		profiles := make([]user.Profile, 0, len(items))
		for i := range items {
			profiles = append(profiles, items[i].Profile())
		}
		c.JSON(http.StatusOK, gin.H{"items": profiles})
	}
}
