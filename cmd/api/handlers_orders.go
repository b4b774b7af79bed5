package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fashionsmith/fashionsmith-api/internal/httpx"
	"github.com/fashionsmith/fashionsmith-api/internal/order"
	"github.com/fashionsmith/fashionsmith-api/internal/product"
	"github.com/fashionsmith/fashionsmith-api/internal/stream"
)

// orderView decorates an order with its display bucket so every client uses
// the same classification.
type orderView struct {
	order.Order
	Bucket order.Bucket `json:"bucket"`
}

func viewOf(o order.Order) orderView {
	return orderView{Order: o, Bucket: order.BucketFor(o.Status)}
}

// createOrderHandler godoc
// @Summary Place a tailoring order
// @Tags orders
// @Accept json
// @Produce json
// @Param body body order.CreateOrderRequest true "order details"
// @Success 201 {object} orderView
// @Failure 404 {object} product.HTTPError
// @Router /orders [post]
func createOrderHandler(orders order.Repository, products product.Repository, events stream.Producer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.DeliveryDate.Before(time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery date must be in the future"})
			return
		}
		p, err := products.GetByID(c.Request.Context(), req.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "garment not found"})
			return
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog price corrupt"})
			return
		}
		// The server owns the total; clients never send one.
		cost := price.Mul(decimal.NewFromInt(int64(req.Quantity)))

		o := &order.Order{
			ID:              uuid.NewString(),
			UserID:          httpx.UserID(c),
			ProductID:       p.ID,
			Garment:         p.Name,
			Quantity:        req.Quantity,
			Cost:            cost.StringFixed(2),
			DeliveryDate:    req.DeliveryDate,
			DeliveryAddress: req.DeliveryAddress,
			Status:          order.StatusPending,
			PaymentStatus:   order.PaymentPending,
		}
		if err := orders.Create(c.Request.Context(), o); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create order"})
			return
		}
		if err := events.Emit(c.Request.Context(), stream.Event{
			Type:    stream.EventOrderCreated,
			UserID:  o.UserID,
			OrderID: o.ID,
			Amount:  o.Cost,
			At:      time.Now().UTC(),
		}); err != nil {
			log.Error().Err(err).Str("order_id", o.ID).Msg("emit order event")
		}
		c.JSON(http.StatusCreated, viewOf(*o))
	}
}

// listOrdersHandler godoc
// @Summary Caller's orders, newest first
// @Tags orders
// @Produce json
// @Success 200 {object} map[string][]orderView
// @Router /orders [get]
func listOrdersHandler(repo order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		items, err := repo.ListByUser(c.Request.Context(), httpx.UserID(c), limit, offset)
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
}

func updateOrderStatusHandler(repo order.Repository, events stream.Producer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !order.ValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		o, err := repo.GetByID(c.Request.Context(), req.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err := repo.UpdateStatus(c.Request.Context(), req.ID, req.Status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order"})
			return
		}
		if err := events.Emit(c.Request.Context(), stream.Event{
			Type:    stream.EventOrderStatus,
			UserID:  o.UserID,
			OrderID: o.ID,
			Status:  string(req.Status),
			At:      time.Now().UTC(),
		}); err != nil {
			log.Error().Err(err).Str("order_id", o.ID).Msg("emit order event")
		}
		o.Status = req.Status
		c.JSON(http.StatusOK, viewOf(*o))
	}
}

// cancelOrderHandler lets the owner cancel while the order is still pending
// and unpaid. Anything further along needs the back office.
func cancelOrderHandler(repo order.Repository, events stream.Producer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		o, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order"})
			return
		}
		if o.UserID != httpx.UserID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
			return
		}
		if o.Status != order.StatusPending || o.PaymentStatus == order.PaymentPaid {
			c.JSON(http.StatusConflict, gin.H{"error": "order can no longer be cancelled"})
			return
		}
		if err := repo.UpdateStatus(c.Request.Context(), id, order.StatusCancelled); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not cancel order"})
			return
		}
		if err := events.Emit(c.Request.Context(), stream.Event{
			Type:    stream.EventOrderStatus,
			UserID:  o.UserID,
			OrderID: o.ID,
			Status:  string(order.StatusCancelled),
			At:      time.Now().UTC(),
		}); err != nil {
			log.Error().Err(err).Str("order_id", o.ID).Msg("emit order event")
		}
		o.Status = order.StatusCancelled
		c.JSON(http.StatusOK, viewOf(*o))
	}
}
