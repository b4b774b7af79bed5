package main

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/fashionsmith/fashionsmith-api/internal/httpx"
	"github.com/fashionsmith/fashionsmith-api/internal/order"
	"github.com/fashionsmith/fashionsmith-api/internal/payment"
)

// initializePaymentHandler godoc
// @Summary Start a checkout attempt for an order
// @Tags payments
// @Accept json
// @Produce json
// @Param body body payment.InitializeInput true "payment details"
// @Success 200 {object} payment.CheckoutSession
// @Failure 400 {object} product.HTTPError
// @Router /payments/initialize [post]
func initializePaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in payment.InitializeInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cs, err := svc.Initialize(c.Request.Context(), httpx.UserID(c), in)
		if err != nil {
			switch {
			case errors.Is(err, payment.ErrInvalidAmount),
				errors.Is(err, payment.ErrAmountMismatch):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, order.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			case errors.Is(err, payment.ErrNotYourOrder):
				c.JSON(http.StatusForbidden, gin.H{"error": "not your order"})
			case errors.Is(err, payment.ErrOrderNotPayable):
				c.JSON(http.StatusConflict, gin.H{"error": "order is not awaiting payment"})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": "payment could not be initialized"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"authorization_url": cs.AuthorizationURL,
			"reference":         cs.Reference,
			"amount":            cs.Amount,
			"currency":          cs.Currency,
		})
	}
}

// verifyPaymentHandler godoc
// @Summary Verify a checkout attempt by reference
// @Tags payments
// @Produce json
// @Success 200 {object} payment.Result
// @Failure 404 {object} product.HTTPError
// @Router /payments/verify/{reference} [get]
func verifyPaymentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Verify(c.Request.Context(), c.Param("reference"))
		if err != nil {
			if errors.Is(err, payment.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown or expired payment reference"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "verification failed, try again"})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// paymentCallbackHandler is where the gateway redirects the shopper after
// the hosted page. It settles the attempt and bounces to the storefront.
func paymentCallbackHandler(svc *payment.Service, frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference := c.Query("reference")
		if reference == "" {
			reference = c.Query("trxref")
		}
		target := frontendURL + "/payment/complete"
		if reference == "" {
			c.Redirect(http.StatusFound, target+"?status=failed")
			return
		}
		res, err := svc.Verify(c.Request.Context(), reference)
		if err != nil {
			log.Error().Err(err).Str("reference", reference).Msg("callback verify")
			c.Redirect(http.StatusFound, target+"?status=failed&reference="+url.QueryEscape(reference))
			return
		}
		status := "failed"
		if res.Status == order.PaymentPaid {
			status = "success"
		}
		c.Redirect(http.StatusFound, target+"?status="+status+"&reference="+url.QueryEscape(reference))
	}
}

func paymentWebhookHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const maxBodyBytes = int64(65536)
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		sig := c.GetHeader("x-paystack-signature")
		if err := svc.HandleWebhook(c.Request.Context(), body, sig); err != nil {
			if errors.Is(err, payment.ErrBadSignature) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "bad signature"})
				return
			}
			log.Error().Err(err).Msg("webhook processing")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook processing failed"})
			return
		}
		c.Status(http.StatusOK)
	}
}
