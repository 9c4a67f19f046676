package main

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HANSBIANDJI/bksmell/internal/apperr"
	"github.com/HANSBIANDJI/bksmell/internal/httpx"
	"github.com/HANSBIANDJI/bksmell/internal/payment"
)

type createIntentRequest struct {
	OrderID string      `json:"orderId"`
	Amount  json.Number `json:"amount"`
}

// createPaymentIntentHandler godoc
// @Summary  Create a payment intent for an order
// @Accept   json
// @Produce  json
// @Success  200 {object} payment.IntentResult
// @Router   /payments/intent [post]
func createPaymentIntentHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortWithError(c, apperr.Validation("invalid json body"))
			return
		}
		res, err := svc.CreateIntent(c.Request.Context(), req.OrderID, req.Amount.String())
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// paymentWebhookHandler verifies and reconciles processor deliveries.
// The raw body must reach the verifier untouched, so no binding here.
func paymentWebhookHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			httpx.AbortWithError(c, apperr.Validation("unreadable body"))
			return
		}
		if err := svc.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

// paymentStatusHandler godoc
// @Summary  Get a payment's status
// @Produce  json
// @Param    id path string true "payment id"
// @Success  200 {object} payment.Payment
// @Router   /payments/{id}/status [get]
func paymentStatusHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.GetStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// paymentMethodsHandler godoc
// @Summary  List available payment methods
// @Produce  json
// @Success  200 {array} payment.Method
// @Router   /payments/methods [get]
func paymentMethodsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, payment.Methods())
	}
}
