package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HANSBIANDJI/bksmell/internal/apperr"
	"github.com/HANSBIANDJI/bksmell/internal/httpx"
	"github.com/HANSBIANDJI/bksmell/internal/order"
)

// createOrderHandler godoc
// @Summary  Create an order from the cart
// @Accept   json
// @Produce  json
// @Param    order body order.CreateOrderRequest true "checkout payload"
// @Success  201 {object} order.Order
// @Router   /orders [post]
func createOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortWithError(c, apperr.Validation("invalid json body"))
			return
		}
		o, err := svc.Create(c.Request.Context(), httpx.UserID(c), req)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// listOrdersHandler godoc
// @Summary  List all orders (admin)
// @Produce  json
// @Success  200 {array} order.Order
// @Router   /orders [get]
func listOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		out, err := svc.List(c.Request.Context(), limit, offset)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// getOrderHandler godoc
// @Summary  Get one order with items, address and payment
// @Produce  json
// @Param    id path string true "order id"
// @Success  200 {object} order.Order
// @Router   /orders/{id} [get]
func getOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// updateOrderStatusHandler godoc
// @Summary  Update order status (admin)
// @Accept   json
// @Produce  json
// @Param    id path string true "order id"
// @Param    status body order.UpdateStatusRequest true "new status"
// @Success  200 {object} order.Order
// @Router   /orders/{id}/status [patch]
func updateOrderStatusHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortWithError(c, apperr.Validation("invalid json body"))
			return
		}
		o, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// cancelOrderHandler godoc
// @Summary  Cancel an order
// @Produce  json
// @Param    id path string true "order id"
// @Success  200 {object} order.Order
// @Router   /orders/{id}/cancel [post]
func cancelOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.Cancel(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
