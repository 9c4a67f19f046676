package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HANSBIANDJI/bksmell/internal/apperr"
	"github.com/HANSBIANDJI/bksmell/internal/httpx"
	"github.com/HANSBIANDJI/bksmell/internal/order"
	"github.com/HANSBIANDJI/bksmell/internal/user"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerHandler godoc
// @Summary  Register a new account
// @Accept   json
// @Produce  json
// @Success  201 {object} map[string]any
// @Router   /auth/register [post]
func registerHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortWithError(c, apperr.Validation("invalid json body"))
			return
		}
		u, token, err := svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
	}
}

// loginHandler godoc
// @Summary  Log in
// @Accept   json
// @Produce  json
// @Success  200 {object} map[string]any
// @Router   /auth/login [post]
func loginHandler(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortWithError(c, apperr.Validation("invalid json body"))
			return
		}
		u, token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
	}
}

// profileHandler returns the account plus its order history, newest
// first, the way the storefront's profile page consumed it.
func profileHandler(users *user.Service, orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := httpx.UserID(c)
		u, err := users.Get(c.Request.Context(), uid)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		history, err := orders.ListByUser(c.Request.Context(), uid, 50, 0)
		if err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		if history == nil {
			history = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"user": u, "orders": history})
	}
}
