package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/HANSBIANDJI/bksmell/internal/apperr"
	"github.com/HANSBIANDJI/bksmell/internal/catalog"
	"github.com/HANSBIANDJI/bksmell/internal/httpx"
)

// listPerfumesHandler godoc
// @Summary  List perfumes
// @Produce  json
// @Param    page query int false "page (1-based)"
// @Param    limit query int false "page size"
// @Param    search query string false "name/description search"
// @Param    categoryId query string false "category filter"
// @Success  200 {array} catalog.Perfume
// @Router   /perfumes [get]
func listPerfumesHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if page < 1 {
			page = 1
		}
		out, err := repo.List(c.Request.Context(), catalog.ListFilter{
			Search:     c.Query("search"),
			CategoryID: c.Query("categoryId"),
			Limit:      limit,
			Offset:     (page - 1) * limit,
		})
		if err != nil {
			httpx.AbortWithError(c, apperr.Persistence("list perfumes", err))
			return
		}
		if out == nil {
			out = []catalog.Perfume{}
		}
		c.JSON(http.StatusOK, out)
	}
}

// getPerfumeHandler godoc
// @Summary  Get one perfume
// @Produce  json
// @Param    id path string true "perfume id"
// @Success  200 {object} catalog.Perfume
// @Router   /perfumes/{id} [get]
func getPerfumeHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			httpx.AbortWithError(c, apperr.NotFound("perfume not found"))
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

type perfumeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	Brand       string `json:"brand"`
	Stock       int    `json:"stock"`
	Active      *bool  `json:"active"`
	CategoryID  string `json:"category_id"`
}

func (r perfumeRequest) validate() error {
	if r.Name == "" || r.Price == "" || r.CategoryID == "" {
		return apperr.Validation("name, price and category_id are required")
	}
	return nil
}

func createPerfumeHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req perfumeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortWithError(c, apperr.Validation("invalid json body"))
			return
		}
		if err := req.validate(); err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		p := &catalog.Perfume{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Brand:       req.Brand,
			Stock:       req.Stock,
			Active:      active,
			CategoryID:  req.CategoryID,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			httpx.AbortWithError(c, apperr.Persistence("create perfume", err))
			return
		}
		created, err := repo.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			httpx.AbortWithError(c, apperr.Persistence("load created perfume", err))
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updatePerfumeHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req perfumeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.AbortWithError(c, apperr.Validation("invalid json body"))
			return
		}
		if err := req.validate(); err != nil {
			httpx.AbortWithError(c, err)
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		p := &catalog.Perfume{
			ID:          c.Param("id"),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Brand:       req.Brand,
			Stock:       req.Stock,
			Active:      active,
			CategoryID:  req.CategoryID,
		}
		if err := repo.Update(c.Request.Context(), p); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				httpx.AbortWithError(c, apperr.NotFound("perfume not found"))
				return
			}
			httpx.AbortWithError(c, apperr.Persistence("update perfume", err))
			return
		}
		updated, err := repo.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			httpx.AbortWithError(c, apperr.Persistence("load updated perfume", err))
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deletePerfumeHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				httpx.AbortWithError(c, apperr.NotFound("perfume not found"))
				return
			}
			httpx.AbortWithError(c, apperr.Persistence("delete perfume", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

func listCategoriesHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.ListCategories(c.Request.Context())
		if err != nil {
			httpx.AbortWithError(c, apperr.Persistence("list categories", err))
			return
		}
		if out == nil {
			out = []catalog.Category{}
		}
		c.JSON(http.StatusOK, out)
	}
}

func createCategoryHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			httpx.AbortWithError(c, apperr.Validation("name is required"))
			return
		}
		cat := &catalog.Category{ID: uuid.NewString(), Name: req.Name, Description: req.Description}
		if err := repo.CreateCategory(c.Request.Context(), cat); err != nil {
			httpx.AbortWithError(c, apperr.Persistence("create category", err))
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}
