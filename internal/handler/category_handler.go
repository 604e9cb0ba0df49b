package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"habitud/internal/service"
)

type CategoryHandler struct {
	categories *service.CategoryService
	logger     *zap.Logger
}

func NewCategoryHandler(categories *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

type categoryRequest struct {
	Name string `json:"nombre"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	cat, err := h.categories.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, h.logger, "CreateCategory", err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "ListCategories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categorias": cats})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	cat, err := h.categories.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "GetCategory", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de petición inválido"})
		return
	}

	cat, err := h.categories.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, h.logger, "UpdateCategory", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "DeleteCategory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
