package handler

import (
	"github.com/gin-gonic/gin"

	"galapass/guesthub/internal/service"
	"galapass/guesthub/pkg/response"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type addCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type confirmCategoryDeleteRequest struct {
	Token string `json:"token" binding:"required"`
}

// List handles GET /api/v1/admin/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, categories)
}

// Add handles POST /api/v1/admin/categories
func (h *CategoryHandler) Add(c *gin.Context) {
	var req addCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	category, err := h.categoryService.Add(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, category)
}

// RequestDelete handles POST /api/v1/admin/categories/:name/delete-request
func (h *CategoryHandler) RequestDelete(c *gin.Context) {
	token, err := h.categoryService.RequestDelete(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token})
}

// ConfirmDelete handles POST /api/v1/admin/categories/:name/delete
func (h *CategoryHandler) ConfirmDelete(c *gin.Context) {
	var req confirmCategoryDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.categoryService.ConfirmDelete(c.Request.Context(), c.Param("name"), req.Token); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, nil)
}
