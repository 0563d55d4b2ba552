package api

import (
	"expensetracker/config"
	"expensetracker/models"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 类别处理器
type CategoryHandler struct {
	responder
	categories *service.CategoryService
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler(cfg *config.Config, categories *service.CategoryService, flash *FlashStore) *CategoryHandler {
	return &CategoryHandler{
		responder:  responder{cfg: cfg, flash: flash},
		categories: categories,
	}
}

// CategoryRequest 新增类别请求
type CategoryRequest struct {
	Name string `form:"category_name" json:"category_name" binding:"required" example:"Utilities"`
}

// CategoriesView 类别页数据
type CategoriesView struct {
	Categories []models.Category `json:"categories"`
	Flashes    []Flash           `json:"flashes"`
}

// List 类别列表
// @Summary 类别列表
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=CategoriesView}
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.viewError(c, err)
		return
	}
	Success(c, CategoriesView{Categories: list, Flashes: h.flash.Pop(c)})
}

// Add 新增类别
// @Summary 新增类别
// @Tags 类别
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "类别名称"
// @Success 200 {object} Response{data=models.Category} "添加成功"
// @Success 303 "表单提交跳转 /categories"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "类别已存在"
// @Router /add_category [post]
func (h *CategoryHandler) Add(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "/categories", validationError("类别不能为空"))
		return
	}
	cat, err := h.categories.Add(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, "/categories", err)
		return
	}
	h.ok(c, "/categories", "类别已添加", cat)
}
