package api

import (
	"fmt"

	"expensetracker/config"
	"expensetracker/metrics"
	"expensetracker/middleware"
	"expensetracker/models"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	responder
	expenses   *service.ExpenseService
	categories *service.CategoryService
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(cfg *config.Config, expenses *service.ExpenseService, categories *service.CategoryService, flash *FlashStore) *ExpenseHandler {
	return &ExpenseHandler{
		responder:  responder{cfg: cfg, flash: flash},
		expenses:   expenses,
		categories: categories,
	}
}

// CreateExpenseRequest 新增消费请求
type CreateExpenseRequest struct {
	Amount   formValue `form:"amount" json:"amount" binding:"required" swaggertype:"string" example:"42.50"`
	Category string    `form:"category" json:"category" binding:"required" example:"Food"`
}

// UpdateExpenseRequest 编辑消费请求，留空的字段不修改
type UpdateExpenseRequest struct {
	Amount   formValue `form:"amount" json:"amount" swaggertype:"string" example:"18.00"`
	Category string    `form:"category" json:"category" example:"Transport"`
}

// IndexView 首页数据
type IndexView struct {
	User       *models.User      `json:"user,omitempty"`
	Expenses   []models.Expense  `json:"expenses"`
	Categories []models.Category `json:"categories"`
	Flashes    []Flash           `json:"flashes"`
}

// EditView 编辑页数据
type EditView struct {
	Expense    *models.Expense   `json:"expense"`
	Categories []models.Category `json:"categories"`
	Flashes    []Flash           `json:"flashes"`
}

// Index 首页：当前用户的消费记录，未登录时为空列表
// @Summary 消费记录列表
// @Tags 消费记录
// @Produce json
// @Success 200 {object} Response{data=IndexView}
// @Router / [get]
func (h *ExpenseHandler) Index(c *gin.Context) {
	user := middleware.CurrentUser(c)
	expenses, err := h.expenses.List(c.Request.Context(), user)
	if err != nil {
		h.viewError(c, err)
		return
	}
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.viewError(c, err)
		return
	}
	Success(c, IndexView{
		User:       user,
		Expenses:   expenses,
		Categories: categories,
		Flashes:    h.flash.Pop(c),
	})
}

// Create 新增消费记录
// @Summary 新增消费记录
// @Description 金额需大于 0，类别不存在时自动创建
// @Tags 消费记录
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "消费信息"
// @Success 200 {object} Response{data=models.Expense} "创建成功"
// @Success 303 "表单提交跳转 /"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "未登录"
// @Router / [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "/", validationError("请输入金额和类别"))
		return
	}

	expense, err := h.expenses.Create(c.Request.Context(), middleware.CurrentUser(c), req.Amount.String(), req.Category)
	if err != nil {
		h.fail(c, "/", err)
		return
	}
	metrics.RecordExpenseOp("create")
	h.ok(c, "/", "记录已添加", expense)
}

// EditPage 编辑页
// @Summary 查看待编辑的消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录 ID"
// @Success 200 {object} Response{data=EditView}
// @Failure 403 {object} Response "无权操作"
// @Failure 404 {object} Response "记录不存在"
// @Router /edit_expense/{id} [get]
func (h *ExpenseHandler) EditPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		NotFound(c, "记录不存在")
		return
	}
	expense, err := h.expenses.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.viewError(c, err)
		return
	}
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.viewError(c, err)
		return
	}
	Success(c, EditView{Expense: expense, Categories: categories, Flashes: h.flash.Pop(c)})
}

// Update 编辑消费记录
// @Summary 编辑消费记录
// @Tags 消费记录
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录 ID"
// @Param request body UpdateExpenseRequest true "修改内容"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Success 303 "表单提交跳转 /"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权操作"
// @Failure 404 {object} Response "记录不存在"
// @Router /edit_expense/{id} [post]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		NotFound(c, "记录不存在")
		return
	}
	back := fmt.Sprintf("/edit_expense/%d", id)

	var req UpdateExpenseRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, back, validationError("请求参数错误"))
		return
	}

	expense, err := h.expenses.Update(c.Request.Context(), middleware.CurrentUser(c), id, service.UpdateExpenseInput{
		Amount:   req.Amount.String(),
		Category: req.Category,
	})
	if err != nil {
		h.fail(c, back, err)
		return
	}
	metrics.RecordExpenseOp("update")
	h.ok(c, "/", "记录已更新", expense)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录 ID"
// @Success 200 {object} Response "删除成功"
// @Success 303 "表单提交跳转 /"
// @Failure 403 {object} Response "无权操作"
// @Failure 404 {object} Response "记录不存在"
// @Router /delete_expense/{id} [post]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		NotFound(c, "记录不存在")
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		h.fail(c, "/", err)
		return
	}
	metrics.RecordExpenseOp("delete")
	h.ok(c, "/", "记录已删除", nil)
}
