package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"expensetracker/config"
	"expensetracker/middleware"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	responder
	expenses *service.ExpenseService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(cfg *config.Config, expenses *service.ExpenseService) *ExportHandler {
	return &ExportHandler{responder: responder{cfg: cfg}, expenses: expenses}
}

// ExportCSV 导出消费记录为 CSV
// @Summary 导出 CSV
// @Description 导出当前用户的全部消费记录
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "CSV 文件"
// @Failure 401 {object} Response "未登录"
// @Router /export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	expenses, err := h.expenses.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.viewError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := service.WriteCSV(&buf, expenses); err != nil {
		h.viewError(c, err)
		return
	}

	filename := fmt.Sprintf("expenses_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出消费记录为 Excel
// @Summary 导出 Excel
// @Description 导出当前用户的全部消费记录
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未登录"
// @Router /export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	expenses, err := h.expenses.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.viewError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := service.WriteExcel(&buf, expenses); err != nil {
		h.viewError(c, err)
		return
	}

	filename := fmt.Sprintf("expenses_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
