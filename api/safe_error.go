package api

import (
	"errors"
	"net/http"

	"expensetracker/config"
	"expensetracker/middleware"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// errorStatus 业务错误映射为 HTTP 状态码
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage 业务错误返回提示信息，内部错误在生产环境下隐藏详情
func errorMessage(cfg *config.Config, err error, status int) string {
	if status == http.StatusInternalServerError {
		return cfg.SafeErrorMessage(err, "服务器内部错误")
	}
	if msg := service.UserMessage(err); msg != "" {
		return msg
	}
	if errors.Is(err, service.ErrUnauthenticated) {
		return "请先登录"
	}
	return http.StatusText(status)
}

// validationError 请求绑定失败
func validationError(msg string) error {
	return &service.Error{Kind: service.ErrValidation, Msg: msg}
}

// responder 按客户端类型输出结果：JSON 客户端返回信封，表单提交跳转并写入提示
type responder struct {
	cfg   *config.Config
	flash *FlashStore
}

// ok 写操作成功
func (r *responder) ok(c *gin.Context, redirect, message string, data interface{}) {
	if middleware.WantsJSON(c) {
		SuccessWithMessage(c, message, data)
		return
	}
	r.flash.Add(c, FlashSuccess, message)
	c.Redirect(http.StatusSeeOther, redirect)
}

// fail 写操作失败；404、403 和 500 始终返回状态码
func (r *responder) fail(c *gin.Context, redirect string, err error) {
	status := errorStatus(err)
	msg := errorMessage(r.cfg, err, status)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}

	switch status {
	case http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError:
		writeError(c, status, msg)
		return
	}
	if middleware.WantsJSON(c) {
		writeError(c, status, msg)
		return
	}
	r.flash.Add(c, FlashError, msg)
	c.Redirect(http.StatusSeeOther, redirect)
}

// viewError 页面数据加载失败时返回状态码
func (r *responder) viewError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	writeError(c, status, errorMessage(r.cfg, err, status))
}

// writeError 按状态码输出错误信封
func writeError(c *gin.Context, status int, msg string) {
	switch status {
	case http.StatusBadRequest:
		BadRequest(c, msg)
	case http.StatusUnauthorized:
		Unauthorized(c, msg)
	case http.StatusForbidden:
		Forbidden(c, msg)
	case http.StatusNotFound:
		NotFound(c, msg)
	case http.StatusConflict:
		Conflict(c, msg)
	case http.StatusInternalServerError:
		InternalError(c, msg)
	default:
		Error(c, status, msg)
	}
}
