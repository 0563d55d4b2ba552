package api

import (
	"expensetracker/config"
	"expensetracker/middleware"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler 个人信息
type ProfileHandler struct {
	responder
	profiles *service.ProfileService
}

// NewProfileHandler 创建个人信息处理器
func NewProfileHandler(cfg *config.Config, profiles *service.ProfileService, flash *FlashStore) *ProfileHandler {
	return &ProfileHandler{responder: responder{cfg: cfg, flash: flash}, profiles: profiles}
}

// Profile 个人信息页
// @Summary 个人信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.ProfileView}
// @Failure 401 {object} Response "未登录"
// @Router /profile [get]
func (h *ProfileHandler) Profile(c *gin.Context) {
	view, err := h.profiles.Profile(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.viewError(c, err)
		return
	}
	Success(c, view)
}
