package api

import (
	"net/http"
	"time"

	"expensetracker/config"
	"expensetracker/metrics"
	"expensetracker/middleware"
	"expensetracker/models"
	"expensetracker/service"
	"expensetracker/sessionauth"

	"github.com/gin-gonic/gin"
)

// AuthHandler 注册、登录、注销
type AuthHandler struct {
	responder
	auth   *service.AuthService
	signer *sessionauth.Signer
	tokens *sessionauth.TokenManager
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, auth *service.AuthService, signer *sessionauth.Signer, tokens *sessionauth.TokenManager, flash *FlashStore) *AuthHandler {
	return &AuthHandler{
		responder: responder{cfg: cfg, flash: flash},
		auth:      auth,
		signer:    signer,
		tokens:    tokens,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `form:"username" json:"username" binding:"required" example:"alice"`
	Password string `form:"password" json:"password" binding:"required" example:"password123"`
	Email    string `form:"email" json:"email" binding:"required" example:"alice@example.com"`
}

// LoginRequest 登录请求（支持用户名或邮箱）
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required" example:"alice"` // 可为用户名或邮箱
	Password string `form:"password" json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	UserInfo  models.User `json:"user_info"`
}

// FormView 注册/登录页数据
type FormView struct {
	User    *models.User `json:"user,omitempty"`
	Flashes []Flash      `json:"flashes"`
}

// RegisterPage 注册页
// @Summary 注册页
// @Tags 认证
// @Produce json
// @Success 200 {object} Response{data=FormView}
// @Router /register [get]
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	Success(c, FormView{User: middleware.CurrentUser(c), Flashes: h.flash.Pop(c)})
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户，用户名和邮箱全局唯一。表单提交成功后跳转登录页
// @Tags 认证
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=models.User} "注册成功"
// @Success 303 "表单提交跳转 /login"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "用户名或邮箱已存在"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "/register", validationError("请填写用户名、密码和邮箱"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		h.fail(c, "/register", err)
		return
	}
	h.ok(c, "/login", "注册成功，请登录", user)
}

// LoginPage 登录页
// @Summary 登录页
// @Tags 认证
// @Produce json
// @Success 200 {object} Response{data=FormView}
// @Router /login [get]
func (h *AuthHandler) LoginPage(c *gin.Context) {
	Success(c, FormView{User: middleware.CurrentUser(c), Flashes: h.flash.Pop(c)})
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验密码后创建会话，写入签名 Cookie；JSON 请求同时返回 Bearer token
// @Tags 认证
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Success 303 "表单提交跳转 /"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, "/login", validationError("请输入用户名和密码"))
		return
	}

	session, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		metrics.RecordLogin(false)
		h.fail(c, "/login", err)
		return
	}
	metrics.RecordLogin(true)

	token, err := h.tokens.GenerateToken(session)
	if err != nil {
		h.fail(c, "/login", err)
		return
	}

	h.setSessionCookie(c, h.signer.Sign(session.Token), int(time.Until(session.ExpiresAt).Seconds()))
	h.ok(c, "/", "登录成功", LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		UserInfo:  session.User,
	})
}

// Logout 注销
// @Summary 注销
// @Description 删除服务端会话，Cookie 和 Bearer token 同时失效
// @Tags 认证
// @Produce json
// @Success 200 {object} Response
// @Success 303 "表单提交跳转 /login"
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		h.fail(c, "/login", err)
		return
	}
	h.setSessionCookie(c, "", -1)
	h.ok(c, "/login", "已退出登录", nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, value, maxAge, "/", "", h.cfg.IsRelease(), true)
}
