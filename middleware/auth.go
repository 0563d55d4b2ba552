package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"expensetracker/logging"
	"expensetracker/models"
	"expensetracker/service"
	"expensetracker/sessionauth"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserKey 当前登录用户
	ContextUserKey = "currentUser"
	// ContextSessionKey 当前会话令牌
	ContextSessionKey = "sessionToken"
)

// IdentityResolver 根据会话令牌解析用户
type IdentityResolver interface {
	CurrentIdentity(ctx context.Context, token string) (*models.User, error)
}

// SessionAuth 从 Bearer token 或签名 Cookie 中解析当前用户
// 解析失败时按匿名处理，是否必须登录由 RequireLogin 决定
func SessionAuth(resolver IdentityResolver, signer *sessionauth.Signer, tokens *sessionauth.TokenManager, cookieName string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, claims := extractSessionToken(c, signer, tokens, cookieName)
		if token == "" {
			c.Next()
			return
		}

		user, err := resolver.CurrentIdentity(c.Request.Context(), token)
		if err != nil {
			// 令牌失效属于正常情况，只记录其他错误
			if !errors.Is(err, service.ErrUnauthenticated) {
				log.ErrorContext(c.Request.Context(), "解析会话失败", logging.FieldError, err, logging.FieldRequestID, GetRequestID(c))
			}
			c.Next()
			return
		}
		if claims != nil && claims.UserID != user.ID {
			c.Next()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextSessionKey, token)
		c.Next()
	}
}

func extractSessionToken(c *gin.Context, signer *sessionauth.Signer, tokens *sessionauth.TokenManager, cookieName string) (string, *sessionauth.Claims) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", nil
		}
		claims, err := tokens.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return "", nil
		}
		return claims.ID, claims
	}

	raw, err := c.Cookie(cookieName)
	if err != nil || raw == "" {
		return "", nil
	}
	token, err := signer.Verify(raw)
	if err != nil {
		return "", nil
	}
	return token, nil
}

// RequireLogin 要求登录，匿名请求 JSON 返回 401，浏览器跳转登录页
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "请先登录",
			})
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

// CurrentUser 返回当前登录用户，匿名时为 nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SessionToken 返回当前会话令牌
func SessionToken(c *gin.Context) string {
	return c.GetString(ContextSessionKey)
}

// WantsJSON 判断客户端是否期望 JSON 响应
func WantsJSON(c *gin.Context) bool {
	if c.ContentType() == gin.MIMEJSON {
		return true
	}
	if strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON) {
		return true
	}
	return c.GetHeader("Authorization") != ""
}
