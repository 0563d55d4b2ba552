package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"expensetracker/sessionauth"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "flash"

// 提示类型
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash 一次性提示信息
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FlashStore 用签名 Cookie 在跳转之间传递提示，下一次页面请求读取后清除
type FlashStore struct {
	signer *sessionauth.Signer
	secure bool
}

// NewFlashStore 创建提示存储
func NewFlashStore(signer *sessionauth.Signer, secure bool) *FlashStore {
	return &FlashStore{signer: signer, secure: secure}
}

// Add 追加一条提示
func (s *FlashStore) Add(c *gin.Context, kind, message string) {
	flashes := append(s.read(c), Flash{Kind: kind, Message: message})
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	value := s.signer.Sign(base64.RawURLEncoding.EncodeToString(raw))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, value, 300, "/", "", s.secure, true)
}

// Pop 读取并清除提示，没有时返回空切片
func (s *FlashStore) Pop(c *gin.Context) []Flash {
	flashes := s.read(c)
	if _, err := c.Cookie(flashCookieName); err == nil {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(flashCookieName, "", -1, "/", "", s.secure, true)
	}
	return flashes
}

func (s *FlashStore) read(c *gin.Context) []Flash {
	flashes := []Flash{}
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return flashes
	}
	encoded, err := s.signer.Verify(raw)
	if err != nil {
		return flashes
	}
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return flashes
	}
	if err := json.Unmarshal(data, &flashes); err != nil {
		return []Flash{}
	}
	return flashes
}
