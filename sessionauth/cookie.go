package sessionauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Signer 对 Cookie 值做 HMAC-SHA256 签名，防止客户端篡改
type Signer struct {
	secret []byte
}

// NewSigner 创建签名器，secret 为空时使用固定默认值（仅限开发环境）
func NewSigner(secret string) *Signer {
	if secret == "" {
		secret = "expensetracker-dev-secret"
	}
	return &Signer{secret: []byte(secret)}
}

// Sign 返回 value.signature 形式的签名值
func (s *Signer) Sign(value string) string {
	return value + "." + s.mac(value)
}

// Verify 校验签名并返回原始值
func (s *Signer) Verify(signed string) (string, error) {
	if signed == "" {
		return "", errors.New("empty cookie value")
	}
	idx := strings.LastIndex(signed, ".")
	if idx <= 0 || idx == len(signed)-1 {
		return "", errors.New("invalid cookie format")
	}
	value, sig := signed[:idx], signed[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(s.mac(value))) {
		return "", errors.New("invalid cookie signature")
	}
	return value, nil
}

func (s *Signer) mac(value string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}
