package service

import (
	"fmt"
	"html"

	"expensetracker/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// Enabled 邮件服务是否启用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// SendWelcomeEmail 发送注册欢迎邮件
func (s *EmailService) SendWelcomeEmail(toEmail, username, loginURL string) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 email.enabled=true")
	}

	subject := "【记账本】欢迎注册"
	body := s.generateWelcomeEmailBody(username, loginURL)
	return s.sendEmail(toEmail, subject, body)
}

// generateWelcomeEmailBody 生成欢迎邮件内容
func (s *EmailService) generateWelcomeEmailBody(username, loginURL string) string {
	name := html.EscapeString(username)
	link := html.EscapeString(loginURL)
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; background: #f5f5f5; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; padding: 30px;">
        <h2>💰 记账本</h2>
        <p>您好 <strong>%s</strong>，欢迎使用记账本！</p>
        <p>您的账号已创建成功，现在可以登录并开始记录每一笔消费。</p>
        <p style="text-align: center;">
            <a href="%s" style="display: inline-block; background: #2563eb; color: #fff; text-decoration: none; padding: 12px 36px; border-radius: 8px;">立即登录</a>
        </p>
        <p style="color: #6c757d; font-size: 12px;">此邮件由系统自动发送，请勿回复</p>
    </div>
</body>
</html>
`, name, link)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
