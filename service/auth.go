package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"expensetracker/config"
	"expensetracker/database"
	"expensetracker/logging"
	"expensetracker/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcrypt 只处理前 72 字节
const maxPasswordBytes = 72

// AuthService 注册、登录与会话管理
type AuthService struct {
	db       *gorm.DB
	cfg      *config.Config
	mailer   *EmailService
	log      *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewAuthService 创建认证服务，mailer 可为 nil
func NewAuthService(db *gorm.DB, cfg *config.Config, mailer *EmailService, log *slog.Logger) *AuthService {
	return &AuthService{
		db:       db,
		cfg:      cfg,
		mailer:   mailer,
		log:      logging.Component(log, logging.ComponentAuth),
		validate: validator.New(),
		now:      time.Now,
	}
}

// RegisterInput 注册参数
type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// Register 创建用户，用户名和邮箱全局唯一
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validateRegister(in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	// 预检查给出更明确的提示，最终以唯一索引为准
	var existing models.User
	if err := db.Where("username = ?", in.Username).First(&existing).Error; err == nil {
		return nil, newError(ErrDuplicate, "用户名已存在")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if err := db.Where("email = ?", in.Email).First(&existing).Error; err == nil {
		return nil, newError(ErrDuplicate, "邮箱已被注册")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := models.User{
		Username: in.Username,
		Password: string(hashedPassword),
		Email:    in.Email,
	}
	if err := db.Create(&user).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, newError(ErrDuplicate, "用户名或邮箱已存在")
		}
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	s.log.InfoContext(ctx, "用户注册成功", logging.FieldUserID, user.ID, "username", user.Username)
	s.sendWelcome(ctx, &user)
	return &user, nil
}

func (s *AuthService) validateRegister(in RegisterInput) error {
	if n := len([]rune(in.Username)); n < 3 || n > 50 {
		return newError(ErrValidation, "用户名长度需为 3-50 个字符")
	}
	if len(in.Password) < 6 {
		return newError(ErrValidation, "密码长度不能少于 6 位")
	}
	if len(in.Password) > maxPasswordBytes {
		return newError(ErrValidation, "密码长度不能超过 72 字节")
	}
	if len(in.Email) > 120 || s.validate.Var(in.Email, "required,email") != nil {
		return newError(ErrValidation, "请输入有效的邮箱地址")
	}
	return nil
}

// sendWelcome 发送欢迎邮件，失败只记录日志不影响注册
func (s *AuthService) sendWelcome(ctx context.Context, user *models.User) {
	if !s.mailer.Enabled() {
		return
	}
	loginURL := strings.TrimRight(s.cfg.Server.BaseURL, "/") + "/login"
	if err := s.mailer.SendWelcomeEmail(user.Email, user.Username, loginURL); err != nil {
		s.log.WarnContext(ctx, "欢迎邮件发送失败", logging.FieldUserID, user.ID, logging.FieldError, err)
	}
}

// Authenticate 校验用户名（或邮箱）和密码，成功后创建会话
func (s *AuthService) Authenticate(ctx context.Context, login, password string) (*models.Session, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, newError(ErrInvalidCredentials, "用户名或密码错误")
	}

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrInvalidCredentials, "用户名或密码错误")
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.InfoContext(ctx, "登录失败：密码错误", logging.FieldUserID, user.ID)
		return nil, newError(ErrInvalidCredentials, "用户名或密码错误")
	}

	token, err := models.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("生成会话令牌失败: %w", err)
	}
	session := models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.cfg.Session.ExpireTime),
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("创建会话失败: %w", err)
	}
	session.User = user

	s.log.InfoContext(ctx, "用户登录成功", logging.FieldUserID, user.ID)
	return &session, nil
}

// CurrentIdentity 根据会话令牌解析当前用户
func (s *AuthService) CurrentIdentity(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	var session models.Session
	err := s.db.WithContext(ctx).Preload("User").Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("查询会话失败: %w", err)
	}
	if session.IsExpired(s.now()) {
		_ = s.db.WithContext(ctx).Delete(&session).Error
		return nil, ErrUnauthenticated
	}
	return &session.User, nil
}

// Logout 删除会话，重复注销不报错
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("注销失败: %w", err)
	}
	return nil
}

// PurgeExpiredSessions 清理过期会话，返回删除条数
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("清理过期会话失败: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// FindUser 按用户名查询用户
func (s *AuthService) FindUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, "用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers 按注册顺序列出所有用户
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
