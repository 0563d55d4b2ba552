package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"expensetracker/config"
	"expensetracker/database/dbtest"
	"expensetracker/logging"
	"expensetracker/middleware"
	"expensetracker/models"
	"expensetracker/service"
	"expensetracker/sessionauth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	r      *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	svc    *service.Services
	signer *sessionauth.Signer
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Mode: config.ModeTest},
		Session: config.SessionConfig{Secret: "test-secret", CookieName: "session", ExpireTime: time.Hour},
		JWT:     config.JWTConfig{Secret: "test-jwt-secret", Issuer: "test"},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.New(t)
	cfg := testConfig()
	svc := service.NewServices(db, cfg, logging.Discard())
	signer := sessionauth.NewSigner(cfg.Session.Secret)
	tokens := sessionauth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	flash := NewFlashStore(signer, false)

	authHandler := NewAuthHandler(cfg, svc.Auth, signer, tokens, flash)
	expenseHandler := NewExpenseHandler(cfg, svc.Expenses, svc.Categories, flash)
	categoryHandler := NewCategoryHandler(cfg, svc.Categories, flash)
	profileHandler := NewProfileHandler(cfg, svc.Profiles, flash)
	exportHandler := NewExportHandler(cfg, svc.Expenses)

	r := gin.New()
	r.Use(middleware.SessionAuth(svc.Auth, signer, tokens, cfg.Session.CookieName, logging.Discard()))
	r.GET("/", expenseHandler.Index)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	authorized := r.Group("", middleware.RequireLogin())
	authorized.POST("/", expenseHandler.Create)
	authorized.GET("/edit_expense/:id", expenseHandler.EditPage)
	authorized.POST("/edit_expense/:id", expenseHandler.Update)
	authorized.POST("/delete_expense/:id", expenseHandler.Delete)
	authorized.GET("/categories", categoryHandler.List)
	authorized.POST("/add_category", categoryHandler.Add)
	authorized.GET("/profile", profileHandler.Profile)
	authorized.GET("/export/csv", exportHandler.ExportCSV)
	authorized.GET("/export/excel", exportHandler.ExportExcel)

	return &testEnv{r: r, db: db, cfg: cfg, svc: svc, signer: signer}
}

// login 注册并登录用户，返回签名后的会话 Cookie
func (e *testEnv) login(t *testing.T, username string) (*models.User, *http.Cookie) {
	t.Helper()
	ctx := context.Background()
	user, err := e.svc.Auth.Register(ctx, service.RegisterInput{
		Username: username,
		Password: "password123",
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	session, err := e.svc.Auth.Authenticate(ctx, username, "password123")
	require.NoError(t, err)
	return user, &http.Cookie{Name: "session", Value: e.signer.Sign(session.Token)}
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (e *testEnv) postJSON(path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req, cookies...)
}

func (e *testEnv) postForm(path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, cookies...)
}

// decode 解析响应信封，data 解析到 out
func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) Response {
	t.Helper()
	var resp struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if out != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return Response{Code: resp.Code, Message: resp.Message}
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
