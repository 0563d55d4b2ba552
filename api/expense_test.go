package api

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"expensetracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createExpense(t *testing.T, env *testEnv, cookie *http.Cookie, amount interface{}, category string) models.Expense {
	t.Helper()
	w := env.postJSON("/", map[string]interface{}{"amount": amount, "category": category}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var e models.Expense
	decode(t, w, &e)
	return e
}

func TestIndex_Anonymous(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	var view IndexView
	decode(t, w, &view)
	assert.Nil(t, view.User)
	assert.Empty(t, view.Expenses)
	assert.NotEmpty(t, view.Categories)
}

func TestCreateExpense_JSON(t *testing.T) {
	env := newTestEnv(t)
	alice, cookie := env.login(t, "alice")

	// 数字和字符串金额都可以
	e := createExpense(t, env, cookie, 42.5, "Food")
	assert.Equal(t, 42.5, e.Amount)
	assert.Equal(t, "Food", e.Category.Name)
	assert.Equal(t, alice.ID, e.UserID)

	createExpense(t, env, cookie, "18.00", "Transport")

	w := env.get("/", cookie)
	var view IndexView
	decode(t, w, &view)
	require.NotNil(t, view.User)
	assert.Equal(t, "alice", view.User.Username)
	require.Len(t, view.Expenses, 2)

	found := false
	for _, x := range view.Expenses {
		if x.Amount == 42.5 && x.Category.Name == "Food" {
			found = true
		}
	}
	assert.True(t, found)

	// 他人看不到
	_, bobCookie := env.login(t, "bob")
	w = env.get("/", bobCookie)
	decode(t, w, &view)
	assert.Empty(t, view.Expenses)
}

func TestCreateExpense_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.login(t, "alice")

	cases := []map[string]interface{}{
		{"amount": "abc", "category": "Food"},
		{"amount": -5, "category": "Food"},
		{"amount": 0, "category": "Food"},
		{"amount": "10", "category": "   "},
		{"category": "Food"},
	}
	for _, body := range cases {
		w := env.postJSON("/", body, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code, fmt.Sprint(body))
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Expense{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateExpense_Form(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.login(t, "alice")

	w := env.postForm("/", url.Values{"amount": {"12.345"}, "category": {"Coffee"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var e models.Expense
	require.NoError(t, env.db.Preload("Category").First(&e).Error)
	assert.Equal(t, 12.35, e.Amount)
	assert.Equal(t, "Coffee", e.Category.Name)

	// 校验失败写入提示并跳回首页
	w = env.postForm("/", url.Values{"amount": {"abc"}, "category": {"Food"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	flash := findCookie(w, flashCookieName)
	require.NotNil(t, flash)

	w = env.get("/", cookie, flash)
	var view IndexView
	decode(t, w, &view)
	require.Len(t, view.Flashes, 1)
	assert.Equal(t, "金额必须是数字", view.Flashes[0].Message)
}

func TestCreateExpense_Anonymous(t *testing.T) {
	env := newTestEnv(t)

	w := env.postJSON("/", map[string]interface{}{"amount": 10, "category": "Food"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.postForm("/", url.Values{"amount": {"10"}, "category": {"Food"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestEditExpense(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.login(t, "alice")
	_, bob := env.login(t, "bob")
	e := createExpense(t, env, alice, 10, "Food")
	path := fmt.Sprintf("/edit_expense/%d", e.ID)

	// 所有者可以查看
	w := env.get(path, alice)
	require.Equal(t, http.StatusOK, w.Code)
	var view EditView
	decode(t, w, &view)
	assert.Equal(t, e.ID, view.Expense.ID)
	assert.NotEmpty(t, view.Categories)

	// 其他用户
	assert.Equal(t, http.StatusForbidden, env.get(path, bob).Code)
	assert.Equal(t, http.StatusForbidden, env.postJSON(path, map[string]interface{}{"amount": 1}, bob).Code)

	// 不存在或非法 ID
	assert.Equal(t, http.StatusNotFound, env.get("/edit_expense/9999", alice).Code)
	assert.Equal(t, http.StatusNotFound, env.get("/edit_expense/abc", alice).Code)

	// 更新
	w = env.postJSON(path, map[string]interface{}{"amount": "25.10", "category": "Transport"}, alice)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Expense
	decode(t, w, &updated)
	assert.Equal(t, 25.1, updated.Amount)
	assert.Equal(t, "Transport", updated.Category.Name)

	// 只改金额
	w = env.postJSON(path, map[string]interface{}{"amount": 30}, alice)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	assert.Equal(t, 30.0, updated.Amount)
	assert.Equal(t, "Transport", updated.Category.Name)

	// 表单校验失败跳回编辑页
	w = env.postForm(path, url.Values{"amount": {"-1"}}, alice)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, path, w.Header().Get("Location"))

	// 表单更新成功跳回首页
	w = env.postForm(path, url.Values{"category": {"Food"}}, alice)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// 空更新
	assert.Equal(t, http.StatusBadRequest, env.postJSON(path, map[string]interface{}{}, alice).Code)
}

func TestDeleteExpense(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.login(t, "alice")
	_, bob := env.login(t, "bob")
	e := createExpense(t, env, alice, 10, "Food")
	path := fmt.Sprintf("/delete_expense/%d", e.ID)

	assert.Equal(t, http.StatusForbidden, env.postForm(path, nil, bob).Code)
	assert.Equal(t, http.StatusNotFound, env.postForm("/delete_expense/9999", nil, alice).Code)

	w := env.postForm(path, nil, alice)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var count int64
	require.NoError(t, env.db.Model(&models.Expense{}).Count(&count).Error)
	assert.Zero(t, count)

	// 已删除
	assert.Equal(t, http.StatusNotFound, env.postJSON(path, nil, alice).Code)
}
