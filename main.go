package main

import "expensetracker/cmd"

// @title 记账本 API
// @version 1.0
// @description 个人消费记录：注册登录、消费记录增删改查、类别管理和数据导出
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cmd.Execute()
}
