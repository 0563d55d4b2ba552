package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

// RootCmd 根命令
var RootCmd = &cobra.Command{
	Use:           "expensetracker",
	Short:         "记账本",
	Long:          "个人消费记录服务：注册登录、记账、类别管理和数据导出",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "外部配置文件路径（可选）")
	RootCmd.AddCommand(newServeCmd(), newUserCmd(), newVersionCmd())
}

// Execute 执行命令行
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
