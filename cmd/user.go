package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"expensetracker/config"
	"expensetracker/database"
	"expensetracker/logging"
	"expensetracker/models"
	"expensetracker/service"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "用户管理",
	}

	var username, email string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "创建用户，密码从终端读取",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runUserCreate(cmd.Context(), cfg, username, email, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	createCmd.Flags().StringVarP(&username, "username", "u", "", "用户名")
	createCmd.Flags().StringVarP(&email, "email", "e", "", "邮箱")
	_ = createCmd.MarkFlagRequired("username")
	_ = createCmd.MarkFlagRequired("email")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "列出所有用户",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runUserList(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	userCmd.AddCommand(createCmd, listCmd)
	return userCmd
}

func openServices(cfg *config.Config) (*service.Services, func(), error) {
	log := logging.New(logging.Config{Level: "warn", Format: cfg.Log.Format, Output: os.Stderr})
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("数据库初始化失败: %w", err)
	}
	return service.NewServices(db, cfg, log), func() { _ = database.Close(db) }, nil
}

func runUserCreate(ctx context.Context, cfg *config.Config, username, email string, stdin io.Reader, stdout io.Writer) error {
	svc, closeDB, err := openServices(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	fmt.Fprint(stdout, "Password: ")
	password, err := readPassword(stdin)
	fmt.Fprintln(stdout)
	if err != nil {
		return fmt.Errorf("读取密码失败: %w", err)
	}

	user, err := svc.Auth.Register(ctx, service.RegisterInput{
		Username: username,
		Password: password,
		Email:    email,
	})
	if err != nil {
		if msg := service.UserMessage(err); msg != "" {
			return fmt.Errorf("创建用户失败: %s", msg)
		}
		return err
	}
	fmt.Fprintf(stdout, "用户 %s 创建成功，ID %d\n", user.Username, user.ID)
	return nil
}

// readPassword 终端下不回显，管道输入时读取一行
func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func runUserList(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	svc, closeDB, err := openServices(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	users, err := svc.Auth.ListUsers(ctx)
	if err != nil {
		return err
	}
	renderUsers(stdout, users)
	return nil
}

func renderUsers(w io.Writer, users []models.User) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "用户名", "邮箱", "注册时间"})
	for _, u := range users {
		t.AppendRow(table.Row{u.ID, u.Username, u.Email, u.CreatedAt.Format("2006-01-02 15:04:05")})
	}
	t.AppendFooter(table.Row{"", "", "合计", len(users)})
	t.Render()
}
