package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"channel_admin_v1/internal/api/dto"
	"channel_admin_v1/pkg/adminclient"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "channelctl",
		Usage:     "渠道 / 客户管理命令行",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:8080",
				Usage:   "服务地址",
				EnvVars: []string{"CHANNEL_ADMIN_SERVER"},
			},
			&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second},
			&cli.BoolFlag{Name: "debug", Usage: "打印 HTTP 请求"},
		},
		Commands: []*cli.Command{
			loginCommand(),
			{
				Name:  "logout",
				Usage: "登出",
				Action: func(c *cli.Context) error {
					if err := client(c).Logout(c.Context); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "已登出")
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "查看登录状态",
				Action: func(c *cli.Context) error {
					st, err := client(c).Status(c.Context)
					if err != nil {
						return err
					}
					if st.Authenticated {
						fmt.Fprintf(c.App.Writer, "已登录 (%s)\n", st.Email)
					} else {
						fmt.Fprintln(c.App.Writer, "未登录")
					}
					return nil
				},
			},
			channelsCommand(),
			customersCommand(),
			maintenanceCommand(),
		},
	}
}

func client(c *cli.Context) *adminclient.Client {
	return adminclient.New(adminclient.Options{
		BaseURL: c.String("server"),
		Timeout: c.Duration("timeout"),
		Debug:   c.Bool("debug"),
	})
}

// ==================== 登录 ====================

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "登录（只填一项时另一项使用演示默认值）",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}},
		},
		Action: func(c *cli.Context) error {
			st, err := client(c).Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "登录成功 (%s)\n", st.Email)
			return nil
		},
	}
}

// ==================== 渠道 ====================

func channelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "channels",
		Usage: "渠道管理",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "渠道列表",
				Flags: []cli.Flag{&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}}},
				Action: func(c *cli.Context) error {
					list, err := client(c).ListChannels(c.Context, c.String("keyword"))
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tGLOBAL LOGIN\tCREATED")
					for _, ch := range list {
						fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", ch.ID, ch.Name, ch.AllowGlobalLogin, ch.CreatedAt.Format(time.RFC3339))
					}
					return w.Flush()
				},
			},
			{
				Name:      "add",
				Usage:     "新增渠道",
				ArgsUsage: "<name>",
				Flags:     []cli.Flag{&cli.BoolFlag{Name: "global", Usage: "允许全局客户登录"}},
				Action: func(c *cli.Context) error {
					name := strings.Join(c.Args().Slice(), " ")
					ch, err := client(c).AddChannel(c.Context, name, c.Bool("global"))
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, ch.ID)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "删除渠道（级联删除客户关联）",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("需要渠道 ID", 2)
					}
					if err := client(c).DeleteChannel(c.Context, c.Args().First()); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "已删除")
					return nil
				},
			},
		},
	}
}

// ==================== 客户 ====================

func customersCommand() *cli.Command {
	return &cli.Command{
		Name:  "customers",
		Usage: "客户管理",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "客户列表",
				Flags: []cli.Flag{&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}}},
				Action: func(c *cli.Context) error {
					list, err := client(c).ListCustomers(c.Context, c.String("keyword"))
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tEMAIL\tNAME\tACCESS\tCHANNELS")
					for _, cu := range list {
						fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\n",
							cu.ID, cu.Email, cu.FirstName, cu.LastName, cu.AccessMode(), strings.Join(cu.ChannelIDs, ","))
					}
					return w.Flush()
				},
			},
			{
				Name:  "add",
				Usage: "新增客户；不指定渠道时为全局客户",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "first-name", Required: true},
					&cli.StringFlag{Name: "last-name", Required: true},
					&cli.StringSliceFlag{Name: "channel", Usage: "渠道 ID，可重复"},
				},
				Action: func(c *cli.Context) error {
					cu, err := client(c).AddCustomer(c.Context, dto.CreateCustomerRequest{
						Email:      c.String("email"),
						FirstName:  c.String("first-name"),
						LastName:   c.String("last-name"),
						ChannelIDs: c.StringSlice("channel"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, cu.ID)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "删除客户",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("需要客户 ID", 2)
					}
					if err := client(c).DeleteCustomer(c.Context, c.Args().First()); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "已删除")
					return nil
				},
			},
			{
				Name:      "access",
				Usage:     "判断客户能否登录渠道",
				ArgsUsage: "<customer-id> <channel-id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("需要客户 ID 和渠道 ID", 2)
					}
					res, err := client(c).CanAccess(c.Context, c.Args().Get(0), c.Args().Get(1))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "mode=%s allowed=%t\n", res.Mode, res.Allowed)
					return nil
				},
			},
		},
	}
}

// ==================== 维护 ====================

func maintenanceCommand() *cli.Command {
	return &cli.Command{
		Name:  "maintenance",
		Usage: "完整性检查与快照",
		Subcommands: []*cli.Command{
			{
				Name:  "check",
				Usage: "检查悬空关联",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "prune", Usage: "同时删除"}},
				Action: func(c *cli.Context) error {
					report, err := client(c).Integrity(c.Context, c.Bool("prune"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "links=%d orphans=%d pruned=%d\n",
						report.TotalLinks, len(report.OrphanLinks), report.Pruned)
					for _, o := range report.OrphanLinks {
						fmt.Fprintf(c.App.Writer, "  %s customer=%s channel=%s\n", o.ID, o.CustomerID, o.ChannelID)
					}
					return nil
				},
			},
			{
				Name:  "snapshot",
				Usage: "立即导出快照",
				Action: func(c *cli.Context) error {
					info, err := client(c).ExportSnapshot(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, info.Location)
					return nil
				},
			},
		},
	}
}
