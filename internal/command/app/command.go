// Package app 提供 appcfg 命令行入口。
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261017-go-pkg-appcfg/internal/command"
	"github.com/lwmacct/261017-go-pkg-appcfg/internal/config"
	"github.com/lwmacct/261017-go-pkg-appcfg/pkg/mcfg"
)

// Command 根命令
var Command = NewCommand()

// NewCommand 创建根命令。每次调用返回独立的 flag 状态，便于测试。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:    config.AppName,
		Usage:   "应用配置与版本信息",
		Version: config.Version,
		Flags:   command.ConfigFlags(),
		Action:  action,
		Commands: []*cli.Command{
			versionCommand(),
			aboutCommand(),
			{
				Name:  "config",
				Usage: "配置相关操作",
				Commands: []*cli.Command{
					{
						Name:  "show",
						Usage: "输出合并后的生效配置",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "format",
								Aliases: []string{"f"},
								Value:   "yaml",
								Usage:   "输出格式: yaml 或 json",
							},
						},
						Action: showAction,
					},
					{
						Name:   "example",
						Usage:  "输出带注释的示例配置",
						Action: exampleAction,
					},
					{
						Name:   "check",
						Usage:  "加载并校验配置",
						Action: checkAction,
					},
				},
			},
		},
	}
}

func action(ctx context.Context, cmd *cli.Command) error {
	// 默认行为：显示帮助
	return cli.ShowAppHelp(cmd)
}

// output 返回根命令的输出目标
func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "显示版本信息",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "以 JSON 输出"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := output(cmd)
			if !cmd.Bool("json") {
				_, err := fmt.Fprintf(w, "%s %s (%d)\n", config.AppName, config.Version, config.VersionCode)
				return err
			}

			return json.NewEncoder(w).Encode(struct {
				Version     string `json:"version"`
				VersionCode int    `json:"versionCode"`
			}{config.Version, config.VersionCode})
		},
	}
}

func showAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "yaml", "yml":
		data, err = mcfg.MarshalYAML(*cfg)
	case "json":
		data, err = mcfg.MarshalJSON(*cfg)
	default:
		return fmt.Errorf("unsupported format %q, want yaml or json", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, err = output(cmd).Write(data)
	return err
}

func exampleAction(ctx context.Context, cmd *cli.Command) error {
	_, err := output(cmd).Write(mcfg.ExampleYAML(config.DefaultConfig()))
	return err
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	if _, err := config.Load(cmd); err != nil {
		return err
	}

	_, err := fmt.Fprintln(output(cmd), "ok")
	return err
}
