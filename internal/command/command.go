// Package command 提供命令行功能的公共部分。
package command

import (
	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261017-go-pkg-appcfg/internal/config"
)

// Defaults 默认配置 - 单一来源 (Single Source of Truth)
var Defaults = config.DefaultConfig()

// ConfigFlags 返回与配置结构对应的全局 flags，flag 名称遵循 mcfg 的 kebab-case 映射。
func ConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "配置文件路径 (YAML 或 JSON)",
		},
		&cli.StringFlag{
			Name:  "ui-font-size",
			Value: Defaults.UI.FontSize,
			Usage: "界面字体大小, 如 14px",
		},
	}
}
