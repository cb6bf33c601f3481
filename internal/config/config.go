// Package config 提供应用配置结构与加载。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - --config 指定的文件，否则按 mcfg.DefaultPaths(AppName) 搜索
//  3. 环境变量 - APPCFG_ 前缀，如 APPCFG_UI_FONT_SIZE
//  4. CLI flags - 如 --ui-font-size
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/261017-go-pkg-appcfg/pkg/mcfg"
)

// AppName 应用名称，用于配置文件路径
const AppName = "appcfg"

// EnvPrefix 环境变量前缀
const EnvPrefix = "APPCFG_"

// ErrFontSizeMissing ui.font_size 为空
var ErrFontSizeMissing = errors.New("ui.font_size is required")

// Config 应用配置
type Config struct {
	API APIConfig `koanf:"api" json:"api" desc:"接口配置, 结构由接口模块定义, 此处原样透传"`
	UI  UIConfig  `koanf:"ui" json:"ui" desc:"界面配置"`
}

// APIConfig 接口配置。
//
// 其结构归接口模块所有，这里不做任何约束或校验。
type APIConfig = map[string]any

// UIConfig 界面配置
type UIConfig struct {
	FontSize string `koanf:"font_size" json:"fontSize" desc:"字体大小, CSS 长度, 如 14px"`
}

// DefaultConfig 返回默认配置
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		API: APIConfig{},
		UI: UIConfig{
			FontSize: "14px",
		},
	}
}

// Validate 检查 ui.font_size 是否存在。api 不做校验。
func (c *Config) Validate() error {
	if strings.TrimSpace(c.UI.FontSize) == "" {
		return ErrFontSizeMissing
	}

	return nil
}

// Load 加载并校验配置。cmd 可为 nil；若 cmd 上设置了 --config，仅加载该文件，文件不存在时报错。
func Load(cmd *cli.Command, opts ...mcfg.Option) (*Config, error) {
	base := []mcfg.Option{
		mcfg.WithCommand(cmd),
		mcfg.WithEnvPrefix(EnvPrefix),
		mcfg.WithTemplate(),
	}
	if path := explicitConfigPath(cmd); path != "" {
		base = append(base, mcfg.WithConfigPaths(path), mcfg.WithConfigRequired())
	} else {
		base = append(base, mcfg.WithConfigPaths(mcfg.DefaultPaths(AppName)...))
	}

	cfg, err := mcfg.Load(DefaultConfig(), append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func explicitConfigPath(cmd *cli.Command) string {
	if cmd == nil {
		return ""
	}

	return cmd.String("config")
}
