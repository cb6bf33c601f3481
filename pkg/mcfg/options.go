package mcfg

import "github.com/urfave/cli/v3"

// Option 配置加载选项
type Option func(*options)

type options struct {
	configPaths    []string
	configRequired bool
	envPrefix      string
	envBindKey     string
	envBindings    map[string]string
	cmd            *cli.Command
	template       bool
}

// WithConfigPaths 设置配置文件搜索路径，按顺序搜索，找到第一个即停止。
//
// 文件扩展名为 .json 时使用 JSON 解析器，其余按 YAML 解析。
func WithConfigPaths(paths ...string) Option {
	return func(o *options) {
		o.configPaths = append(o.configPaths, paths...)
	}
}

// WithConfigRequired 要求至少找到一个配置文件，否则 Load 返回 ErrConfigNotFound。
//
// 用于用户显式指定的路径 (如 --config)，避免拼写错误被静默忽略。
func WithConfigRequired() Option {
	return func(o *options) {
		o.configRequired = true
	}
}

// WithEnvPrefix 启用环境变量前缀映射。
//
// 例如前缀为 "APPCFG_" 时，APPCFG_UI_FONT_SIZE → ui.font_size。
// map 字段下的变量保留下划线：APPCFG_API_BASE_URL → api.base_url。
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithEnvBindKey 指定配置文件中环境变量绑定表所在的 key，如 "envbind"。
func WithEnvBindKey(key string) Option {
	return func(o *options) {
		o.envBindKey = key
	}
}

// WithEnvBinding 将单个环境变量直接绑定到 koanf key。
func WithEnvBinding(envKey, koanfKey string) Option {
	return func(o *options) {
		if o.envBindings == nil {
			o.envBindings = make(map[string]string)
		}
		o.envBindings[envKey] = koanfKey
	}
}

// WithEnvBindings 批量绑定环境变量，key 为环境变量名，value 为 koanf key。
func WithEnvBindings(bindings map[string]string) Option {
	return func(o *options) {
		if o.envBindings == nil {
			o.envBindings = make(map[string]string, len(bindings))
		}
		for envKey, koanfKey := range bindings {
			o.envBindings[envKey] = koanfKey
		}
	}
}

// WithCommand 设置 CLI 命令，用户明确指定的 flags 拥有最高优先级。
func WithCommand(cmd *cli.Command) Option {
	return func(o *options) {
		o.cmd = cmd
	}
}

// WithTemplate 在解析前展开配置文件中的模板语法 (见 pkg/tmpl)。
func WithTemplate() Option {
	return func(o *options) {
		o.template = true
	}
}
