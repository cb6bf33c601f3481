// Package mcfg 提供通用的配置加载功能，可被外部项目复用。
//
// # 特性
//
// 使用泛型支持任意配置结构体类型，配置加载优先级 (从低到高)：
//  1. 默认值 - 通过 defaultConfig 参数传入
//  2. 配置文件 - 通过 WithConfigPaths 选项设置 (YAML / JSON)
//  3. 环境变量(前缀) - 通过 WithEnvPrefix 选项启用
//  4. 环境变量(绑定) - 通过 WithEnvBindKey(配置文件) 或 WithEnvBinding(代码) 设置
//  5. CLI flags - 通过 WithCommand 选项设置，最高优先级
//
// # 快速开始
//
// 定义配置结构体，使用 koanf 和 desc 标签：
//
//	type Config struct {
//	    Name    string        `koanf:"name"    desc:"应用名称"`
//	    Debug   bool          `koanf:"debug"   desc:"调试模式"`
//	    Timeout time.Duration `koanf:"timeout" desc:"超时时间"`
//	}
//
// 加载配置（使用函数选项模式）：
//
//	cfg, err := mcfg.Load(Config{
//	    Name:    "default",
//	    Timeout: 30 * time.Second,
//	},
//	    mcfg.WithConfigPaths(mcfg.DefaultPaths("myapp")...),
//	    mcfg.WithEnvPrefix("MYAPP_"),
//	    mcfg.WithEnvBindKey("envbind"),
//	    mcfg.WithCommand(cmd),
//	    mcfg.WithTemplate(),
//	)
//
// # 环境变量(前缀)
//
// 命名规则：前缀 + 大写的 koanf key，点号 (.) 和连字符 (-) 转为下划线 (_)。
//
// 示例 (前缀为 "MYAPP_")：
//   - MYAPP_DEBUG → debug
//   - MYAPP_UI_FONT_SIZE → ui.font_size
//   - MYAPP_CLIENT_SERVER_PASSWORD → client.server-password
//
// # 环境变量(绑定)
//
// 通过代码绑定：
//
//	mcfg.WithEnvBindings(map[string]string{
//	    "REDIS_URL": "redis.url",
//	})
//
// 通过配置文件绑定 (WithEnvBindKey("envbind"))：
//
//	envbind:
//	  REDIS_URL: redis.url
//
// 代码中的绑定优先级高于配置文件中的绑定。
//
// # CLI Flag 映射
//
// 按以下顺序匹配第一个被用户设置的 flag：
//   - ui.font_size → --ui-font-size
//   - ui.font_size → --ui-font_size
//   - ui.font_size → --ui.font_size
//
// 父命令上定义的 flag 对子命令同样可见。
//
// # 生成配置示例
//
// [ExampleYAML] 根据 desc 标签生成带注释的 YAML，[ConfigTestHelper] 在测试中写出示例文件并校验
// config.yaml 中不存在未定义的键。
package mcfg
