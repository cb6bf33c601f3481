// Author: lwmacct (https://github.com/lwmacct)
package mcfg

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/lwmacct/261017-go-pkg-appcfg/pkg/tmpl"
)

// ErrConfigNotFound 要求配置文件存在但所有路径均未找到
var ErrConfigNotFound = errors.New("config file not found")

// DefaultPaths 返回默认配置文件搜索路径
// appName 可选，若提供则包含应用专属路径、用户主目录和系统配置目录
func DefaultPaths(appName ...string) []string {
	paths := []string{
		"config.yaml",
		"config/config.yaml",
	}

	if len(appName) > 0 && appName[0] != "" {
		name := appName[0]
		// 当前目录下的应用配置
		paths = append(paths, "."+name+".yaml")
		// 用户主目录
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, filepath.Join(home, "."+name+".yaml"))
		}
		// 系统配置目录
		paths = append(paths, "/etc/"+name+"/config.yaml")
	}

	return paths
}

// Load 加载配置，按优先级合并 (从低到高)：
//  1. 默认值 - 通过 defaultConfig 参数传入
//  2. 配置文件 - 按 WithConfigPaths 顺序搜索，找到第一个即停止
//  3. 环境变量(前缀) - WithEnvPrefix
//  4. 环境变量(绑定) - 配置文件绑定 (WithEnvBindKey)，代码绑定 (WithEnvBinding) 优先
//  5. CLI flags - WithCommand，仅用户明确指定的 flag 生效
//
// 泛型参数 T 为配置结构体类型，必须使用 koanf tag 标记字段。
func Load[T any](defaultConfig T, opts ...Option) (*T, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	k := koanf.New(".")

	// 1️⃣ 默认值
	defaults, err := structs.Provider(defaultConfig, "koanf").Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read default config: %w", err)
	}
	fillNilMaps(defaults)
	if err := k.Load(confmap.Provider(defaults, ""), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	// 2️⃣ 配置文件
	if err := loadConfigFile(k, o); err != nil {
		return nil, err
	}

	// 3️⃣ 环境变量(前缀)
	if o.envPrefix != "" {
		layout := layoutOf(defaultConfig)
		if err := k.Load(confmap.Provider(envPrefixValues(o.envPrefix, layout), "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load env config: %w", err)
		}
	}

	// 4️⃣ 环境变量(绑定)
	bindings := make(map[string]string)
	if o.envBindKey != "" {
		for envKey, koanfKey := range k.StringMap(o.envBindKey) {
			bindings[envKey] = koanfKey
		}
		k.Delete(o.envBindKey)
	}
	for envKey, koanfKey := range o.envBindings {
		bindings[envKey] = koanfKey
	}
	if len(bindings) > 0 {
		if err := k.Load(confmap.Provider(envBindingValues(bindings), "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load env bindings: %w", err)
		}
	}

	// 5️⃣ CLI flags
	if o.cmd != nil {
		applyCLIFlags(o.cmd, k, reflect.TypeOf(defaultConfig), "")
	}

	var cfg T
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// fillNilMaps 将默认值中的 nil map 替换为空 map，否则后续层无法向其中合并子 key
func fillNilMaps(m map[string]any) {
	for key, val := range m {
		sub, ok := val.(map[string]any)
		if !ok {
			continue
		}
		if sub == nil {
			m[key] = map[string]any{}
			continue
		}
		fillNilMaps(sub)
	}
}

// loadConfigFile 加载第一个存在的配置文件，文件不存在时跳过，解析失败时返回错误。
// 设置了 WithConfigRequired 时，所有路径都不存在会返回 ErrConfigNotFound。
func loadConfigFile(k *koanf.Koanf, o *options) error {
	for _, path := range o.configPaths {
		data, err := os.ReadFile(path) //nolint:gosec // 路径由调用方提供
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if o.template {
			expanded, err := tmpl.Expand(path, string(data))
			if err != nil {
				return fmt.Errorf("failed to expand config file %s: %w", path, err)
			}
			data = []byte(expanded)
		}

		if err := k.Load(rawbytes.Provider(data), parserForPath(path)); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}

		slog.Debug("Loaded config from file", "path", path)
		return nil
	}

	if o.configRequired {
		return fmt.Errorf("%w: %s", ErrConfigNotFound, strings.Join(o.configPaths, ", "))
	}

	slog.Debug("No config file found, using defaults")
	return nil
}

// parserForPath 根据扩展名选择解析器
func parserForPath(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}

	return yaml.Parser()
}

// envKeyDecoder 返回环境变量名到 koanf key 的解码器。
// 去掉前缀，转小写，下划线 (_) 转为点号 (.)。
func envKeyDecoder(prefix string) func(string) string {
	return func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, prefix)), "_", ".")
	}
}

// envPrefixValues 收集带前缀的环境变量。
//   - 已知 key 的自动绑定会覆盖前缀解码结果，使 font_size、server-password 这类 key 也能被映射
//   - map 字段是开放命名空间，其下的剩余部分整体作为一个小写 key，_ 保留：
//     APP_API_BASE_URL → api.base_url
//   - 会覆盖嵌套结构体、命名空间本身或把叶子变成 map 的变量被忽略
func envPrefixValues(prefix string, layout keyLayout) map[string]any {
	values := make(map[string]any)
	decode := envKeyDecoder(prefix)

	for _, env := range os.Environ() {
		name, val, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		if key, ok := layout.namespaceKey(prefix, name); ok {
			values[key] = val
			continue
		}
		key := decode(name)
		if layout.conflicts(key) {
			slog.Debug("Ignoring env var conflicting with config structure", "env", name, "key", key)
			continue
		}
		values[key] = val
	}

	for envKey, koanfKey := range generateEnvBindings(prefix, layout.keys) {
		if layout.namespaces[koanfKey] {
			continue
		}
		if val, ok := os.LookupEnv(envKey); ok {
			delete(values, decode(envKey))
			values[koanfKey] = val
		}
	}

	return values
}

// envBindingValues 读取绑定的环境变量，未设置的跳过
func envBindingValues(bindings map[string]string) map[string]any {
	values := make(map[string]any, len(bindings))
	for envKey, koanfKey := range bindings {
		if val, ok := os.LookupEnv(envKey); ok {
			values[koanfKey] = val
		}
	}

	return values
}

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// envName 返回 koanf key 对应的环境变量名 (不含前缀)：大写，. 和 - 转为 _
func envName(koanfKey string) string {
	return strings.ToUpper(envReplacer.Replace(koanfKey))
}

// generateEnvBindings 为 koanf key 生成环境变量绑定：前缀 + envName(key)
func generateEnvBindings(prefix string, koanfKeys []string) map[string]string {
	bindings := make(map[string]string, len(koanfKeys))
	for _, key := range koanfKeys {
		bindings[prefix+envName(key)] = key
	}

	return bindings
}

// collectKoanfKeys 递归收集配置结构体的叶子 koanf key (map 字段视为叶子)
func collectKoanfKeys(cfg any) []string {
	return layoutOf(cfg).keys
}

// keyLayout 配置结构体的 key 形态
type keyLayout struct {
	keys       []string        // 叶子 key，含 map 字段
	leaves     map[string]bool // keys 的集合形式
	nodes      map[string]bool // 嵌套结构体
	namespaces map[string]bool // map 字段，子 key 不受约束
}

func layoutOf(cfg any) keyLayout {
	l := keyLayout{
		leaves:     make(map[string]bool),
		nodes:      make(map[string]bool),
		namespaces: make(map[string]bool),
	}
	l.walk(reflect.TypeOf(cfg), "")

	return l
}

func (l *keyLayout) walk(typ reflect.Type, prefix string) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	for i := range typ.NumField() {
		field := typ.Field(i)
		key := field.Tag.Get("koanf")
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}

		if isNestedStruct(field.Type) {
			l.nodes[key] = true
			l.walk(field.Type, key)
			continue
		}
		if field.Type.Kind() == reflect.Map {
			l.namespaces[key] = true
		}
		l.keys = append(l.keys, key)
		l.leaves[key] = true
	}
}

// namespaceKey 将开放命名空间下的环境变量映射为 <namespace>.<剩余部分小写>，多个命名空间匹配时取最长者
func (l keyLayout) namespaceKey(prefix, name string) (string, bool) {
	var best, key string
	for ns := range l.namespaces {
		rest, ok := strings.CutPrefix(name, prefix+envName(ns)+"_")
		if !ok || rest == "" || len(ns) <= len(best) {
			continue
		}
		best, key = ns, ns+"."+strings.ToLower(rest)
	}

	return key, best != ""
}

// conflicts 判断 key 是否会破坏结构：覆盖嵌套结构体或命名空间本身，或以普通叶子为父节点
func (l keyLayout) conflicts(key string) bool {
	if l.nodes[key] || l.namespaces[key] {
		return true
	}
	parts := strings.Split(key, ".")
	for i := 1; i < len(parts); i++ {
		parent := strings.Join(parts[:i], ".")
		if l.leaves[parent] && !l.namespaces[parent] {
			return true
		}
	}

	return false
}

// isNestedStruct 判断是否为需要递归的嵌套结构体 (time.Duration 和 time.Time 视为叶子)
func isNestedStruct(typ reflect.Type) bool {
	return typ.Kind() == reflect.Struct &&
		typ != reflect.TypeFor[time.Duration]() &&
		typ != reflect.TypeFor[time.Time]()
}
