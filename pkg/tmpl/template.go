package tmpl

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
)

// funcs 模板函数映射表 (参考 Taskfile 和 Sprig)
var funcs = template.FuncMap{
	"env":      envFunc,
	"default":  defaultFunc,
	"coalesce": coalesceFunc,
}

// envFunc 获取环境变量，支持可选的默认值。
//
//   - {{env "VAR"}}           未设置时返回空字符串
//   - {{env "VAR" "default"}} 未设置时返回默认值
func envFunc(key string, defaultVal ...string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if len(defaultVal) > 0 {
		return defaultVal[0]
	}

	return ""
}

// defaultFunc 提供默认值（管道友好），参数顺序与 Sprig 一致：default(默认值, 实际值)。
func defaultFunc(defaultVal, value any) any {
	if isEmpty(value) {
		return defaultVal
	}

	return value
}

// coalesceFunc 返回第一个非空值，全部为空时返回空字符串。
func coalesceFunc(values ...any) any {
	for _, v := range values {
		if !isEmpty(v) {
			return v
		}
	}

	return ""
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	str, ok := v.(string)
	return ok && str == ""
}

// Environ 以 map 形式返回当前进程的环境变量，作为模板的顶级数据。
func Environ() map[string]string {
	vars := make(map[string]string)
	for _, env := range os.Environ() {
		if key, val, ok := strings.Cut(env, "="); ok {
			vars[key] = val
		}
	}

	return vars
}

// Expand 使用当前环境变量展开模板文本。
//
// name 用于错误信息，通常为配置文件路径。支持的语法：
//   - {{.VAR}}                          直接访问环境变量（Taskfile 风格）
//   - {{env "VAR"}} / {{env "VAR" "x"}} env 函数，可带默认值
//   - {{.VAR | default "fallback"}}     管道式默认值
//   - {{coalesce .VAR1 .VAR2 "x"}}      多级 fallback
//
// 未定义的变量展开为空字符串。
func Expand(name, text string) (string, error) {
	return ExpandWith(name, text, Environ())
}

// ExpandWith 使用给定变量展开模板文本。
func ExpandWith(name, text string, vars map[string]string) (string, error) {
	t, err := template.New(name).Funcs(funcs).Option("missingkey=zero").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
