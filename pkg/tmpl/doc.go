// Package tmpl 提供配置文件模板展开功能。
//
// 配置文件在解析前经过 text/template 处理，语法与 Taskfile 对齐：
//
//	api:
//	  token: "{{.APP_API_TOKEN}}"
//	ui:
//	  font_size: "{{env "APP_FONT_SIZE" "14px"}}"
//
// # 支持的函数
//
//   - env: 获取环境变量 {{env "VAR"}} 或 {{env "VAR" "default"}}
//   - default: 管道默认值 {{.VAR | default "fallback"}}
//   - coalesce: 返回第一个非空值 {{coalesce .VAR1 .VAR2 "default"}}
//
// 参考：https://taskfile.dev/docs/reference/templating
package tmpl
