package mcfg

import (
	"reflect"
	"strings"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"
)

// flagNames 返回 koanf key 对应的候选 CLI flag 名称，按优先级排列：
//   - ui.font_size → ui-font-size (. 和 _ 都转为 -)
//   - ui.font_size → ui-font_size (仅 . 转为 -)
//   - ui.font_size → ui.font_size (保持原样)
func flagNames(koanfKey string) []string {
	kebab := strings.ReplaceAll(koanfKey, ".", "-")
	names := []string{strings.ReplaceAll(kebab, "_", "-")}
	if kebab != names[0] {
		names = append(names, kebab)
	}
	if koanfKey != kebab {
		names = append(names, koanfKey)
	}

	return names
}

// applyCLIFlags 递归遍历结构体字段，将用户明确指定的 CLI flags 写入 koanf
func applyCLIFlags(cmd *cli.Command, k *koanf.Koanf, typ reflect.Type, prefix string) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	for i := range typ.NumField() {
		field := typ.Field(i)

		koanfKey := field.Tag.Get("koanf")
		if koanfKey == "" {
			continue
		}
		if prefix != "" {
			koanfKey = prefix + "." + koanfKey
		}

		if isNestedStruct(field.Type) {
			applyCLIFlags(cmd, k, field.Type, koanfKey)
			continue
		}

		for _, name := range flagNames(koanfKey) {
			// 只有用户明确指定时才覆盖
			if cmd.IsSet(name) {
				setCLIFlagValue(cmd, k, koanfKey, name, field.Type)
				break
			}
		}
	}
}

// setCLIFlagValue 根据字段类型从 CLI 获取值并设置到 koanf
func setCLIFlagValue(cmd *cli.Command, k *koanf.Koanf, koanfKey, cliFlag string, fieldType reflect.Type) {
	switch fieldType {
	case reflect.TypeFor[time.Duration]():
		_ = k.Set(koanfKey, cmd.Duration(cliFlag))
		return
	case reflect.TypeFor[time.Time]():
		_ = k.Set(koanfKey, cmd.Timestamp(cliFlag))
		return
	}

	switch fieldType.Kind() {
	case reflect.String:
		_ = k.Set(koanfKey, cmd.String(cliFlag))
	case reflect.Bool:
		_ = k.Set(koanfKey, cmd.Bool(cliFlag))
	case reflect.Int:
		_ = k.Set(koanfKey, cmd.Int(cliFlag))
	case reflect.Int8:
		_ = k.Set(koanfKey, cmd.Int8(cliFlag))
	case reflect.Int16:
		_ = k.Set(koanfKey, cmd.Int16(cliFlag))
	case reflect.Int32:
		_ = k.Set(koanfKey, cmd.Int32(cliFlag))
	case reflect.Int64:
		_ = k.Set(koanfKey, cmd.Int64(cliFlag))
	case reflect.Uint:
		_ = k.Set(koanfKey, cmd.Uint(cliFlag))
	case reflect.Uint8:
		// uint8 字段使用 UintFlag
		_ = k.Set(koanfKey, uint8(cmd.Uint(cliFlag))) //nolint:gosec // 由 flag 校验范围
	case reflect.Uint16:
		_ = k.Set(koanfKey, cmd.Uint16(cliFlag))
	case reflect.Uint32:
		_ = k.Set(koanfKey, cmd.Uint32(cliFlag))
	case reflect.Uint64:
		_ = k.Set(koanfKey, cmd.Uint64(cliFlag))
	case reflect.Float32:
		_ = k.Set(koanfKey, cmd.Float32(cliFlag))
	case reflect.Float64:
		_ = k.Set(koanfKey, cmd.Float64(cliFlag))
	case reflect.Slice:
		setSliceFlagValue(cmd, k, koanfKey, cliFlag, fieldType.Elem())
	case reflect.Map:
		// 仅支持 map[string]string，其余 map (如不透明的 map[string]any) 不映射到 flag
		if fieldType.Key().Kind() == reflect.String && fieldType.Elem().Kind() == reflect.String {
			_ = k.Set(koanfKey, cmd.StringMap(cliFlag))
		}
	}
}

// setSliceFlagValue 处理切片类型的 CLI flag
func setSliceFlagValue(cmd *cli.Command, k *koanf.Koanf, koanfKey, cliFlag string, elemType reflect.Type) {
	switch elemType.Kind() {
	case reflect.String:
		_ = k.Set(koanfKey, cmd.StringSlice(cliFlag))
	case reflect.Int:
		_ = k.Set(koanfKey, cmd.IntSlice(cliFlag))
	case reflect.Int64:
		_ = k.Set(koanfKey, cmd.Int64Slice(cliFlag))
	case reflect.Float64:
		_ = k.Set(koanfKey, cmd.Float64Slice(cliFlag))
	}
}
