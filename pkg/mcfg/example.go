package mcfg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	yamlv3 "go.yaml.in/yaml/v3"
)

// exampleHeader 示例文件头注释
const exampleHeader = "配置示例文件, 复制此文件为 config.yaml 并根据需要修改"

// ExampleYAML 将配置结构体序列化为带注释的 YAML。
//
// 通过 desc tag 自动生成注释，适用于生成 config.example.yaml。
//
// 使用示例：
//
//	yaml := mcfg.ExampleYAML(DefaultConfig())
//	os.WriteFile("config/config.example.yaml", yaml, 0644)
func ExampleYAML[T any](cfg T) []byte {
	node := structToNode(reflect.ValueOf(cfg), reflect.TypeOf(cfg))
	node.HeadComment = exampleHeader

	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(2)
	_ = enc.Encode(node)
	_ = enc.Close()

	return buf.Bytes()
}

// MarshalYAML 将配置结构体序列化为 YAML（无注释），key 取自 koanf tag。
func MarshalYAML[T any](cfg T) ([]byte, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return k.Marshal(yaml.Parser())
}

// MarshalJSON 将配置结构体序列化为缩进 JSON，key 取自 json tag。
func MarshalJSON[T any](cfg T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	return buf.Bytes(), nil
}

// structToNode 将结构体转换为带注释的 yamlv3.Node。
func structToNode(val reflect.Value, typ reflect.Type) *yamlv3.Node {
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!null"}
		}
		val = val.Elem()
		typ = typ.Elem()
	}

	node := &yamlv3.Node{Kind: yamlv3.MappingNode}

	for i := range typ.NumField() {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		key := field.Tag.Get("koanf")
		if key == "" {
			continue
		}
		comment := field.Tag.Get("desc")

		keyNode := &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: key}
		var valNode *yamlv3.Node

		switch {
		case isNestedStruct(field.Type):
			valNode = structToNode(fieldVal, field.Type)
			setBlockComment(keyNode, comment)
		case field.Type.Kind() == reflect.Slice:
			valNode = valueToNode(fieldVal)
			setBlockComment(keyNode, comment)
		default:
			valNode = valueToNode(fieldVal)
			// 多行注释放在 key 上方，单行注释放在行尾
			if strings.Contains(comment, "\n") {
				setBlockComment(keyNode, comment)
			} else {
				valNode.LineComment = comment
			}
		}

		node.Content = append(node.Content, keyNode, valNode)
	}

	return node
}

// setBlockComment 复杂类型注释放在 key 上方，前面加空行
func setBlockComment(keyNode *yamlv3.Node, comment string) {
	if comment == "" {
		return
	}
	keyNode.HeadComment = "\n" + comment
}

// valueToNode 将值转换为 yamlv3.Node。
func valueToNode(val reflect.Value) *yamlv3.Node {
	// map[string]any 等容器中的元素为 interface，先取出实际值
	if val.Kind() == reflect.Interface {
		if val.IsNil() {
			return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!null", Value: "null"}
		}
		val = val.Elem()
	}

	switch val.Type() {
	case reflect.TypeFor[time.Duration]():
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: time.Duration(val.Int()).String()}
	case reflect.TypeFor[time.Time]():
		if t, ok := val.Interface().(time.Time); ok {
			return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: t.Format(time.RFC3339)}
		}
	}

	switch val.Kind() {
	case reflect.String:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: val.String(), Style: yamlv3.DoubleQuotedStyle}
	case reflect.Bool:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: strconv.FormatBool(val.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: strconv.FormatInt(val.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: strconv.FormatUint(val.Uint(), 10)}
	case reflect.Float32, reflect.Float64:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: strconv.FormatFloat(val.Float(), 'g', -1, 64)}

	case reflect.Slice:
		node := &yamlv3.Node{Kind: yamlv3.SequenceNode}
		if val.Len() == 0 {
			node.Style = yamlv3.FlowStyle // []
			return node
		}
		for j := range val.Len() {
			elemNode := valueToNode(val.Index(j))
			// slice 元素不使用引号样式，保持简洁
			elemNode.Style = 0
			node.Content = append(node.Content, elemNode)
		}
		return node

	case reflect.Map:
		node := &yamlv3.Node{Kind: yamlv3.MappingNode}
		if val.Len() == 0 {
			node.Style = yamlv3.FlowStyle // {}
			return node
		}
		// 按 key 排序，保证输出稳定
		keys := val.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
		})
		for _, mk := range keys {
			node.Content = append(node.Content,
				&yamlv3.Node{Kind: yamlv3.ScalarNode, Value: fmt.Sprint(mk.Interface())},
				valueToNode(val.MapIndex(mk)),
			)
		}
		return node

	case reflect.Struct:
		return structToNode(val, val.Type())

	default:
		return &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: fmt.Sprint(val.Interface())}
	}
}
