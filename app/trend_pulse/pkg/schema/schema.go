package schema

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Kind 字段类型
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// ErrIncomplete 解析结果缺少必填字段或类型不符
var ErrIncomplete = errors.New("incomplete result")

// Property 对象的一个有序字段
type Property struct {
	Name     string
	Schema   *Schema
	Optional bool
}

// Schema 结构化输出的声明式描述
type Schema struct {
	Kind        Kind
	Description string
	Properties  []Property
	Items       *Schema
	Enum        []string
	Required    []string
}

// Field 声明必填字段
func Field(name string, s *Schema) Property { return Property{Name: name, Schema: s} }

// Optional 声明可选字段
func Optional(name string, s *Schema) Property {
	return Property{Name: name, Schema: s, Optional: true}
}

func String() *Schema  { return &Schema{Kind: KindString} }
func Number() *Schema  { return &Schema{Kind: KindNumber} }
func Integer() *Schema { return &Schema{Kind: KindInteger} }
func Boolean() *Schema { return &Schema{Kind: KindBoolean} }

// Enum 枚举字符串
func Enum(values ...string) *Schema { return &Schema{Kind: KindEnum, Enum: values} }

// ArrayOf 元素类型为 s 的数组
func ArrayOf(s *Schema) *Schema { return &Schema{Kind: KindArray, Items: s} }

// Object 由 Field 声明的字段全部必填，Optional 声明的字段不进入 Required
func Object(props ...Property) *Schema {
	s := &Schema{Kind: KindObject, Properties: props}
	for _, p := range props {
		if !p.Optional {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}

// Describe 附加字段说明，返回自身便于链式声明
func (s *Schema) Describe(desc string) *Schema {
	s.Description = desc
	return s
}

// Property 按名查找字段
func (s *Schema) Property(name string) (*Schema, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// IncompleteError 解析值与 Schema 不符的全部问题
type IncompleteError struct {
	Problems []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIncomplete.Error(), strings.Join(e.Problems, "; "))
}

func (e *IncompleteError) Unwrap() error { return ErrIncomplete }

// Validate 检查 JSON 解码后的值（map[string]any / []any / 标量）是否完整满足 Schema。
// 仅大小写不同的枚举值会在原 map/slice 中改写为规范写法
func (s *Schema) Validate(v any) error {
	var problems []string
	s.validate("$", v, &problems)
	if len(problems) > 0 {
		return &IncompleteError{Problems: problems}
	}
	return nil
}

// validate 返回规范化后的值，由上层写回容器
func (s *Schema) validate(path string, v any, problems *[]string) any {
	add := func(format string, args ...any) {
		*problems = append(*problems, path+": "+fmt.Sprintf(format, args...))
	}
	if v == nil {
		add("missing value")
		return v
	}
	switch s.Kind {
	case KindString:
		if _, ok := v.(string); !ok {
			add("expected string, got %T", v)
		}
	case KindNumber:
		if _, ok := v.(float64); !ok {
			add("expected number, got %T", v)
		}
	case KindInteger:
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			add("expected integer, got %v", v)
		}
	case KindBoolean:
		if _, ok := v.(bool); !ok {
			add("expected boolean, got %T", v)
		}
	case KindEnum:
		str, ok := v.(string)
		if !ok {
			add("expected one of %v, got %T", s.Enum, v)
			return v
		}
		for _, e := range s.Enum {
			if e == str {
				return e
			}
		}
		for _, e := range s.Enum {
			if strings.EqualFold(e, strings.TrimSpace(str)) {
				return e
			}
		}
		add("value %q not in %v", str, s.Enum)
	case KindArray:
		arr, ok := v.([]any)
		if !ok {
			add("expected array, got %T", v)
			return v
		}
		for i, item := range arr {
			arr[i] = s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item, problems)
		}
	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			add("expected object, got %T", v)
			return v
		}
		required := make(map[string]bool, len(s.Required))
		for _, name := range s.Required {
			required[name] = true
		}
		for _, p := range s.Properties {
			child, present := obj[p.Name]
			if !present || child == nil {
				if required[p.Name] {
					*problems = append(*problems, path+"."+p.Name+": missing required field")
				}
				continue
			}
			obj[p.Name] = p.Schema.validate(path+"."+p.Name, child, problems)
		}
	default:
		add("unsupported schema kind %q", s.Kind)
	}
	return v
}

// Skeleton 生成 JSON 结构示例，供不支持原生 Schema 约束的 Provider 写进提示词
func (s *Schema) Skeleton() string {
	var sb strings.Builder
	s.skeleton(&sb, 0)
	return sb.String()
}

func (s *Schema) skeleton(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch s.Kind {
	case KindObject:
		sb.WriteString("{\n")
		for i, p := range s.Properties {
			fmt.Fprintf(sb, "%s  %q: ", indent, p.Name)
			p.Schema.skeleton(sb, depth+1)
			if i < len(s.Properties)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(indent + "}")
	case KindArray:
		sb.WriteString("[")
		s.Items.skeleton(sb, depth)
		sb.WriteString("]")
	case KindEnum:
		fmt.Fprintf(sb, "%q", strings.Join(s.Enum, " | "))
	case KindString:
		if s.Description != "" {
			fmt.Fprintf(sb, "%q", s.Description)
			return
		}
		sb.WriteString(`"string"`)
	case KindBoolean:
		sb.WriteString("false")
	default:
		sb.WriteString("0")
	}
}

// RequiredPaths 列出全部必填字段路径，便于日志与测试
func (s *Schema) RequiredPaths() []string {
	var out []string
	s.requiredPaths("", &out)
	sort.Strings(out)
	return out
}

func (s *Schema) requiredPaths(prefix string, out *[]string) {
	switch s.Kind {
	case KindObject:
		for _, name := range s.Required {
			child, _ := s.Property(name)
			path := name
			if prefix != "" {
				path = prefix + "." + name
			}
			*out = append(*out, path)
			child.requiredPaths(path, out)
		}
	case KindArray:
		s.Items.requiredPaths(prefix+"[]", out)
	}
}
