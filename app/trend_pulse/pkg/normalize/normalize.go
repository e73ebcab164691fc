package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/iWorld-y/trend_pulse/app/trend_pulse/pkg/schema"
)

// ErrNormalization 无法从模型输出中提取结构化值
var ErrNormalization = errors.New("normalization failed")

// Error 携带原始输出，便于排查
type Error struct {
	Raw string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: no structured value in %d bytes of model output", ErrNormalization.Error(), len(e.Raw))
}

func (e *Error) Unwrap() error { return ErrNormalization }

// Parser 从文本中提取一个结构化值
type Parser func(text string) (any, bool)

// Chain 按顺序尝试，首个成功者胜出
var Chain = []Parser{
	Whole,
	Fenced,
	Braces,
}

var reFence = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*[ \t]*\r?\n?(.*?)```")

// Whole 整段文本直接解析
func Whole(text string) (any, bool) {
	return unmarshal(strings.TrimSpace(text))
}

// Fenced 提取第一个可解析的 ``` 代码块
func Fenced(text string) (any, bool) {
	for _, m := range reFence.FindAllStringSubmatch(text, -1) {
		if v, ok := unmarshal(strings.TrimSpace(m[1])); ok {
			return v, true
		}
	}
	return nil, false
}

// Braces 截取第一个 { 到最后一个 }（含）之间的子串
func Braces(text string) (any, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return unmarshal(text[start : end+1])
}

// unmarshal 只接受 JSON 对象。标量、数组和 null 都不算结构化结果
func unmarshal(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	var v map[string]any
	if err := json.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// Parse 依次执行解析链。全部失败时返回 *Error，不做任何默认值替换
func Parse(raw string) (any, error) {
	for _, p := range Chain {
		if v, ok := p(raw); ok {
			return v, nil
		}
	}
	return nil, &Error{Raw: raw}
}

// Decode 解析、按 Schema 校验完整性，再解码到 out
func Decode(raw string, s *schema.Schema, out any) error {
	v, err := Parse(raw)
	if err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return err
	}
	// v 已是合法 JSON 值，重新编码后解到强类型结构
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("re-encode parsed value: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode into %T: %w", out, err)
	}
	return nil
}
