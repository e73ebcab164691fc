package logger

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sirupsen/logrus"
)

// KratosLogger 把 kratos 的 key/value 日志转发到全局 logrus
type KratosLogger struct{}

var _ log.Logger = KratosLogger{}

// NewKratosLogger 供 kratos.App 与 transport 使用
func NewKratosLogger() log.Logger { return KratosLogger{} }

// Log 实现 log.Logger
func (KratosLogger) Log(level log.Level, keyvals ...any) error {
	fields := make(logrus.Fields, len(keyvals)/2)
	msg := ""
	for i := 0; i+1 < len(keyvals); i += 2 {
		k := fmt.Sprint(keyvals[i])
		if k == log.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		fields[k] = keyvals[i+1]
	}
	entry := Log.WithFields(fields)
	switch level {
	case log.LevelDebug:
		entry.Debug(msg)
	case log.LevelWarn:
		entry.Warn(msg)
	case log.LevelError, log.LevelFatal:
		entry.Error(msg)
	default:
		entry.Info(msg)
	}
	return nil
}
