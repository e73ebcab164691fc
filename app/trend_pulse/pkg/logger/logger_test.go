package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCustomFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "检索失败",
		Data:    logrus.Fields{"task": "primary_idea", "attempt": 2},
	}
	b, err := (&CustomFormatter{}).Format(entry)
	assert.NoError(t, err)
	assert.Equal(t, "[2025-03-01 08:30:00] [WARN] [] 检索失败 attempt=2 task=primary_idea\n", string(b))
}

func TestKratosLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := Log
	defer func() { Log = prev }()

	Log = logrus.New()
	Log.SetOutput(&buf)
	Log.SetFormatter(&CustomFormatter{})

	h := log.NewHelper(NewKratosLogger())
	h.Warnf("slow request %d", 42)

	out := buf.String()
	assert.True(t, strings.Contains(out, "[WARN]"), out)
	assert.True(t, strings.Contains(out, "slow request 42"), out)
}
