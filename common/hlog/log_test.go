package hlog

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetLevel(LevelWarn)
	defer SetLevel(LevelTrace)

	Infof("被过滤 %d", 1)
	assert.Equal(t, 0, buf.Len())

	Warnf("保留 %d", 2)
	assert.True(t, strings.Contains(buf.String(), "[Warn] 保留 2"))

	Errorf("错误 %v", "x")
	assert.True(t, strings.Contains(buf.String(), "[Error] 错误 x"))
}

func TestLevel_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[Info] ", LevelInfo.String())
	assert.Equal(t, "[?42] ", Level(42).String())
}
