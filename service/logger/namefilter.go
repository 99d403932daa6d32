package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// nameFilterCore keeps entries from the named logger and its descendants,
// e.g., a filter for "smooth" keeps "smooth" and "smooth.chunk" but not
// "smoother".
type nameFilterCore struct {
	zapcore.Core
	name string
}

func newNameFilterCore(next zapcore.Core, name string) zapcore.Core {
	return &nameFilterCore{next, name}
}

func (c *nameFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &nameFilterCore{c.Core.With(fields), c.name}
}

func (c *nameFilterCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.keep(e.LoggerName) {
		return c.Core.Check(e, ce)
	}
	return ce
}

func (c *nameFilterCore) keep(name string) bool {
	rest := strings.TrimPrefix(name, c.name)
	return len(rest) < len(name) && (rest == "" || rest[0] == '.')
}
