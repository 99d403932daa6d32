package logflags

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brimdata/geovec/service/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNameFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geovec.log")
	var f Flags
	fs := flag.NewFlagSet("geovec", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"-log.path", path, "-log.level", "info", "-log.name", "smooth", "-log.filemode", "truncate"}))
	require.Equal(t, logger.Config{Path: path, Mode: logger.FileModeTruncate, Name: "smooth", Level: zap.InfoLevel}, f.Config)

	l, err := f.Open()
	require.NoError(t, err)
	l.Named("info").Info("dropped")
	l.Named("smooth").Info("kept")
	require.NoError(t, l.Sync())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(b), "\n"))
	require.Contains(t, string(b), `"kept"`)
}
