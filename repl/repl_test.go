package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunFileInsertAndQuery(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	insertPath := filepath.Join(dir, "insert.ql")
	require.NoError(os.WriteFile(insertPath, []byte("(@new (hello world))"), 0o644))
	queryPath := filepath.Join(dir, "query.ql")
	require.NoError(os.WriteFile(queryPath, []byte("(hello $x)"), 0o644))

	var out strings.Builder
	r := New(Config{}, strings.NewReader(""), &out, nil)

	require.NoError(r.RunFile(insertPath))
	require.NoError(r.RunFile(queryPath))
	require.Contains(out.String(), "(hello world)")
}

func TestRunFileMissingPathErrors(t *testing.T) {
	require := require.New(t)
	var out strings.Builder
	r := New(Config{}, strings.NewReader(""), &out, nil)
	require.Error(r.RunFile(filepath.Join(t.TempDir(), "does-not-exist.ql")))
}

func TestConfigValidate(t *testing.T) {
	require := require.New(t)
	var cfg Config
	require.Error(cfg.Validate())
	cfg.StreamQL.MainSrc = "main.ql"
	require.NoError(cfg.Validate())
}

func TestLoopHelpAndQuit(t *testing.T) {
	require := require.New(t)
	var out strings.Builder
	r := New(Config{}, strings.NewReader("help\n"), &out, nil)
	r.Loop()
	require.Contains(out.String(), "'help' -- show help")
}
