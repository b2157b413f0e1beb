package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// testPolicy returns a small policy allowing the given extensions.
func testPolicy(exts ...string) SecurityPolicy {
	if len(exts) == 0 {
		exts = []string{".txt"}
	}
	return SecurityPolicy{
		MaxFileSize:       1024,
		AllowedExtensions: exts,
		MaxDepth:          10,
		WarnDepth:         5,
		MaxFiles:          100,
		MaxIgnoreFileSize: 4096,
	}
}

// newTestEngine builds an engine logging into a test hook.
func newTestEngine(t *testing.T, policy SecurityPolicy, opts EngineOptions) (*Engine, *test.Hook) {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts.Logger = logger

	e, err := NewEngineWithOptions(policy, opts)
	require.NoError(t, err)
	return e, hook
}

// writeTree creates files under root. Keys are slash-separated relative
// paths; a key ending in "/" creates an empty directory.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// relFiles returns result paths relative to root, slash-separated.
func relFiles(t *testing.T, root string, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

// resolvedTempDir returns t.TempDir() with symlinks resolved, so it compares
// equal to sanitized paths on systems where the temp dir is a link.
func resolvedTempDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func crlfIgnoreContent() []byte {
	lines := []string{
		"# Windows line endings",
		"*.log",
		"build/",
		"!important.log",
		"",
		"**/temp",
	}
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func bomIgnoreContent() []byte {
	content := []byte("# BOM prefixed\n*.log\n*.tmp\nbuild/\n日本語.txt\ndonnées/\n")
	return append([]byte{0xEF, 0xBB, 0xBF}, content...)
}

// pathologicalIgnoreContent returns patterns that stress the wildcard matcher.
func pathologicalIgnoreContent() []byte {
	return []byte(`a/**/b/**/c
a/**/b/**/c/**/d/**/e
**/*.log
**/test_*
src/**/internal/**/generated/**
*~
**/node_modules/**/package.json
src/**/test/**/*_test.go
`)
}

// largeIgnoreContent returns several hundred rules.
func largeIgnoreContent() []byte {
	var b strings.Builder
	common := []string{
		"*.log", "*.tmp", "*.bak", "*.swp",
		"build/", "dist/", "out/", "target/",
		"node_modules/", "vendor/", ".venv/",
		".idea/", ".vscode/", ".DS_Store",
		"*.pyc", "__pycache__/", "*.class", "*.jar",
		"*.o", "*.so", "*.exe", "*.dll",
	}
	for _, p := range common {
		b.WriteString(p + "\n")
	}

	prefixes := []string{"", "src/", "lib/", "pkg/", "internal/", "test/"}
	extensions := []string{".log", ".tmp", ".cache", ".out", ".gen"}
	for i := 0; i < 10; i++ {
		for _, prefix := range prefixes {
			for _, ext := range extensions {
				fmt.Fprintf(&b, "%s*%d%s\n", prefix, i, ext)
			}
		}
	}
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "**/generated%d/\n", i)
	}

	b.WriteString("!important.log\n!build/release/\n")
	return []byte(b.String())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup, mirroring testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	abs, err := filepath.Abs(dir)
	require.NoError(t, err)
	t.Setenv("PWD", abs)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			panic("chdir: restoring working directory: " + err.Error())
		}
	})
}
