package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// BenchmarkParseIgnoreContent_Large measures parsing a few hundred rules.
func BenchmarkParseIgnoreContent_Large(b *testing.B) {
	content := largeIgnoreContent()
	b.SetBytes(int64(len(content)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseIgnoreContent(content)
	}
}

// BenchmarkMatchWildcard_Simple measures a typical extension pattern.
func BenchmarkMatchWildcard_Simple(b *testing.B) {
	for i := 0; i < b.N; i++ {
		MatchWildcard("src/main/java/App.java", "*.java")
	}
}

// BenchmarkMatchWildcard_Pathological measures the worst case the pattern
// limits allow.
func BenchmarkMatchWildcard_Pathological(b *testing.B) {
	text := strings.Repeat("a", 1000)
	pattern := strings.Repeat("*a", MaxPatternWildcards) + "b"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MatchWildcard(text, pattern)
	}
}

// BenchmarkMatch_Miss measures a path no rule matches.
func BenchmarkMatch_Miss(b *testing.B) {
	m := NewIgnoreMatcher()
	m.AddPatterns("", []byte("*.log\n*.tmp\nbuild/\nnode_modules/\n"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match("src/main/java/App.java", false)
	}
}

// BenchmarkMatch_DeepPath measures ancestor candidates on a deep path.
func BenchmarkMatch_DeepPath(b *testing.B) {
	m := NewIgnoreMatcher()
	m.AddPatterns("", []byte("**/target\n"))

	parts := make([]string, 0, 21)
	for i := 0; i < 20; i++ {
		parts = append(parts, fmt.Sprintf("dir%d", i))
	}
	path := strings.Join(append(parts, "target"), "/")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match(path, false)
	}
}

// BenchmarkMatch_ManyRules measures a realistic large ignore file.
func BenchmarkMatch_ManyRules(b *testing.B) {
	m := NewIgnoreMatcher()
	m.AddPatterns("", largeIgnoreContent())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match("src/components/Button.java", false)
	}
}

// BenchmarkMatch_Nested measures several scoped rule sets.
func BenchmarkMatch_Nested(b *testing.B) {
	m := NewIgnoreMatcher()
	m.AddPatterns("", []byte("*.log\n"))
	m.AddPatterns("src", []byte("*.tmp\n"))
	m.AddPatterns("src/lib", []byte("*.bak\n"))
	m.AddPatterns("src/lib/internal", []byte("*.cache\n"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Match("src/lib/internal/deep/file.java", false)
	}
}

// BenchmarkMatch_Concurrent measures parallel readers.
func BenchmarkMatch_Concurrent(b *testing.B) {
	m := NewIgnoreMatcher()
	m.AddPatterns("", []byte("*.log\n**/node_modules/**\nbuild/\n"))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			m.Match("src/index.java", false)
		}
	})
}

// BenchmarkGlobFilter_Matches measures include/exclude evaluation.
func BenchmarkGlobFilter_Matches(b *testing.B) {
	f, err := NewGlobFilter([]string{"src/**.java"}, []string{"**/generated/**", "**Test.java"})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Matches("src/main/java/com/example/App.java")
	}
}

// BenchmarkNormalizePath measures path normalization.
func BenchmarkNormalizePath(b *testing.B) {
	paths := []string{"simple/path", "./leading/dot", "trailing/slash/", "double//slash"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, p := range paths {
			normalizePath(p)
		}
	}
}

// BenchmarkDiscover measures a full walk over a small tree.
func BenchmarkDiscover(b *testing.B) {
	dir := b.TempDir()
	for d := 0; d < 10; d++ {
		sub := filepath.Join(dir, fmt.Sprintf("pkg%d", d), "src")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			b.Fatal(err)
		}
		for f := 0; f < 20; f++ {
			if err := os.WriteFile(filepath.Join(sub, fmt.Sprintf("F%d.java", f)), []byte("class F {}"), 0o644); err != nil {
				b.Fatal(err)
			}
		}
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), largeIgnoreContent(), 0o644); err != nil {
		b.Fatal(err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	e, err := NewEngineWithOptions(DefaultPolicy(), EngineOptions{Logger: logger, ProjectRoot: dir})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Discover([]string{dir}, nil); err != nil {
			b.Fatal(err)
		}
	}
}
