package discovery_test

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	discovery "github.com/Sriram-PR/go-discovery"
)

func ExampleIsIgnored() {
	rules, _ := discovery.ParseIgnoreContent([]byte("build/\n!build/keep.txt\n"))

	fmt.Println(discovery.IsIgnored(rules, "build/output.o", false))
	fmt.Println(discovery.IsIgnored(rules, "build/keep.txt", false))
	fmt.Println(discovery.IsIgnored(rules, "src/Main.java", false))
	// Output:
	// true
	// false
	// false
}

func ExampleMatchWildcard() {
	fmt.Println(discovery.MatchWildcard("report.txt", "*.txt"))
	fmt.Println(discovery.MatchWildcard("report.TXT", "*.txt"))
	fmt.Println(discovery.MatchWildcard("file1.txt", "file?.txt"))
	// Output:
	// true
	// false
	// true
}

func ExampleNewGlobFilter() {
	f, err := discovery.NewGlobFilter([]string{"src/**"}, []string{"src/generated/**"})
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(f.Matches("src/app/Main.java"))
	fmt.Println(f.Matches("src/generated/Stub.java"))
	fmt.Println(f.Matches("test/MainTest.java"))
	fmt.Println(f.ShouldPrune("src/generated"))
	// Output:
	// true
	// false
	// false
	// true
}

func ExampleIgnoreMatcher_MatchWithReason() {
	m := discovery.NewIgnoreMatcher()
	m.AddPatterns("", []byte("*.log\n!important.log\n"))

	result := m.MatchWithReason("debug.log", false)
	fmt.Printf("ignored=%v rule=%q\n", result.Ignored, result.Rule)

	result = m.MatchWithReason("important.log", false)
	fmt.Printf("ignored=%v negated=%v rule=%q\n", result.Ignored, result.Negated, result.Rule)
	// Output:
	// ignored=true rule="*.log"
	// ignored=false negated=true rule="!important.log"
}

func ExampleEngine_Discover() {
	dir, err := os.MkdirTemp("", "discovery-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	files := map[string]string{
		".gitignore":            "*.tmp.java\n",
		"src/Main.java":         "class Main {}",
		"src/Scratch.tmp.java":  "",
		"src/notes.md":          "",
		"build/gen/Stub.java":   "",
		"src/util/Strings.java": "class Strings {}",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		_ = os.MkdirAll(filepath.Dir(path), 0o755)
		_ = os.WriteFile(path, []byte(content), 0o644)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	engine, err := discovery.NewEngineWithOptions(discovery.DefaultPolicy(), discovery.EngineOptions{Logger: logger})
	if err != nil {
		fmt.Println(err)
		return
	}

	filter, _ := discovery.NewGlobFilter(nil, []string{"build/**"})
	result, err := engine.Discover([]string{dir}, filter)
	if err != nil {
		fmt.Println(err)
		return
	}

	root, _ := filepath.EvalSymlinks(dir)
	for _, f := range result.Files {
		rel, _ := filepath.Rel(root, f)
		fmt.Println(filepath.ToSlash(rel))
	}
	for _, w := range result.Warnings {
		rel, _ := filepath.Rel(root, w.Path)
		fmt.Printf("%s: %.22s\n", filepath.ToSlash(rel), w.Reason)
	}
	// Output:
	// src/Main.java
	// src/util/Strings.java
	// src/notes.md: file type not allowed:
}
