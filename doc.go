// Package discovery finds the source files a processing pipeline should work
// on, starting from root paths that may be untrusted.
//
// A discovery call sanitizes every root, walks directory roots depth first,
// applies include/exclude globs and .gitignore-style rules, validates each
// candidate file against a SecurityPolicy, and returns an ordered,
// duplicate-free file list together with non-fatal warnings. Every input
// that could make the walk unbounded is capped: path depth, file count,
// ignore-file size, pattern length and wildcard count.
//
// # Basic Usage
//
//	engine, err := discovery.NewEngine(discovery.DefaultPolicy())
//	if err != nil {
//	    return err
//	}
//
//	filter, err := discovery.NewGlobFilter([]string{"src/**"}, []string{"build/**"})
//	if err != nil {
//	    return err
//	}
//
//	result, err := engine.Discover([]string{"."}, filter)
//	if err != nil {
//	    return err // traversal, depth, file count or ignore-file size
//	}
//	for _, w := range result.Warnings {
//	    log.Printf("skipped %s: %s", w.Path, w.Reason)
//	}
//
// # Errors
//
// Problems with a single entry (disallowed extension, oversized file,
// permission denied, vanished file) become Warnings and the walk goes on.
// Problems that signal an attack or unbounded cost abort the call and no
// partial result is returned:
//
//   - ErrNoRoots
//   - *PathTraversalError
//   - *RecursionDepthExceededError
//   - *FileCountExceededError
//   - *IgnoreFileTooLargeError
//
// Use errors.As to tell them apart.
//
// # Ignore Files
//
// Each walked directory may hold a .gitignore. Its rules apply to that
// directory and below, after the rules of outer directories, and the last
// matching rule wins:
//
//   - Plain names: "debug.log" matches at any depth
//   - Leading /: "/debug.log" matches only next to the ignore file
//   - Trailing /: "build/" matches directories only
//   - Wildcards: "*" matches any run of characters, including "/"
//   - Negation: "!important.log" re-includes a path
//
// Wildcards are matched with a two-pointer backtracking matcher, never a
// regular expression, so a crafted pattern costs at most
// len(path)*len(pattern) steps.
//
// # Glob Filters
//
// GlobFilter patterns use github.com/gobwas/glob syntax with '/' as the
// separator. Excluded directories are pruned before they are opened.
//
// # Thread Safety
//
// Engine, GlobFilter, FileValidator and IgnoreMatcher are safe for concurrent
// use. A DepthTracker belongs to one walk.
package discovery
