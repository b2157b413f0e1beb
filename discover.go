package discovery

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/go-discovery/internal/errors"
)

// DefaultIgnoreFileName is the per-directory ignore file read during a walk.
const DefaultIgnoreFileName = ".gitignore"

// EngineOptions configures Engine behavior.
type EngineOptions struct {
	// Logger receives debug and warning output.
	// Default: logrus.StandardLogger().
	Logger logrus.FieldLogger

	// ProjectRoot is the directory root paths are expected to live in.
	// Paths outside it are logged. Default: the working directory.
	ProjectRoot string

	// IgnoreFileName is the ignore file looked up in every walked directory.
	// Default: DefaultIgnoreFileName.
	IgnoreFileName string

	// DisableIgnoreFiles turns off per-directory ignore files.
	DisableIgnoreFiles bool

	// GlobalIgnore also applies the user's global ignore file
	// (see GlobalIgnorePath) to every walked directory tree.
	GlobalIgnore bool

	// FollowSymlinks descends into symlinked directories and includes
	// symlinked files. Cycles are detected and reported as warnings.
	// Default: symlinks met during a walk are skipped with a warning.
	FollowSymlinks bool
}

// Engine discovers candidate source files under a set of root paths.
//
// An Engine is immutable after construction. Concurrent Discover calls are
// safe: each call owns its depth tracker, ignore rules and accumulators.
type Engine struct {
	policy    SecurityPolicy
	sanitizer *PathSanitizer
	validator *FileValidator
	logger    logrus.FieldLogger
	opts      EngineOptions
}

// NewEngine creates an Engine with default options.
func NewEngine(policy SecurityPolicy) (*Engine, error) {
	return NewEngineWithOptions(policy, EngineOptions{})
}

// NewEngineWithOptions creates an Engine with custom options.
// The policy is validated and copied.
func NewEngineWithOptions(policy SecurityPolicy, opts EngineOptions) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	policy = policy.clone()

	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.IgnoreFileName == "" {
		opts.IgnoreFileName = DefaultIgnoreFileName
	}

	return &Engine{
		policy:    policy,
		sanitizer: NewPathSanitizer(opts.ProjectRoot, opts.Logger),
		validator: NewFileValidator(policy),
		logger:    opts.Logger,
		opts:      opts,
	}, nil
}

// Policy returns a copy of the engine's policy.
func (e *Engine) Policy() SecurityPolicy {
	return e.policy.clone()
}

// Discover walks roots and returns the files that pass filter and policy.
//
// filter may be nil. Regular-file roots are validated directly; directory
// roots are walked depth first, pruning excluded and ignored directories
// before they are opened.
//
// Discover fails, without a partial result, on an empty roots slice
// (ErrNoRoots), a rejected root (*PathTraversalError), a walk deeper than
// MaxDepth (*RecursionDepthExceededError), more than MaxFiles included files
// (*FileCountExceededError) or an oversized ignore file
// (*IgnoreFileTooLargeError). Every other problem becomes a Warning.
func (e *Engine) Discover(roots []string, filter *GlobFilter) (*Result, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	w := newWalker(e, filter)
	defer w.tracker.Reset()

	if e.opts.GlobalIgnore {
		if err := w.loadGlobalIgnore(); err != nil {
			return nil, err
		}
	}

	for _, root := range roots {
		if err := w.discoverRoot(root); err != nil {
			e.logger.WithError(err).WithField("root", root).Debug("Discovery aborted")
			return nil, err
		}
	}

	e.logger.WithFields(logrus.Fields{
		"files":    len(w.files),
		"warnings": len(w.warnings),
		"scanned":  w.stats.FilesScanned,
		"dirs":     w.stats.DirectoriesScanned,
		"pruned":   w.stats.DirectoriesPruned,
		"ignored":  w.stats.EntriesIgnored,
	}).Debug("Discovery finished")

	return &Result{
		Files:    w.files,
		Warnings: w.warnings,
		Stats:    w.stats,
	}, nil
}

// outcomeKind tags what happened to one file.
type outcomeKind int

const (
	outcomeIncluded outcomeKind = iota
	outcomeFiltered
	outcomeSkipped
)

// entryOutcome is the per-file result. Fail-fast conditions are returned as
// errors next to it instead.
type entryOutcome struct {
	kind   outcomeKind
	reason string
}

// walker holds the state of one Discover call.
type walker struct {
	engine  *Engine
	filter  *GlobFilter
	tracker *DepthTracker

	globalRules []IgnoreRule
	files       []string
	seen        map[string]struct{}
	warnings    []Warning
	stats       Stats

	// Directories entered through symlinks, by resolved path.
	visited map[string]struct{}

	readDir func(name string) ([]fs.DirEntry, error)
}

func newWalker(e *Engine, filter *GlobFilter) *walker {
	return &walker{
		engine:  e,
		filter:  filter,
		tracker: NewDepthTracker(e.policy),
		seen:    make(map[string]struct{}),
		readDir: os.ReadDir,
	}
}

func (w *walker) warn(path, reason string) {
	w.warnings = append(w.warnings, Warning{Path: path, Reason: reason})
}

func (w *walker) loadGlobalIgnore() error {
	rules, parseWarnings, path, err := LoadGlobalIgnore(w.engine.policy.MaxIgnoreFileSize)
	if err != nil {
		var tooLarge *IgnoreFileTooLargeError
		if errors.As(err, &tooLarge) {
			return err
		}
		w.warn(path, "I/O error: "+err.Error())
		return nil
	}

	for _, pw := range parseWarnings {
		w.warn(path, "ignore pattern skipped: "+pw.String())
	}
	w.globalRules = rules
	return nil
}

func (w *walker) discoverRoot(root string) error {
	clean, err := w.engine.sanitizer.Sanitize(root)
	if err != nil {
		return err
	}

	info, err := os.Stat(clean)
	if err != nil {
		w.warn(clean, reasonFor(err))
		return nil
	}

	switch {
	case info.Mode().IsRegular():
		// An explicit file root is matched by its base name.
		return w.visitFile(clean, filepath.Base(clean))
	case info.IsDir():
		ignore := NewIgnoreMatcher()
		ignore.AddRules("", w.globalRules)
		if w.engine.opts.FollowSymlinks {
			w.visited = map[string]struct{}{clean: {}}
		}
		return w.walkDir(ignore, clean, "")
	default:
		w.warn(clean, "unsupported file type")
		return nil
	}
}

// walkDir walks dir (rel is its path relative to the walk root) depth first.
// Entries come back from os.ReadDir in lexical order.
func (w *walker) walkDir(ignore *IgnoreMatcher, dir, rel string) error {
	warnedBefore := w.tracker.Warned()
	if err := w.tracker.Enter(dir); err != nil {
		return err
	}
	defer w.tracker.Exit()

	if !warnedBefore && w.tracker.Warned() {
		w.engine.logger.WithFields(logrus.Fields{
			"path":  dir,
			"depth": w.tracker.Depth(),
			"limit": w.engine.policy.MaxDepth,
		}).Warn("Directory nesting is approaching the depth limit")
	}

	w.stats.DirectoriesScanned++

	// Entries read before an error are still walked.
	entries, err := w.readDir(dir)
	if err != nil {
		w.warn(dir, "error reading directory: "+reasonFor(err))
		if len(entries) == 0 {
			return nil
		}
	}

	// Rules loaded here apply to this subtree only.
	mark := ignore.setCount()
	defer ignore.truncate(mark)

	if !w.engine.opts.DisableIgnoreFiles {
		if err := w.loadIgnoreFile(ignore, dir, rel); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		childRel := joinRel(rel, entry.Name())

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			var skip bool
			mode, skip = w.resolveSymlink(path)
			if skip {
				continue
			}
		}

		switch {
		case mode.IsDir():
			if err := w.enterSubdir(ignore, path, childRel); err != nil {
				return err
			}
		case mode.IsRegular():
			if w.isIgnoreFile(entry.Name()) {
				continue
			}
			if ignore.Match(childRel, false) {
				w.stats.EntriesIgnored++
				continue
			}
			if err := w.visitFile(path, childRel); err != nil {
				return err
			}
		default:
			// loadIgnoreFile has already reported an unusable ignore file.
			if w.isIgnoreFile(entry.Name()) {
				continue
			}
			w.warn(path, "unsupported file type")
		}
	}

	return nil
}

// enterSubdir applies ignore rules and pruning before descending.
func (w *walker) enterSubdir(ignore *IgnoreMatcher, path, rel string) error {
	if ignore.Match(rel, true) {
		w.stats.EntriesIgnored++
		w.engine.logger.WithField("path", path).Debug("Skipping ignored directory")
		return nil
	}

	if w.filter.ShouldPrune(rel) {
		w.stats.DirectoriesPruned++
		w.engine.logger.WithField("path", path).Debug("Pruning excluded directory")
		return nil
	}

	if w.visited != nil {
		resolved := resolvePath(path)
		if _, ok := w.visited[resolved]; ok {
			w.warn(path, "symbolic link cycle detected")
			return nil
		}
		w.visited[resolved] = struct{}{}
		defer delete(w.visited, resolved)
	}

	return w.walkDir(ignore, path, rel)
}

// resolveSymlink returns the mode of a symlink's target. skip is true when
// the link must not be visited; a warning has been recorded in that case.
func (w *walker) resolveSymlink(path string) (mode fs.FileMode, skip bool) {
	if !w.engine.opts.FollowSymlinks {
		w.warn(path, "symbolic link not followed")
		return 0, true
	}

	info, err := os.Stat(path)
	if err != nil {
		w.warn(path, reasonFor(err))
		return 0, true
	}
	return info.Mode(), false
}

func (w *walker) loadIgnoreFile(ignore *IgnoreMatcher, dir, rel string) error {
	path := filepath.Join(dir, w.engine.opts.IgnoreFileName)
	rules, parseWarnings, err := ParseIgnoreFile(path, w.engine.policy.MaxIgnoreFileSize)
	if err != nil {
		var tooLarge *IgnoreFileTooLargeError
		if errors.As(err, &tooLarge) {
			return err
		}
		w.warn(path, reasonFor(err))
		return nil
	}

	for _, pw := range parseWarnings {
		w.warn(path, "ignore pattern skipped: "+pw.String())
	}
	ignore.AddRules(rel, rules)
	return nil
}

// isIgnoreFile reports whether name is the per-directory ignore file, which
// is read by the walk and never reported as a candidate.
func (w *walker) isIgnoreFile(name string) bool {
	return !w.engine.opts.DisableIgnoreFiles && name == w.engine.opts.IgnoreFileName
}

// visitFile runs the per-file pipeline and records the outcome.
func (w *walker) visitFile(path, matchPath string) error {
	outcome, err := w.processFile(path, matchPath)
	if err != nil {
		return err
	}

	switch outcome.kind {
	case outcomeIncluded:
		w.files = append(w.files, path)
		w.seen[path] = struct{}{}
	case outcomeSkipped:
		w.warn(path, outcome.reason)
	case outcomeFiltered:
	}
	return nil
}

func (w *walker) processFile(path, matchPath string) (entryOutcome, error) {
	w.stats.FilesScanned++

	if !w.filter.Matches(matchPath) {
		return entryOutcome{kind: outcomeFiltered}, nil
	}
	if _, dup := w.seen[path]; dup {
		return entryOutcome{kind: outcomeFiltered}, nil
	}

	if err := w.engine.validator.Validate(path); err != nil {
		return entryOutcome{kind: outcomeSkipped, reason: reasonFor(err)}, nil
	}

	if len(w.files)+1 > w.engine.policy.MaxFiles {
		return entryOutcome{}, errors.New(&FileCountExceededError{Limit: w.engine.policy.MaxFiles})
	}

	return entryOutcome{kind: outcomeIncluded}, nil
}

// reasonFor turns a recoverable error into a warning reason.
func reasonFor(err error) string {
	var (
		tooLarge *FileTooLargeError
		badExt   *ExtensionNotAllowedError
	)

	switch {
	case errors.As(err, &tooLarge):
		return "file size exceeded: " + tooLarge.Error()
	case errors.As(err, &badExt):
		return "file type not allowed: " + badExt.Error()
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, fs.ErrNotExist):
		return "file not found"
	case errors.Is(err, ErrNotRegularFile):
		return "unsupported file type"
	default:
		return "I/O error: " + err.Error()
	}
}

func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "/" + name
}
