package discovery

// Warning is a recoverable problem with one entry. The entry was skipped and
// discovery went on.
type Warning struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

// Stats counts what a discovery call looked at.
type Stats struct {
	FilesScanned       int `json:"files_scanned" yaml:"files_scanned"`
	DirectoriesScanned int `json:"directories_scanned" yaml:"directories_scanned"`
	DirectoriesPruned  int `json:"directories_pruned" yaml:"directories_pruned"`
	EntriesIgnored     int `json:"entries_ignored" yaml:"entries_ignored"`
}

// Result is the outcome of a successful discovery call. Files is ordered
// (roots in the order given, directory entries in lexical order) and holds
// no duplicates. The caller owns the result.
type Result struct {
	Files    []string  `json:"files" yaml:"files"`
	Warnings []Warning `json:"warnings" yaml:"warnings"`
	Stats    Stats     `json:"stats" yaml:"stats"`
}

// FileCount returns the number of discovered files.
func (r *Result) FileCount() int {
	return len(r.Files)
}

// HasWarnings returns true if any entry was skipped with a warning.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
