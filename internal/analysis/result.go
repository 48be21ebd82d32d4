package analysis

import "slices"

// DetectionResult is what the walker gathers from a tree: dependencies per
// file and the paths that failed.
type DetectionResult struct {
	Using        map[string][]string
	InvalidFiles map[string]error
	InvalidDirs  map[string]error
}

func newDetectionResult() DetectionResult {
	return DetectionResult{
		Using:        make(map[string][]string),
		InvalidFiles: make(map[string]error),
		InvalidDirs:  make(map[string]error),
	}
}

// contribution is the immutable outcome of one task: a successful
// extraction, a failed extraction or a failed directory listing.
type contribution struct {
	file    string
	names   []string
	fileErr error
	dir     string
	dirErr  error
}

// fold merges c into r. Dependency lists for a file are concatenated and
// deduplicated; errors for the same path keep the last one folded.
func (r *DetectionResult) fold(c contribution) {
	switch {
	case c.dirErr != nil:
		r.InvalidDirs[c.dir] = c.dirErr
	case c.fileErr != nil:
		r.InvalidFiles[c.file] = c.fileErr
	default:
		r.Using[c.file] = appendUnique(r.Using[c.file], c.names...)
	}
}

func appendUnique(list []string, items ...string) []string {
	if list == nil {
		list = make([]string, 0, len(items))
	}
	for _, item := range items {
		if !slices.Contains(list, item) {
			list = append(list, item)
		}
	}
	return list
}
