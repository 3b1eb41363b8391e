package parser

import (
	"fmt"

	"github.com/gobwas/glob"
)

// PatternMatcher filters template names with include and exclude globs.
type PatternMatcher struct {
	includePatterns []glob.Glob
	excludePatterns []glob.Glob
}

// NewPatternMatcher compiles the include and exclude patterns.
func NewPatternMatcher(include, exclude []string) (*PatternMatcher, error) {
	pm := &PatternMatcher{}

	for _, pattern := range include {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern '%s': %w", pattern, err)
		}
		pm.includePatterns = append(pm.includePatterns, g)
	}

	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
		pm.excludePatterns = append(pm.excludePatterns, g)
	}

	return pm, nil
}

// IsAllowed reports whether name passes the filter. Exclude patterns win;
// without include patterns every name not excluded is allowed.
func (pm *PatternMatcher) IsAllowed(name string) bool {
	for _, pattern := range pm.excludePatterns {
		if pattern.Match(name) {
			return false
		}
	}

	if len(pm.includePatterns) == 0 {
		return true
	}

	for _, pattern := range pm.includePatterns {
		if pattern.Match(name) {
			return true
		}
	}

	return false
}
