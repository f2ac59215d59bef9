// Package version decides, once per run, whether the target build matches the layout table.
package version

import (
	"regexp"
	"strconv"
)

// DefaultPattern matches the build token the game puts in its window title, e.g. "MHW:IB v410013"
var DefaultPattern = regexp.MustCompile(`v(\d+)`)

type Status int

const (
	Unverifiable Status = iota
	Unsupported
	Supported
)

func (s Status) String() string {
	switch s {
	case Supported:
		return "supported"
	case Unsupported:
		return "unsupported"
	default:
		return "unverifiable"
	}
}

// Parse extracts the build number from title. ok is false when the pattern does not match
// or its first group is missing or not a decimal integer.
func Parse(title string, pattern *regexp.Regexp) (build int, ok bool) {
	if pattern == nil {
		pattern = DefaultPattern
	}

	m := pattern.FindStringSubmatch(title)
	if len(m) < 2 || m[1] == "" {
		return 0, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Classify compares the build found in title against the supported build
func Classify(title string, pattern *regexp.Regexp, supported int) Status {
	build, ok := Parse(title, pattern)
	switch {
	case !ok:
		return Unverifiable
	case build != supported:
		return Unsupported
	default:
		return Supported
	}
}
