package launch

import (
	"strings"

	"github.com/google/shlex"
)

// ArgMode selects how the args string of a descriptor becomes argv.
type ArgMode int

const (
	// ArgSingle passes the trimmed, unquoted string as one argument.
	ArgSingle ArgMode = iota
	// ArgSplit tokenizes the string with shell quoting rules.
	ArgSplit
)

// ParseArgMode maps a config value to an ArgMode.
func ParseArgMode(value string) (ArgMode, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "single":
		return ArgSingle, true
	case "split":
		return ArgSplit, true
	}
	return ArgSingle, false
}

func (m ArgMode) String() string {
	if m == ArgSplit {
		return "split"
	}
	return "single"
}

// NormalizeArgs converts raw into the argument list for the mode.
func NormalizeArgs(raw string, mode ArgMode) ([]string, error) {
	if mode == ArgSplit {
		parts, err := shlex.Split(raw)
		if err != nil {
			return nil, &ArgsError{Args: raw, Err: err}
		}
		return parts, nil
	}
	value := unwrapOuterQuotes(strings.TrimSpace(raw))
	if value == "" {
		return nil, nil
	}
	return []string{value}, nil
}

// unwrapOuterQuotes strips one matching pair of " or ' around s.
func unwrapOuterQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
