package runner

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ErrCommandBlocked is wrapped by every policy rejection
var ErrCommandBlocked = errors.New("command blocked")

// DangerousPatterns are rejected regardless of the allow-list
var DangerousPatterns = []string{
	"rm -rf /",
	":(){ :|:& };:", // fork bomb
	"> /dev/sda",    // disk overwrite
	"wipefs",
	"fdisk",
	"mkfs",
	"dd if=",
}

// DefaultAllowList is used when no allow-list is configured
var DefaultAllowList = []string{
	"python", "python3", "pip", "pip3", "pytest",
	"node", "npm", "npx", "yarn", "tsc", "jest",
	"go", "gcc", "g++", "clang", "clang++", "make", "cmake",
	"javac", "java", "mvn", "gradle",
	"cargo", "rustc", "dotnet", "ruby", "php",
	"cd", "mkdir", "echo", "ls", "cat", "./*",
}

var (
	envAssignRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

	// fd redirections such as 2>&1, >&2 or a bare >
	redirectRegex = regexp.MustCompile(`^(\d*|&)(>>?|<)&?(\d+|-)?$`)

	errSubstitution        = errors.New("command substitution is not allowed")
	errProcessSubstitution = errors.New("process substitution is not allowed")
)

// Policy decides which model-suggested commands may run
type Policy struct {
	// AllowList holds path.Match globs for the program of every segment;
	// an empty list allows any program not caught by DangerousPatterns
	AllowList []string
}

// NewPolicy creates a policy; a nil allow-list means DefaultAllowList
func NewPolicy(allowList []string) *Policy {
	if allowList == nil {
		allowList = DefaultAllowList
	}
	return &Policy{AllowList: allowList}
}

// Check returns an error wrapping ErrCommandBlocked when command may not run
func (p *Policy) Check(command string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("%w: empty command", ErrCommandBlocked)
	}

	lower := strings.ToLower(command)
	for _, pattern := range DangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("%w: potentially dangerous command detected: %s", ErrCommandBlocked, pattern)
		}
	}

	if len(p.AllowList) == 0 {
		return nil
	}

	programs, err := Programs(command)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCommandBlocked, err)
	}

	for _, program := range programs {
		if !p.allows(program) {
			return fmt.Errorf("%w: %q is not in the allow-list", ErrCommandBlocked, program)
		}
	}
	return nil
}

func (p *Policy) allows(program string) bool {
	for _, glob := range p.AllowList {
		if ok, err := path.Match(glob, program); err == nil && ok {
			return true
		}
	}
	return false
}

// Programs returns the program word of every segment of a command line.
// Segments are separated by unquoted &&, ||, ;, |, & and newlines; leading
// VAR=value words and redirections are skipped. Command substitution outside
// single quotes and process substitution outside any quotes are errors.
func Programs(command string) ([]string, error) {
	segments, err := splitSegments(command)
	if err != nil {
		return nil, err
	}

	var programs []string
	for _, segment := range segments {
		words, err := shellquote.Split(segment)
		if err != nil {
			return nil, fmt.Errorf("cannot parse command: %w", err)
		}
		for _, word := range words {
			if envAssignRegex.MatchString(word) || redirectRegex.MatchString(word) {
				continue
			}
			programs = append(programs, word)
			break
		}
	}

	if len(programs) == 0 {
		return nil, fmt.Errorf("no program found")
	}
	return programs, nil
}

// splitSegments cuts the raw command line at control operators that are
// not quoted or escaped. Quoting is left in place for shellquote.
func splitSegments(command string) ([]string, error) {
	var (
		segments []string
		current  strings.Builder
		quote    rune
	)

	runes := []rune(command)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		var prev, next rune
		if i > 0 {
			prev = runes[i-1]
		}
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case quote == '\'':
			if r == '\'' {
				quote = 0
			}
		case r == '\\' && next != 0:
			current.WriteRune(r)
			current.WriteRune(next)
			i++
			continue
		case r == '`' || (r == '$' && next == '('):
			return nil, errSubstitution
		case quote == '"':
			if r == '"' {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case (r == '<' || r == '>') && next == '(':
			return nil, errProcessSubstitution
		case r == '&' && (next == '>' || prev == '>' || prev == '<'):
			// &>file, 2>&1 and <&3 are redirections
		case r == '|' && prev == '>':
			// >| clobbers
		case r == ';' || r == '&' || r == '|' || r == '\n':
			segments = append(segments, current.String())
			current.Reset()
			if (r == '&' || r == '|') && next == r {
				i++
			}
			continue
		}
		current.WriteRune(r)
	}
	segments = append(segments, current.String())
	return segments, nil
}
