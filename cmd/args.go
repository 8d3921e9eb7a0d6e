package cmd

import (
	"errors"
	"math"
	"strconv"

	"github.com/TFMV/findexec/internal/walk"
)

// ArgError reports a malformed command line. Its message is the diagnostic
// printed to standard error.
type ArgError struct {
	msg string
	Err error
}

func (e *ArgError) Error() string { return e.msg }

func (e *ArgError) Unwrap() error { return e.Err }

var (
	errArgCount      = errors.New("wrong number of arguments")
	errDuplicateFlag = errors.New("filter given more than once")
	errBadNumber     = errors.New("malformed integer literal")
	errOutOfRange    = errors.New("value out of range")
	errBadSizeMode   = errors.New("size must start with -, = or +")
)

func wrongCount() error {
	return &ArgError{msg: "Wrong number of arguments!", Err: errArgCount}
}

func invalid(err error) error {
	return &ArgError{msg: "Invalid arguments!", Err: err}
}

// Request is a parsed command line.
type Request struct {
	Root    string
	Filter  walk.FilterSet
	Exec    string   // Executable for execution mode
	HasExec bool     // Whether -exec was given
	Ignored []string // Unrecognized flags, skipped with their values
}

// numeric ranges accepted per filter
const (
	maxInode = math.MaxInt64
	maxLinks = math.MaxInt64
)

// ParseArgs turns "<root> [<flag> <value>]..." into a Request.
func ParseArgs(args []string) (Request, error) {
	if len(args) < 1 || len(args)%2 == 0 {
		return Request{}, wrongCount()
	}

	req := Request{Root: args[0]}
	seen := make(map[string]bool)

	for i := 1; i < len(args); i += 2 {
		flag, value := args[i], args[i+1]

		switch flag {
		case "-exec", "-inum", "-name", "-nlinks", "-size":
			if seen[flag] {
				return Request{}, invalid(errDuplicateFlag)
			}
			seen[flag] = true
		default:
			req.Ignored = append(req.Ignored, flag)
			continue
		}

		switch flag {
		case "-exec":
			req.Exec, req.HasExec = value, true

		case "-inum":
			n, err := parseRanged(value, 0, maxInode)
			if err != nil {
				return Request{}, err
			}
			req.Filter = req.Filter.WithInode(uint64(n))

		case "-name":
			req.Filter = req.Filter.WithName(value)

		case "-nlinks":
			n, err := parseRanged(value, 0, maxLinks)
			if err != nil {
				return Request{}, err
			}
			req.Filter = req.Filter.WithLinks(uint64(n))

		case "-size":
			mode, n, err := parseSize(value)
			if err != nil {
				return Request{}, err
			}
			req.Filter = req.Filter.WithSize(mode, n)
		}
	}

	return req, nil
}

// parseSize parses "-N", "=N" or "+N".
func parseSize(s string) (walk.SizeMode, int64, error) {
	if s == "" {
		return 0, 0, invalid(errBadSizeMode)
	}

	var mode walk.SizeMode
	switch s[0] {
	case '-':
		mode = walk.SizeLess
	case '=':
		mode = walk.SizeEqual
	case '+':
		mode = walk.SizeGreater
	default:
		return 0, 0, invalid(errBadSizeMode)
	}

	n, err := parseRanged(s[1:], math.MinInt64, math.MaxInt64)
	if err != nil {
		return 0, 0, err
	}
	return mode, n, nil
}

// parseRanged parses an integer literal and checks it against [lo, hi].
func parseRanged(s string, lo, hi int64) (int64, error) {
	n, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, invalid(errOutOfRange)
	}
	return n, nil
}

// parseNumber accepts an optional leading '-' followed by at least one
// decimal digit, and nothing else.
func parseNumber(s string) (int64, error) {
	digits := s
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" {
		return 0, invalid(errBadNumber)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, invalid(errBadNumber)
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, invalid(errOutOfRange)
	}
	return n, nil
}
