package cmd

import (
	"errors"
	"reflect"
	"testing"

	"github.com/TFMV/findexec/internal/walk"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected Request
	}{
		{
			name:     "root only",
			args:     []string{"/tmp"},
			expected: Request{Root: "/tmp"},
		},
		{
			name: "all filters",
			args: []string{"/tmp", "-inum", "12", "-name", "a.txt", "-nlinks", "2", "-size", "+15", "-exec", "/bin/true"},
			expected: Request{
				Root:    "/tmp",
				Filter:  walk.FilterSet{}.WithInode(12).WithName("a.txt").WithLinks(2).WithSize(walk.SizeGreater, 15),
				Exec:    "/bin/true",
				HasExec: true,
			},
		},
		{
			name:     "size less",
			args:     []string{".", "-size", "-100"},
			expected: Request{Root: ".", Filter: walk.FilterSet{}.WithSize(walk.SizeLess, 100)},
		},
		{
			name:     "size equal zero",
			args:     []string{".", "-size", "=0"},
			expected: Request{Root: ".", Filter: walk.FilterSet{}.WithSize(walk.SizeEqual, 0)},
		},
		{
			name:     "negative size bound",
			args:     []string{".", "-size", "+-5"},
			expected: Request{Root: ".", Filter: walk.FilterSet{}.WithSize(walk.SizeGreater, -5)},
		},
		{
			name:     "smallest size bound",
			args:     []string{".", "-size", "--9223372036854775808"},
			expected: Request{Root: ".", Filter: walk.FilterSet{}.WithSize(walk.SizeLess, -9223372036854775808)},
		},
		{
			name:     "name may look like a flag",
			args:     []string{".", "-name", "-size"},
			expected: Request{Root: ".", Filter: walk.FilterSet{}.WithName("-size")},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{".", "-type", "f", "-name", "x"},
			expected: Request{Root: ".", Filter: walk.FilterSet{}.WithName("x"), Ignored: []string{"-type"}},
		},
		{
			name:     "empty exec path",
			args:     []string{".", "-exec", ""},
			expected: Request{Root: ".", HasExec: true},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseArgs(test.args)
			if err != nil {
				t.Fatalf("ParseArgs failed: %v", err)
			}
			if !reflect.DeepEqual(got, test.expected) {
				t.Errorf("Expected %+v, got %+v", test.expected, got)
			}
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		message string
		cause   error
	}{
		{"no arguments", nil, "Wrong number of arguments!", errArgCount},
		{"dangling flag", []string{".", "-name"}, "Wrong number of arguments!", errArgCount},
		{"duplicate name", []string{".", "-name", "a", "-name", "b"}, "Invalid arguments!", errDuplicateFlag},
		{"duplicate exec", []string{".", "-exec", "/a", "-exec", "/b"}, "Invalid arguments!", errDuplicateFlag},
		{"duplicate size", []string{".", "-size", "+1", "-size", "-9"}, "Invalid arguments!", errDuplicateFlag},
		{"empty number", []string{".", "-inum", ""}, "Invalid arguments!", errBadNumber},
		{"lone minus", []string{".", "-nlinks", "-"}, "Invalid arguments!", errBadNumber},
		{"plus sign", []string{".", "-inum", "+5"}, "Invalid arguments!", errBadNumber},
		{"letters", []string{".", "-inum", "12a"}, "Invalid arguments!", errBadNumber},
		{"spaces", []string{".", "-nlinks", " 1"}, "Invalid arguments!", errBadNumber},
		{"negative inode", []string{".", "-inum", "-1"}, "Invalid arguments!", errOutOfRange},
		{"negative links", []string{".", "-nlinks", "-3"}, "Invalid arguments!", errOutOfRange},
		{"inode overflow", []string{".", "-inum", "9223372036854775808"}, "Invalid arguments!", errOutOfRange},
		{"size overflow", []string{".", "-size", "+99999999999999999999"}, "Invalid arguments!", errOutOfRange},
		{"size without mode", []string{".", "-size", "15"}, "Invalid arguments!", errBadSizeMode},
		{"size empty", []string{".", "-size", ""}, "Invalid arguments!", errBadSizeMode},
		{"size mode only", []string{".", "-size", "+"}, "Invalid arguments!", errBadNumber},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseArgs(test.args)
			var argErr *ArgError
			if !errors.As(err, &argErr) {
				t.Fatalf("Expected *ArgError, got %v", err)
			}
			if err.Error() != test.message {
				t.Errorf("Expected message %q, got %q", test.message, err.Error())
			}
			if !errors.Is(err, test.cause) {
				t.Errorf("Expected cause %v, got %v", test.cause, argErr.Err)
			}
		})
	}
}
