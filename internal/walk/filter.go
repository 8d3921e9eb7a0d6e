package walk

import (
	"golang.org/x/text/unicode/norm"
)

// SizeMode selects how the size predicate compares a file's size.
type SizeMode int

const (
	SizeLess    SizeMode = iota // size < N
	SizeEqual                   // size == N
	SizeGreater                 // size > N
)

// String returns the flag prefix for the mode.
func (m SizeMode) String() string {
	switch m {
	case SizeLess:
		return "-"
	case SizeEqual:
		return "="
	case SizeGreater:
		return "+"
	default:
		return "?"
	}
}

// FileStat holds the status fields the filter predicates look at.
type FileStat struct {
	Inode uint64 // Inode number
	Links uint64 // Hard-link count
	Size  int64  // Size in bytes
}

// FilterSet is the set of active predicates. A file matches when every
// active predicate holds; an empty FilterSet matches every regular file.
//
// Build one with the With* methods. They return copies, so a FilterSet
// handed to Traverse is never changed underneath it.
type FilterSet struct {
	inode    uint64
	name     string
	links    uint64
	size     int64
	sizeMode SizeMode

	hasInode bool
	hasName  bool
	hasLinks bool
	hasSize  bool

	// NormalizeNames compares names in Unicode NFC form instead of byte for byte.
	NormalizeNames bool
}

// WithInode returns a copy of f that requires the inode number to equal n.
func (f FilterSet) WithInode(n uint64) FilterSet {
	f.inode, f.hasInode = n, true
	return f
}

// WithName returns a copy of f that requires the base name to equal name.
func (f FilterSet) WithName(name string) FilterSet {
	f.name, f.hasName = name, true
	return f
}

// WithLinks returns a copy of f that requires the hard-link count to equal n.
func (f FilterSet) WithLinks(n uint64) FilterSet {
	f.links, f.hasLinks = n, true
	return f
}

// WithSize returns a copy of f that compares the file size against n.
func (f FilterSet) WithSize(mode SizeMode, n int64) FilterSet {
	f.size, f.sizeMode, f.hasSize = n, mode, true
	return f
}

// Inode reports the inode predicate, if active.
func (f FilterSet) Inode() (uint64, bool) { return f.inode, f.hasInode }

// Name reports the name predicate, if active.
func (f FilterSet) Name() (string, bool) { return f.name, f.hasName }

// Links reports the link count predicate, if active.
func (f FilterSet) Links() (uint64, bool) { return f.links, f.hasLinks }

// Size reports the size predicate, if active.
func (f FilterSet) Size() (SizeMode, int64, bool) { return f.sizeMode, f.size, f.hasSize }

// Empty reports whether no predicate is active.
func (f FilterSet) Empty() bool {
	return !f.hasInode && !f.hasName && !f.hasLinks && !f.hasSize
}

// Match reports whether a file with the given base name and status
// satisfies every active predicate.
func (f FilterSet) Match(name string, st FileStat) bool {
	if f.hasInode && st.Inode != f.inode {
		return false
	}
	if f.hasName && !f.nameEqual(name) {
		return false
	}
	if f.hasLinks && st.Links != f.links {
		return false
	}
	if f.hasSize && !compareSize(f.sizeMode, st.Size, f.size) {
		return false
	}
	return true
}

func (f FilterSet) nameEqual(name string) bool {
	if f.NormalizeNames {
		return norm.NFC.String(name) == norm.NFC.String(f.name)
	}
	return name == f.name
}

// compareSize applies exactly one comparison mode.
func compareSize(mode SizeMode, size, n int64) bool {
	switch mode {
	case SizeLess:
		return size < n
	case SizeEqual:
		return size == n
	case SizeGreater:
		return size > n
	default:
		return false
	}
}
