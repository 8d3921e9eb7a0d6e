package walk

import (
	"context"

	internal "github.com/TFMV/findexec/internal/walk"
	"go.uber.org/zap"
)

// Re-export the types from the internal package
type (
	// FilterSet is the conjunction of optional inode, name, link-count and
	// size predicates.
	FilterSet = internal.FilterSet

	// SizeMode selects how a file size is compared against the bound.
	SizeMode = internal.SizeMode

	// FileStat is the metadata a FilterSet is evaluated against.
	FileStat = internal.FileStat

	// MatchList holds matching paths in traversal order.
	MatchList = internal.MatchList

	// Options configures Traverse.
	Options = internal.Options

	// Stats holds traversal statistics.
	Stats = internal.Stats

	// FatalError ends a traversal; its message is the diagnostic to print.
	FatalError = internal.FatalError

	// Re-export watch types
	WatchOptions = internal.WatchOptions
	WatchHandler = internal.WatchHandler
)

// Re-export the constants
const (
	SizeLess    = internal.SizeLess
	SizeEqual   = internal.SizeEqual
	SizeGreater = internal.SizeGreater
)

// Traverse walks the tree under root and returns every regular file that
// matches filter.
func Traverse(root string, filter FilterSet, opts Options) (MatchList, error) {
	return internal.Traverse(root, filter, opts)
}

// Find is Traverse with default options and a logger.
func Find(root string, filter FilterSet, logger *zap.Logger) (MatchList, error) {
	return internal.Traverse(root, filter, Options{Logger: logger})
}

// IsFatal reports whether err ended a traversal.
func IsFatal(err error) bool {
	return internal.IsFatal(err)
}

// Watch monitors root and calls handler for each new match.
func Watch(ctx context.Context, root string, filter FilterSet, opts WatchOptions, handler WatchHandler) error {
	return internal.Watch(ctx, root, filter, opts, handler)
}
