// Package walk finds regular files by inode number, exact name, hard-link
// count and size.
//
// Traversal is sequential and pre-order. Symbolic links are never followed
// or reported, and entries that cannot be read for lack of permission are
// skipped silently:
//
//	filter := walk.FilterSet{}.WithSize(walk.SizeGreater, 1<<20)
//	matches, err := walk.Traverse("/var/log", filter, walk.Options{})
//	if err != nil {
//		fmt.Fprintln(os.Stderr, err) // one-line diagnostic
//	}
//
// Watch keeps reporting files that start matching after the first pass:
//
//	err := walk.Watch(ctx, "/srv/in", filter, walk.WatchOptions{Known: matches},
//		func(ctx context.Context, path string) error {
//			fmt.Println(path)
//			return nil
//		})
package walk
