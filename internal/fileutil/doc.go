// Package fileutil provides the bounded directory walk used by discovery.
//
// Walk mirrors a walkdir-style traversal: siblings are visited in lexicographic
// order, depth can be limited from both ends, a Descend predicate prunes whole
// subtrees and a Keep predicate selects the reported entries.
//
// # Error Tolerance
//
// A subdirectory that cannot be listed (permission denied, transient I/O error)
// is recorded as an *AccessError in WalkResult.Errors and skipped; the walk
// continues with its siblings. Callers are expected to surface these to the
// operator rather than drop them. Only a root that cannot be listed at all
// fails the walk.
//
// # Usage
//
// Directories only, two levels deep:
//
//	result, err := fileutil.Walk(ctx, inProgress, fileutil.WalkOptions{
//	    MinDepth: 1,
//	    MaxDepth: 2,
//	    Descend:  filter.IsDirectory,
//	})
//	if err != nil {
//	    return err
//	}
//	for _, skipped := range result.Errors {
//	    log.Printf("skipped %s: %v", skipped.Path, skipped.Err)
//	}
//
// Document files at any depth:
//
//	result, err := fileutil.Walk(ctx, subfamily, fileutil.WalkOptions{
//	    MinDepth: 1,
//	    Keep: func(e filter.Entry) bool {
//	        return !e.Dir && filter.IsValidDocumentFile(e)
//	    },
//	})
package fileutil
