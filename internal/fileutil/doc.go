// Package fileutil provides the directory traversal and suffix matching shared by
// the aggregator and the diagnostic walker.
//
// # Traversal order
//
// Walk is top-down. Inside every directory the regular files are visited first in
// lexical order, then each subdirectory is descended into, also in lexical order:
//
//	root/
//	  a.js          (1)
//	  z.json        (2)
//	  lib/
//	    b.js        (3)
//	  src/
//	    c.jsx       (4)
//
// Paths handed to the callback are the root as given joined with the relative
// path, so "./backend" yields "./backend/lib/b.js".
//
// # Symbolic links
//
// A symlink to a file is visited like a file. A symlink to a directory is not
// descended into unless WalkOptions.FollowSymlinks is set; in that case every
// directory is tracked by its canonical path and visited at most once, so link
// cycles terminate.
//
// # Errors
//
// A root that cannot be listed is returned as an error. Subdirectories that
// cannot be listed are reported through WalkOptions.OnDirError and skipped.
// Any error returned by the callback stops the walk and is returned unchanged.
//
// # Suffix matching
//
//	m := fileutil.NewSuffixMatcher([]string{".env", ".js", ".jsx", ".json"})
//	m.Match("App.JSX") // true
//	m.Match("notes.txt") // false
package fileutil
