package zkcoord

import (
	"strings"
	"unicode/utf8"
)

// ValidatePath checks that path is a well-formed absolute node path.
// With isSequential set, a trailing slash is tolerated because the
// service appends the sequence suffix after it.
func ValidatePath(path string, isSequential bool) error {
	if path == "" {
		return ErrInvalidPath
	}
	if path[0] != '/' {
		return ErrInvalidPath
	}

	n := len(path)
	if n == 1 {
		// path is just the root
		return nil
	}

	if !isSequential && path[n-1] == '/' {
		return ErrInvalidPath
	}

	// Start at rune 1: the first character is known to be '/'.
	for i, w := 1, 0; i < n; i += w {
		r, width := utf8.DecodeRuneInString(path[i:])
		switch {
		case r == '/':
			last, _ := utf8.DecodeLastRuneInString(path[:i])
			if last == '/' {
				return ErrInvalidPath
			}
		case r == '.':
			last, lastWidth := utf8.DecodeLastRuneInString(path[:i])

			// Reject "." and ".." path segments, but allow names that
			// merely contain periods.
			if last == '.' {
				last, _ = utf8.DecodeLastRuneInString(path[:i-lastWidth])
			}
			if last == '/' {
				if i+1 == n {
					return ErrInvalidPath
				}
				next, _ := utf8.DecodeRuneInString(path[i+width:])
				if next == '/' {
					return ErrInvalidPath
				}
			}
		case r <= 0x001f,
			r >= 0x007f && r <= 0x009f,
			r >= 0xf000 && r <= 0xf8ff,
			r >= 0xfff0 && r < 0xffff:
			return ErrInvalidPath
		}
		w = width
	}
	return nil
}

// parentPath strips the final segment. The root is its own base case
// and is returned for first-level children.
func parentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

// joinPath appends a child name, avoiding a double slash under the root.
func joinPath(parent string, child string) string {
	if parent == "/" {
		return "/" + child
	}
	return parent + "/" + child
}
