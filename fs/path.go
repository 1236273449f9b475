package fs

import "strings"

// Path names a filesystem object. It is plain data; the kernel gives it
// meaning.
type Path string

// ComponentKind identifies what a path component denotes.
type ComponentKind uint8

const (
	// ComponentRoot is the leading separator of an absolute path.
	ComponentRoot ComponentKind = iota
	// ComponentCurDir is a literal ".".
	ComponentCurDir
	// ComponentParentDir is a literal "..".
	ComponentParentDir
	// ComponentName is a real path element.
	ComponentName
)

// Component is one element of a split path.
type Component struct {
	Name Path
	Kind ComponentKind
}

// Components iterates over a path's elements in order.
type Components struct {
	rest       string
	nextIsRoot bool
	done       bool
}

// Components returns an iterator over p's elements. An absolute path
// yields ComponentRoot first. Empty segments from doubled separators are
// skipped; "." and ".." are reported, not resolved.
func (p Path) Components() *Components {
	return &Components{
		rest:       string(p),
		nextIsRoot: strings.HasPrefix(string(p), "/"),
	}
}

// Next returns the next component. The second result is false when the
// iterator is exhausted.
func (c *Components) Next() (Component, bool) {
	if c.done {
		return Component{}, false
	}

	if c.nextIsRoot {
		c.nextIsRoot = false
		c.rest = strings.TrimLeft(c.rest, "/")
		return Component{Kind: ComponentRoot}, true
	}

	for c.rest != "" {
		seg, rest, _ := strings.Cut(c.rest, "/")
		c.rest = rest
		switch seg {
		case "":
			continue
		case ".":
			return Component{Kind: ComponentCurDir, Name: "."}, true
		case "..":
			return Component{Kind: ComponentParentDir, Name: ".."}, true
		default:
			return Component{Kind: ComponentName, Name: Path(seg)}, true
		}
	}

	c.done = true
	return Component{}, false
}

// IsAbs reports whether the path starts at the root.
func (p Path) IsAbs() bool {
	return strings.HasPrefix(string(p), "/")
}

// FileName returns the final named element of the path. The second result
// is false when the path has no named element ("", "/", ".", "..").
func (p Path) FileName() (Path, bool) {
	var last Path
	found := false
	it := p.Components()
	for {
		c, ok := it.Next()
		if !ok {
			break
		}
		switch c.Kind {
		case ComponentName:
			last = c.Name
			found = true
		case ComponentParentDir:
			// The path now names an ancestor we cannot name locally.
			last = ""
			found = false
		}
	}
	return last, found
}

// Join appends q to p with a single separator. An absolute q replaces p.
func (p Path) Join(q Path) Path {
	if q.IsAbs() || p == "" {
		return q
	}
	return Path(strings.TrimRight(string(p), "/")) + "/" + q
}

// Len returns the path's length in bytes.
func (p Path) Len() int { return len(p) }

func (p Path) String() string { return string(p) }
