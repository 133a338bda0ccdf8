package jsontree

import (
	"strconv"
	"strings"
)

// Node is one position in the display tree of a Value.
type Node struct {
	Path     string // stable address, e.g. $.items[2].name
	Key      string // object key; empty for array elements and the root
	HasKey   bool
	Depth    int
	Last     bool // last child of its parent, so it takes no trailing comma
	Value    Value
	Children []*Node
}

// Collapsible reports whether the node can be folded. Empty composites
// never can.
func (n *Node) Collapsible() bool {
	return n.Value.IsComposite() && n.Value.Len() > 0
}

// Build constructs the display tree for v. Object children are ordered by
// key, array children keep their order.
func Build(v Value) *Node {
	return build(v, "$", "", false, 0, true)
}

func build(v Value, path, key string, hasKey bool, depth int, last bool) *Node {
	n := &Node{Path: path, Key: key, HasKey: hasKey, Depth: depth, Last: last, Value: v}
	switch v.kind {
	case Array:
		n.Children = make([]*Node, len(v.items))
		for i, item := range v.items {
			childPath := path + "[" + strconv.Itoa(i) + "]"
			n.Children[i] = build(item, childPath, "", false, depth+1, i == len(v.items)-1)
		}
	case Object:
		keys := v.Keys()
		n.Children = make([]*Node, len(keys))
		for i, k := range keys {
			n.Children[i] = build(v.fields[k], keyPath(path, k), k, true, depth+1, i == len(keys)-1)
		}
	}
	return n
}

// keyPath appends an object key to path. Keys that are not plain
// identifiers are bracketed and quoted so paths stay unique.
func keyPath(path, key string) string {
	if isIdent(key) {
		return path + "." + key
	}
	return path + "[" + quote(key) + "]"
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// LineKind says what a rendered line shows.
type LineKind int

const (
	LineLeaf      LineKind = iota // scalar or empty composite
	LineOpen                      // opening bracket of an expanded composite
	LineClose                     // closing bracket
	LineCollapsed                 // folded composite with its element count
)

// Line is one row of rendered output.
type Line struct {
	Kind   LineKind
	Node   *Node
	Depth  int
	Key    string // quoted key, empty when the node has none
	Text   string // value text or bracket
	Comma  bool
	Toggle bool // the line can fold or unfold Node
}

// Collapsed reports whether the node at path is folded.
type Collapsed func(path string) bool

// Lines flattens the tree into display rows. A nil collapsed func treats
// every node as expanded.
func Lines(root *Node, collapsed Collapsed) []Line {
	if root == nil {
		return nil
	}
	if collapsed == nil {
		collapsed = func(string) bool { return false }
	}
	var out []Line
	appendLines(&out, root, collapsed)
	return out
}

func appendLines(out *[]Line, n *Node, collapsed Collapsed) {
	key := ""
	if n.HasKey {
		key = quote(n.Key)
	}
	comma := !n.Last

	if !n.Collapsible() {
		*out = append(*out, Line{Kind: LineLeaf, Node: n, Depth: n.Depth, Key: key, Text: leafText(n.Value), Comma: comma})
		return
	}

	opening, closing := brackets(n.Value.kind)
	if collapsed(n.Path) {
		text := opening + " " + strconv.Itoa(n.Value.Len()) + " " + closing
		*out = append(*out, Line{Kind: LineCollapsed, Node: n, Depth: n.Depth, Key: key, Text: text, Comma: comma, Toggle: true})
		return
	}

	*out = append(*out, Line{Kind: LineOpen, Node: n, Depth: n.Depth, Key: key, Text: opening, Toggle: true})
	for _, c := range n.Children {
		appendLines(out, c, collapsed)
	}
	*out = append(*out, Line{Kind: LineClose, Node: n, Depth: n.Depth, Text: closing, Comma: comma})
}

func leafText(v Value) string {
	switch v.kind {
	case Array:
		return "[]"
	case Object:
		return "{}"
	}
	return scalarText(v)
}

func brackets(k Kind) (string, string) {
	if k == Array {
		return "[", "]"
	}
	return "{", "}"
}

// String renders the line as plain text indented by indent per level.
func (l Line) String(indent string) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(indent, l.Depth))
	if l.Key != "" {
		b.WriteString(l.Key)
		b.WriteString(": ")
	}
	b.WriteString(l.Text)
	if l.Comma {
		b.WriteByte(',')
	}
	return b.String()
}

// Render returns the tree as indented plain text.
func Render(root *Node, collapsed Collapsed) string {
	lines := Lines(root, collapsed)
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.String("  ")
	}
	return strings.Join(parts, "\n")
}

// CountLeaves returns the number of scalar and empty composite nodes.
func CountLeaves(root *Node) int {
	count := 0
	Walk(root, func(n *Node) bool {
		if !n.Collapsible() {
			count++
		}
		return true
	})
	return count
}
