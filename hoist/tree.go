package hoist

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Tree is a read-only snapshot of a parsed file. Nodes live in an arena
// indexed in pre-order, so a Node handle is just a position in that arena.
type Tree struct {
	source []byte
	sroot  *sitter.Node
	nodes  []nodeData
	// spans maps a (start, end, kind) triple to the outermost node with that
	// shape. Used to translate query captures back into arena handles.
	spans map[spanKey]int32
}

type nodeData struct {
	kind     string
	field    string // field name in the parent, if any
	named    bool
	start    uint32
	end      uint32
	point    sitter.Point
	parent   int32
	children []int32
}

type spanKey struct {
	start, end uint32
	kind       string
}

// Node is a handle to a node in a Tree. The zero value is the absent node.
// Two handles denote the same tree position iff they are equal.
type Node struct {
	t  *Tree
	id int32
}

// newTree flattens a tree-sitter tree into an arena.
func newTree(root *sitter.Node, source []byte) *Tree {
	t := &Tree{
		source: source,
		sroot:  root,
		spans:  make(map[spanKey]int32),
	}

	c := sitter.NewTreeCursor(root)
	defer c.Close()

	parent := int32(-1)
	for {
		n := c.CurrentNode()
		id := int32(len(t.nodes))
		t.nodes = append(t.nodes, nodeData{
			kind:   n.Type(),
			field:  c.CurrentFieldName(),
			named:  n.IsNamed(),
			start:  n.StartByte(),
			end:    n.EndByte(),
			point:  n.StartPoint(),
			parent: parent,
		})
		if parent >= 0 {
			t.nodes[parent].children = append(t.nodes[parent].children, id)
		}
		key := spanKey{start: n.StartByte(), end: n.EndByte(), kind: n.Type()}
		if _, ok := t.spans[key]; !ok {
			t.spans[key] = id
		}

		if c.GoToFirstChild() {
			parent = id
			continue
		}
		for !c.GoToNextSibling() {
			if !c.GoToParent() {
				return t
			}
			parent = t.nodes[parent].parent
		}
	}
}

// Root returns the program node.
func (t *Tree) Root() Node {
	if len(t.nodes) == 0 {
		return Node{}
	}
	return Node{t: t, id: 0}
}

// Source returns the bytes the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.source
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// lookup returns the arena node matching a tree-sitter node.
func (t *Tree) lookup(n *sitter.Node) Node {
	id, ok := t.spans[spanKey{start: n.StartByte(), end: n.EndByte(), kind: n.Type()}]
	if !ok {
		return Node{}
	}
	return Node{t: t, id: id}
}

func (n Node) data() *nodeData {
	return &n.t.nodes[n.id]
}

// IsNil reports whether n is the absent node.
func (n Node) IsNil() bool {
	return n.t == nil
}

// ID returns the arena index of n.
func (n Node) ID() int {
	return int(n.id)
}

// Kind returns the grammar node type (e.g. "arrow_function").
func (n Node) Kind() string {
	if n.IsNil() {
		return ""
	}
	return n.data().kind
}

// Is reports whether n has one of the given kinds.
func (n Node) Is(kinds ...string) bool {
	k := n.Kind()
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

func (n Node) IsNamed() bool {
	return !n.IsNil() && n.data().named
}

func (n Node) Start() int {
	return int(n.data().start)
}

func (n Node) End() int {
	return int(n.data().end)
}

// Point returns the zero-based row and column of the node start.
func (n Node) Point() sitter.Point {
	return n.data().point
}

// Text returns the source slice covered by n.
func (n Node) Text() string {
	if n.IsNil() {
		return ""
	}
	d := n.data()
	return string(n.t.source[d.start:d.end])
}

func (n Node) Parent() Node {
	if n.IsNil() || n.data().parent < 0 {
		return Node{}
	}
	return Node{t: n.t, id: n.data().parent}
}

// Children returns all children, named and anonymous.
func (n Node) Children() []Node {
	if n.IsNil() {
		return nil
	}
	ids := n.data().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{t: n.t, id: id}
	}
	return out
}

func (n Node) NamedChildren() []Node {
	if n.IsNil() {
		return nil
	}
	var out []Node
	for _, id := range n.data().children {
		if n.t.nodes[id].named {
			out = append(out, Node{t: n.t, id: id})
		}
	}
	return out
}

// Field returns the first child stored under the given field name.
func (n Node) Field(name string) Node {
	if n.IsNil() {
		return Node{}
	}
	for _, id := range n.data().children {
		if n.t.nodes[id].field == name {
			return Node{t: n.t, id: id}
		}
	}
	return Node{}
}

// FieldName returns the field under which n is stored in its parent.
func (n Node) FieldName() string {
	if n.IsNil() {
		return ""
	}
	return n.data().field
}

// NextNamedSibling returns the next named node sharing n's parent.
func (n Node) NextNamedSibling() Node {
	p := n.Parent()
	if p.IsNil() {
		return Node{}
	}
	seen := false
	for _, id := range p.data().children {
		if seen && n.t.nodes[id].named {
			return Node{t: n.t, id: id}
		}
		if id == n.id {
			seen = true
		}
	}
	return Node{}
}

// Descendants returns every node below n (n excluded) whose kind is one of
// kinds, in source order. An empty kinds list matches everything.
func (n Node) Descendants(kinds ...string) []Node {
	var out []Node
	n.walk(func(c Node) bool {
		if c != n && (len(kinds) == 0 || c.Is(kinds...)) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Contains reports whether the subtree rooted at n holds a node of one of
// the given kinds.
func (n Node) Contains(kinds ...string) bool {
	found := false
	n.walk(func(c Node) bool {
		if c != n && c.Is(kinds...) {
			found = true
		}
		return !found
	})
	return found
}

// walk visits n and its descendants in pre-order. Returning false from fn
// prunes the subtree below the visited node.
func (n Node) walk(fn func(Node) bool) {
	if n.IsNil() {
		return
	}
	stack := []int32{n.id}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(Node{t: n.t, id: id}) {
			continue
		}
		children := n.t.nodes[id].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// IsDescendant reports whether n equals ancestor or lies below it.
func IsDescendant(n, ancestor Node) bool {
	if n.IsNil() || ancestor.IsNil() || n.t != ancestor.t {
		return false
	}
	for cur := n; !cur.IsNil(); cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return false
}
