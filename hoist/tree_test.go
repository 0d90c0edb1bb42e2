package hoist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// mustParse parses TSX source into an arena tree.
func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := newParser(Get("tsx")).parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return tree
}

// findDecl returns the first function declaration or variable declarator
// bound to name.
func findDecl(t *testing.T, tree *Tree, name string) Node {
	t.Helper()
	for _, n := range tree.Root().Descendants(kindFunctionDeclaration, kindVariableDeclarator) {
		if n.Field("name").Text() == name {
			return n
		}
	}
	t.Fatalf("no declaration of %s", name)
	return Node{}
}

// findIdent returns the nth (zero-based) identifier spelled name.
func findIdent(t *testing.T, tree *Tree, name string, nth int) Node {
	t.Helper()
	for _, n := range tree.Root().Descendants(kindIdentifier) {
		if n.Text() != name {
			continue
		}
		if nth == 0 {
			return n
		}
		nth--
	}
	t.Fatalf("identifier %s not found", name)
	return Node{}
}

func TestTreeNavigation(t *testing.T) {
	src := "const a = 1;\nfunction f(x) { return x; }\n"
	tree := mustParse(t, src)

	root := tree.Root()
	require.Equal(t, kindProgram, root.Kind())
	require.True(t, root.Parent().IsNil())
	require.Equal(t, src, root.Text())

	stmts := root.NamedChildren()
	require.Len(t, stmts, 2)
	require.Equal(t, kindLexicalDeclaration, stmts[0].Kind())
	require.Equal(t, kindFunctionDeclaration, stmts[1].Kind())
	require.Equal(t, stmts[1], stmts[0].NextNamedSibling())
	require.True(t, stmts[1].NextNamedSibling().IsNil())

	fn := stmts[1]
	require.Equal(t, "f", fn.Field("name").Text())
	require.Equal(t, "name", fn.Field("name").FieldName())
	require.Equal(t, uint32(1), fn.Point().Row)
	require.Equal(t, 13, fn.Start())
	require.Equal(t, len(src)-1, fn.End())
	require.True(t, fn.Field("missing").IsNil())

	// Anonymous tokens are children but not named children.
	require.Greater(t, len(stmts[0].Children()), len(stmts[0].NamedChildren()))
}

func TestNodeHandlesAreComparable(t *testing.T) {
	tree := mustParse(t, "function f() { return g(); }\n")
	call := tree.Root().Descendants("call_expression")
	require.Len(t, call, 1)

	g := call[0].Field("function")
	require.Equal(t, g, findIdent(t, tree, "g", 0))
	require.Equal(t, call[0], g.Parent())

	seen := map[Node]bool{g: true}
	require.True(t, seen[findIdent(t, tree, "g", 0)])
	require.NotEqual(t, g, call[0])
}

func TestDescendantsAndContains(t *testing.T) {
	tree := mustParse(t, "const A = () => <div><span /></div>;\nconst b = () => 1;\n")

	a := findDecl(t, tree, "A").Field("value")
	b := findDecl(t, tree, "b").Field("value")
	require.True(t, a.Contains(kindJSXSelfClosing))
	require.False(t, b.Contains(kindJSXElement, kindJSXSelfClosing))

	// Source order, self excluded.
	ids := a.Descendants(kindIdentifier)
	var names []string
	for _, id := range ids {
		names = append(names, id.Text())
	}
	require.Equal(t, []string{"div", "span", "div"}, names)
	require.Empty(t, ids[0].Descendants(kindIdentifier))
}

func TestIsDescendant(t *testing.T) {
	tree := mustParse(t, "function f() { const x = 1; }\nfunction g() {}\n")
	f := findDecl(t, tree, "f")
	g := findDecl(t, tree, "g")
	x := findIdent(t, tree, "x", 0)

	require.True(t, IsDescendant(x, f))
	require.True(t, IsDescendant(f, f))
	require.False(t, IsDescendant(x, g))
	require.False(t, IsDescendant(f, x))
	require.False(t, IsDescendant(Node{}, f))

	other := mustParse(t, "function f() { const x = 1; }\n")
	require.False(t, IsDescendant(findIdent(t, other, "x", 0), f))
}

func TestQueryCapturesMapToArena(t *testing.T) {
	tree := mustParse(t, `function Outer() {
	const A = () => <a />;
	function B() { return <b />; }
	var c = 1;
	return <A />;
}
const Top = () => <p />;
`)
	q, err := newQuery(Get("tsx").CandidatesQuery(), Get("tsx"))
	require.NoError(t, err)

	caps := q.captures(tree, "candidate")
	var kinds []string
	for _, n := range caps {
		require.False(t, n.IsNil())
		require.Equal(t, kindStatementBlock, n.Parent().Kind())
		kinds = append(kinds, n.Kind())
	}
	require.ElementsMatch(t, []string{kindLexicalDeclaration, kindFunctionDeclaration, kindVariableDeclaration}, kinds)
}
