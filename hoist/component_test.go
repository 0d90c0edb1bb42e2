package hoist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsComponent(t *testing.T) {
	tree := mustParse(t, `function Decl() { return <div />; }
function helper() { return 1; }
const Arrow = () => (
	<>
		<Child />
	</>
);
const Expr = function () { if (x) { return <p>hi</p>; } return null; };
const Deep = () => { const rows = [1].map((r) => <tr key={r} />); return rows; };
const NotFn = <div />;
`)
	d := newDetector()

	require.True(t, d.IsComponent(findDecl(t, tree, "Decl")))
	require.False(t, d.IsComponent(findDecl(t, tree, "helper")))
	require.True(t, d.IsComponent(findDecl(t, tree, "Arrow").Field("value")))
	require.True(t, d.IsComponent(findDecl(t, tree, "Expr").Field("value")))
	// Markup anywhere in the body counts, not just the returned value.
	require.True(t, d.IsComponent(findDecl(t, tree, "Deep").Field("value")))
	require.False(t, d.IsComponent(findDecl(t, tree, "NotFn").Field("value")))
	// Declarators and declarations wrapping a function are not themselves
	// function-like.
	require.False(t, d.IsComponent(findDecl(t, tree, "Arrow")))
}

func TestComponentNodeAndName(t *testing.T) {
	tree := mustParse(t, `function Host() {
	function Decl() { return <a />; }
	const data = 1, View = () => <b />;
	let [Pattern] = [() => <i />];
	const { Obj } = { Obj: () => <u /> };
	var plain = () => 1;
	return null;
}
`)
	d := newDetector()
	block := findDecl(t, tree, "Host").Field("body")
	stmts := block.NamedChildren()

	decl := stmts[0]
	require.Equal(t, decl, d.ComponentNode(decl))
	name, ok := d.ComponentName(decl)
	require.True(t, ok)
	require.Equal(t, "Decl", name)

	// The first declarator holding a component wins.
	multi := stmts[1]
	require.Equal(t, kindArrowFunction, d.ComponentNode(multi).Kind())
	name, ok = d.ComponentName(multi)
	require.True(t, ok)
	require.Equal(t, "View", name)

	// Non-function initializers and functions without markup declare nothing.
	require.True(t, d.ComponentNode(stmts[2]).IsNil())
	require.True(t, d.ComponentNode(stmts[3]).IsNil())
	require.True(t, d.ComponentNode(stmts[4]).IsNil())
	_, ok = d.ComponentName(stmts[4])
	require.False(t, ok)
}

func TestComponentNameRejectsPatterns(t *testing.T) {
	tree := mustParse(t, "function Host() {\n\tconst [A] = [1], { B } = () => <b />;\n\treturn null;\n}\n")
	d := newDetector()
	stmt := findDecl(t, tree, "Host").Field("body").NamedChildren()[0]

	// The second declarator holds a component but binds a pattern.
	require.False(t, d.ComponentNode(stmt).IsNil())
	_, ok := d.ComponentName(stmt)
	require.False(t, ok)
}

func TestEnclosingStatementAndOuter(t *testing.T) {
	tree := mustParse(t, `export const Outer = () => {
	const Inner = () => <b />;
	return <Inner />;
};
render(() => <div />);
`)
	d := newDetector()

	outer := findDecl(t, tree, "Outer").Field("value")
	inner := findDecl(t, tree, "Inner").Field("value")

	innerStmt := enclosingStatement(inner)
	require.Equal(t, kindLexicalDeclaration, innerStmt.Kind())
	require.Equal(t, outer, d.outerComponent(innerStmt))
	require.Equal(t, "Inner", bindingNameNode(inner).Text())

	outerStmt := enclosingStatement(outer)
	require.Equal(t, kindLexicalDeclaration, outerStmt.Kind())
	require.True(t, d.outerComponent(outerStmt).IsNil())
	require.Equal(t, kindExportStatement, insertionAnchor(outer).Kind())

	// A component that is not declared is its own statement.
	calls := tree.Root().Descendants("call_expression")
	require.Len(t, calls, 1)
	arg := calls[0].Field("arguments").NamedChildren()[0]
	require.Equal(t, kindArrowFunction, arg.Kind())
	require.Equal(t, arg, enclosingStatement(arg))
	require.True(t, bindingNameNode(arg).IsNil())
}
