package hoist

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func bindingNames(b BindingSet) []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestOuterBindings(t *testing.T) {
	tree := mustParse(t, `function Outer({ a, b: renamed, c = 1, ...others }, [d, [e]], f) {
	const g = 1, [h, , i] = list;
	let { j, k: { l }, m = 2 } = obj;
	var n;
	if (a) {
		const blockScoped = 3;
	}
	function helper(p) { const hidden = p; return hidden; }
	class Widget {}
	const Inner = () => { const deeper = 1; return <b>{deeper}</b>; };
	return <Inner />;
}
`)
	outer := findDecl(t, tree, "Outer")
	got := bindingNames(OuterBindings(outer))
	require.Equal(t, []string{
		"Inner", "Widget", "a", "blockScoped", "c", "d", "e", "f", "g", "h",
		"helper", "i", "j", "l", "m", "n", "others", "renamed",
	}, got)
}

func TestOuterBindingsArrowParameter(t *testing.T) {
	tree := mustParse(t, "const Outer = props => { const x = props.y; return <i>{x}</i>; };\n")
	outer := findDecl(t, tree, "Outer").Field("value")
	require.Equal(t, []string{"props", "x"}, bindingNames(OuterBindings(outer)))
}

func TestPatternIdentifiers(t *testing.T) {
	tree := mustParse(t, "const [a, { b, c: d, e = f }, ...g] = v;\n")
	pattern := tree.Root().Descendants(kindArrayPattern)[0]

	var names []string
	for _, n := range patternIdentifiers(pattern) {
		names = append(names, n.Text())
	}
	require.Equal(t, []string{"a", "b", "d", "e", "g"}, names)
}

func TestScopeNames(t *testing.T) {
	tree := mustParse(t, `import Default, { named as alias } from "mod";
import * as ns from "ns";
declare const GLOBAL_FLAG: boolean;
const [a, { b }] = pair, c = 1;
function helper() {}
class Widget {}
export const Exported = 1;
export default function Page() {
	const hidden = 1;
	return <p>{hidden}</p>;
}
`)
	require.Equal(t, []string{
		"Default", "Exported", "GLOBAL_FLAG", "Page", "Widget",
		"a", "alias", "b", "c", "helper", "ns",
	}, bindingNames(scopeNames(tree.Root())))
}

func TestStatementNamesKeepsDeclaratorOrder(t *testing.T) {
	tree := mustParse(t, "function Outer({ x }) {\n\tconst y = x + 1, Inner = () => <div />;\n\treturn <Inner v={y} />;\n}\n")
	stmt := enclosingStatement(findDecl(t, tree, "Inner"))

	var names []string
	for _, n := range statementNames(stmt) {
		names = append(names, n.Text())
	}
	require.Equal(t, []string{"y", "Inner"}, names)
}
