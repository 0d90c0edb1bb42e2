package hoist

// analyzer decides whether a nested component reads values bound by the
// component it is nested in.
type analyzer struct {
	resolver  Resolver
	intrinsic map[string]struct{}
}

func newAnalyzer(resolver Resolver, intrinsic []string) *analyzer {
	if resolver == nil {
		resolver = NameResolver{}
	}
	set := make(map[string]struct{}, len(intrinsic))
	for _, name := range intrinsic {
		set[name] = struct{}{}
	}
	return &analyzer{resolver: resolver, intrinsic: set}
}

// HasClosureDependency reports whether inner reads a name bound by outer
// and not re-bound inside inner itself.
func (a *analyzer) HasClosureDependency(inner, outer Node, innerName string) bool {
	_, ok := a.closureDependency(inner, outer, innerName)
	return ok
}

// closureDependency returns the first identifier that depends on outer's
// scope. The whole enclosing statement of inner moves with it, so other
// declarators of that statement are checked too, and names the statement
// itself binds travel along and never count.
func (a *analyzer) closureDependency(inner, outer Node, innerName string) (Node, bool) {
	stmt := enclosingStatement(inner)
	bindings := OuterBindings(outer)
	delete(bindings, innerName)
	for _, n := range statementNames(stmt) {
		delete(bindings, n.Text())
	}

	for _, id := range a.statementReferences(stmt, inner) {
		def, ok := a.resolver.Definition(id)
		if !ok {
			if bindings.Has(id.Text()) {
				return id, true
			}
			continue
		}
		switch def.Kind {
		case DefImport, DefExternal:
			continue
		}
		if boundBy(def.Node, outer) && !IsDescendant(def.Node, stmt) {
			return id, true
		}
	}
	return Node{}, false
}

// statementReferences returns, in source order, the references of inner
// and of every other declarator sharing its statement.
func (a *analyzer) statementReferences(stmt, inner Node) []Node {
	if stmt == inner || !isVarDeclaration(stmt) {
		return a.references(inner)
	}
	var refs []Node
	for _, d := range stmt.NamedChildren() {
		if !d.Is(kindVariableDeclarator) {
			continue
		}
		if d.Field("value") == inner {
			refs = append(refs, a.references(inner)...)
			continue
		}
		refs = append(refs, a.collect(d, nil)...)
	}
	return refs
}

// references returns the identifiers in inner that may read an enclosing
// scope. Parameters of inner, intrinsic element tags and property names of
// member accesses are not scope lookups.
func (a *analyzer) references(inner Node) []Node {
	params := make(map[string]struct{})
	for _, p := range paramIdentifiers(inner) {
		params[p.Text()] = struct{}{}
	}
	return a.collect(inner, params)
}

func (a *analyzer) collect(root Node, skip map[string]struct{}) []Node {
	var refs []Node
	for _, id := range root.Descendants(kindIdentifier, kindShorthandProperty) {
		name := id.Text()
		if _, ok := skip[name]; ok {
			continue
		}
		if _, ok := a.intrinsic[name]; ok && isTagName(id) {
			continue
		}
		if p := id.Parent(); p.Is(kindMemberExpression) && p.Field("property") == id {
			continue
		}
		refs = append(refs, id)
	}
	return refs
}

// isTagName reports whether id names a JSX element.
func isTagName(id Node) bool {
	return id.Parent().Is(kindJSXOpening, kindJSXClosing, kindJSXSelfClosing) && id.FieldName() == "name"
}

// boundBy reports whether def lies in fn's own scope: its parameters or its
// body. A function declaration's name binds in the enclosing scope, so it
// does not count even though the node sits inside the declaration.
func boundBy(def, fn Node) bool {
	for _, field := range []string{"parameters", "parameter", "body"} {
		if f := fn.Field(field); !f.IsNil() && IsDescendant(def, f) {
			return true
		}
	}
	return false
}
