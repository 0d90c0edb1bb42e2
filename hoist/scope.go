package hoist

// BindingSet is a set of names bound in one function scope.
type BindingSet map[string]struct{}

func (b BindingSet) Has(name string) bool {
	_, ok := b[name]
	return ok
}

func (b BindingSet) add(name string) {
	b[name] = struct{}{}
}

// OuterBindings collects the names a component binds in its own scope: every
// identifier in its parameter list, plus the names declared in its body. The
// walk does not enter nested functions, whose locals belong to their own
// scope; a nested function declaration contributes only its name.
func OuterBindings(component Node) BindingSet {
	bindings := make(BindingSet)
	for _, id := range paramIdentifiers(component) {
		bindings.add(id.Text())
	}

	body := component.Field("body")
	body.walk(func(n Node) bool {
		if n == body {
			return true
		}
		switch {
		case n.Is(kindVariableDeclarator):
			for _, id := range patternIdentifiers(n.Field("name")) {
				bindings.add(id.Text())
			}
		case isFunctionDeclaration(n), n.Is(kindClassDeclaration):
			if name := n.Field("name"); name.Is(kindIdentifier, "type_identifier") {
				bindings.add(name.Text())
			}
		}
		return !isFunctionLike(n) && !n.Is(kindMethodDefinition)
	})
	return bindings
}

// paramIdentifiers returns every identifier in a function's parameter list,
// including destructured property shorthands. Arrow functions with a single
// bare parameter store it under "parameter".
func paramIdentifiers(fn Node) []Node {
	params := fn.Field("parameters")
	if params.IsNil() {
		params = fn.Field("parameter")
	}
	if params.IsNil() {
		return nil
	}
	if params.Is(kindIdentifier) {
		return []Node{params}
	}
	return params.Descendants(kindIdentifier, kindShorthandPattern)
}

// patternIdentifiers returns the names bound by a declarator or parameter
// pattern: the identifier itself, or every name inside an array/object
// destructuring pattern. Default values and property keys are not bindings.
func patternIdentifiers(pattern Node) []Node {
	switch {
	case pattern.Is(kindIdentifier, kindShorthandPattern):
		return []Node{pattern}
	case pattern.Is(kindAssignmentPattern, kindObjectAssignPattern):
		return patternIdentifiers(pattern.Field("left"))
	case pattern.Is(kindRestPattern):
		var out []Node
		for _, c := range pattern.NamedChildren() {
			out = append(out, patternIdentifiers(c)...)
		}
		return out
	case !pattern.Is(kindArrayPattern, kindObjectPattern):
		return nil
	}
	var out []Node
	pattern.walk(func(n Node) bool {
		switch {
		case n.Is(kindIdentifier, kindShorthandPattern):
			out = append(out, n)
			return false
		case n.Is(kindPairPattern):
			out = append(out, patternIdentifiers(n.Field("value"))...)
			return false
		case n.Is(kindAssignmentPattern):
			out = append(out, patternIdentifiers(n.Field("left"))...)
			return false
		case n.Is(kindObjectAssignPattern):
			out = append(out, patternIdentifiers(n.Field("left"))...)
			return false
		}
		return true
	})
	return out
}

// statementNames returns the binding identifiers a statement introduces in
// the scope holding it. Type-only declarations bind nothing here.
func statementNames(stmt Node) []Node {
	switch {
	case isVarDeclaration(stmt):
		var out []Node
		for _, d := range stmt.NamedChildren() {
			if d.Is(kindVariableDeclarator) {
				out = append(out, patternIdentifiers(d.Field("name"))...)
			}
		}
		return out
	case isFunctionDeclaration(stmt), stmt.Is(kindClassDeclaration):
		if n := stmt.Field("name"); !n.IsNil() {
			return []Node{n}
		}
	case stmt.Is(kindExportStatement):
		if decl := stmt.Field("declaration"); !decl.IsNil() {
			return statementNames(decl)
		}
		if v := stmt.Field("value"); isFunctionLike(v) || v.Is("class") {
			if n := v.Field("name"); !n.IsNil() {
				return []Node{n}
			}
		}
	case stmt.Is(kindImportStatement):
		return importLocals(stmt)
	case stmt.Is(kindAmbientDeclaration):
		var out []Node
		for _, c := range stmt.NamedChildren() {
			out = append(out, statementNames(c)...)
		}
		return out
	}
	return nil
}

// scopeNames collects the names bound by the statements directly inside a
// block or program.
func scopeNames(block Node) BindingSet {
	names := make(BindingSet)
	for _, stmt := range block.NamedChildren() {
		for _, n := range statementNames(stmt) {
			names.add(n.Text())
		}
	}
	return names
}
