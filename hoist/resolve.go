package hoist

// DefinitionKind classifies where a name is bound.
type DefinitionKind int

const (
	// DefLocal is a binding declared somewhere in this file.
	DefLocal DefinitionKind = iota
	// DefImport is a binding introduced by an import statement.
	DefImport
	// DefExternal is an ambient binding declared for the type checker
	// (`declare const x`), whose value lives outside the file.
	DefExternal
)

func (k DefinitionKind) String() string {
	switch k {
	case DefLocal:
		return "local"
	case DefImport:
		return "import"
	case DefExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Definition is the binding an identifier resolves to.
type Definition struct {
	Kind DefinitionKind
	// Node is the binding identifier.
	Node Node
}

// Resolver looks up the definition of an identifier. The second result is
// false when the origin cannot be determined, e.g. for globals; callers
// then fall back to name matching for that identifier only.
type Resolver interface {
	Definition(id Node) (Definition, bool)
}

// NameResolver never resolves anything, which forces the conservative
// name-based rule for every identifier.
type NameResolver struct{}

func (NameResolver) Definition(Node) (Definition, bool) {
	return Definition{}, false
}

// LexicalResolver resolves identifiers by walking the lexical scope chain of
// the syntax tree: function parameters, block and program declarations,
// loop heads, catch clauses, imports and ambient declarations.
type LexicalResolver struct{}

func (LexicalResolver) Definition(id Node) (Definition, bool) {
	name := id.Text()
	if name == "" {
		return Definition{}, false
	}
	for scope := id.Parent(); !scope.IsNil(); scope = scope.Parent() {
		if def, ok := declaredIn(scope, name); ok {
			return def, true
		}
	}
	return Definition{}, false
}

// declaredIn reports whether scope itself binds name.
func declaredIn(scope Node, name string) (Definition, bool) {
	switch {
	case isFunctionLike(scope), scope.Is(kindMethodDefinition):
		for _, p := range paramBindings(scope) {
			if p.Text() == name {
				return Definition{Kind: DefLocal, Node: p}, true
			}
		}
		// A function expression's own name is visible only inside it.
		if !isFunctionDeclaration(scope) {
			if n := scope.Field("name"); n.Is(kindIdentifier) && n.Text() == name {
				return Definition{Kind: DefLocal, Node: n}, true
			}
		}
		if n, ok := hoistedVar(scope.Field("body"), name); ok {
			return Definition{Kind: DefLocal, Node: n}, true
		}
	case scope.Is(kindStatementBlock, kindProgram, "switch_case", "switch_default"):
		for _, stmt := range scope.NamedChildren() {
			if def, ok := statementBinds(stmt, name); ok {
				return def, true
			}
		}
	case scope.Is("for_statement"):
		if def, ok := statementBinds(scope.Field("initializer"), name); ok {
			return def, true
		}
	case scope.Is("for_in_statement"):
		if !scope.Field("kind").IsNil() {
			for _, n := range patternIdentifiers(scope.Field("left")) {
				if n.Text() == name {
					return Definition{Kind: DefLocal, Node: n}, true
				}
			}
		}
	case scope.Is("catch_clause"):
		for _, n := range patternIdentifiers(scope.Field("parameter")) {
			if n.Text() == name {
				return Definition{Kind: DefLocal, Node: n}, true
			}
		}
	}
	return Definition{}, false
}

// paramBindings returns the names bound by a function's parameters. Unlike
// paramIdentifiers it skips default values.
func paramBindings(fn Node) []Node {
	params := fn.Field("parameters")
	if params.IsNil() {
		params = fn.Field("parameter")
	}
	if params.Is(kindIdentifier) {
		return []Node{params}
	}
	var out []Node
	for _, p := range params.NamedChildren() {
		// TypeScript wraps each parameter; JavaScript lists patterns directly.
		if p.Is("required_parameter", "optional_parameter") {
			p = p.Field("pattern")
		}
		out = append(out, patternIdentifiers(p)...)
	}
	return out
}

// statementBinds reports whether a single statement declares name.
func statementBinds(stmt Node, name string) (Definition, bool) {
	switch {
	case isVarDeclaration(stmt):
		for _, d := range stmt.NamedChildren() {
			if !d.Is(kindVariableDeclarator) {
				continue
			}
			for _, n := range patternIdentifiers(d.Field("name")) {
				if n.Text() == name {
					return Definition{Kind: DefLocal, Node: n}, true
				}
			}
		}
	case isFunctionDeclaration(stmt), stmt.Is(kindClassDeclaration):
		if n := stmt.Field("name"); n.Text() == name {
			return Definition{Kind: DefLocal, Node: n}, true
		}
	case stmt.Is(kindExportStatement):
		return statementBinds(stmt.Field("declaration"), name)
	case stmt.Is(kindImportStatement):
		return importBinds(stmt, name)
	case stmt.Is(kindAmbientDeclaration):
		for _, c := range stmt.NamedChildren() {
			if def, ok := statementBinds(c, name); ok {
				def.Kind = DefExternal
				return def, true
			}
		}
	}
	return Definition{}, false
}

// importBinds finds name among the local names an import introduces.
func importBinds(stmt Node, name string) (Definition, bool) {
	for _, n := range importLocals(stmt) {
		if n.Text() == name {
			return Definition{Kind: DefImport, Node: n}, true
		}
	}
	return Definition{}, false
}

// importLocals returns the local names an import introduces: default
// imports, namespace imports and (possibly aliased) named imports.
func importLocals(stmt Node) []Node {
	var out []Node
	for _, clause := range stmt.NamedChildren() {
		if !clause.Is("import_clause") {
			continue
		}
		for _, c := range clause.NamedChildren() {
			switch {
			case c.Is(kindIdentifier):
				out = append(out, c)
			case c.Is("namespace_import"):
				for _, n := range c.NamedChildren() {
					if n.Is(kindIdentifier) {
						out = append(out, n)
					}
				}
			case c.Is("named_imports"):
				for _, spec := range c.NamedChildren() {
					if !spec.Is("import_specifier") {
						continue
					}
					n := spec.Field("alias")
					if n.IsNil() {
						n = spec.Field("name")
					}
					out = append(out, n)
				}
			}
		}
	}
	return out
}

// hoistedVar finds a `var` declaration of name anywhere in a function body
// outside nested functions; `var` is function scoped.
func hoistedVar(body Node, name string) (Node, bool) {
	var found Node
	body.walk(func(n Node) bool {
		if !found.IsNil() {
			return false
		}
		if n != body && (isFunctionLike(n) || n.Is(kindMethodDefinition)) {
			return false
		}
		if n.Is(kindVariableDeclaration) {
			for _, d := range n.NamedChildren() {
				for _, id := range patternIdentifiers(d.Field("name")) {
					if id.Text() == name {
						found = id
						return false
					}
				}
			}
		}
		return true
	})
	return found, !found.IsNil()
}
