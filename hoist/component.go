package hoist

// Node kinds shared by the TSX and JavaScript grammars.
const (
	kindProgram             = "program"
	kindStatementBlock      = "statement_block"
	kindFunctionDeclaration = "function_declaration"
	kindGeneratorDecl       = "generator_function_declaration"
	kindArrowFunction       = "arrow_function"
	kindFunction            = "function"
	kindFunctionExpression  = "function_expression"
	kindGeneratorFunction   = "generator_function"
	kindMethodDefinition    = "method_definition"
	kindLexicalDeclaration  = "lexical_declaration"
	kindVariableDeclaration = "variable_declaration"
	kindVariableDeclarator  = "variable_declarator"
	kindClassDeclaration    = "class_declaration"
	kindExportStatement     = "export_statement"
	kindImportStatement     = "import_statement"
	kindAmbientDeclaration  = "ambient_declaration"
	kindIdentifier          = "identifier"
	kindShorthandProperty   = "shorthand_property_identifier"
	kindShorthandPattern    = "shorthand_property_identifier_pattern"
	kindMemberExpression    = "member_expression"
	kindArrayPattern        = "array_pattern"
	kindObjectPattern       = "object_pattern"
	kindPairPattern         = "pair_pattern"
	kindAssignmentPattern   = "assignment_pattern"
	kindObjectAssignPattern = "object_assignment_pattern"
	kindRestPattern         = "rest_pattern"
	kindJSXElement          = "jsx_element"
	kindJSXSelfClosing      = "jsx_self_closing_element"
	kindJSXOpening          = "jsx_opening_element"
	kindJSXClosing          = "jsx_closing_element"
	kindComment             = "comment"
)

// functionKinds are the function-like nodes a component can be. Older and
// newer grammar releases disagree on the name of function expressions.
var functionKinds = []string{
	kindFunctionDeclaration,
	kindGeneratorDecl,
	kindArrowFunction,
	kindFunction,
	kindFunctionExpression,
	kindGeneratorFunction,
}

var markupKinds = []string{kindJSXElement, kindJSXSelfClosing}

func isFunctionLike(n Node) bool {
	return n.Is(functionKinds...)
}

func isFunctionDeclaration(n Node) bool {
	return n.Is(kindFunctionDeclaration, kindGeneratorDecl)
}

func isVarDeclaration(n Node) bool {
	return n.Is(kindLexicalDeclaration, kindVariableDeclaration)
}

// detector classifies function-like nodes as components. Results are
// memoised per node since nested candidates re-test their ancestors.
type detector struct {
	memo map[Node]bool
}

func newDetector() *detector {
	return &detector{memo: make(map[Node]bool)}
}

// IsComponent reports whether n is a function-like node whose subtree
// contains JSX markup anywhere, not only as its direct return value.
func (d *detector) IsComponent(n Node) bool {
	if !isFunctionLike(n) {
		return false
	}
	if v, ok := d.memo[n]; ok {
		return v
	}
	v := n.Contains(markupKinds...)
	d.memo[n] = v
	return v
}

// ComponentNode returns the component declared by decl: the declaration
// itself for a function declaration, or the initializer of the first
// declarator holding a component. The zero Node means none qualifies.
func (d *detector) ComponentNode(decl Node) Node {
	if isFunctionDeclaration(decl) {
		if d.IsComponent(decl) {
			return decl
		}
		return Node{}
	}
	if declarator := d.componentDeclarator(decl); !declarator.IsNil() {
		return declarator.Field("value")
	}
	return Node{}
}

// ComponentName returns the name bound to the component declared by decl.
// Destructuring patterns are not names.
func (d *detector) ComponentName(decl Node) (string, bool) {
	var name Node
	switch {
	case isFunctionDeclaration(decl):
		name = decl.Field("name")
	case isVarDeclaration(decl):
		name = d.componentDeclarator(decl).Field("name")
	}
	if !name.Is(kindIdentifier) {
		return "", false
	}
	return name.Text(), true
}

func (d *detector) componentDeclarator(decl Node) Node {
	if !isVarDeclaration(decl) {
		return Node{}
	}
	for _, c := range decl.NamedChildren() {
		if !c.Is(kindVariableDeclarator) {
			continue
		}
		if v := c.Field("value"); isFunctionLike(v) && d.IsComponent(v) {
			return c
		}
	}
	return Node{}
}

// bindingNameNode returns the identifier a component is bound to: a
// declaration's own name, or the name of the declarator it initialises.
func bindingNameNode(component Node) Node {
	if isFunctionDeclaration(component) {
		return component.Field("name")
	}
	if p := component.Parent(); p.Is(kindVariableDeclarator) && component.FieldName() == "value" {
		return p.Field("name")
	}
	return Node{}
}

// enclosingStatement returns the declaration that physically holds the
// component. The search never crosses a block or the program root; the
// component itself is returned when nothing qualifies.
func enclosingStatement(component Node) Node {
	for n := component; !n.IsNil(); n = n.Parent() {
		if n.Is(kindStatementBlock, kindProgram) {
			break
		}
		if isFunctionDeclaration(n) || isVarDeclaration(n) {
			return n
		}
	}
	return component
}

// outerComponent returns the nearest component strictly enclosing decl,
// or the zero Node when the walk reaches the program root first.
func (d *detector) outerComponent(decl Node) Node {
	for n := decl.Parent(); !n.IsNil(); n = n.Parent() {
		if n.Is(kindProgram) {
			return Node{}
		}
		if d.IsComponent(n) {
			return n
		}
	}
	return Node{}
}
