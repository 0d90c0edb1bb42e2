package hoist

import (
	"log/slog"
	"sort"
	"strings"
)

// Candidate pairs a nested declaration with the component it is nested in.
type Candidate struct {
	Decl  Node
	Outer Node
}

// PlanResult is the outcome of planning one pass over a file.
type PlanResult struct {
	Edits     []Edit
	Decisions []Decision
	// Deferred counts candidates left for a later pass because they sit
	// inside a declaration relocated in this one.
	Deferred int
	// Nested counts hoisted components that landed inside another
	// function and may be hoisted again by a later pass.
	Nested int
}

type planner struct {
	tree   *Tree
	file   string
	query  *query
	det    *detector
	an     *analyzer
	marker string
	logger *slog.Logger
	// scopes caches the names bound directly in a block or program.
	scopes map[Node]BindingSet
}

// candidates returns every declaration directly inside a block that declares
// a component and has an enclosing component.
func (p *planner) candidates() []Candidate {
	var out []Candidate
	for _, decl := range p.query.captures(p.tree, "candidate") {
		if p.det.ComponentNode(decl).IsNil() {
			continue
		}
		outer := p.det.outerComponent(decl)
		if outer.IsNil() {
			continue
		}
		out = append(out, Candidate{Decl: decl, Outer: outer})
	}
	return out
}

type span struct{ start, end int }

type pendingInsert struct {
	order    int
	marker   bool
	text     string
	// decision indexes the marker's decision in PlanResult.Decisions.
	decision int
}

// markerDep remembers what pinned an annotated component, so the marker can
// be withdrawn when that binding moves away in the same pass.
type markerDep struct {
	decision int
	at       int
	def      Node
	name     string
	outer    Node
}

// plan computes the edit batch for one pass. All offsets refer to the
// parsed source; candidates are visited by descending end offset so inner
// declarations are decided before the declarations that contain them.
func (p *planner) plan() PlanResult {
	cands := p.candidates()
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Decl.End() > cands[j].Decl.End()
	})

	src := string(p.tree.Source())
	var (
		res     PlanResult
		claimed []span
		markers []markerDep
		inserts = make(map[int][]pendingInsert)
		// Names moved into a scope, and names moved out of each host.
		movedInto = make(map[Node]BindingSet)
		movedFrom = make(map[Node]BindingSet)
	)

	for _, c := range cands {
		component := p.det.ComponentNode(c.Decl)
		if component.IsNil() {
			continue
		}
		name, ok := p.det.ComponentName(c.Decl)
		if !ok {
			continue
		}

		stmt := enclosingStatement(component)
		if overlaps(claimed, stmt.Start(), stmt.End()) {
			p.postpone(&res, name)
			continue
		}

		d := Decision{
			File:      p.file,
			Component: name,
			Outer:     p.outerName(c.Outer),
			Line:      int(stmt.Point().Row) + 1,
		}

		if dep, ok := p.an.closureDependency(component, c.Outer, name); ok {
			d.Kind = DecisionSkippedClosure
			d.Dependency = dep.Text()
			ls := lineStart(src, stmt.Start())
			if strictlyInside(claimed, ls) {
				p.postpone(&res, name)
				continue
			}
			m := markerDep{decision: len(res.Decisions), at: -1, name: d.Dependency, outer: c.Outer}
			if def, ok := p.an.resolver.Definition(dep); ok {
				m.def = def.Node
			}
			if !p.markedAbove(src, ls) {
				indent := leadingWhitespace(src[ls:stmt.Start()])
				inserts[ls] = append(inserts[ls], pendingInsert{
					order:    stmt.Start(),
					marker:   true,
					text:     indent + "// " + p.marker + "\n",
					decision: m.decision,
				})
				m.at = ls
				d.Edited = true
			}
			markers = append(markers, m)
			p.logger.Debug("nested component reads outer scope",
				slog.String("file", p.file),
				slog.String("component", name),
				slog.String("dependency", d.Dependency))
			res.Decisions = append(res.Decisions, d)
			continue
		}

		anchor := insertionAnchor(c.Outer)
		target := anchor.Parent()
		names := statementNames(stmt)
		if clash, ok := p.nameClash(target, names, movedInto[target]); ok {
			d.Kind = DecisionSkippedNameClash
			d.Conflict = clash
			p.logger.Debug("nested component name already bound where it would move",
				slog.String("file", p.file),
				slog.String("component", name),
				slog.String("conflict", clash))
			res.Decisions = append(res.Decisions, d)
			continue
		}

		at, text, partial := p.relocation(src, stmt, anchor)
		del := p.removal(src, stmt)
		if insertsInside(inserts, del) {
			del = span{start: stmt.Start(), end: stmt.End()}
		}
		if strictlyInside(claimed, at) || insertsInside(inserts, del) {
			p.postpone(&res, name)
			continue
		}
		inserts[at] = append(inserts[at], pendingInsert{order: stmt.Start(), text: text, decision: -1})
		res.Edits = append(res.Edits, deletion(del.start, del.end))
		claimed = append(claimed, del)
		for _, n := range names {
			addName(movedInto, target, n.Text())
			addName(movedFrom, c.Outer, n.Text())
		}
		if !target.Is(kindProgram) {
			res.Nested++
		}

		d.Kind = DecisionHoisted
		d.Form = FormArrow
		if isFunctionDeclaration(c.Decl) {
			d.Form = FormFunctionDecl
		}

		d.Edited = true
		d.PartialReindent = partial
		if partial {
			p.logger.Warn("relocated component was re-indented approximately",
				slog.String("file", p.file),
				slog.String("component", name),
				slog.Int("line", d.Line))
		}
		p.logger.Debug("hoisting nested component",
			slog.String("file", p.file),
			slog.String("component", name),
			slog.String("form", string(d.Form)))
		res.Decisions = append(res.Decisions, d)
	}

	// A component pinned only by a sibling that moves in this pass may be
	// free once the sibling is gone. Its marker and decision wait for the
	// next pass, which sees the moved binding.
	withdrawn := make(map[int]bool)
	for _, m := range markers {
		if !movedAway(m, claimed, movedFrom) {
			continue
		}
		withdrawn[m.decision] = true
		p.postpone(&res, res.Decisions[m.decision].Component)
		if m.at < 0 {
			continue
		}
		kept := inserts[m.at][:0]
		for _, in := range inserts[m.at] {
			if !(in.marker && in.decision == m.decision) {
				kept = append(kept, in)
			}
		}
		if len(kept) == 0 {
			delete(inserts, m.at)
		} else {
			inserts[m.at] = kept
		}
	}
	if len(withdrawn) > 0 {
		kept := res.Decisions[:0]
		for i, d := range res.Decisions {
			if !withdrawn[i] {
				kept = append(kept, d)
			}
		}
		res.Decisions = kept
	}

	for at, pending := range inserts {
		// Relocations first, in source order, then markers.
		sort.SliceStable(pending, func(i, j int) bool {
			if pending[i].marker != pending[j].marker {
				return !pending[i].marker
			}
			return pending[i].order < pending[j].order
		})
		var sb strings.Builder
		for _, in := range pending {
			sb.WriteString(in.text)
		}
		res.Edits = append(res.Edits, insertion(at, sb.String()))
	}
	sort.SliceStable(res.Edits, func(i, j int) bool {
		if res.Edits[i].Start != res.Edits[j].Start {
			return res.Edits[i].Start < res.Edits[j].Start
		}
		return res.Edits[i].End < res.Edits[j].End
	})
	return res
}

// nameClash reports the first of names already bound in target, either by
// its own statements or by a component moved there earlier in this pass.
func (p *planner) nameClash(target Node, names []Node, moved BindingSet) (string, bool) {
	if p.scopes == nil {
		p.scopes = make(map[Node]BindingSet)
	}
	bound, ok := p.scopes[target]
	if !ok {
		bound = scopeNames(target)
		p.scopes[target] = bound
	}
	for _, n := range names {
		if bound.Has(n.Text()) || moved.Has(n.Text()) {
			return n.Text(), true
		}
	}
	return "", false
}

func addName(sets map[Node]BindingSet, key Node, name string) {
	if sets[key] == nil {
		sets[key] = make(BindingSet)
	}
	sets[key].add(name)
}

// movedAway reports whether the binding that pinned a marked component is
// deleted by this pass. Without a resolved definition the name is matched
// against the names moved out of the same host.
func movedAway(m markerDep, claimed []span, movedFrom map[Node]BindingSet) bool {
	if m.def.IsNil() {
		return movedFrom[m.outer].Has(m.name)
	}
	for _, s := range claimed {
		if s.start <= m.def.Start() && m.def.End() <= s.end {
			return true
		}
	}
	return false
}

func (p *planner) postpone(res *PlanResult, name string) {
	res.Deferred++
	p.logger.Debug("deferring nested component to the next pass",
		slog.String("file", p.file),
		slog.String("component", name))
}

// relocation returns where and what to insert for a hoisted statement. The
// text lands immediately before the outer declaration, followed by a blank
// line. When that declaration starts its own line the insertion goes at the
// line start and takes over the line's indentation.
func (p *planner) relocation(src string, stmt, anchor Node) (int, string, bool) {
	text := strings.TrimLeft(stmt.Text(), " \t\r\n")
	partial := false
	stmtIndent := lineIndent(src, stmt.Start())
	anchorIndent := lineIndent(src, anchor.Start())

	if isFunctionDeclaration(stmt) {
		text, partial = dedent(text, indentUnit(stmtIndent, anchorIndent))
	} else if !strings.HasSuffix(text, ";") {
		text += ";"
	}

	ls := lineStart(src, anchor.Start())
	if isBlank(src[ls:anchor.Start()]) {
		return ls, anchorIndent + text + "\n\n", partial
	}
	return anchor.Start(), text + "\n\n", partial
}

// removal returns the range deleted at the original site: the statement up
// to the start of the next named sibling, so the following statement keeps
// the removed statement's leading whitespace, or just the statement when it
// is last. Whole lines are removed when the statement starts its line and
// the next statement (or, when last, the line break) follows only
// whitespace, along with a marker comment left above by an earlier run.
func (p *planner) removal(src string, stmt Node) span {
	ls := lineStart(src, stmt.Start())
	ownLine := isBlank(src[ls:stmt.Start()])

	var del span
	next := stmt.NextNamedSibling()
	if next.IsNil() {
		del = span{start: stmt.Start(), end: stmt.End()}
		eol := strings.IndexByte(src[stmt.End():], '\n')
		if !ownLine || eol < 0 || !isBlank(src[stmt.End():stmt.End()+eol]) {
			return del
		}
		del = span{start: ls, end: stmt.End() + eol + 1}
	} else {
		del = span{start: stmt.Start(), end: next.Start()}
		nls := lineStart(src, next.Start())
		if !ownLine || nls < stmt.End() || !isBlank(src[nls:next.Start()]) {
			return del
		}
		del = span{start: ls, end: nls}
	}
	if p.markedAbove(src, ls) {
		del.start = lineStart(src, ls-1)
	}
	return del
}

// markedAbove reports whether the line before the line starting at ls is
// the marker comment.
func (p *planner) markedAbove(src string, ls int) bool {
	if ls == 0 {
		return false
	}
	prev := src[lineStart(src, ls-1) : ls-1]
	return strings.TrimSpace(prev) == "// "+p.marker
}

func (p *planner) outerName(outer Node) string {
	if name, ok := p.det.ComponentName(enclosingStatement(outer)); ok {
		return name
	}
	if n := outer.Field("name"); n.Is(kindIdentifier) {
		return n.Text()
	}
	return ""
}

// insertionAnchor returns the statement a hoisted component is placed
// before: the outer component's enclosing declaration, or the export
// statement wrapping it.
func insertionAnchor(outer Node) Node {
	stmt := enclosingStatement(outer)
	if parent := stmt.Parent(); parent.Is(kindExportStatement) {
		return parent
	}
	return stmt
}

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// insertsInside reports whether a pending insertion falls strictly inside s.
func insertsInside(inserts map[int][]pendingInsert, s span) bool {
	for at := range inserts {
		if s.start < at && at < s.end {
			return true
		}
	}
	return false
}

func strictlyInside(spans []span, at int) bool {
	for _, s := range spans {
		if s.start < at && at < s.end {
			return true
		}
	}
	return false
}

// lineStart returns the offset just after the line break preceding offset,
// or 0 at the first line.
func lineStart(src string, offset int) int {
	return strings.LastIndexByte(src[:offset], '\n') + 1
}

// lineIndent returns the whitespace between the start of the line and
// offset, or "" when something else precedes offset on that line.
func lineIndent(src string, offset int) string {
	prefix := src[lineStart(src, offset):offset]
	if !isBlank(prefix) {
		return ""
	}
	return prefix
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func isBlank(s string) bool {
	return strings.TrimLeft(s, " \t") == ""
}

// indentUnit is the indentation a statement has beyond the declaration it
// moves in front of. It falls back to a tab when the two do not nest.
func indentUnit(inner, outer string) string {
	if len(inner) > len(outer) && strings.HasPrefix(inner, outer) {
		return inner[len(outer):]
	}
	return "\t"
}

// dedent removes unit from the start of every line after the first. The
// second result is true when a non-blank line did not carry the unit and was
// left as is, meaning the result only approximates the original layout.
func dedent(text, unit string) (string, bool) {
	lines := strings.Split(text, "\n")
	partial := false
	for i := 1; i < len(lines); i++ {
		switch {
		case strings.HasPrefix(lines[i], unit):
			lines[i] = lines[i][len(unit):]
		case isBlank(lines[i]):
		default:
			partial = true
		}
	}
	return strings.Join(lines, "\n"), partial
}
