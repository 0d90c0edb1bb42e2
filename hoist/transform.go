package hoist

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// File is one source text to transform.
type File struct {
	// Name identifies the file in decisions, logs and metrics.
	Name     string
	Source   []byte
	Language Language
}

// TransformOptions configures Transform.
type TransformOptions struct {
	// Config supplies the allow-list, marker text, resolver choice and pass
	// limit. Zero fields take defaults.
	Config Config

	// Reporter receives one increment per decision. Defaults to NopReporter.
	Reporter Reporter

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// TransformResult is the outcome of transforming one file.
type TransformResult struct {
	Source    string
	Changed   bool
	Decisions []Decision
	// Passes is the number of parse and plan rounds the file needed.
	Passes int
}

// Transform hoists the nested components of one file. The returned source
// equals the input when Changed is false.
func Transform(ctx context.Context, f File, opts TransformOptions) (*TransformResult, error) {
	if f.Language == nil {
		return nil, errLanguage("<nil>")
	}
	e := newEngine(opts.Config, opts.Reporter, opts.Logger)
	return e.transform(ctx, make(parserSet), f)
}

// engine holds everything shared by the file workers of one operation.
type engine struct {
	cfg       Config
	resolver  Resolver
	intrinsic []string
	reporter  Reporter
	logger    *slog.Logger

	mu      sync.Mutex
	queries map[string]*query
}

func newEngine(cfg Config, reporter Reporter, logger *slog.Logger) *engine {
	cfg = cfg.withDefaults()
	if reporter == nil {
		reporter = NopReporter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &engine{
		cfg:       cfg,
		resolver:  cfg.resolver(),
		intrinsic: cfg.intrinsic(),
		reporter:  reporter,
		logger:    logger,
		queries:   make(map[string]*query),
	}
}

// candidatesQuery compiles each language's candidate query once.
func (e *engine) candidatesQuery(lang Language) (*query, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if q, ok := e.queries[lang.Name()]; ok {
		return q, nil
	}
	q, err := newQuery(lang.CandidatesQuery(), lang)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", lang.Name(), err)
	}
	e.queries[lang.Name()] = q
	return q, nil
}

func (e *engine) planner(tree *Tree, file string, q *query) *planner {
	return &planner{
		tree:   tree,
		file:   file,
		query:  q,
		det:    newDetector(),
		an:     newAnalyzer(e.resolver, e.intrinsic),
		marker: e.cfg.Marker,
		logger: e.logger,
		scopes: make(map[Node]BindingSet),
	}
}

// transform plans and applies edits until nothing is deferred and no
// hoisted component is left inside another function. Each decision is
// reported once, however many passes repeat it.
func (e *engine) transform(ctx context.Context, parsers parserSet, f File) (*TransformResult, error) {
	q, err := e.candidatesQuery(f.Language)
	if err != nil {
		return nil, err
	}
	p := parsers.get(f.Language)

	// A component hoisted twice is reported once. Skips are kept apart per
	// host since unrelated hosts may reuse a name.
	type reportKey struct {
		outer     string
		component string
		kind      DecisionKind
	}
	reported := make(map[reportKey]bool)

	res := &TransformResult{Decisions: []Decision{}}
	current := string(f.Source)
	for pass := 1; pass <= e.cfg.MaxPasses; pass++ {
		tree, err := p.parse(ctx, []byte(current))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		planned := e.planner(tree, f.Name, q).plan()
		res.Passes = pass

		for _, d := range planned.Decisions {
			key := reportKey{component: d.Component, kind: d.Kind}
			if d.Kind != DecisionHoisted {
				key.outer = d.Outer
			}
			if reported[key] {
				continue
			}
			reported[key] = true
			res.Decisions = append(res.Decisions, d)
			e.reporter.Increment(ctx, d)
		}
		if len(planned.Edits) == 0 {
			break
		}
		current, err = Apply(current, planned.Edits)
		if err != nil {
			return nil, fmt.Errorf("%s: pass %d: %w", f.Name, pass, err)
		}
		if planned.Deferred == 0 && planned.Nested == 0 {
			break
		}
		if pass == e.cfg.MaxPasses {
			e.logger.Warn("nested components left after the last pass",
				slog.String("file", f.Name),
				slog.Int("deferred", planned.Deferred),
				slog.Int("passes", pass))
		}
	}

	res.Source = current
	res.Changed = current != string(f.Source)
	return res, nil
}

// candidates reports every nested component of one file with the decision
// the planner would make, without editing.
func (e *engine) candidates(ctx context.Context, parsers parserSet, f File) ([]CandidateInfo, error) {
	q, err := e.candidatesQuery(f.Language)
	if err != nil {
		return nil, err
	}
	tree, err := parsers.get(f.Language).parse(ctx, f.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Name, err)
	}
	pl := e.planner(tree, f.Name, q)

	out := []CandidateInfo{}
	for _, c := range pl.candidates() {
		component := pl.det.ComponentNode(c.Decl)
		name, ok := pl.det.ComponentName(c.Decl)
		if !ok {
			continue
		}
		info := CandidateInfo{
			File:      f.Name,
			Component: name,
			Outer:     pl.outerName(c.Outer),
			Line:      int(c.Decl.Point().Row) + 1,
			Form:      FormArrow,
			Safe:      true,
		}
		if isFunctionDeclaration(c.Decl) {
			info.Form = FormFunctionDecl
		}
		if dep, ok := pl.an.closureDependency(component, c.Outer, name); ok {
			info.Safe = false
			info.Dependency = dep.Text()
		} else if clash, ok := pl.nameClash(insertionAnchor(c.Outer).Parent(), statementNames(enclosingStatement(component)), nil); ok {
			info.Safe = false
			info.Conflict = clash
		}
		out = append(out, info)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out, nil
}
