package hoist

// FileJob represents a file to be processed.
type FileJob struct {
	AbsPath     string
	DisplayPath string
	Language    Language
}

// DecisionKind is what the planner decided for one nested component.
type DecisionKind string

const (
	DecisionHoisted          DecisionKind = "hoisted"
	DecisionSkippedClosure   DecisionKind = "skipped-closure"
	// DecisionSkippedNameClash leaves a component in place because the
	// scope it would move to already binds one of its names.
	DecisionSkippedNameClash DecisionKind = "skipped-name-clash"
)

// ComponentForm is the syntactic shape of a hoisted component.
type ComponentForm string

const (
	FormArrow        ComponentForm = "arrow"
	FormFunctionDecl ComponentForm = "function-decl"
)

// Decision records the outcome for one nested component.
type Decision struct {
	File      string        `json:"file"`
	Component string        `json:"component"`
	Outer     string        `json:"outer,omitempty"`
	Line      int           `json:"line"`
	Kind      DecisionKind  `json:"kind"`
	Form      ComponentForm `json:"form,omitempty"`
	// Dependency is the first identifier found reading the outer scope.
	Dependency string `json:"dependency,omitempty"`
	// Conflict is the name already bound where the component would land.
	Conflict string `json:"conflict,omitempty"`
	// Edited is false for a closure-dependent component that already
	// carries the marker.
	Edited          bool `json:"edited"`
	PartialReindent bool `json:"partial_reindent,omitempty"`
}

// FileResult is the outcome of transforming one file.
type FileResult struct {
	File      string     `json:"file"`
	Language  string     `json:"language"`
	Changed   bool       `json:"changed"`
	Passes    int        `json:"passes"`
	Decisions []Decision `json:"decisions"`
	Diff      string     `json:"diff,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Patch returns the unified diff, empty unless the run asked for diffs.
func (r FileResult) Patch() string {
	return r.Diff
}

// CandidateInfo describes one nested component without editing anything.
type CandidateInfo struct {
	File       string        `json:"file"`
	Component  string        `json:"component"`
	Outer      string        `json:"outer"`
	Line       int           `json:"line"`
	Form       ComponentForm `json:"form"`
	Safe       bool          `json:"safe"`
	Dependency string        `json:"dependency,omitempty"`
	Conflict   string        `json:"conflict,omitempty"`
}
