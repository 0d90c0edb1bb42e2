package hoist

import (
	_ "embed"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

//go:embed queries/tsx/candidates.scm
var tsxCandidatesQuery string

//go:embed queries/javascript/candidates.scm
var javascriptCandidatesQuery string

// TSX implements the Language interface for TypeScript with JSX.
type TSX struct{}

// JavaScript implements the Language interface for JavaScript with JSX.
type JavaScript struct{}

func init() {
	Register(&TSX{})
	Register(&JavaScript{})
}

func (l *TSX) Name() string {
	return "tsx"
}

func (l *TSX) Extensions() []string {
	return []string{".tsx"}
}

func (l *TSX) TreeSitterLang() *sitter.Language {
	return tsx.GetLanguage()
}

func (l *TSX) CandidatesQuery() string {
	return tsxCandidatesQuery
}

func (l *JavaScript) Name() string {
	return "javascript"
}

func (l *JavaScript) Extensions() []string {
	return []string{".jsx", ".js", ".mjs"}
}

func (l *JavaScript) TreeSitterLang() *sitter.Language {
	return javascript.GetLanguage()
}

func (l *JavaScript) CandidatesQuery() string {
	return javascriptCandidatesQuery
}
