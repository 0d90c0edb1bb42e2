package hoist

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// parser wraps a tree-sitter parser for a specific language.
// A parser is not safe for concurrent use; each worker owns its own.
type parser struct {
	parser *sitter.Parser
	lang   Language
}

// newParser creates a new parser for the given language.
func newParser(language Language) *parser {
	p := sitter.NewParser()
	p.SetLanguage(language.TreeSitterLang())
	return &parser{
		parser: p,
		lang:   language,
	}
}

// parse parses source code and returns the flattened syntax tree.
func (p *parser) parse(ctx context.Context, source []byte) (*Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return newTree(tree.RootNode(), source), nil
}

// parseFile reads and parses a file.
func (p *parser) parseFile(ctx context.Context, path string) (*Tree, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return p.parse(ctx, source)
}

// parserSet lazily creates one parser per language.
type parserSet map[string]*parser

func (s parserSet) get(language Language) *parser {
	p, ok := s[language.Name()]
	if !ok {
		p = newParser(language)
		s[language.Name()] = p
	}
	return p
}

// query represents a compiled tree-sitter query.
type query struct {
	query        *sitter.Query
	captureNames []string
}

// newQuery compiles a tree-sitter query string.
func newQuery(queryStr string, language Language) (*query, error) {
	q, err := sitter.NewQuery([]byte(queryStr), language.TreeSitterLang())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	captureCount := int(q.CaptureCount())
	captureNames := make([]string, captureCount)
	for i := 0; i < captureCount; i++ {
		captureNames[i] = q.CaptureNameForId(uint32(i))
	}

	return &query{
		query:        q,
		captureNames: captureNames,
	}, nil
}

// captures runs the query over the whole tree and returns the arena nodes
// captured under name, in match order.
func (q *query) captures(t *Tree, name string) []Node {
	cursor := sitter.NewQueryCursor()
	cursor.Exec(q.query, t.sroot)

	var nodes []Node
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			if q.captureName(capture.Index) != name {
				continue
			}
			if n := t.lookup(capture.Node); !n.IsNil() {
				nodes = append(nodes, n)
			}
		}
	}
	return nodes
}

func (q *query) captureName(index uint32) string {
	if int(index) >= len(q.captureNames) {
		return fmt.Sprintf("capture_%d", index)
	}
	return q.captureNames[index]
}
