package pipeline

import (
	"context"
	"fmt"

	"codenerd/internal/envstack"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// newAstLayer builds the parse-tree layer on top of code. Produce reads
// the module's source, normalizes indentation, and parses it with
// tree-sitter's Python grammar.
func newAstLayer(code *envstack.Layer, dedentSource bool) *envstack.Layer {
	return envstack.NewLayer("ast", code, astProduce(dedentSource))
}

func astProduce(dedentSource bool) envstack.ProduceFunc {
	return func(key envstack.Key, upstream envstack.Reader, _ envstack.OwnCacheReader) (envstack.Value, error) {
		raw, err := upstream(key, key)
		if err != nil {
			return nil, err
		}
		text, _ := raw.(string)
		if dedentSource {
			text = dedent(text)
		}

		parser := sitter.NewParser()
		defer parser.Close()
		parser.SetLanguage(python.GetLanguage())

		source := []byte(text)
		tree, err := parser.ParseCtx(context.Background(), nil, source)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", key, envstack.ErrParseError)
		}
		if tree.RootNode().HasError() {
			return nil, fmt.Errorf("module %q: %w", key, envstack.ErrParseError)
		}

		return Ast{Tree: tree, Source: source}, nil
	}
}
