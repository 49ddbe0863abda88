package pipeline

import (
	"fmt"

	"codenerd/internal/envstack"
)

// newClassBodyLayer builds the layer that locates one class's top-level
// definition within its module's parse tree. Keys are "module.classname".
func newClassBodyLayer(ast *envstack.Layer) *envstack.Layer {
	return envstack.NewLayer("classbody", ast, classBodyProduce)
}

func classBodyProduce(key envstack.Key, upstream envstack.Reader, _ envstack.OwnCacheReader) (envstack.Value, error) {
	module := envstack.ModuleOf(key)
	className := classNameOf(key)

	raw, err := upstream(module, key)
	if err != nil {
		return nil, err
	}
	ast := raw.(Ast)

	root := ast.Tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "class_definition" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		if nameNode.Content(ast.Source) == className {
			return ClassBody{Node: child, Source: ast.Source}, nil
		}
	}

	return nil, fmt.Errorf("class %q not found in module %q: %w", className, module, envstack.ErrMissingDefinition)
}
