package pipeline

import (
	"errors"

	"codenerd/internal/envstack"
)

// newClassParentsLayer builds the layer that renders a class's direct
// base-class expressions to text, in source order.
func newClassParentsLayer(classBody *envstack.Layer) *envstack.Layer {
	return envstack.NewLayer("classparents", classBody, classParentsProduce)
}

func classParentsProduce(key envstack.Key, upstream envstack.Reader, _ envstack.OwnCacheReader) (envstack.Value, error) {
	raw, err := upstream(key, key)
	if err != nil {
		if errors.Is(err, envstack.ErrMissingDefinition) {
			// A class with no definition has no parents; callers treat
			// the absence as an empty sequence rather than a failure.
			return []string{}, nil
		}
		return nil, err
	}

	body := raw.(ClassBody)
	superclasses := body.Node.ChildByFieldName("superclasses")
	if superclasses == nil {
		return []string{}, nil
	}

	parents := make([]string, 0, superclasses.NamedChildCount())
	for i := 0; i < int(superclasses.NamedChildCount()); i++ {
		arg := superclasses.NamedChild(i)
		parents = append(parents, arg.Content(body.Source))
	}
	return parents, nil
}
