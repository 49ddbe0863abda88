package pipeline

import "codenerd/internal/envstack"

// newClassGrandparentsLayer builds the top layer: for each direct parent
// of a class, its own parents (via the same upstream, classparents), all
// concatenated in order. This is the only layer that performs two
// upstream reads per key and the only one whose per-query dependency set
// depends on data values (the parent list) rather than just the key.
func newClassGrandparentsLayer(classParents *envstack.Layer) *envstack.Layer {
	return envstack.NewLayer("classgrandparents", classParents, classGrandparentsProduce)
}

func classGrandparentsProduce(key envstack.Key, upstream envstack.Reader, _ envstack.OwnCacheReader) (envstack.Value, error) {
	raw, err := upstream(key, key)
	if err != nil {
		return nil, err
	}
	parents := raw.([]string)

	grandparents := make([]string, 0, len(parents))
	for _, parent := range parents {
		raw, err := upstream(parent, key)
		if err != nil {
			return nil, err
		}
		grandparents = append(grandparents, raw.([]string)...)
	}
	return grandparents, nil
}
