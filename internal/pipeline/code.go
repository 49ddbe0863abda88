package pipeline

import (
	"fmt"

	"codenerd/internal/envstack"
)

// newCodeLayer builds the bottom layer: module -> raw source text. It has
// no upstream; its cache is the authoritative store of module text. A
// cache miss on Get means the module was never given code.
func newCodeLayer(initial map[string]string) *envstack.Layer {
	layer := envstack.NewLayer("code", nil, codeProduce)
	for module, code := range initial {
		// Seed directly; this is not a produce-computed value, it is
		// the authoritative source, per the code layer's contract.
		layer.Update(module, code, false)
	}
	return layer
}

func codeProduce(key envstack.Key, _ envstack.Reader, ownCache envstack.OwnCacheReader) (envstack.Value, error) {
	v, ok := ownCache(key)
	if !ok {
		return nil, fmt.Errorf("module %q: %w", key, envstack.ErrKeyNotFound)
	}
	return v, nil
}
