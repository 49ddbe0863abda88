// Package envstack implements the stacked environment-table abstraction:
// a pipeline of keyed, memoizing layers where each layer consumes the one
// below it read-only, tracks which keys depended on which upstream reads,
// and propagates invalidation upward on update. Layers additionally support
// per-module overlays, a shadow cache that owns one module's keys and
// delegates everything else to the non-overlay ("base") layer.
//
// The package models a layer as a value carrying its upstream reference
// and a produce function rather than a generic type hierarchy, per the
// tagged-variant style: ProduceFunc closures supply the per-stage behavior
// (code lookup, parsing, tree-walking, ...) over a single Layer type.
package envstack

import (
	"fmt"
	"sort"
	"strings"

	"codenerd/internal/logging"
)

// Key addresses one cached item: either a module name, or
// "module.classname" for sub-module entities.
type Key = string

// Value is the opaque per-layer payload type. Layers carry their own
// concrete shape (string, parsed tree, []string, ...) behind this.
type Value = any

// Reader is the curried, overlay-aware get used by produce functions to
// read their upstream layer.
type Reader func(key Key, dependencyKey Key) (Value, error)

// OwnCacheReader exposes a layer's own cache for produce functions that
// need to read-not-compute (the code layer).
type OwnCacheReader func(key Key) (Value, bool)

// ProduceFunc computes the value for key, given a reader bound to the
// upstream layer and a reader bound to this layer's own cache. It must be
// pure given what it reads through upstream and ownCache.
type ProduceFunc func(key Key, upstream Reader, ownCache OwnCacheReader) (Value, error)

// ModuleOf returns the module portion of a key, splitting on the first
// '.'. A bare module key returns itself.
func ModuleOf(key Key) string {
	if i := strings.IndexByte(key, '.'); i >= 0 {
		return key[:i]
	}
	return key
}

// Layer is one stage of the pipeline: a memoized keyed computation with a
// dependency table, an optional upstream layer, and optional per-module
// overlay children.
type Layer struct {
	name    string
	produce ProduceFunc

	cache map[Key]Value
	deps  map[Key]map[Key]struct{}

	upstream *Layer
	children map[string]*Layer

	// Set only when this Layer is itself an overlay.
	parent      *Layer // the base (non-overlay) layer at the same level
	ownedModule string
	isOverlay   bool
}

// NewLayer constructs a base (non-overlay) layer named name, wired on top
// of upstream (nil for the bottom layer), using produce to compute misses.
func NewLayer(name string, upstream *Layer, produce ProduceFunc) *Layer {
	return &Layer{
		name:     name,
		produce:  produce,
		cache:    make(map[Key]Value),
		deps:     make(map[Key]map[Key]struct{}),
		upstream: upstream,
		children: make(map[string]*Layer),
	}
}

// Name returns the layer's name, used in error messages and logs.
func (l *Layer) Name() string { return l.name }

// Get looks up key, recording dependencyKey as one of key's dependents.
// On cache miss it invokes produce and caches the result. An empty
// dependencyKey denotes a root query with no specific dependent.
func (l *Layer) Get(key Key, dependencyKey Key) (Value, error) {
	if l.isOverlay && ModuleOf(key) != l.ownedModule {
		return l.parent.Get(key, dependencyKey)
	}

	l.recordDependency(key, dependencyKey)

	if v, ok := l.cache[key]; ok {
		return v, nil
	}

	v, err := l.produce(key, l.upstreamReader(), l.ownCacheReader())
	if err != nil {
		return nil, fmt.Errorf("envstack: layer %q produce %q: %w", l.name, key, err)
	}
	l.cache[key] = v
	logging.EnvStackDebug("layer=%s key=%s produced and cached", l.name, key)
	return v, nil
}

func (l *Layer) recordDependency(key, dependencyKey Key) {
	if dependencyKey == "" {
		return
	}
	set, ok := l.deps[key]
	if !ok {
		set = make(map[Key]struct{})
		l.deps[key] = set
	}
	set[dependencyKey] = struct{}{}
}

func (l *Layer) upstreamReader() Reader {
	if l.upstream == nil {
		return func(key, dependencyKey Key) (Value, error) {
			return nil, fmt.Errorf("envstack: layer %q has no upstream: %w", l.name, ErrNoUpstream)
		}
	}
	return l.upstream.Get
}

func (l *Layer) ownCacheReader() OwnCacheReader {
	return func(key Key) (Value, bool) {
		v, ok := l.cache[key]
		return v, ok
	}
}

// AsReader returns a closure equivalent to Get, usable by downstream
// layers or external callers as a read-only projection.
func (l *Layer) AsReader() Reader {
	return l.Get
}

// Update is the entry point for applying an edit at this layer. When
// inOverlay is false, the edit recurses to the base stack's bottom layer,
// mutates it, and push-invalidates back up through this layer. When
// inOverlay is true, the module's overlay chain is lazily created (or
// reused) from this layer down to the code layer, the code layer's
// overlay cache is (re)seeded with code, and push-invalidation runs
// through the overlay chain only; the base stack is untouched.
//
// Update must never be called with inOverlay=true directly on the code
// layer (the bottom layer, upstream == nil): that is caller error and
// returns ErrInvalidOverlayUpdate.
func (l *Layer) Update(module string, code string, inOverlay bool) ([]Key, error) {
	if inOverlay {
		if l.upstream == nil {
			return nil, fmt.Errorf("envstack: layer %q: %w", l.name, ErrInvalidOverlayUpdate)
		}
		logging.OverlayDebug("layer=%s update module=%s in_overlay=true", l.name, module)
		return l.updateOverlay(module, code)
	}

	logging.EnvStackDebug("layer=%s update module=%s in_overlay=false", l.name, module)

	if l.upstream == nil {
		l.cache[module] = code
		return l.sortedDependents(module), nil
	}

	incoming, err := l.upstream.Update(module, code, false)
	if err != nil {
		return nil, err
	}
	return l.updateForPush(incoming)
}

// updateOverlay recurses down to the code layer seeding/refreshing the
// module's overlay content there, then builds (or reuses) the overlay
// chain back up to l, push-invalidating each overlay layer in turn.
func (l *Layer) updateOverlay(module, code string) ([]Key, error) {
	if l.upstream == nil {
		ov := l.getOrCreateOverlay(module)
		ov.cache[module] = code
		return ov.sortedDependents(module), nil
	}

	incoming, err := l.upstream.updateOverlay(module, code)
	if err != nil {
		return nil, err
	}
	ov := l.getOrCreateOverlay(module)
	return ov.updateForPush(incoming)
}

// getOrCreateOverlay returns the existing overlay child owning module at
// this layer, lazily creating it (and, recursively, every overlay layer
// below it down to the code layer) on first use. Idempotent: repeat
// calls for the same module return the same child.
func (l *Layer) getOrCreateOverlay(module string) *Layer {
	if child, ok := l.children[module]; ok {
		return child
	}

	var upstreamOverlay *Layer
	if l.upstream != nil {
		upstreamOverlay = l.upstream.getOrCreateOverlay(module)
	}

	child := &Layer{
		name:        l.name,
		produce:     l.produce,
		cache:       make(map[Key]Value),
		deps:        make(map[Key]map[Key]struct{}),
		upstream:    upstreamOverlay,
		children:    make(map[string]*Layer),
		parent:      l,
		ownedModule: module,
		isOverlay:   true,
	}
	l.children[module] = child
	logging.Overlay("layer=%s overlay created for module=%s", l.name, module)
	return child
}

// updateForPush recomputes every key in incoming that this layer owns
// (all of them for a base layer; only keys in its owned module for an
// overlay) and has already seen, i.e. holds a cache or dependency entry
// for; never-seen keys are skipped. It then forwards the original
// incoming set to every overlay child at this level and unions their
// outgoing sets in.
func (l *Layer) updateForPush(incoming []Key) ([]Key, error) {
	outgoing := make(map[Key]struct{})

	sorted := append([]Key(nil), incoming...)
	sort.Strings(sorted)

	for _, key := range sorted {
		if l.isOverlay && ModuleOf(key) != l.ownedModule {
			continue
		}
		if _, hasCache := l.cache[key]; !hasCache {
			if _, hasDeps := l.deps[key]; !hasDeps {
				continue // never seen: silently skipped
			}
		}

		v, err := l.produce(key, l.upstreamReader(), l.ownCacheReader())
		if err != nil {
			return nil, fmt.Errorf("envstack: layer %q recompute %q: %w", l.name, key, err)
		}
		l.cache[key] = v

		for dep := range l.deps[key] {
			outgoing[dep] = struct{}{}
		}
	}

	childModules := make([]string, 0, len(l.children))
	for module := range l.children {
		childModules = append(childModules, module)
	}
	sort.Strings(childModules)

	for _, module := range childModules {
		childOut, err := l.children[module].updateForPush(incoming)
		if err != nil {
			return nil, err
		}
		for _, k := range childOut {
			outgoing[k] = struct{}{}
		}
	}

	return sortedKeys(outgoing), nil
}

func (l *Layer) sortedDependents(key Key) []Key {
	set, ok := l.deps[key]
	if !ok {
		return nil
	}
	out := make([]Key, 0, len(set))
	for dep := range set {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(set map[Key]struct{}) []Key {
	out := make([]Key, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Child returns the overlay child owning module, if one has been
// created. Returns ErrKeyNotFound if no such overlay exists yet.
func (l *Layer) Child(module string) (*Layer, error) {
	child, ok := l.children[module]
	if !ok {
		return nil, fmt.Errorf("envstack: layer %q: overlay for module %q: %w", l.name, module, ErrKeyNotFound)
	}
	return child, nil
}

// IsOverlay reports whether this layer is an overlay (as opposed to the
// base stack).
func (l *Layer) IsOverlay() bool { return l.isOverlay }

// OwnedModule returns the module this overlay owns, or "" for a base
// layer.
func (l *Layer) OwnedModule() string { return l.ownedModule }
