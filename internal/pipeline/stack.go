package pipeline

import (
	"codenerd/internal/envstack"
	"codenerd/internal/logging"

	"github.com/google/uuid"
)

// Stack wires the five pipeline layers bottom-to-top: code -> ast ->
// classbody -> classparents -> classgrandparents. It is the concrete
// instantiation of envstack's generic layer mechanism for the
// class-hierarchy witness pipeline.
type Stack struct {
	Code              *envstack.Layer
	Ast               *envstack.Layer
	ClassBody         *envstack.Layer
	ClassParents      *envstack.Layer
	ClassGrandparents *envstack.Layer
	overlaySessionIDs map[string]string
}

// CreateEnvStack is the factory entry point: it creates the five layers
// wired bottom-to-top over the provided initial code map. All caches
// above the bottom start empty; no overlays exist yet.
func CreateEnvStack(code map[string]string) *Stack {
	return New(code, true)
}

// New builds a Stack like CreateEnvStack, additionally controlling
// whether module source is dedented before parsing.
func New(code map[string]string, dedentSource bool) *Stack {
	codeLayer := newCodeLayer(code)
	astLayer := newAstLayer(codeLayer, dedentSource)
	classBodyLayer := newClassBodyLayer(astLayer)
	classParentsLayer := newClassParentsLayer(classBodyLayer)
	classGrandparentsLayer := newClassGrandparentsLayer(classParentsLayer)

	return &Stack{
		Code:              codeLayer,
		Ast:               astLayer,
		ClassBody:         classBodyLayer,
		ClassParents:      classParentsLayer,
		ClassGrandparents: classGrandparentsLayer,
		overlaySessionIDs: make(map[string]string),
	}
}

// Update applies an edit to module at the top of the stack, propagating
// through the full pipeline. When inOverlay is true and this is the
// module's first overlay edit, the new overlay is tagged with a fresh
// session id (observational only; never part of cache keys).
func (s *Stack) Update(module, code string, inOverlay bool) ([]envstack.Key, error) {
	touched, err := s.ClassGrandparents.Update(module, code, inOverlay)
	if err != nil {
		return nil, err
	}

	if inOverlay {
		if _, ok := s.overlaySessionIDs[module]; !ok {
			id := uuid.NewString()
			s.overlaySessionIDs[module] = id
			logging.Overlay("module=%s overlay session=%s created", module, id)
		}
	}

	return touched, nil
}

// OverlaySessionID returns the session id tagging module's overlay, if
// one has been created.
func (s *Stack) OverlaySessionID(module string) (string, bool) {
	id, ok := s.overlaySessionIDs[module]
	return id, ok
}

// Get is a convenience root query against the top layer (dependencyKey
// is always "" here: an external caller, not another layer).
func (s *Stack) Get(key string) (envstack.Value, error) {
	return s.ClassGrandparents.Get(key, "")
}

// OverlayChild returns the top layer's overlay child for module, for
// overlay-specific queries (mirrors the top layer's children[module]
// exposure in the envstack design).
func (s *Stack) OverlayChild(module string) (*envstack.Layer, error) {
	return s.ClassGrandparents.Child(module)
}
