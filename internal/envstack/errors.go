package envstack

import "errors"

// Sentinel error kinds. Wrap these with fmt.Errorf("%w") to attach the
// failing key and layer name.
var (
	// ErrNoUpstream is returned when an operation that requires an
	// upstream layer is invoked on a layer that has none.
	ErrNoUpstream = errors.New("envstack: no upstream layer")

	// ErrInvalidOverlayUpdate is returned when Update is called with
	// inOverlay=true directly on the bottom (code) layer.
	ErrInvalidOverlayUpdate = errors.New("envstack: invalid overlay update on code layer")

	// ErrParseError is returned when a produce function cannot parse
	// its upstream text.
	ErrParseError = errors.New("envstack: parse error")

	// ErrMissingDefinition is returned when a produce function cannot
	// find a named definition it was asked to produce.
	ErrMissingDefinition = errors.New("envstack: missing definition")

	// ErrKeyNotFound is returned when a get resolves to a key whose
	// upstream cannot produce it.
	ErrKeyNotFound = errors.New("envstack: key not found")
)
