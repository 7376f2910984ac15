package element

import "errors"

var (
	// ErrInvalidTopology is returned when the stiffness matrix (or a record) is
	// requested while at least one node slot is unset.
	ErrInvalidTopology = errors.New("invalid topology: unresolved node slot")
	// ErrUnresolvedReference is returned by the resolution pass when a raw node
	// index has no node in the table, or the raw index count does not match.
	ErrUnresolvedReference = errors.New("unresolved node reference")
	// ErrMalformedTopology is returned when a persisted kind implies a node
	// count different from the persisted node indices.
	ErrMalformedTopology = errors.New("malformed topology")
	// ErrAlreadyResolved is returned when resolution is attempted on an element
	// that is not in the Raw state.
	ErrAlreadyResolved = errors.New("element is not in raw state")
	// ErrDegenerateGeometry is returned for zero length members and zero area
	// triangles.
	ErrDegenerateGeometry = errors.New("degenerate element geometry")
	// ErrInvalidSection is returned when section properties fail validation.
	ErrInvalidSection = errors.New("invalid section properties")
)
