package order

import "errors"

// Sentinel error kinds. Callers use errors.Is against these; the wrapping
// error additionally carries the offending input in its message, following
// the fmt.Errorf("...: %w", err) convention used throughout the teacher
// codebase (pkg/config, pkg/storage).
var (
	ErrInvalidPosition       = errors.New("order: invalid position")
	ErrUnknownBunch          = errors.New("order: unknown bunch")
	ErrUnknownParent         = errors.New("order: unknown parent")
	ErrConflict              = errors.New("order: conflicting bunch meta")
	ErrCycle                 = errors.New("order: cycle in received bunch metas")
	ErrInvalidRoot           = errors.New("order: meta attempts to redefine root")
	ErrInvalidID             = errors.New("order: invalid id")
	ErrIDCollision           = errors.New("order: new_node_id returned an existing id")
	ErrInversion             = errors.New("order: prev must strictly precede next")
	ErrConcurrentModification = errors.New("order: concurrent modification detected")
)
