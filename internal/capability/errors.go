package capability

import "errors"

var (
	// ErrInvalidDescriptor rejects registration of a descriptor with an
	// empty name or missing Supports/Materialize functions.
	ErrInvalidDescriptor = errors.New("capability: invalid descriptor")

	// ErrProtectedDescriptor rejects registration or removal under the
	// reserved built-in fallback name.
	ErrProtectedDescriptor = errors.New("capability: descriptor name is reserved")

	// ErrNotFound is returned by Remove for an unknown descriptor name.
	ErrNotFound = errors.New("capability: descriptor not found")

	// ErrNoSupportedImplementation means every descriptor, including the
	// built-in fallback, declined the options value. The fallback supports
	// everything, so hitting this is a programming error, not a normal
	// runtime condition.
	ErrNoSupportedImplementation = errors.New("capability: no implementation supports the given options")
)
