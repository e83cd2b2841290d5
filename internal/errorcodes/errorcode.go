// Package errorcodes defines pool manager errors using a structured type.
// PoolError holds the two-character code and human-readable description.
package errorcodes

// Predefined pool errors.
var (
	Err00                = PoolError{"00", "No error"}
	ErrUnknownCommand    = PoolError{"P0", "Unknown command"}
	ErrUnknownKey        = PoolError{"P1", "Unknown registry key"}
	ErrInvalidPrototype  = PoolError{"P2", "Invalid prototype reference"}
	ErrCapabilityMissing = PoolError{"P3", "Instance does not expose the requested capability"}
	ErrUnownedReturn     = PoolError{"P4", "Returned instance is not owned by the pool manager"}
	ErrDuplicateKey      = PoolError{"P5", "Registry key registered more than once"}
	ErrRegistrySealed    = PoolError{"P6", "Registry is read-only after startup"}
	ErrManagerClosed     = PoolError{"P7", "Pool manager is closed"}
	ErrInvalidManifest   = PoolError{"P8", "Invalid template manifest"}
	ErrMalformedRequest  = PoolError{"P9", "Malformed console request"}
	ErrUnavailable       = PoolError{"PA", "Pool manager unavailable"}
)

// PoolError represents a pool manager error with its code and description.
type PoolError struct {
	Code        string // two-character error code
	Description string // human-readable description
}

// Error implements the Go error interface: "<Code>: <Description>".
func (e PoolError) Error() string {
	return e.Code + ": " + e.Description
}

// CodeOnly returns only the error code (e.g., "P1"), for embedding in console responses.
func (e PoolError) CodeOnly() string {
	return e.Code
}
