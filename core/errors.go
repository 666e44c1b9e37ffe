package core

import "errors"

// Negotiation errors. Fatal to initialization; the bridge stays
// Uninitialized and the host may retry with different capabilities.
var (
	// ErrNoCompatibleGraphicsAPI means none of the host-declared graphics
	// APIs match a backend this bridge can drive.
	ErrNoCompatibleGraphicsAPI = errors.New("core: no compatible graphics api")

	// ErrNoCompatiblePixelFormat means the host declared pixel formats
	// but none the bridge outputs.
	ErrNoCompatiblePixelFormat = errors.New("core: no compatible pixel format")

	// ErrAudioRangeUnsatisfiable means no sample rate overlaps the
	// player's supported range.
	ErrAudioRangeUnsatisfiable = errors.New("core: audio sample rate range unsatisfiable")
)

// Content load errors. Recoverable; the bridge stays in its prior state.
var (
	// ErrMalformedContent means the content bytes could not be parsed.
	ErrMalformedContent = errors.New("core: malformed content")

	// ErrUnsupportedFeature means the content requires an engine feature
	// that is not implemented.
	ErrUnsupportedFeature = errors.New("core: unsupported content feature")
)

// Lifecycle errors.
var (
	// ErrNotNegotiated is returned for operations that need a negotiated
	// environment.
	ErrNotNegotiated = errors.New("core: environment not negotiated")

	// ErrNotRunning is returned by Pump outside the Running state.
	ErrNotRunning = errors.New("core: not running")

	// ErrInvalidState is returned for an operation undefined in the
	// current lifecycle state. Wrapped with the state and operation.
	ErrInvalidState = errors.New("core: invalid lifecycle state")

	// ErrTornDown is returned by every operation after Teardown.
	ErrTornDown = errors.New("core: torn down")
)

// Save and load-state errors. Local to the call; player state is never
// mutated on failure.
var (
	// ErrSaveUnsupportedByContent means the loaded content opts out of
	// state saving.
	ErrSaveUnsupportedByContent = errors.New("core: content does not support save states")

	// ErrNotSerializable means the player reported a transient
	// non-serializable condition; the caller may retry later.
	ErrNotSerializable = errors.New("core: player state not serializable right now")

	// ErrVersionMismatch means the blob was produced by an incompatible
	// bridge major version.
	ErrVersionMismatch = errors.New("core: save state version mismatch")

	// ErrTruncatedBlob means the blob is shorter than its framing claims.
	ErrTruncatedBlob = errors.New("core: truncated save state")
)
