package errors

// ErrorCategory represents the broad category of a failure for classification
// and routing.
type ErrorCategory string

const (
	// User input and domain validation failures.
	CategoryValidation ErrorCategory = "validation"

	// Local persistence (SQLite) failures.
	CategoryPersistence ErrorCategory = "persistence"

	// Remote synchronization failures.
	CategorySync ErrorCategory = "sync"

	// Plain network failures outside of sync.
	CategoryNetwork ErrorCategory = "network"

	// Filesystem failures (manual attachments, exports).
	CategoryFileSystem ErrorCategory = "filesystem"

	// Anything not otherwise classifiable.
	CategoryInternal ErrorCategory = "internal"
)

// SyncReason narrows a sync failure.
type SyncReason string

const (
	SyncNetwork   SyncReason = "network"
	SyncAuth      SyncReason = "auth"
	SyncQuota     SyncReason = "quota"
	SyncRateLimit SyncReason = "rate_limit"
	SyncConflict  SyncReason = "conflict"
)

// NetworkReason narrows a network failure.
type NetworkReason string

const (
	NetworkTimeout     NetworkReason = "timeout"
	NetworkUnreachable NetworkReason = "unreachable"
	NetworkDNS         NetworkReason = "dns"
	NetworkTLS         NetworkReason = "tls"
)

// FileSystemReason narrows a filesystem failure.
type FileSystemReason string

const (
	FileMissing    FileSystemReason = "missing"
	FilePermission FileSystemReason = "permission"
	FileDiskFull   FileSystemReason = "full"
	FileReadOnly   FileSystemReason = "readonly"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution completely
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// RetryStrategy indicates how an error should be handled in retry scenarios.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryImmediate  RetryStrategy = "immediate"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user_action"
)
