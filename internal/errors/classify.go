package errors

import (
	"fmt"
	"strings"
)

// Classify maps a failure to a user-safe message. The context string refines
// the message for known workflows (scan, export, import, sync) but is never
// echoed verbatim. Known categories never include the internal error text;
// only unclassified errors fall back to the low-level description.
//
// Classify is pure: the same (err, context) pair always yields the same
// message.
func Classify(err error, context string) string {
	if err == nil {
		return ""
	}

	ce, ok := err.(*ClassifiedError)
	if !ok {
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}

	lower := strings.ToLower(context)

	switch ce.Category {
	case CategoryValidation:
		// Validation messages are authored for the user already.
		return ce.Message

	case CategoryPersistence:
		switch {
		case strings.Contains(lower, "export"):
			return "Could not export your data. Please try again."
		case strings.Contains(lower, "import"):
			return "Could not import the file. Check that it is a valid ManualBox export."
		default:
			return "Could not save your changes. Please try again."
		}

	case CategorySync:
		switch SyncReason(ce.Reason) {
		case SyncAuth:
			return "Sync sign-in has expired. Please sign in again."
		case SyncQuota:
			return "Cloud storage is full. Free up space to continue syncing."
		case SyncRateLimit:
			return "Syncing is temporarily paused. It will resume automatically."
		case SyncConflict:
			return "A sync conflict was detected. The most recent change was kept."
		default:
			return "Sync is unavailable right now. Your data is safe locally."
		}

	case CategoryNetwork:
		switch NetworkReason(ce.Reason) {
		case NetworkTimeout:
			return "The connection timed out. Check your network and try again."
		case NetworkDNS, NetworkUnreachable:
			return "The server could not be reached. Check your network connection."
		default:
			return "A network error occurred. Please try again."
		}

	case CategoryFileSystem:
		if strings.Contains(lower, "ocr") || strings.Contains(lower, "scan") {
			return "Could not read the scanned image. Try scanning again."
		}
		switch FileSystemReason(ce.Reason) {
		case FileMissing:
			return "The file could not be found."
		case FilePermission:
			return "ManualBox does not have permission to access this file."
		case FileDiskFull:
			return "There is not enough storage space available."
		case FileReadOnly:
			return "The storage location is read-only."
		default:
			return "A file error occurred. Please try again."
		}

	default:
		// Unclassified: include the low-level description so support has
		// something to work with.
		if ce.Cause != nil {
			return fmt.Sprintf("An unexpected error occurred: %v", ce.Cause)
		}
		return fmt.Sprintf("An unexpected error occurred: %s", ce.Message)
	}
}
