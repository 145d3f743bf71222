// Package recovery suggests recovery actions for classified failures. The
// advisor is purely advisory: it never invokes an action itself, a caller
// (typically a UI layer) decides whether and when to offer one.
package recovery

import (
	"strings"

	"git.home.luguber.info/inful/manualbox/internal/errors"
)

// Strategy tags a suggested recovery action.
type Strategy string

const (
	StrategyRetry            Strategy = "retry"
	StrategyFallback         Strategy = "fallback"
	StrategyUserIntervention Strategy = "userIntervention"
	StrategyIgnore           Strategy = "ignore"
	StrategyRestart          Strategy = "restart"
)

// Action is one suggested recovery step.
type Action struct {
	Strategy    Strategy
	Description string
	Backoff     Policy // meaningful for StrategyRetry only
	Run         func()
}

// Advisor builds ordered recovery suggestions. The zero value is unusable;
// construct with NewAdvisor so retry suggestions carry a backoff policy.
type Advisor struct {
	retryPolicy Policy
}

// NewAdvisor creates an advisor; a zero policy selects DefaultPolicy.
func NewAdvisor(retryPolicy Policy) *Advisor {
	if retryPolicy == (Policy{}) {
		retryPolicy = DefaultPolicy()
	}
	return &Advisor{retryPolicy: retryPolicy}
}

// Suggest returns recovery actions ordered most- to least-preferred for the
// given failure. retry is the operation to re-run when a retry suggestion is
// taken; it may be nil, in which case retry suggestions carry a nil Run.
func (a *Advisor) Suggest(err error, context string, retry func()) []Action {
	if err == nil {
		return nil
	}

	ce, ok := err.(*errors.ClassifiedError)
	if !ok {
		return []Action{
			{Strategy: StrategyIgnore, Description: "Dismiss this error"},
			{Strategy: StrategyRestart, Description: "Restart the app if the problem persists"},
		}
	}

	lower := strings.ToLower(context)

	switch ce.Category {
	case errors.CategoryValidation:
		return []Action{
			{Strategy: StrategyUserIntervention, Description: "Correct the highlighted field and try again"},
		}

	case errors.CategoryPersistence:
		actions := []Action{
			{Strategy: StrategyRetry, Description: "Try saving again", Backoff: a.retryPolicy, Run: retry},
		}
		if strings.Contains(lower, "export") {
			actions = append(actions, Action{
				Strategy: StrategyFallback, Description: "Export to a different location",
			})
		}
		return append(actions, Action{
			Strategy: StrategyRestart, Description: "Restart the app if saving keeps failing",
		})

	case errors.CategorySync:
		switch errors.SyncReason(ce.Reason) {
		case errors.SyncAuth:
			return []Action{
				{Strategy: StrategyUserIntervention, Description: "Sign in again to resume syncing"},
				{Strategy: StrategyIgnore, Description: "Keep working offline"},
			}
		case errors.SyncQuota:
			return []Action{
				{Strategy: StrategyUserIntervention, Description: "Free up cloud storage space"},
				{Strategy: StrategyIgnore, Description: "Keep working offline"},
			}
		default:
			return []Action{
				{Strategy: StrategyRetry, Description: "Retry sync", Backoff: a.retryPolicy, Run: retry},
				{Strategy: StrategyIgnore, Description: "Keep working offline"},
			}
		}

	case errors.CategoryNetwork:
		return []Action{
			{Strategy: StrategyRetry, Description: "Check your connection and retry", Backoff: a.retryPolicy, Run: retry},
			{Strategy: StrategyIgnore, Description: "Continue without network"},
		}

	case errors.CategoryFileSystem:
		switch errors.FileSystemReason(ce.Reason) {
		case errors.FilePermission:
			return []Action{
				{Strategy: StrategyUserIntervention, Description: "Grant access to the file location"},
			}
		case errors.FileDiskFull:
			return []Action{
				{Strategy: StrategyUserIntervention, Description: "Free up storage space and retry"},
			}
		default:
			return []Action{
				{Strategy: StrategyRetry, Description: "Try the file operation again", Backoff: a.retryPolicy, Run: retry},
				{Strategy: StrategyFallback, Description: "Choose a different file"},
			}
		}

	default:
		return []Action{
			{Strategy: StrategyRetry, Description: "Try again", Backoff: a.retryPolicy, Run: retry},
			{Strategy: StrategyRestart, Description: "Restart the app if the problem persists"},
		}
	}
}
