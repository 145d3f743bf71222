package recovery

import (
	"fmt"
	"testing"

	"git.home.luguber.info/inful/manualbox/internal/errors"
)

func strategies(actions []Action) []Strategy {
	out := make([]Strategy, len(actions))
	for i, a := range actions {
		out[i] = a.Strategy
	}
	return out
}

func TestSuggest_ValidationWantsUser(t *testing.T) {
	a := NewAdvisor(Policy{})

	got := a.Suggest(errors.ValidationError("name required").Build(), "save", nil)
	if len(got) != 1 || got[0].Strategy != StrategyUserIntervention {
		t.Errorf("strategies = %v, want [userIntervention]", strategies(got))
	}
}

func TestSuggest_RetryFirstForTransient(t *testing.T) {
	a := NewAdvisor(Policy{})

	for _, err := range []error{
		errors.NetworkError(errors.NetworkTimeout, "timeout").Build(),
		errors.SyncError(errors.SyncNetwork, "offline").Build(),
		errors.PersistenceError("busy").Build(),
	} {
		got := a.Suggest(err, "", nil)
		if len(got) == 0 || got[0].Strategy != StrategyRetry {
			t.Errorf("%v: strategies = %v, want retry first", err, strategies(got))
		}
		if got[0].Backoff == (Policy{}) {
			t.Errorf("%v: retry suggestion should carry a backoff policy", err)
		}
	}
}

func TestSuggest_AuthNeverAutoRetries(t *testing.T) {
	a := NewAdvisor(Policy{})

	got := a.Suggest(errors.SyncError(errors.SyncAuth, "token expired").Build(), "sync", nil)
	for _, action := range got {
		if action.Strategy == StrategyRetry {
			t.Error("auth failures should not suggest blind retry")
		}
	}
	if got[0].Strategy != StrategyUserIntervention {
		t.Errorf("first strategy = %v, want userIntervention", got[0].Strategy)
	}
}

func TestSuggest_RetryCallbackWired(t *testing.T) {
	a := NewAdvisor(Policy{})

	ran := false
	got := a.Suggest(errors.NetworkError(errors.NetworkDNS, "dns").Build(), "", func() { ran = true })
	if got[0].Run == nil {
		t.Fatal("retry action should carry the callback")
	}
	got[0].Run()
	if !ran {
		t.Error("retry callback did not run")
	}
}

func TestSuggest_ExportFallback(t *testing.T) {
	a := NewAdvisor(Policy{})

	got := a.Suggest(errors.PersistenceError("write failed").Build(), "export", nil)
	found := false
	for _, action := range got {
		if action.Strategy == StrategyFallback {
			found = true
		}
	}
	if !found {
		t.Errorf("export context should add a fallback suggestion, got %v", strategies(got))
	}
}

func TestSuggest_ForeignError(t *testing.T) {
	a := NewAdvisor(Policy{})

	got := a.Suggest(fmt.Errorf("plain"), "", nil)
	if len(got) == 0 {
		t.Fatal("foreign errors should still get suggestions")
	}
}

func TestSuggest_NilError(t *testing.T) {
	a := NewAdvisor(Policy{})
	if got := a.Suggest(nil, "", nil); got != nil {
		t.Errorf("Suggest(nil) = %v, want nil", got)
	}
}
