package registry

import (
	"errors"
	"sync"
	"testing"

	"github.com/factlens/factlens/internal/model"
)

func TestNew_RejectsUnknownProvider(t *testing.T) {
	if _, err := New("gemini", false); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestSwitchProvider(t *testing.T) {
	r, err := New(model.ProviderOpenAI, true)
	if err != nil {
		t.Fatal(err)
	}

	state, err := r.SwitchProvider(model.ProviderOllama)
	if err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if state.Provider != model.ProviderOllama {
		t.Errorf("Provider = %s, want ollama", state.Provider)
	}
	if !state.ReasoningEnabled {
		t.Error("switch must preserve the reasoning flag")
	}
}

func TestSwitchProvider_InvalidLeavesStateUnchanged(t *testing.T) {
	r, err := New(model.ProviderOpenAI, false)
	if err != nil {
		t.Fatal(err)
	}

	state, err := r.SwitchProvider("mistral")
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	var invalid *ErrInvalidProvider
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidProvider, got %T", err)
	}
	if state.Provider != model.ProviderOpenAI {
		t.Errorf("state changed on invalid switch: %+v", state)
	}
	if got := r.GetActive(); got.Provider != model.ProviderOpenAI {
		t.Errorf("registry state changed on invalid switch: %+v", got)
	}
}

func TestSetReasoning_PreservesProvider(t *testing.T) {
	r, err := New(model.ProviderOllama, false)
	if err != nil {
		t.Fatal(err)
	}

	state := r.SetReasoning(true)
	if !state.ReasoningEnabled || state.Provider != model.ProviderOllama {
		t.Errorf("unexpected state after toggle: %+v", state)
	}
}

func TestConcurrentReadsAndSwitches(t *testing.T) {
	r, err := New(model.ProviderOpenAI, false)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				// A snapshot is never torn: the provider is always a
				// member of the known set.
				state := r.GetActive()
				if !model.KnownProvider(state.Provider) {
					t.Errorf("torn read: %+v", state)
					return
				}
			}
		}()
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if i%2 == 0 {
					_, _ = r.SwitchProvider(model.ProviderOllama)
				} else {
					_, _ = r.SwitchProvider(model.ProviderOpenAI)
				}
				r.SetReasoning(j%2 == 0)
			}
		}(i)
	}
	wg.Wait()
}
