package persona

import (
	"errors"
	"strings"
	"testing"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
)

func ids(ps []Persona) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestActiveOrderWithSynthesizer(t *testing.T) {
	r := NewRegistry(Builtin()...)
	active, err := r.Active(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := strings.Join(ids(active), ",")
	want := "logical,creative,skeptical,practical,synthesizer"
	if got != want {
		t.Errorf("Active(true) = %s, want %s", got, want)
	}
}

func TestActiveOmitsDisabledSynthesizer(t *testing.T) {
	r := NewRegistry(Builtin()...)
	active, err := r.Active(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 4 {
		t.Fatalf("expected 4 active personas, got %d", len(active))
	}
	for _, p := range active {
		if p.ID == Synthesizer {
			t.Error("synthesizer should be omitted when disabled")
		}
	}
}

func TestActiveOrderIgnoresRegistrationOrder(t *testing.T) {
	b := Builtin()
	reversed := make([]Persona, len(b))
	for i, p := range b {
		reversed[len(b)-1-i] = p
	}
	active, err := NewRegistry(reversed...).Active(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active[0].ID != Logical || active[4].ID != Synthesizer {
		t.Errorf("unexpected order: %v", ids(active))
	}
}

func TestResolveUnknownPersona(t *testing.T) {
	r := NewRegistry(Builtin()...)
	_, err := r.Resolve("optimist")
	if !errors.Is(err, ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}
}

func TestActiveFailsWhenOrderedPersonaMissing(t *testing.T) {
	r := NewRegistry(Builtin()[:3]...)
	if _, err := r.Active(false); !errors.Is(err, ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}
}

func TestSynthesizerNotRequiredWhenDisabled(t *testing.T) {
	r := NewRegistry(Builtin()[:4]...)
	if _, err := r.Active(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Active(true); !errors.Is(err, ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona with synthesizer enabled, got %v", err)
	}
}

func TestBuiltinDirectivesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Builtin() {
		if p.Directive == "" {
			t.Errorf("%s has empty directive", p.ID)
		}
		if seen[p.Directive] {
			t.Errorf("%s shares a directive with another persona", p.ID)
		}
		seen[p.Directive] = true
	}
	if !strings.Contains(SynthesizerPersona().Directive, "NEUTRAL OBSERVER") {
		t.Error("synthesizer directive should ask for neutral bridging")
	}
}

func TestBind(t *testing.T) {
	bound, err := Bind(Builtin(), func(id string) (backend.Spec, error) {
		return backend.Spec{Kind: backend.KindOllama, Model: id + "-model"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bound[1].Backend.Model != "creative-model" {
		t.Errorf("expected creative-model, got %q", bound[1].Backend.Model)
	}
	if Builtin()[1].Backend.Model != "" {
		t.Error("Bind must not mutate its input")
	}

	_, err = Bind(Builtin(), func(id string) (backend.Spec, error) {
		return backend.Spec{}, errors.New("no assignment")
	})
	if err == nil {
		t.Fatal("expected error from failing specFor")
	}
}
