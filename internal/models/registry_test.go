package models

import (
	"context"
	"errors"
	"testing"

	"github.com/lorenzotomasdiez/groupchat/internal/backend"
	"github.com/lorenzotomasdiez/groupchat/internal/persona"
)

func free(id string) backend.Model {
	return backend.Model{ID: id, Name: id, Pricing: &backend.Pricing{Prompt: "0", Completion: "0"}}
}

func TestNewRegistryFiltersFreeModels(t *testing.T) {
	models := []backend.Model{
		{ID: "free-model", Name: "Free", Pricing: &backend.Pricing{Prompt: "0", Completion: "0"}},
		{ID: "paid-model", Name: "Paid", Pricing: &backend.Pricing{Prompt: "0.01", Completion: "0.02"}},
		{ID: "half-free", Name: "HalfFree", Pricing: &backend.Pricing{Prompt: "0", Completion: "0.01"}},
	}

	r := NewRegistry(models)
	free := r.FreeModels()

	if len(free) != 1 {
		t.Fatalf("expected 1 free model, got %d", len(free))
	}
	if free[0].ID != "free-model" {
		t.Fatalf("expected free-model, got %s", free[0].ID)
	}
}

func TestNewRegistryExcludesNilPricing(t *testing.T) {
	r := NewRegistry([]backend.Model{{ID: "no-pricing", Name: "NoPricing"}, free("free-model")})
	if got := r.FreeModels(); len(got) != 1 || got[0].ID != "free-model" {
		t.Fatalf("expected only free-model, got %+v", got)
	}
}

func TestSelectModelsLessThanAvailable(t *testing.T) {
	r := NewRegistry([]backend.Model{free("a"), free("b"), free("c")})
	selected := r.SelectModels(2)

	if len(selected) != 2 {
		t.Fatalf("expected 2 models, got %d", len(selected))
	}
	if selected[0].ID == selected[1].ID {
		t.Fatal("expected distinct models")
	}
}

func TestSelectModelsCycles(t *testing.T) {
	r := NewRegistry([]backend.Model{free("a"), free("b")})
	selected := r.SelectModels(5)

	want := []string{"a", "b", "a", "b", "a"}
	for i, m := range selected {
		if m.ID != want[i] {
			t.Errorf("selected[%d] = %s, want %s", i, m.ID, want[i])
		}
	}
}

func TestSelectModelsEmptyRegistry(t *testing.T) {
	if got := NewRegistry(nil).SelectModels(3); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestDefaultFreeModelsAreFree(t *testing.T) {
	r := NewRegistry(DefaultFreeModels())
	if len(r.FreeModels()) != len(DefaultFreeModels()) {
		t.Fatal("all default models should be free")
	}
}

type mockLister struct {
	models []backend.Model
	err    error
	calls  int
}

func (m *mockLister) ListModels(context.Context) ([]backend.Model, error) {
	m.calls++
	return m.models, m.err
}

func sampleRoster() []persona.Persona {
	return []persona.Persona{
		{ID: persona.Logical, Backend: backend.Spec{Kind: backend.KindOpenRouter, Model: Auto}},
		{ID: persona.Creative, Backend: backend.Spec{Kind: backend.KindGroq, Model: "llama-3.3-70b-versatile"}},
		{ID: persona.Skeptical, Backend: backend.Spec{Kind: backend.KindOpenRouter, Model: Auto}},
		{ID: persona.Practical, Backend: backend.Spec{Kind: backend.KindOpenRouter, Model: "fixed/model"}},
	}
}

func TestResolveAutoPicksDistinctFreeModels(t *testing.T) {
	lister := &mockLister{models: []backend.Model{free("x:free"), free("y:free"), {ID: "paid", Pricing: &backend.Pricing{Prompt: "1", Completion: "1"}}}}
	roster := sampleRoster()

	got, err := ResolveAuto(context.Background(), lister, roster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].Backend.Model != "x:free" || got[2].Backend.Model != "y:free" {
		t.Errorf("unexpected picks %q, %q", got[0].Backend.Model, got[2].Backend.Model)
	}
	if got[1].Backend.Model != "llama-3.3-70b-versatile" || got[3].Backend.Model != "fixed/model" {
		t.Error("explicit models must be left alone")
	}
	if roster[0].Backend.Model != Auto {
		t.Error("input roster must not be modified")
	}
}

func TestResolveAutoFallsBackOnListError(t *testing.T) {
	lister := &mockLister{err: errors.New("network down")}
	got, err := ResolveAuto(context.Background(), lister, sampleRoster())
	if err == nil {
		t.Fatal("expected list error to be reported")
	}
	if got[0].Backend.Model != DefaultFreeModels()[0].ID {
		t.Errorf("expected fallback model, got %q", got[0].Backend.Model)
	}
}

func TestResolveAutoFallsBackWhenNothingFree(t *testing.T) {
	lister := &mockLister{models: []backend.Model{{ID: "paid", Pricing: &backend.Pricing{Prompt: "1", Completion: "1"}}}}
	got, err := ResolveAuto(context.Background(), lister, sampleRoster())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[2].Backend.Model != DefaultFreeModels()[1].ID {
		t.Errorf("expected second fallback model, got %q", got[2].Backend.Model)
	}
}

func TestResolveAutoSkipsListingWhenUnused(t *testing.T) {
	lister := &mockLister{}
	roster := sampleRoster()[1:2]
	if _, err := ResolveAuto(context.Background(), lister, roster); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lister.calls != 0 {
		t.Errorf("expected no ListModels call, got %d", lister.calls)
	}
}
