package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/pianoxl/pkg/errors"
)

func TestDefaultPlanOrder(t *testing.T) {
	steps, err := DefaultPlan().Order()
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	want := []StepID{
		StepContent, StepPiano, StepWhiteKeys, StepBlackKeys,
		StepTitle, StepButtons, StepFader, StepSettings,
	}
	if got := IDs(steps); !slices.Equal(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestPlanOrderRespectsRequirements(t *testing.T) {
	// Declared back to front; requirements must still come first.
	p := Plan{
		{ID: "c", Requires: []StepID{"b"}},
		{ID: "b", Requires: []StepID{"a"}},
		{ID: "a"},
	}
	steps, err := p.Order()
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	if got, want := IDs(steps), []StepID{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
}

func TestPlanOrderErrors(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
	}{
		{"cycle", Plan{{ID: "a", Requires: []StepID{"b"}}, {ID: "b", Requires: []StepID{"a"}}}},
		{"self cycle", Plan{{ID: "a", Requires: []StepID{"a"}}}},
		{"unknown requirement", Plan{{ID: "a", Requires: []StepID{"missing"}}}},
		{"duplicate", Plan{{ID: "a"}, {ID: "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.plan.Order()
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Order() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}
