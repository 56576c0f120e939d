package depgraph

import (
	"strings"
	"testing"

	"github.com/matzehuels/pianoxl/pkg/layout"
)

func defaultSteps(t *testing.T) []layout.Step {
	t.Helper()
	steps, err := layout.DefaultPlan().Order()
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	return steps
}

func TestToDOTEdges(t *testing.T) {
	dot := ToDOT(defaultSteps(t), Options{})

	for _, want := range []string{
		`"content" -> "piano";`,
		`"buttons" -> "fader";`,
		`"black-keys" -> "fader";`,
		`"piano" -> "title";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing edge %s", want)
		}
	}
	if strings.Contains(dot, `-> "settings"`) {
		t.Error("settings has no requirements and should have no incoming edges")
	}
}

func TestToDOTRoots(t *testing.T) {
	dot := ToDOT(defaultSteps(t), Options{})
	for _, root := range []string{"content", "settings"} {
		want := `"` + root + `" [label="` + root + `", peripheries=2];`
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing root node %s", want)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(defaultSteps(t), Options{Detailed: true})
	if !strings.Contains(dot, `label="1. content"`) {
		t.Error("detailed labels should carry the execution index")
	}
	if !strings.Contains(dot, `label="8. settings"`) {
		t.Error("settings should run last")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
}

func TestNormalizeViewBoxPassthrough(t *testing.T) {
	in := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(in); string(got) != string(in) {
		t.Errorf("normalizeViewBox() = %s, want unchanged", got)
	}
}
