package layout

import (
	"slices"
	"strings"

	"github.com/matzehuels/pianoxl/pkg/errors"
)

// StepID names a placement step.
type StepID string

// Placement steps of the default plan.
const (
	StepContent   StepID = "content"
	StepPiano     StepID = "piano"
	StepWhiteKeys StepID = "white-keys"
	StepBlackKeys StepID = "black-keys"
	StepTitle     StepID = "title"
	StepButtons   StepID = "buttons"
	StepFader     StepID = "fader"
	StepSettings  StepID = "settings"
)

// Step is one unit of a layout pass. Requires lists the steps whose results
// it reads; they always run first.
type Step struct {
	ID       StepID
	Requires []StepID
	run      func(*pass)
}

// Plan is an unordered set of steps. Declaration order breaks ties between
// steps that are ready at the same time.
type Plan []Step

// DefaultPlan returns the placement plan for the keyboard preview.
func DefaultPlan() Plan {
	return Plan{
		{ID: StepContent, run: (*pass).content},
		{ID: StepPiano, Requires: []StepID{StepContent}, run: (*pass).piano},
		{ID: StepWhiteKeys, Requires: []StepID{StepPiano}, run: (*pass).whiteKeys},
		{ID: StepBlackKeys, Requires: []StepID{StepPiano}, run: (*pass).blackKeys},
		{ID: StepTitle, Requires: []StepID{StepPiano}, run: (*pass).title},
		{ID: StepButtons, Requires: []StepID{StepContent}, run: (*pass).buttons},
		{ID: StepFader, Requires: []StepID{StepButtons, StepBlackKeys}, run: (*pass).fader},
		{ID: StepSettings, run: (*pass).settings},
	}
}

// Order returns the steps sorted so that every step follows its
// requirements. It fails on duplicate IDs, unknown requirements and cycles.
func (p Plan) Order() ([]Step, error) {
	index := make(map[StepID]int, len(p))
	for i, s := range p {
		if _, dup := index[s.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "duplicate layout step %q", s.ID)
		}
		index[s.ID] = i
	}

	indegree := make([]int, len(p))
	dependents := make([][]int, len(p))
	for i, s := range p {
		for _, req := range s.Requires {
			j, ok := index[req]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "layout step %q requires unknown step %q", s.ID, req)
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var ready []int
	for i, d := range indegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]Step, 0, len(p))
	for len(ready) > 0 {
		slices.Sort(ready)
		i := ready[0]
		ready = ready[1:]
		order = append(order, p[i])
		for _, j := range dependents[i] {
			indegree[j]--
			if indegree[j] == 0 {
				ready = append(ready, j)
			}
		}
	}

	if len(order) != len(p) {
		var stuck []string
		for i, d := range indegree {
			if d > 0 {
				stuck = append(stuck, string(p[i].ID))
			}
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "layout steps form a cycle: %s", strings.Join(stuck, ", "))
	}
	return order, nil
}

// IDs returns the step IDs in order.
func IDs(steps []Step) []StepID {
	ids := make([]StepID, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
	}
	return ids
}
