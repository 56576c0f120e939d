// Package state holds the preview's UI selection state and the stores that
// persist it between runs.
//
// # State
//
// [State] is a plain value: which settings control is selected, the fader
// position, the title's size mode and the adjustable values. Its methods
// return updated copies, so the preview shell can swap state under its lock
// without partial updates.
//
//	s := state.Default()
//	s = s.Toggle("inversion")   // plus/minus become enabled
//	s = s.Adjust(+1)            // inversion 0 -> 1
//	s = s.CycleSize()           // XL -> XXL
//
// # Stores
//
// A [Store] loads and saves a State under a key:
//
//   - [FileStore]: one JSON file per key (CLI default, ~/.config/pianoxl/state)
//   - [RedisStore]: JSON values in Redis, for a shared preview server
//   - [MongoStore]: one document per key in a MongoDB collection
//   - [NullStore]: never persists
//
// Keys are validated with [errors.ValidateKey] before they reach a backend.
// A missing key returns [ErrNotFound].
//
// [errors.ValidateKey]: github.com/matzehuels/pianoxl/pkg/errors.ValidateKey
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strconv"
	"time"

	"github.com/matzehuels/pianoxl/pkg/errors"
)

// Size modes cycled by the title's size button.
var SizeModes = []string{"XL", "XXL", "XXXL"}

// Settings controls that can be selected.
const (
	ControlKey       = "key"
	ControlMode      = "mode"
	ControlOctave    = "octave"
	ControlInversion = "inversion"
)

// Selectable lists every control Toggle accepts.
var Selectable = []string{ControlKey, ControlMode, ControlOctave, ControlInversion}

// Adjustment bounds for octave and inversion.
const (
	MinOctave    = -3
	MaxOctave    = 3
	MinInversion = -3
	MaxInversion = 3
)

// Keys lists the valid values of State.Key; the first is the default.
var Keys = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// State is the preview's UI selection state.
type State struct {
	Selected  string    `json:"selected,omitempty" bson:"selected,omitempty"`
	Fader     float64   `json:"fader" bson:"fader"`
	Size      string    `json:"size" bson:"size"`
	Key       string    `json:"key" bson:"key"`
	Mode      string    `json:"mode" bson:"mode"`
	Octave    int       `json:"octave" bson:"octave"`
	Inversion int       `json:"inversion" bson:"inversion"`
	UpdatedAt time.Time `json:"updated_at,omitzero" bson:"updated_at"`
}

// DefaultFader is the fader's initial position.
const DefaultFader = 0.25

// Default returns the state of a fresh preview.
func Default() State {
	return State{
		Fader: DefaultFader,
		Size:  SizeModes[0],
		Key:   Keys[0],
		Mode:  "FREE",
	}
}

// Validate checks ranges and enumerations.
func (s State) Validate() error {
	if s.Selected != "" && !slices.Contains(Selectable, s.Selected) {
		return errors.New(errors.ErrCodeInvalidControl, "unknown control %q", s.Selected)
	}
	if s.Fader < 0 || s.Fader > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "fader %v outside [0, 1]", s.Fader)
	}
	if !slices.Contains(SizeModes, s.Size) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown size mode %q", s.Size)
	}
	if !slices.Contains(Keys, s.Key) {
		return errors.New(errors.ErrCodeInvalidInput, "unknown key %q", s.Key)
	}
	if s.Octave < MinOctave || s.Octave > MaxOctave {
		return errors.New(errors.ErrCodeInvalidInput, "octave %d outside [%d, %d]", s.Octave, MinOctave, MaxOctave)
	}
	if s.Inversion < MinInversion || s.Inversion > MaxInversion {
		return errors.New(errors.ErrCodeInvalidInput, "inversion %d outside [%d, %d]", s.Inversion, MinInversion, MaxInversion)
	}
	return nil
}

// Toggle selects control, or deselects it if it is already selected.
// Unknown controls leave the state unchanged.
func (s State) Toggle(control string) State {
	if !slices.Contains(Selectable, control) {
		return s
	}
	if s.Selected == control {
		s.Selected = ""
	} else {
		s.Selected = control
	}
	return s
}

// ButtonsEnabled reports whether the plus and minus buttons respond. They
// are live only while the inversion control is selected.
func (s State) ButtonsEnabled() bool { return s.Selected == ControlInversion }

// Adjust applies a plus (+1) or minus (-1) press to the selected control.
// It is a no-op while the buttons are disabled.
func (s State) Adjust(delta int) State {
	if !s.ButtonsEnabled() {
		return s
	}
	s.Inversion = min(max(s.Inversion+delta, MinInversion), MaxInversion)
	return s
}

// CycleSize advances XL -> XXL -> XXXL -> XL.
func (s State) CycleSize() State {
	i := slices.Index(SizeModes, s.Size)
	s.Size = SizeModes[(i+1)%len(SizeModes)]
	return s
}

// TapFader moves the fader to the next snap point above its current value,
// wrapping to the first point from the top.
func (s State) TapFader(points []float64) State {
	if len(points) == 0 {
		return s
	}
	for _, p := range points {
		if p > s.Fader+1e-9 {
			s.Fader = p
			return s
		}
	}
	s.Fader = points[0]
	return s
}

// Labels returns the element label overrides this state implies.
func (s State) Labels() map[string]string {
	return map[string]string{
		"xl-button":       s.Size,
		"key-value":       s.Key,
		"mode":            s.Mode,
		"octave-value":    strconv.Itoa(s.Octave),
		"inversion-value": strconv.Itoa(s.Inversion),
	}
}

// Disabled returns the element IDs that should be painted dimmed.
func (s State) Disabled() map[string]bool {
	if s.ButtonsEnabled() {
		return nil
	}
	return map[string]bool{"plus": true, "minus": true}
}

// SelectedIDs returns the element IDs that should be painted selected.
func (s State) SelectedIDs() map[string]bool {
	if s.Selected == "" {
		return nil
	}
	return map[string]bool{s.Selected: true}
}

// Hash identifies the visual state for frame caching. UpdatedAt is not
// part of it.
func (s State) Hash() string {
	s.UpdatedAt = time.Time{}
	data, _ := json.Marshal(s)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
