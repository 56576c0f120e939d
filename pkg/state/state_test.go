package state

import (
	"testing"
	"time"

	"github.com/matzehuels/pianoxl/pkg/design"
	"github.com/matzehuels/pianoxl/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestToggle(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		control  string
		want     string
	}{
		{"select", "", ControlInversion, ControlInversion},
		{"deselect same", ControlInversion, ControlInversion, ""},
		{"switch", ControlKey, ControlOctave, ControlOctave},
		{"unknown ignored", ControlKey, "volume", ControlKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			s.Selected = tt.selected
			if got := s.Toggle(tt.control).Selected; got != tt.want {
				t.Errorf("Toggle(%q).Selected = %q, want %q", tt.control, got, tt.want)
			}
		})
	}
}

func TestButtonsFollowInversion(t *testing.T) {
	s := Default()
	if s.ButtonsEnabled() {
		t.Error("buttons should start disabled")
	}
	if d := s.Disabled(); !d["plus"] || !d["minus"] {
		t.Errorf("Disabled() = %v, want plus and minus", d)
	}

	s = s.Toggle(ControlInversion)
	if !s.ButtonsEnabled() {
		t.Error("selecting inversion should enable the buttons")
	}
	if d := s.Disabled(); len(d) != 0 {
		t.Errorf("Disabled() = %v, want none", d)
	}

	s = s.Toggle(ControlOctave)
	if s.ButtonsEnabled() {
		t.Error("selecting another control should disable the buttons")
	}
}

func TestAdjust(t *testing.T) {
	s := Default()
	if got := s.Adjust(1).Inversion; got != 0 {
		t.Errorf("Adjust while disabled changed inversion to %d", got)
	}

	s = s.Toggle(ControlInversion)
	for range 10 {
		s = s.Adjust(1)
	}
	if s.Inversion != MaxInversion {
		t.Errorf("Inversion = %d, want clamp at %d", s.Inversion, MaxInversion)
	}
	for range 10 {
		s = s.Adjust(-1)
	}
	if s.Inversion != MinInversion {
		t.Errorf("Inversion = %d, want clamp at %d", s.Inversion, MinInversion)
	}
}

func TestCycleSize(t *testing.T) {
	s := Default()
	var got []string
	for range 4 {
		s = s.CycleSize()
		got = append(got, s.Size)
	}
	want := []string{"XXL", "XXXL", "XL", "XXL"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("CycleSize sequence = %v, want %v", got, want)
		}
	}
}

func TestCycleSizeFromUnknown(t *testing.T) {
	s := State{Size: "bogus"}
	if got := s.CycleSize().Size; got != "XL" {
		t.Errorf("CycleSize() from unknown = %q, want XL", got)
	}
}

func TestTapFader(t *testing.T) {
	points := design.Default().Fader.SnapPoints()
	s := Default()

	s = s.TapFader(points)
	if s.Fader != 0.375 {
		t.Errorf("TapFader from 0.25 = %v, want 0.375", s.Fader)
	}

	s.Fader = 1
	if got := s.TapFader(points).Fader; got != 0 {
		t.Errorf("TapFader from top = %v, want 0", got)
	}

	s.Fader = 0.3
	if got := s.TapFader(points).Fader; got != 0.375 {
		t.Errorf("TapFader from 0.3 = %v, want 0.375", got)
	}

	if got := s.TapFader(nil).Fader; got != 0.3 {
		t.Errorf("TapFader(nil) = %v, want unchanged", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*State)
		code   errors.Code
	}{
		{"unknown control", func(s *State) { s.Selected = "volume" }, errors.ErrCodeInvalidControl},
		{"fader high", func(s *State) { s.Fader = 1.5 }, errors.ErrCodeInvalidInput},
		{"fader negative", func(s *State) { s.Fader = -0.1 }, errors.ErrCodeInvalidInput},
		{"size", func(s *State) { s.Size = "S" }, errors.ErrCodeInvalidInput},
		{"key", func(s *State) { s.Key = "H" }, errors.ErrCodeInvalidInput},
		{"octave", func(s *State) { s.Octave = 9 }, errors.ErrCodeInvalidInput},
		{"inversion", func(s *State) { s.Inversion = -4 }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestHashIgnoresTimestamp(t *testing.T) {
	a := Default()
	b := a
	b.UpdatedAt = time.Now()
	if a.Hash() != b.Hash() {
		t.Error("Hash should not depend on UpdatedAt")
	}
	if a.Hash() == a.CycleSize().Hash() {
		t.Error("Hash should change with the size mode")
	}
}

func TestLabels(t *testing.T) {
	s := Default()
	s.Octave = -2
	l := s.Labels()
	if l["xl-button"] != "XL" || l["octave-value"] != "-2" || l["key-value"] != "C" {
		t.Errorf("Labels() = %v", l)
	}
}

func TestSelectedIDs(t *testing.T) {
	if got := Default().SelectedIDs(); got != nil {
		t.Errorf("SelectedIDs() = %v, want nil", got)
	}
	if got := Default().Toggle(ControlKey).SelectedIDs(); !got[ControlKey] {
		t.Errorf("SelectedIDs() = %v, want key", got)
	}
}
