package design

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pianoxl/pkg/errors"
)

//go:embed pianoxl.toml
var defaultTOML []byte

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns a fresh copy of the embedded design table. The embedded
// file is validated by tests, so a decode failure here is a build defect and
// panics.
func Default() *Table {
	defaultTableOnce.Do(func() {
		t, err := Decode(bytes.NewReader(defaultTOML))
		if err != nil {
			panic(fmt.Sprintf("design: embedded table: %v", err))
		}
		defaultTable = t
	})
	return defaultTable.Clone()
}

// DefaultTOML returns the embedded table source, e.g. for "design dump".
func DefaultTOML() []byte { return slices.Clone(defaultTOML) }

// Load reads and validates a table from a TOML file.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open design table")
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses and validates a table from TOML.
func Decode(r io.Reader) (*Table, error) {
	var t Table
	md, err := toml.NewDecoder(r).Decode(&t)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode design table")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown design keys: %s", strings.Join(keys, ", "))
	}
	t.applyDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Encode writes t as TOML.
func (t *Table) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(t)
}

func (t *Table) applyDefaults() {
	for _, row := range []*RowSpec{&t.WhiteKeys, &t.BlackKeys, &t.Settings.Row} {
		if row.Kind == "" {
			row.Kind = KindKey
		}
		for i := range row.Items {
			if row.Items[i].Kind == "" {
				row.Items[i].Kind = row.Kind
			}
		}
	}
	if len(t.Title.SizeModes) == 0 {
		t.Title.SizeModes = []string{"XL"}
	}
}

// Validate checks the invariants the layout engine relies on.
func (t *Table) Validate() error {
	c := t.Canvas
	if c.BaseWidth <= 0 || c.BaseHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas base size must be positive, got %vx%v", c.BaseWidth, c.BaseHeight)
	}
	k := c.Constraints
	if k.MinWidth < 0 || k.MinHeight < 0 || k.MaxWidth < 0 || k.MaxHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas constraints must not be negative")
	}
	if k.MaxWidth > 0 && k.MinWidth > k.MaxWidth {
		return errors.New(errors.ErrCodeInvalidConfig, "min_width %v exceeds max_width %v", k.MinWidth, k.MaxWidth)
	}
	if k.MaxHeight > 0 && k.MinHeight > k.MaxHeight {
		return errors.New(errors.ErrCodeInvalidConfig, "min_height %v exceeds max_height %v", k.MinHeight, k.MaxHeight)
	}

	seen := make(map[string]string)
	claim := func(id, where string) error {
		if id == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: element id cannot be empty", where)
		}
		if prev, ok := seen[id]; ok {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate element id %q in %s (first in %s)", id, where, prev)
		}
		seen[id] = where
		return nil
	}
	for _, id := range []string{"title", "xl-button", "title-label", "plus", "minus", "fader", "settings"} {
		seen[id] = "built-in"
	}

	for _, row := range []*RowSpec{&t.WhiteKeys, &t.BlackKeys} {
		if err := validateRow(row, claim); err != nil {
			return err
		}
		// Rows live inside the scaled canvas, so they must fit its width.
		if ext := row.Extent(); ext > c.BaseWidth {
			return errors.New(errors.ErrCodeInvalidConfig, "row %s is %v wide, exceeds base width %v", row.ID, ext, c.BaseWidth)
		}
	}
	if err := validateRow(&t.Settings.Row, claim); err != nil {
		return err
	}
	if ext := t.Settings.Row.Extent(); t.Settings.WidthPx > 0 && ext > t.Settings.WidthPx {
		return errors.New(errors.ErrCodeInvalidConfig, "settings row is %v wide, exceeds panel width %v", ext, t.Settings.WidthPx)
	}
	for _, el := range t.Settings.Trailing {
		if err := claim(el.ID, "settings.trailing"); err != nil {
			return err
		}
	}

	if t.Title.FontSize <= 0 || t.Title.ButtonWidth <= 0 || t.Title.ButtonHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "title font and button sizes must be positive")
	}
	if t.Buttons.Width <= 0 || t.Buttons.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "buttons must have a positive size")
	}
	if t.Fader.Width <= 0 || t.Fader.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fader must have a positive size")
	}
	if t.Fader.Step < 0 || t.Fader.Step > 1 || t.Fader.Default < 0 || t.Fader.Default > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "fader step and default must lie in [0, 1]")
	}
	return nil
}

func validateRow(row *RowSpec, claim func(id, where string) error) error {
	if row.ID == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "row id cannot be empty")
	}
	if len(row.Items) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "row %s has no items", row.ID)
	}
	for i, it := range row.Items {
		w, h := row.ItemSize(it)
		if w <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "row %s item %d: width must be positive", row.ID, i)
		}
		if it.Placeholder {
			continue
		}
		if h <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "row %s item %d: height must be positive", row.ID, i)
		}
		if m := row.ItemMargin(it); m < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "row %s item %d: margin must not be negative", row.ID, i)
		}
		if err := claim(it.ID, row.ID); err != nil {
			return err
		}
		for _, ch := range it.Children {
			if err := claim(ch.ID, row.ID+"/"+it.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// Hash returns a stable content hash of the table, used in cache keys.
func (t *Table) Hash() string {
	data, _ := json.Marshal(t)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Clone returns a deep copy that callers may modify before re-validating.
func (t *Table) Clone() *Table {
	data, _ := json.Marshal(t)
	var out Table
	_ = json.Unmarshal(data, &out)
	return &out
}

// Unbounded returns a copy of t with the max constraints cleared, so that
// content grows with the window.
func (t *Table) Unbounded() *Table {
	out := t.Clone()
	out.Canvas.Constraints.MaxWidth = 0
	out.Canvas.Constraints.MaxHeight = 0
	return out
}
