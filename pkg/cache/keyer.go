package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives frame cache keys.
type Keyer interface {
	FrameKey(designHash string, opts FrameKeyOpts) string
}

// LayoutKeyOpts holds every input that changes geometry.
type LayoutKeyOpts struct {
	Width     float64 `json:"w"`
	Height    float64 `json:"h"`
	PixelSnap bool    `json:"snap,omitempty"`
	Unbounded bool    `json:"unbounded,omitempty"`
}

// FrameKeyOpts adds the inputs that change paint output.
type FrameKeyOpts struct {
	LayoutKeyOpts
	Format    string  `json:"format"`
	Scale     float64 `json:"scale,omitempty"`
	StateHash string  `json:"state,omitempty"`
}

// DefaultKeyer keys frames as "frame:<format>:<WxH>:<sha256>". The readable
// head makes cache listings greppable; the digest covers every input.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) FrameKey(designHash string, opts FrameKeyOpts) string {
	data, _ := json.Marshal(struct {
		Design string       `json:"design"`
		Opts   FrameKeyOpts `json:"opts"`
	}{designHash, opts})
	sum := sha256.Sum256(data)
	return fmt.Sprintf("frame:%s:%gx%g:%s", opts.Format, opts.Width, opts.Height, hex.EncodeToString(sum[:]))
}

// Scoped prefixes every key of an inner keyer.
type Scoped struct {
	Keyer
	Prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return Scoped{Keyer: inner, Prefix: prefix}
}

func (k Scoped) FrameKey(designHash string, opts FrameKeyOpts) string {
	return k.Prefix + k.Keyer.FrameKey(designHash, opts)
}
