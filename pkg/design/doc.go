// Package design holds the design-space description of the keyboard preview:
// the base canvas and its clamp constraints, the two key rows, the anchored
// elements (title, buttons, fader) and the settings strip.
//
// A [Table] is plain data. It is decoded from TOML, validated once, and then
// treated as immutable; the layout engine reads it on every pass but never
// writes to it.
//
// # Loading
//
//	t := design.Default()              // embedded pianoxl.toml
//	t, err := design.Load("my.toml")   // user override
//
// # Coordinates
//
// Unless a field name ends in Px, values are design units that the layout
// engine multiplies by the pass scale factor. Px fields are screen pixels
// and are added unscaled.
package design
