// Package style holds the immutable paint table: colours, corner radii,
// stroke widths and font sizes for every element kind. Painters receive a
// Table value explicitly; nothing in the renderer reads global style state.
package style

import (
	"fmt"
	"image/color"
)

// Table is a complete set of paint parameters. Sizes are design units and
// are multiplied by the element scale when painted.
type Table struct {
	Background color.RGBA

	WhiteKey       color.RGBA
	BlackKey       color.RGBA
	InScaleBorder  color.RGBA
	BlackKeyBorder color.RGBA
	KeyText        color.RGBA
	KeyRadius      float64
	KeyBorderWidth float64
	KeyFontSize    float64
	KeyTextPadding float64

	Button         color.RGBA
	ButtonDisabled color.RGBA
	ButtonText     color.RGBA
	ButtonRadius   float64
	ButtonFontSize float64

	TitleText     color.RGBA
	TitleFontSize float64
	SizeButton    color.RGBA
	SizeOutline   color.RGBA
	SizeRadius    float64

	FaderTrack       color.RGBA
	FaderThumb       color.RGBA
	FaderThumbBorder color.RGBA
	FaderTrackWidth  float64
	FaderTrackRadius float64
	FaderThumbWidth  float64
	FaderThumbHeight float64

	Panel             color.RGBA
	PanelRadius       float64
	Control           color.RGBA
	ControlBorder     color.RGBA
	ControlSelected   color.RGBA
	ControlText       color.RGBA
	LabelText         color.RGBA
	LabelFontSize     float64
	DisplayFontSize   float64
	ChordFontSize     float64
	ControlRadius     float64
	CircleButtonInset float64
}

// Default returns the preview's stock palette.
func Default() Table {
	return Table{
		Background: rgb(0x00, 0x00, 0x00),

		WhiteKey:       rgb(0x4A, 0x4A, 0x4A),
		BlackKey:       rgb(0x00, 0x00, 0x00),
		InScaleBorder:  rgb(0xFF, 0x95, 0x00),
		BlackKeyBorder: rgb(0x4A, 0x4A, 0x4A),
		KeyText:        rgb(0xFF, 0xFF, 0xFF),
		KeyRadius:      15,
		KeyBorderWidth: 2,
		KeyFontSize:    17.6,
		KeyTextPadding: 10,

		Button:         rgba(58, 58, 60, 0.8),
		ButtonDisabled: rgba(58, 58, 60, 0.35),
		ButtonText:     rgb(0xFF, 0xFF, 0xFF),
		ButtonRadius:   8,
		ButtonFontSize: 24,

		TitleText:     rgb(0xFF, 0xFF, 0xFF),
		TitleFontSize: 23,
		SizeButton:    rgba(58, 58, 60, 0.8),
		SizeOutline:   rgba(255, 255, 255, 0.15),
		SizeRadius:    15,

		FaderTrack:       rgb(0x4A, 0x4A, 0x4A),
		FaderThumb:       rgb(0x2A, 0x2A, 0x2A),
		FaderThumbBorder: rgb(0x00, 0x00, 0x00),
		FaderTrackWidth:  8,
		FaderTrackRadius: 4,
		FaderThumbWidth:  31,
		FaderThumbHeight: 9,

		Panel:             rgba(0, 0, 0, 0),
		PanelRadius:       8.8,
		Control:           rgba(0, 0, 0, 0.5),
		ControlBorder:     rgba(128, 128, 128, 0.5),
		ControlSelected:   rgba(102, 102, 102, 0.8),
		ControlText:       rgb(0xFF, 0xFF, 0xFF),
		LabelText:         rgb(0x80, 0x80, 0x80),
		LabelFontSize:     14,
		DisplayFontSize:   24,
		ChordFontSize:     32,
		ControlRadius:     8,
		CircleButtonInset: 1.61,
	}
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xFF} }

// rgba builds a non-premultiplied colour from 8-bit channels and a float
// alpha, then premultiplies it as image/color expects.
func rgba(r, g, b uint8, a float64) color.RGBA {
	al := uint8(a*255 + 0.5)
	return color.RGBA{
		R: uint8(uint16(r) * uint16(al) / 255),
		G: uint8(uint16(g) * uint16(al) / 255),
		B: uint8(uint16(b) * uint16(al) / 255),
		A: al,
	}
}

// Brighter mixes c towards white by amount in [0, 1], keeping alpha.
func Brighter(c color.RGBA, amount float64) color.RGBA {
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (float64(c.A)-float64(v))*amount + 0.5)
	}
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}

// Hex formats c as an SVG colour ("#rrggbb") plus its opacity in [0, 1].
// The colour is un-premultiplied first.
func Hex(c color.RGBA) (string, float64) {
	if c.A == 0 {
		return "none", 0
	}
	un := func(v uint8) uint8 { return uint8(min(255, uint16(v)*255/uint16(c.A))) }
	return fmt.Sprintf("#%02x%02x%02x", un(c.R), un(c.G), un(c.B)), float64(c.A) / 255
}
