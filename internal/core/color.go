package core

import (
	"strconv"
	"strings"
)

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorPink
	ColorPurple
	ColorIce
)

// palette holds the approximate RGB value of every named color.
var palette = []struct {
	c       Color
	r, g, b int
}{
	{ColorRed, 0xdc, 0x14, 0x3c},
	{ColorGreen, 0x9a, 0xcd, 0x32},
	{ColorYellow, 0xff, 0xd7, 0x00},
	{ColorBlue, 0x41, 0x69, 0xe1},
	{ColorMagenta, 0xff, 0x00, 0xff},
	{ColorCyan, 0x20, 0xb2, 0xaa},
	{ColorWhite, 0xc0, 0xc0, 0xc0},
	{ColorBrightRed, 0xff, 0x00, 0x00},
	{ColorBrightGreen, 0x00, 0xff, 0x00},
	{ColorBrightYellow, 0xff, 0xff, 0x00},
	{ColorBrightBlue, 0x00, 0x00, 0xff},
	{ColorBrightCyan, 0x00, 0xff, 0xff},
	{ColorOrange, 0xff, 0x80, 0x00},
	{ColorGray, 0x33, 0x33, 0x33},
	{ColorPink, 0xff, 0x69, 0xb4},
	{ColorPurple, 0x80, 0x00, 0x80},
	{ColorIce, 0x87, 0xce, 0xeb},
}

// ColorFromHex maps a "#rrggbb" display color to the nearest palette color.
// Malformed input yields ColorDefault.
func ColorFromHex(hex string) Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return ColorDefault
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ColorDefault
	}
	r, g, b := int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)

	best, bestDist := ColorDefault, -1
	for _, p := range palette {
		dr, dg, db := r-p.r, g-p.g, b-p.b
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = p.c, d
		}
	}
	return best
}
