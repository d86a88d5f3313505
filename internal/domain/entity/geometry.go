// Package entity defines domain entities for the chat client shell.
package entity

// Size is a logical window or webview size.
type Size struct {
	Width  float64
	Height float64
}

// Rect is a logical position and size relative to the parent window.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// SplitTop divides a window area into a fixed-height top band and the
// remaining bottom area. Negative remainders are clamped to zero.
func SplitTop(size Size, topHeight float64) (top, bottom Rect) {
	top = Rect{Width: size.Width, Height: topHeight}
	rest := size.Height - topHeight
	if rest < 0 {
		rest = 0
	}
	bottom = Rect{Y: topHeight, Width: size.Width, Height: rest}
	return top, bottom
}
