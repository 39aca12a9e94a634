// Package gesture decides from hand landmark geometry whether the tracked hand
// signals an intent to draw.
package gesture

import "github.com/ayusman/airsketch/internal/detector"

// ExtensionMargin is how far (in normalized frame units) the fingertip must
// sit above its PIP joint for the finger to count as extended.
const ExtensionMargin = 0.05

// IsExtended reports whether the fingertip is above the base joint by more
// than ExtensionMargin. Smaller Y is higher in the frame.
func IsExtended(tip, base detector.Point3D) bool {
	return extended(tip, base, ExtensionMargin)
}

func extended(tip, base detector.Point3D, margin float64) bool {
	return tip.Y < base.Y-margin
}

// Classifier turns hand landmarks into a draw-intent signal.
type Classifier struct {
	Margin float64
}

// NewClassifier returns a classifier using ExtensionMargin.
func NewClassifier() *Classifier {
	return &Classifier{Margin: ExtensionMargin}
}

// Extended reports whether the index finger of hand is extended.
// A nil hand is never extended.
func (c *Classifier) Extended(hand *detector.HandLandmarks) bool {
	if hand == nil {
		return false
	}
	return extended(hand.Fingertip(), hand.FingerBase(), c.Margin)
}

// DrawIntent combines finger extension with the global draw toggle.
func (c *Classifier) DrawIntent(hand *detector.HandLandmarks, drawEnabled bool) bool {
	return drawEnabled && c.Extended(hand)
}
