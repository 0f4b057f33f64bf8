package transform

import "math"

// DragSlope measures how much more ground a drag covers than a flat view
// would: max(1, worldDist/(pixelDist*pixelSize)) - 1. Zero when either the
// pixel distance or the pixel size is zero.
func DragSlope(pixelDist, worldDist, pixelSize float64) float64 {
	denom := pixelDist * pixelSize
	if denom <= 0 {
		return 0
	}
	return math.Max(1, worldDist/denom) - 1
}

// Damping returns 1/(1 + k*slope^2). k == 0 disables damping.
func Damping(slope, k float64) float64 {
	return 1 / (1 + k*slope*slope)
}

// ValidateSlopeFactor rejects negative damping coefficients.
func ValidateSlopeFactor(k float64) error {
	if k < 0 || math.IsNaN(k) {
		return ErrNegativeSlopeFactor
	}
	return nil
}
