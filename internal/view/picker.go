package view

import (
	"github.com/dshills/globenav/internal/geo"
	"github.com/dshills/globenav/internal/input/mouse"
)

// RayPicker picks the ground under a screen point by casting the target's
// ray against the globe surface.
type RayPicker struct {
	target Target
	globe  Globe
}

// NewRayPicker creates a picker for target on globe.
func NewRayPicker(target Target, globe Globe) *RayPicker {
	return &RayPicker{target: target, globe: globe}
}

// PickGround implements Picker.
func (p *RayPicker) PickGround(pt mouse.Point) (geo.Position, bool) {
	ray := p.target.RayFromScreenPoint(pt)
	hit, ok := p.globe.Intersect(ray, 0)
	if !ok {
		return geo.Position{}, false
	}
	pos := p.globe.PositionFromPoint(hit)
	pos.Elev = p.globe.Elevation(pos.Lat, pos.Lon)
	return pos, true
}
