package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GreatCircleDistance returns the angular distance between a and b, in
// radians.
func GreatCircleDistance(a, b Position) float64 {
	lat1, lon1 := mgl64.DegToRad(a.Lat), mgl64.DegToRad(a.Lon)
	lat2, lon2 := mgl64.DegToRad(b.Lat), mgl64.DegToRad(b.Lon)

	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	// Haversine is well conditioned for small distances.
	sdLat := math.Sin((lat2 - lat1) / 2)
	sdLon := math.Sin((lon2 - lon1) / 2)
	h := sdLat*sdLat + math.Cos(lat1)*math.Cos(lat2)*sdLon*sdLon
	return 2 * math.Asin(math.Min(1, math.Sqrt(h)))
}

// GreatCircleAzimuth returns the initial course from a to b, in radians
// clockwise from north.
func GreatCircleAzimuth(a, b Position) float64 {
	lat1, lon1 := mgl64.DegToRad(a.Lat), mgl64.DegToRad(a.Lon)
	lat2, lon2 := mgl64.DegToRad(b.Lat), mgl64.DegToRad(b.Lon)

	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}
	if lon1 == lon2 {
		if lat1 > lat2 {
			return math.Pi
		}
		return 0
	}

	y := math.Cos(lat2) * math.Sin(lon2-lon1)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(lon2-lon1)
	az := math.Atan2(y, x)
	if math.IsNaN(az) {
		return 0
	}
	return az
}

// GreatCircleEndPosition travels distance radians from p along azimuth
// radians and returns the destination. Elevation is carried over from p.
func GreatCircleEndPosition(p Position, azimuth, distance float64) Position {
	if distance == 0 {
		return p
	}
	lat := mgl64.DegToRad(p.Lat)
	lon := mgl64.DegToRad(p.Lon)

	endLat := math.Asin(math.Sin(lat)*math.Cos(distance) +
		math.Cos(lat)*math.Sin(distance)*math.Cos(azimuth))
	dLon := math.Atan2(math.Sin(distance)*math.Sin(azimuth),
		math.Cos(lat)*math.Cos(distance)-math.Sin(lat)*math.Sin(endLat))

	if math.IsNaN(endLat) || math.IsNaN(dLon) {
		return p
	}
	return Position{
		Lat:  ClampLat(mgl64.RadToDeg(endLat)),
		Lon:  NormalizeLon(mgl64.RadToDeg(lon + dLon)),
		Elev: p.Elev,
	}
}

// InterpolateGreatCircle returns the position a fraction t of the way from
// a to b along the great circle joining them. t is clamped to [0, 1].
func InterpolateGreatCircle(t float64, a, b Position) Position {
	if a.Lat == b.Lat && a.Lon == b.Lon {
		return a
	}
	t = mgl64.Clamp(t, 0, 1)
	if t == 0 {
		return a
	}
	if t == 1 {
		return b
	}
	az := GreatCircleAzimuth(a, b)
	d := GreatCircleDistance(a, b)
	out := GreatCircleEndPosition(a, az, t*d)
	out.Elev = a.Elev + t*(b.Elev-a.Elev)
	return out
}
