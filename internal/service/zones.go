package service

import "dispatch/internal/domain"

// ZoneResolver determines which pricing zone, if any, contains a
// geographic point. It is a pure function of the zone configuration
// passed at construction and needs no synchronization.
type ZoneResolver struct {
	zones []domain.Zone
}

// NewZoneResolver creates a new ZoneResolver. Zones are tested in the
// order given; the first containing zone wins.
func NewZoneResolver(zones []domain.Zone) *ZoneResolver {
	return &ZoneResolver{zones: zones}
}

// Resolve returns the first configured zone whose polygon contains the
// point, or false when no zone matches.
func (r *ZoneResolver) Resolve(lat, lng float64) (domain.Zone, bool) {
	for _, z := range r.zones {
		if ringContains(z.Ring, lng, lat) {
			return z, true
		}
	}
	return domain.Zone{}, false
}

// Zones returns the configured zones in declaration order.
func (r *ZoneResolver) Zones() []domain.Zone {
	out := make([]domain.Zone, len(r.zones))
	copy(out, r.zones)
	return out
}

// ringContains runs the standard ray-casting crossing-number test with
// longitude as x and latitude as y. An edge counts as a crossing when
// its y-range straddles the point and its x-intersection at the point's
// y lies to the right of the point; an odd crossing count means inside.
// A point exactly on a boundary edge has undefined classification; this
// is a known ambiguity of the algorithm, not corrected here.
func ringContains(ring []domain.Vertex, x, y float64) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i].Lng, ring[i].Lat
		xj, yj := ring[j].Lng, ring[j].Lat
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
