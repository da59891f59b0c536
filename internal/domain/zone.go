package domain

// Point represents a geographic coordinate with an optional display address.
type Point struct {
	Lat     float64
	Lng     float64
	Address string
}

// Tariff is the fare triple used to compute trip prices.
type Tariff struct {
	Base      float64
	PerKm     float64
	PerMinute float64
}

// Vertex is one polygon corner. Vertices are stored in (longitude,
// latitude) order to match geographic x/y convention.
type Vertex struct {
	Lng float64
	Lat float64
}

// Zone represents a configured pricing area. The ring is an ordered
// polygon loop of vertices; a point inside the ring is priced with the
// zone's tariff instead of the default one. Zones are static
// configuration, loaded once at process start and read-only afterwards.
// When zones overlap, the first zone in declaration order wins.
type Zone struct {
	ID     string
	Name   string
	Ring   []Vertex
	Tariff Tariff
}
