package domain

// Driver represents a driver known to the dispatch console. The trip
// lifecycle only ever references drivers by ID; everything else about a
// driver lives in the presence store.
type Driver struct {
	ID        string
	Name      string
	Available bool
}
