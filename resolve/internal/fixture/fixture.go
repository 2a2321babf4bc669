// Package fixture provides a small type world declared outside the resolve
// test package, so cross-package tie-break behavior (same-package
// preference, simple-name matching) is exercised with realistic package
// boundaries.
package fixture

// Porter moves parcels around a depot.
type Porter interface {
	Carry(weight int) bool
}

// RailPorter implements Porter in the interface's own package.
type RailPorter struct{}

// Carry implements Porter.
func (RailPorter) Carry(int) bool { return true }

// Courier delivers parcels; its implementers live in other packages.
type Courier interface {
	Deliver() string
}

// Parcel is a plain constructible leaf.
type Parcel struct {
	Tag string
}

// NewParcel constructs an empty parcel.
func NewParcel() *Parcel { return &Parcel{Tag: "untagged"} }

// Depot holds parcels and depends on one.
type Depot struct {
	Parcel *Parcel
}

// NewDepot constructs a depot around a parcel.
func NewDepot(p *Parcel) *Depot { return &Depot{Parcel: p} }
