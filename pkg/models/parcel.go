package models

import "time"

// Parcel is a cadastral property record owned by a citizen.
type Parcel struct {
	ID             int64
	CitizenID      string
	ParcelNumber   string
	PropertyType   string // terrain, maison, appartement, ...
	Address        string
	AreaSqm        float64
	EstimatedValue float64
	Status         string // active, sold, disputed
	CreatedAt      time.Time
}
