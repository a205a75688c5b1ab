package store

import "time"

// Product represents a product entity in the store.
type Product struct {
	ID           int
	Name         string
	ModifiedDate *time.Time
}

// clone returns a copy that shares no memory with p.
func (p Product) clone() Product {
	if p.ModifiedDate != nil {
		t := *p.ModifiedDate
		p.ModifiedDate = &t
	}
	return p
}

// SeedProducts returns the catalogue the service starts with, dated relative to now.
func SeedProducts(now time.Time) []Product {
	lithium := now.AddDate(0, 0, -2)
	snu := now.AddDate(0, 0, -20)
	return []Product{
		{ID: 1, Name: "Lithium L2", ModifiedDate: &lithium},
		{ID: 2, Name: "SNU 61", ModifiedDate: &snu},
	}
}
