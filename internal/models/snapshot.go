// internal/models/snapshot.go
package models

import "time"

// CategoryAttributes is the raw schema fetch result for one category.
type CategoryAttributes struct {
	CategoryID   string      `json:"categoryId"`
	CategorySlug string      `json:"categorySlug"`
	Attributes   []Attribute `json:"attributes"`
}

// Snapshot is the derived, display-ready facet state for one category: the
// processed attribute list with counts attached plus the total result count.
// Snapshots are recomputed wholesale (never patched in place) and live only
// in the TTL caches.
type Snapshot struct {
	CategorySlug string      `json:"categorySlug"`
	CategoryID   string      `json:"categoryId"`
	ListingType  string      `json:"listingType,omitempty"`
	Attributes   []Attribute `json:"attributes"`
	TotalResults int         `json:"totalResults"`
	FetchedAt    time.Time   `json:"fetchedAt"`
}

// Clone returns a deep copy. Callers mutate clones, never published
// snapshots.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Attributes = make([]Attribute, len(s.Attributes))
	for i, a := range s.Attributes {
		opts := make([]AttributeOption, len(a.Options))
		copy(opts, a.Options)
		a.Options = opts
		out.Attributes[i] = a
	}
	return &out
}

// Attribute returns the snapshot attribute with the given key, or nil.
func (s *Snapshot) Attribute(key string) *Attribute {
	for i := range s.Attributes {
		if s.Attributes[i].Key == key {
			return &s.Attributes[i]
		}
	}
	return nil
}
