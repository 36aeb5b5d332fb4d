package models

// Asset describes a file held by the object store, as returned by an upload.
type Asset struct {
	PublicID     string `json:"public_id"`
	URL          string `json:"url"`
	OriginalName string `json:"original_name,omitempty"`
}

// SameAs reports whether both descriptors point at the same stored object.
func (a *Asset) SameAs(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.PublicID == other.PublicID && a.URL == other.URL
}
