package models

// DocumentMetadata carries the indexed attributes of a corpus document.
type DocumentMetadata struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Themes string `json:"themes"`
}

// Empty reports whether the metadata carries no usable fields. Hits with
// empty metadata are skipped during retrieval rather than failing the query.
func (m DocumentMetadata) Empty() bool {
	return m.Title == "" && m.Author == "" && m.Themes == ""
}

// RetrievalHit is one candidate returned by the vector index for a query.
// It is ephemeral: produced per request and discarded after the response
// is built.
type RetrievalHit struct {
	Document           string
	Metadata           DocumentMetadata
	RawDistance        float64
	NormalizedDistance float64
}
