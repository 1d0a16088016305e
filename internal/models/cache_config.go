package models

// CacheConfig tunes the semantic answer cache and its reaper.
type CacheConfig struct {
	// FuzzyThreshold is the minimum trigram similarity in [0,1] for a fuzzy
	// lookup to count as a hit.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" json:"fuzzy_threshold"`
	// TTLDays bounds how long an explicitly rejected entry survives before
	// the reaper reclaims it. Pending and approved entries are never reaped.
	TTLDays int `yaml:"ttl_days" json:"ttl_days"`
	// ReapIntervalMinutes is how often the background reaper sweeps.
	// Zero disables the scheduler; Reap can still be invoked on demand.
	ReapIntervalMinutes int `yaml:"reap_interval_minutes" json:"reap_interval_minutes"`
}

// RetrievalConfig tunes the vector search and acceptance gates.
type RetrievalConfig struct {
	// TopK is how many nearest neighbors to request per query.
	TopK int `yaml:"top_k" json:"top_k"`
	// MaxRawDistance is the acceptance ceiling on the index's native
	// distance scale; a best candidate beyond it yields "no acceptable
	// result" without invoking the generator.
	MaxRawDistance float64 `yaml:"max_raw_distance" json:"max_raw_distance"`
}

// LibraryConfig points at the corpus the vector store indexes.
type LibraryConfig struct {
	DataPath string `yaml:"data_path" json:"data_path"`
	// EmbedConcurrency bounds how many summaries are embedded in parallel
	// during index loading.
	EmbedConcurrency int `yaml:"embed_concurrency" json:"embed_concurrency"`
}
