package snap

// Settings are the tunable parameters of a source, without its candidates.
type Settings struct {
	Priority      int     `toml:"priority" json:"priority"`
	MinConfidence float64 `toml:"min_confidence" json:"minConfidence"`
	Weight        float64 `toml:"weight" json:"weight"`
	Radius        float64 `toml:"radius" json:"radius"`
}

// DefaultSettings returns the built-in settings for the standard sources.
// Book-wide templates outrank per-page detections, which outrank baseline
// priors and user guides.
func DefaultSettings() map[string]Settings {
	return map[string]Settings{
		SourceTemplate: {Priority: 4, MinConfidence: 0.5, Weight: 1.2, Radius: 10},
		SourceDetected: {Priority: 3, MinConfidence: 0.4, Weight: 1, Radius: 10},
		SourceBaseline: {Priority: 2, MinConfidence: 0.3, Weight: 0.8, Radius: 8},
		SourceUser:     {Priority: 1, MinConfidence: 0, Weight: 1, Radius: 12},
	}
}

// NewSource builds a source from settings and candidates.
func (s Settings) NewSource(id string, candidates []Candidate) Source {
	return Source{
		ID:            id,
		Priority:      s.Priority,
		MinConfidence: s.MinConfidence,
		Weight:        s.Weight,
		Radius:        s.Radius,
		Candidates:    candidates,
	}
}
