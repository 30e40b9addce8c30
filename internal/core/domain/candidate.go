package domain

// Confidence is the backend's confidence tier for a resolution candidate.
type Confidence string

const (
	// ConfidenceHigh indicates a near-certain match.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium indicates a probable match.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow indicates a speculative match.
	ConfidenceLow Confidence = "low"
)

// ParseConfidence maps a wire value to a Confidence tier.
// Unrecognised values degrade to ConfidenceLow rather than failing.
func ParseConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceMedium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Candidate is one disambiguation option returned by resolution.
// Candidates are created in a batch by a resolve response and the whole
// batch is discarded on confirmation, broader search, or session reset.
type Candidate struct {
	// Name is the display name of the candidate website.
	Name string `json:"name"`
	// URL is the canonical locator of the candidate.
	URL string `json:"url"`
	// Confidence is the backend's confidence tier for this match.
	Confidence Confidence `json:"confidence"`
}
