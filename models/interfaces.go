package models

// CandidateSource supplies trade candidates for a style in its natural order.
// Implementations must only return candidates that pass Candidate.Validate.
type CandidateSource interface {
	CandidatesFor(style Style, count int) []Candidate
}
