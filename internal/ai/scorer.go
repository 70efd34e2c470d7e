// Package ai defines the matching contract between the suggestion flow
// and the model provider backing it.
package ai

import "context"

// MatchRequest carries the veteran profile fragment and the job
// description sent to the scorer. Field names mirror the wire contract
// of the scoring call.
type MatchRequest struct {
	VeteranSkills               []string `json:"veteranSkills"`
	JobDescription              string   `json:"jobDescription"`
	DesiredIndustry             []string `json:"desiredIndustry,omitempty"`
	DesiredJobTitle             []string `json:"desiredJobTitle,omitempty"`
	VeteranAge                  *int     `json:"veteranAge,omitempty"`
	MaxAgeRequirement           *int     `json:"maxAgeRequirement,omitempty"`
	VeteranHighestQualification string   `json:"veteranHighestQualification,omitempty"`
}

// MatchResult is the scorer's verdict for a single job. It is derived
// state: recomputed on every suggestions run and never persisted.
type MatchResult struct {
	MatchScore     float64  `json:"matchScore"`
	RelevantSkills []string `json:"relevantSkills"`
	MissingSkills  []string `json:"missingSkills"`
	OverallFit     string   `json:"overallFit"`

	// Raw is the unparsed provider response, kept for debug logging.
	Raw string `json:"-"`
}

// Scorer produces a compatibility verdict for one veteran/job pair.
type Scorer interface {
	Score(ctx context.Context, req *MatchRequest) (*MatchResult, error)
}
