package store

import (
	"fmt"
	"strings"
)

// Status tracks where an application sits in the employer's pipeline.
// Statuses are not strictly ordered: the owning employer may move an
// application from any status to any other.
type Status string

const (
	StatusApplied            Status = "Applied"
	StatusUnderReview        Status = "Under Review"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusOfferReceived      Status = "Offer Received"
	StatusRejected           Status = "Rejected"
)

// Statuses lists every valid application status.
var Statuses = []Status{
	StatusApplied,
	StatusUnderReview,
	StatusInterviewScheduled,
	StatusOfferReceived,
	StatusRejected,
}

// ParseStatus converts user input into a Status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	trimmed := strings.TrimSpace(s)
	for _, status := range Statuses {
		if strings.EqualFold(trimmed, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Application links a veteran to a job. The (JobID, VeteranID) pair is
// unique; a second apply attempt is rejected rather than merged.
type Application struct {
	JobID       string `json:"jobId"`
	VeteranID   string `json:"veteranId"`
	Status      Status `json:"status"`
	AppliedDate string `json:"appliedDate"`
}
