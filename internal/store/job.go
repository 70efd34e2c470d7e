package store

// EmploymentTypes lists the accepted values for a job's employment type.
var EmploymentTypes = []string{"Full-time", "Part-time", "Contract", "Internship"}

// Job is a posting created by an employer. Jobs are immutable after
// creation and are never deleted.
type Job struct {
	ID                string   `json:"id"`
	EmployerID        string   `json:"employerId"`
	EmployerName      string   `json:"employerName"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Location          string   `json:"location"`
	RequiredSkills    []string `json:"requiredSkills"`
	PostedDate        string   `json:"postedDate"`
	MaxAgeRequirement *int     `json:"maxAgeRequirement,omitempty"`
	EmploymentType    string   `json:"employmentType,omitempty"`
}

// JobDraft carries the employer-supplied fields of a new posting.
// ID, employer reference and posting date are stamped by the store.
type JobDraft struct {
	Title             string
	Description       string
	Location          string
	RequiredSkills    []string
	MaxAgeRequirement *int
	EmploymentType    string
}
