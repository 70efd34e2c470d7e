package store

import (
	"fmt"
	"strings"
)

// Role tags a user with the part of the platform they registered for.
// It is fixed at registration and never changes.
type Role string

const (
	RoleVeteran  Role = "veteran"
	RoleMentor   Role = "mentor"
	RoleEmployer Role = "employer"
)

// Roles lists all registrable roles.
var Roles = []Role{RoleVeteran, RoleMentor, RoleEmployer}

// ParseRole converts user input into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleVeteran:
		return RoleVeteran, nil
	case RoleMentor:
		return RoleMentor, nil
	case RoleEmployer:
		return RoleEmployer, nil
	default:
		return "", fmt.Errorf("unknown role %q (expected veteran, mentor or employer)", s)
	}
}

// User is a registered account. Identity fields are always set; the
// profile sections are populated according to the role and stay zero
// outside of it.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`

	// Veteran profile.
	MilitaryBranch       string   `json:"militaryBranch,omitempty"`
	YearsOfService       int      `json:"yearsOfService,omitempty"`
	ExperienceSummary    string   `json:"militaryExperienceSummary,omitempty"`
	Skills               []string `json:"skills,omitempty"`
	DesiredIndustries    []string `json:"desiredIndustry,omitempty"`
	DesiredJobTitles     []string `json:"desiredJobTitle,omitempty"`
	LocationPreference   string   `json:"locationPreference,omitempty"`
	EmploymentType       string   `json:"employmentType,omitempty"`
	Age                  int      `json:"age,omitempty"`
	HighestQualification string   `json:"highestQualification,omitempty"`

	// Mentor profile.
	ProfessionalTitle     string   `json:"professionalTitle,omitempty"`
	Company               string   `json:"company,omitempty"`
	Industry              string   `json:"industry,omitempty"`
	YearsOfExperience     int      `json:"yearsProfessionalExperience,omitempty"`
	AreasOfExpertise      []string `json:"areasOfExpertise,omitempty"`
	MentoringAvailability string   `json:"mentoringAvailability,omitempty"`

	// Employer profile.
	CompanyName        string   `json:"companyName,omitempty"`
	CompanyIndustry    string   `json:"companyIndustry,omitempty"`
	CompanyWebsite     string   `json:"companyWebsite,omitempty"`
	CompanySize        string   `json:"companySize,omitempty"`
	CompanyDescription string   `json:"companyDescription,omitempty"`
	CompanyLocations   []string `json:"companyLocations,omitempty"`
	ContactJobTitle    string   `json:"contactPersonJobTitle,omitempty"`
	HiringFocus        string   `json:"hiringFocus,omitempty"`
}

// DisplayName returns the name shown on jobs posted by the user. For
// employers the company name wins over the personal name.
func (u *User) DisplayName() string {
	if u.Role == RoleEmployer && strings.TrimSpace(u.CompanyName) != "" {
		return u.CompanyName
	}
	return u.Name
}
