package store

import "errors"

// Policy rejections surfaced to the user. None of these leave the store
// in a modified state.
var (
	ErrEmailTaken          = errors.New("email is already registered")
	ErrUserNotFound        = errors.New("user not found or role mismatch")
	ErrNotEmployer         = errors.New("only employers can post jobs")
	ErrNotVeteran          = errors.New("only veterans can apply to jobs")
	ErrJobNotFound         = errors.New("job not found")
	ErrAlreadyApplied      = errors.New("already applied to this job")
	ErrApplicationNotFound = errors.New("application not found")
	ErrNotJobOwner         = errors.New("job belongs to another employer")
)
