// Package store holds the registered users, posted jobs and submitted
// applications, mirrored to a JSON key-value data directory on every
// mutation. It is the single owner of all persisted state: mutating
// operations take the acting user explicitly and enforce role and
// ownership themselves rather than trusting the calling surface.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the in-process registry of users, jobs and applications.
// A single mutex serializes operations so each mutation is atomic with
// respect to a caller and is fully persisted before it returns.
type Store struct {
	mu     sync.Mutex
	kv     *KV
	logger *zap.Logger

	current      *User
	users        []*User
	jobs         []*Job
	applications []*Application

	now   func() time.Time
	newID func() string
}

// Open loads the store from the given data directory. Each of the four
// keys is loaded independently; corruption in one collection never
// blocks loading of the others.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	kv, err := NewKV(dir, logger)
	if err != nil {
		return nil, err
	}

	s := &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}

	if err := kv.Load(KeyCurrentUser, &s.current); err != nil {
		return nil, err
	}
	if err := kv.Load(KeyUsers, &s.users); err != nil {
		return nil, err
	}
	if err := kv.Load(KeyJobs, &s.jobs); err != nil {
		return nil, err
	}
	if err := kv.Load(KeyApplications, &s.applications); err != nil {
		return nil, err
	}

	logger.Debug("store loaded",
		zap.String("dir", dir),
		zap.Int("users", len(s.users)),
		zap.Int("jobs", len(s.jobs)),
		zap.Int("applications", len(s.applications)),
	)

	return s, nil
}

// Register inserts a new user and makes it the active session user.
// The email must not be registered already, regardless of role.
func (s *Store) Register(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return ErrEmailTaken
		}
	}

	if user.ID == "" {
		user.ID = s.newID()
	}

	s.users = append(s.users, user)
	if err := s.kv.Save(KeyUsers, s.users); err != nil {
		s.users = s.users[:len(s.users)-1]
		return fmt.Errorf("persisting users: %w", err)
	}

	return s.setCurrent(user)
}

// Login finds a user matching both email and role exactly and makes it
// the active session user. A role mismatch is indistinguishable from an
// unknown email.
func (s *Store) Login(email string, role Role) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email && user.Role == role {
			if err := s.setCurrent(user); err != nil {
				return nil, err
			}
			return user, nil
		}
	}

	return nil, ErrUserNotFound
}

// Logout clears the active session user. Stored collections are kept.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.kv.Delete(KeyCurrentUser); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// CurrentUser returns the active session user, or nil.
func (s *Store) CurrentUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store) setCurrent(user *User) error {
	s.current = user
	if err := s.kv.Save(KeyCurrentUser, user); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}

// PostJob creates a job posting on behalf of actor, stamping the id,
// employer reference and posting date.
func (s *Store) PostJob(actor *User, draft JobDraft) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actor == nil || actor.Role != RoleEmployer {
		return nil, ErrNotEmployer
	}

	job := &Job{
		ID:                s.newID(),
		EmployerID:        actor.ID,
		EmployerName:      actor.DisplayName(),
		Title:             draft.Title,
		Description:       draft.Description,
		Location:          draft.Location,
		RequiredSkills:    draft.RequiredSkills,
		PostedDate:        s.now().UTC().Format(time.RFC3339),
		MaxAgeRequirement: draft.MaxAgeRequirement,
		EmploymentType:    draft.EmploymentType,
	}

	s.jobs = append(s.jobs, job)
	if err := s.kv.Save(KeyJobs, s.jobs); err != nil {
		s.jobs = s.jobs[:len(s.jobs)-1]
		return nil, fmt.Errorf("persisting jobs: %w", err)
	}

	s.logger.Info("job posted",
		zap.String("job_id", job.ID),
		zap.String("employer_id", job.EmployerID),
		zap.String("title", job.Title),
	)

	return job, nil
}

// Apply submits an application from actor for the given job. Applying
// twice to the same job is rejected without touching stored state.
func (s *Store) Apply(actor *User, jobID string) (*Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actor == nil || actor.Role != RoleVeteran {
		return nil, ErrNotVeteran
	}

	if s.findJob(jobID) == nil {
		return nil, ErrJobNotFound
	}

	if s.findApplication(jobID, actor.ID) != nil {
		return nil, ErrAlreadyApplied
	}

	application := &Application{
		JobID:       jobID,
		VeteranID:   actor.ID,
		Status:      StatusApplied,
		AppliedDate: s.now().UTC().Format(time.RFC3339),
	}

	s.applications = append(s.applications, application)
	if err := s.kv.Save(KeyApplications, s.applications); err != nil {
		s.applications = s.applications[:len(s.applications)-1]
		return nil, fmt.Errorf("persisting applications: %w", err)
	}

	return application, nil
}

// UpdateApplicationStatus overwrites the status of the application
// identified by (jobID, veteranID). The actor must be the employer that
// owns the job; reachability of an applicant view is not trusted.
// Repeating the same call is a no-op beyond rewriting the collection.
func (s *Store) UpdateApplicationStatus(actor *User, jobID, veteranID string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actor == nil || actor.Role != RoleEmployer {
		return ErrNotEmployer
	}

	job := s.findJob(jobID)
	if job == nil {
		return ErrJobNotFound
	}
	if job.EmployerID != actor.ID {
		return ErrNotJobOwner
	}

	application := s.findApplication(jobID, veteranID)
	if application == nil {
		return ErrApplicationNotFound
	}

	previous := application.Status
	application.Status = status
	if err := s.kv.Save(KeyApplications, s.applications); err != nil {
		application.Status = previous
		return fmt.Errorf("persisting applications: %w", err)
	}

	s.logger.Info("application status updated",
		zap.String("job_id", jobID),
		zap.String("veteran_id", veteranID),
		zap.String("status", string(status)),
	)

	return nil
}

// Jobs returns all postings in listing order.
func (s *Store) Jobs() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Job(nil), s.jobs...)
}

// JobByID returns the posting with the given id, or nil.
func (s *Store) JobByID(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findJob(id)
}

// JobsByEmployer returns the postings owned by the given employer.
func (s *Store) JobsByEmployer(employerID string) []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*Job, 0)
	for _, job := range s.jobs {
		if job.EmployerID == employerID {
			matched = append(matched, job)
		}
	}
	return matched
}

// ApplicationsByVeteran returns the applications submitted by the given
// veteran.
func (s *Store) ApplicationsByVeteran(veteranID string) []*Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*Application, 0)
	for _, application := range s.applications {
		if application.VeteranID == veteranID {
			matched = append(matched, application)
		}
	}
	return matched
}

// ApplicationsByJob returns the applications submitted for the given job.
func (s *Store) ApplicationsByJob(jobID string) []*Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*Application, 0)
	for _, application := range s.applications {
		if application.JobID == jobID {
			matched = append(matched, application)
		}
	}
	return matched
}

// Application returns the application for the (jobID, veteranID) pair,
// or nil.
func (s *Store) Application(jobID, veteranID string) *Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findApplication(jobID, veteranID)
}

// UserByID returns the user with the given id, or nil.
func (s *Store) UserByID(id string) *User {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.ID == id {
			return user
		}
	}
	return nil
}

// UsersByRole returns all users registered with the given role.
func (s *Store) UsersByRole(role Role) []*User {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*User, 0)
	for _, user := range s.users {
		if user.Role == role {
			matched = append(matched, user)
		}
	}
	return matched
}

func (s *Store) findJob(id string) *Job {
	for _, job := range s.jobs {
		if job.ID == id {
			return job
		}
	}
	return nil
}

func (s *Store) findApplication(jobID, veteranID string) *Application {
	for _, application := range s.applications {
		if application.JobID == jobID && application.VeteranID == veteranID {
			return application
		}
	}
	return nil
}
