// Package suggest scores every visible job for a veteran and orders
// the results. Each job is scored independently so one slow or failed
// model call never blanks out the rest of the list.
package suggest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vetbridge/vetbridge/internal/ai"
	"github.com/vetbridge/vetbridge/internal/store"
	"go.uber.org/zap"
)

// Suggestion pairs a job with its scoring outcome. Exactly one of
// Match and Err is set: a nil Match with a non-nil Err marks the job
// as "match unavailable".
type Suggestion struct {
	Job   *store.Job
	Match *ai.MatchResult
	Err   error
}

// Engine fans scoring calls out to the configured scorer.
type Engine struct {
	scorer  ai.Scorer
	timeout time.Duration
	logger  *zap.Logger
}

// NewEngine creates an Engine. timeout bounds each individual scoring
// call; zero disables the per-call deadline.
func NewEngine(scorer ai.Scorer, timeout time.Duration, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		scorer:  scorer,
		timeout: timeout,
		logger:  logger,
	}
}

// Run scores every job for the veteran concurrently and returns the
// suggestions sorted by descending match score. The sort is stable:
// jobs with equal scores keep their original listing order, and jobs
// whose scoring failed sort after all scored jobs, also in listing
// order. Cancelling ctx cancels all outstanding calls.
func (e *Engine) Run(ctx context.Context, veteran *store.User, jobs []*store.Job) []Suggestion {
	suggestions := make([]Suggestion, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job *store.Job) {
			defer wg.Done()
			suggestions[i] = e.scoreJob(ctx, veteran, job)
		}(i, job)
	}
	wg.Wait()

	sort.SliceStable(suggestions, func(a, b int) bool {
		sa, sb := suggestions[a], suggestions[b]
		if (sa.Err == nil) != (sb.Err == nil) {
			return sa.Err == nil
		}
		if sa.Err != nil {
			return false
		}
		return sa.Match.MatchScore > sb.Match.MatchScore
	})

	return suggestions
}

func (e *Engine) scoreJob(ctx context.Context, veteran *store.User, job *store.Job) Suggestion {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	match, err := e.scorer.Score(ctx, buildRequest(veteran, job))
	if err != nil {
		e.logger.Warn("match unavailable",
			zap.String("job_id", job.ID),
			zap.String("job_title", job.Title),
			zap.Error(err),
		)
		return Suggestion{Job: job, Err: err}
	}

	e.logger.Debug("job scored",
		zap.String("job_id", job.ID),
		zap.Float64("match_score", match.MatchScore),
	)

	return Suggestion{Job: job, Match: match}
}

// buildRequest assembles the scoring request for one veteran/job pair.
// An empty skill list is passed through untouched: the scorer is still
// invoked for preference-only commentary.
func buildRequest(veteran *store.User, job *store.Job) *ai.MatchRequest {
	req := &ai.MatchRequest{
		VeteranSkills:               veteran.Skills,
		JobDescription:              job.Description,
		DesiredIndustry:             veteran.DesiredIndustries,
		DesiredJobTitle:             veteran.DesiredJobTitles,
		VeteranHighestQualification: veteran.HighestQualification,
		MaxAgeRequirement:           job.MaxAgeRequirement,
	}
	if veteran.Age > 0 {
		age := veteran.Age
		req.VeteranAge = &age
	}
	if req.VeteranSkills == nil {
		req.VeteranSkills = []string{}
	}
	return req
}
