package suggest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vetbridge/vetbridge/internal/ai"
	"github.com/vetbridge/vetbridge/internal/store"
	"go.uber.org/zap"
)

// stubScorer scores by looking the job description up in a fixed table.
// Descriptions containing "fail" error out; "hang" blocks until the
// call's context is done.
type stubScorer struct {
	mu       sync.Mutex
	scores   map[string]float64
	requests []*ai.MatchRequest
}

func (s *stubScorer) Score(ctx context.Context, req *ai.MatchRequest) (*ai.MatchResult, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if strings.Contains(req.JobDescription, "hang") {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if strings.Contains(req.JobDescription, "fail") {
		return nil, errors.New("upstream error")
	}

	return &ai.MatchResult{
		MatchScore: s.scores[req.JobDescription],
		OverallFit: "ok",
	}, nil
}

func job(id, description string) *store.Job {
	return &store.Job{ID: id, Title: id, Description: description}
}

func veteran(skills ...string) *store.User {
	return &store.User{ID: "vet-1", Role: store.RoleVeteran, Skills: skills}
}

func TestRunSortsByDescendingScore(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{"low": 20, "mid": 55, "high": 90}}
	engine := NewEngine(scorer, 0, zap.NewNop())

	jobs := []*store.Job{job("a", "low"), job("b", "high"), job("c", "mid")}
	suggestions := engine.Run(context.Background(), veteran("Leadership"), jobs)

	got := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		got = append(got, s.Job.ID)
	}
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v, want %v", got, want)
		}
	}
}

func TestRunKeepsListingOrderForTies(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{"same": 50}}
	engine := NewEngine(scorer, 0, zap.NewNop())

	jobs := []*store.Job{job("first", "same"), job("second", "same"), job("third", "same")}
	suggestions := engine.Run(context.Background(), veteran(), jobs)

	for i, id := range []string{"first", "second", "third"} {
		if suggestions[i].Job.ID != id {
			t.Fatalf("tie order not preserved at %d: got %s", i, suggestions[i].Job.ID)
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{"good": 70}}
	engine := NewEngine(scorer, 0, zap.NewNop())

	jobs := []*store.Job{job("bad", "fail"), job("ok", "good"), job("bad2", "fail")}
	suggestions := engine.Run(context.Background(), veteran(), jobs)

	if suggestions[0].Job.ID != "ok" || suggestions[0].Err != nil {
		t.Fatalf("expected scored job first, got %+v", suggestions[0])
	}
	if suggestions[1].Job.ID != "bad" || suggestions[1].Err == nil {
		t.Fatalf("expected first failed job second in listing order, got %+v", suggestions[1])
	}
	if suggestions[2].Job.ID != "bad2" || suggestions[2].Err == nil {
		t.Fatalf("expected second failed job last, got %+v", suggestions[2])
	}
	if suggestions[1].Match != nil {
		t.Fatalf("failed suggestion must not carry a match")
	}
}

func TestRunAppliesPerCallDeadline(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{"quick": 80}}
	engine := NewEngine(scorer, 20*time.Millisecond, zap.NewNop())

	jobs := []*store.Job{job("slow", "hang"), job("fast", "quick")}

	done := make(chan []Suggestion, 1)
	go func() {
		done <- engine.Run(context.Background(), veteran(), jobs)
	}()

	var suggestions []Suggestion
	select {
	case suggestions = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish; per-call deadline not applied")
	}

	if suggestions[0].Job.ID != "fast" || suggestions[0].Err != nil {
		t.Fatalf("expected fast job scored, got %+v", suggestions[0])
	}
	if suggestions[1].Job.ID != "slow" || !errors.Is(suggestions[1].Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error for slow job, got %+v", suggestions[1])
	}
}

func TestRunCancellationReleasesPendingWork(t *testing.T) {
	scorer := &stubScorer{}
	engine := NewEngine(scorer, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	jobs := []*store.Job{job("slow", "hang")}

	done := make(chan []Suggestion, 1)
	go func() {
		done <- engine.Run(ctx, veteran(), jobs)
	}()

	cancel()

	select {
	case suggestions := <-done:
		if !errors.Is(suggestions[0].Err, context.Canceled) {
			t.Fatalf("expected cancellation error, got %+v", suggestions[0])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancellation did not release pending scoring call")
	}
}

func TestBuildRequestCarriesProfileAndJobFields(t *testing.T) {
	maxAge := 40
	vet := &store.User{
		ID:                   "vet-1",
		Role:                 store.RoleVeteran,
		Skills:               []string{"Leadership"},
		DesiredIndustries:    []string{"Technology"},
		DesiredJobTitles:     []string{"Operations Manager"},
		Age:                  50,
		HighestQualification: "Bachelor's Degree",
	}
	j := &store.Job{ID: "j1", Description: "Run operations.", MaxAgeRequirement: &maxAge}

	req := buildRequest(vet, j)

	if req.JobDescription != "Run operations." {
		t.Fatalf("unexpected job description: %q", req.JobDescription)
	}
	if req.VeteranAge == nil || *req.VeteranAge != 50 {
		t.Fatalf("expected veteran age 50, got %v", req.VeteranAge)
	}
	if req.MaxAgeRequirement == nil || *req.MaxAgeRequirement != 40 {
		t.Fatalf("expected max age requirement 40, got %v", req.MaxAgeRequirement)
	}
	if req.VeteranHighestQualification != "Bachelor's Degree" {
		t.Fatalf("unexpected qualification: %q", req.VeteranHighestQualification)
	}
}

func TestBuildRequestWithEmptySkillsStillScores(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{"desc": 5}}
	engine := NewEngine(scorer, 0, zap.NewNop())

	engine.Run(context.Background(), veteran(), []*store.Job{job("j", "desc")})

	if len(scorer.requests) != 1 {
		t.Fatalf("expected the scorer to be invoked, got %d calls", len(scorer.requests))
	}
	if scorer.requests[0].VeteranSkills == nil {
		t.Fatalf("expected an empty skills slice, not nil")
	}
}
