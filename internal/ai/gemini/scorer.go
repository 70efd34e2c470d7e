package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/vetbridge/vetbridge/internal/ai"
	"github.com/vetbridge/vetbridge/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	notSpecified        = "Not specified"

	qualificationNarrative = "The veteran's highest qualification and how it relates to the job description. Treat the qualification as qualitative context for the summary; do not assign it a fixed numeric weight."
	qualificationWeighted  = "The veteran's highest qualification and how it relates to the job description, and let this moderately influence the score."
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Scorer turns a veteran profile and a job description into a
// MatchResult via a prompt-templated Gemini call.
type Scorer struct {
	generator             contentGenerator
	qualificationWeighted bool
	maxLogLen             int
	logger                *zap.Logger
}

// NewScorer creates a Scorer on top of the given generator. When
// qualificationWeighted is set, the prompt asks the model to let the
// veteran's qualification moderately influence the score instead of
// keeping it narrative-only.
func NewScorer(generator contentGenerator, qualificationWeighted bool, maxLogLength int, logger *zap.Logger) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		generator:             generator,
		qualificationWeighted: qualificationWeighted,
		maxLogLen:             maxLogLength,
		logger:                logger,
	}
}

// Score implements ai.Scorer.
func (s *Scorer) Score(ctx context.Context, req *ai.MatchRequest) (*ai.MatchResult, error) {
	if req == nil {
		return nil, fmt.Errorf("match request is required")
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return nil, fmt.Errorf("job description is required")
	}

	system := s.systemInstruction()
	message := buildInputs(req)

	s.logger.Debug("gemini match request",
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, system, message)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini match response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	result, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	result.Raw = raw
	return result, nil
}

func (s *Scorer) systemInstruction() string {
	policy := qualificationNarrative
	if s.qualificationWeighted {
		policy = qualificationWeighted
	}
	return strings.ReplaceAll(promptTemplate, "{{QUALIFICATION_POLICY}}", policy)
}

func buildInputs(req *ai.MatchRequest) string {
	var b strings.Builder

	b.WriteString("Veteran Skills: " + listOr(req.VeteranSkills, "None recorded") + "\n")
	b.WriteString("Veteran Desired Industries: " + listOr(req.DesiredIndustry, notSpecified) + "\n")
	b.WriteString("Veteran Desired Job Titles: " + listOr(req.DesiredJobTitle, notSpecified) + "\n")
	b.WriteString("Veteran Age: " + intOr(req.VeteranAge, notSpecified) + "\n")
	b.WriteString("Veteran Highest Qualification: " + stringOr(req.VeteranHighestQualification, notSpecified) + "\n")
	b.WriteString("Job Description: " + req.JobDescription + "\n")
	b.WriteString("Job Maximum Age Requirement: " + intOr(req.MaxAgeRequirement, notSpecified))

	return b.String()
}

func listOr(values []string, fallback string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return fallback
	}
	return strings.Join(cleaned, ", ")
}

func intOr(v *int, fallback string) string {
	if v == nil {
		return fallback
	}
	return strconv.Itoa(*v)
}

func stringOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func parseResponse(raw string) (*ai.MatchResult, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	// The model occasionally returns numbers as strings or a single
	// skill instead of a list; decode leniently.
	var payload struct {
		MatchScore     float64  `mapstructure:"matchScore"`
		RelevantSkills []string `mapstructure:"relevantSkills"`
		MissingSkills  []string `mapstructure:"missingSkills"`
		OverallFit     string   `mapstructure:"overallFit"`
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &payload,
	})
	if err != nil {
		return nil, fmt.Errorf("build response decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	return &ai.MatchResult{
		MatchScore:     clampScore(payload.MatchScore),
		RelevantSkills: payload.RelevantSkills,
		MissingSkills:  payload.MissingSkills,
		OverallFit:     strings.TrimSpace(payload.OverallFit),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func clampScore(score float64) float64 {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
