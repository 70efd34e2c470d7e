package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vetbridge/vetbridge/internal/ai"
	"github.com/vetbridge/vetbridge/internal/ai/gemini"
	"github.com/vetbridge/vetbridge/internal/logger"
	"github.com/vetbridge/vetbridge/internal/secrets"
	"github.com/vetbridge/vetbridge/internal/store"
	"github.com/vetbridge/vetbridge/internal/suggest"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Score every job opening against your profile (veterans only)",
	Run: func(cmd *cobra.Command, _ []string) {
		runSuggest(cmd)
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().Int("top", 0, "only show the N best matches, 0 for all")
	suggestCmd.Flags().BoolP("interactive", "i", false, "pick a suggestion to apply to")
}

func runSuggest(cmd *cobra.Command) {
	ctx := context.Background()

	s := newSession()
	veteran := s.requireUser(store.RoleVeteran)

	jobs := s.store.Jobs()
	if len(jobs) == 0 {
		fmt.Println(valueStyle.Render("No job openings posted yet. Check back later."))
		return
	}

	if len(veteran.Skills) == 0 {
		fmt.Println(noticeStyle.Render("Your profile lists no skills; matches will rely on preferences only."))
	}

	scorer, err := newScorer(ctx, s.cfg.AI, s.logger)
	if err != nil {
		s.logger.Fatal("creating a scorer", zap.Error(err))
	}

	engine := suggest.NewEngine(scorer, s.cfg.Matching.Timeout, s.logger)
	suggestions := engine.Run(ctx, veteran, jobs)

	if top, _ := cmd.Flags().GetInt("top"); top > 0 && top < len(suggestions) {
		suggestions = suggestions[:top]
	}

	fmt.Println(titleStyle.Render("Suggested Jobs"))
	for _, suggestion := range suggestions {
		printSuggestion(suggestion)
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		interactiveApply(s, veteran, suggestions)
	}
}

// newScorer builds the configured AI scorer. Only the gemini provider
// is supported today.
func newScorer(ctx context.Context, cfg *AIConfig, zl *zap.Logger) (ai.Scorer, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is required")
	}
	if provider := strings.TrimSpace(cfg.Provider); provider != "" && !strings.EqualFold(provider, "gemini") {
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, zl)
	if err != nil {
		return nil, err
	}

	zl = logger.WithScoringFields(zl, "gemini", generator.Model())

	return gemini.NewScorer(generator, cfg.QualificationWeighted, cfg.Gemini.MaxLogLength, zl), nil
}

func printSuggestion(suggestion suggest.Suggestion) {
	job := suggestion.Job

	fmt.Printf("%s %s\n", labelStyle.Render(job.Title), valueStyle.Render("("+job.ID+")"))
	fmt.Printf("  %s %s\n", labelStyle.Render("Employer:"), valueStyle.Render(job.EmployerName))

	if suggestion.Err != nil {
		fmt.Printf("  %s\n\n", noticeStyle.Render("match unavailable"))
		return
	}

	match := suggestion.Match
	fmt.Printf("  %s %s\n", labelStyle.Render("Match:"), scoreStyle.Render(fmt.Sprintf("%.0f/100", match.MatchScore)))
	if len(match.RelevantSkills) > 0 {
		fmt.Printf("  %s %s\n", labelStyle.Render("Relevant skills:"), valueStyle.Render(strings.Join(match.RelevantSkills, ", ")))
	}
	if len(match.MissingSkills) > 0 {
		fmt.Printf("  %s %s\n", labelStyle.Render("Missing skills:"), valueStyle.Render(strings.Join(match.MissingSkills, ", ")))
	}
	if match.OverallFit != "" {
		fmt.Printf("  %s %s\n", labelStyle.Render("Overall fit:"), valueStyle.Render(match.OverallFit))
	}
	fmt.Println()
}

func interactiveApply(s *session, veteran *store.User, suggestions []suggest.Suggestion) {
	items := make([]string, 0, len(suggestions)+1)
	for _, suggestion := range suggestions {
		label := suggestion.Job.Title + " at " + suggestion.Job.EmployerName
		if suggestion.Match != nil {
			label = fmt.Sprintf("%s (%.0f/100)", label, suggestion.Match.MatchScore)
		}
		items = append(items, label)
	}
	items = append(items, "Done")

	for {
		prompt := promptui.Select{
			Label: "Apply to a job",
			Items: items,
		}
		idx, _, err := prompt.Run()
		if err != nil {
			s.logger.Fatal("exiting", zap.Error(err))
		}
		if idx == len(suggestions) {
			return
		}

		job := suggestions[idx].Job
		if _, err := s.store.Apply(veteran, job.ID); err != nil {
			if errors.Is(err, store.ErrAlreadyApplied) {
				fmt.Println(noticeStyle.Render("You have already applied for this job."))
				continue
			}
			s.logger.Fatal("applying to job", zap.Error(err))
		}
		fmt.Printf("%s %s\n", labelStyle.Render("Applied to:"), valueStyle.Render(job.Title))
	}
}
