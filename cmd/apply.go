package cmd

import (
	"errors"
	"fmt"

	"github.com/vetbridge/vetbridge/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var applyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Apply to a job opening (veterans only)",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runApply(args[0])
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

func runApply(jobID string) {
	s := newSession()
	veteran := s.requireUser(store.RoleVeteran)

	application, err := s.store.Apply(veteran, jobID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyApplied):
			fmt.Println(noticeStyle.Render("You have already applied for this job."))
			return
		case errors.Is(err, store.ErrJobNotFound):
			fmt.Println(noticeStyle.Render("No job with that id exists."))
			return
		default:
			s.logger.Fatal("applying to job", zap.Error(err))
		}
	}

	job := s.store.JobByID(jobID)
	s.logger.Info("application submitted",
		zap.String("job_id", application.JobID),
		zap.String("status", string(application.Status)),
	)
	fmt.Printf("%s %s\n", labelStyle.Render("Applied to:"), valueStyle.Render(job.Title))
}
