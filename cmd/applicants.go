package cmd

import (
	"errors"
	"fmt"

	"github.com/vetbridge/vetbridge/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var applicantsCmd = &cobra.Command{
	Use:   "applicants <job-id>",
	Short: "Review applicants for one of your jobs (employers only)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runApplicants(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(applicantsCmd)

	applicantsCmd.Flags().String("veteran", "", "veteran id whose application status to change")
	applicantsCmd.Flags().String("status", "", "new status; prompted interactively when omitted")
}

func runApplicants(cmd *cobra.Command, jobID string) {
	s := newSession()
	employer := s.requireUser(store.RoleEmployer)

	job := s.store.JobByID(jobID)
	if job == nil {
		fmt.Println(noticeStyle.Render("No job with that id exists."))
		return
	}
	if job.EmployerID != employer.ID {
		fmt.Println(noticeStyle.Render("This job was posted by another employer."))
		return
	}

	if veteranID, _ := cmd.Flags().GetString("veteran"); veteranID != "" {
		updateStatus(cmd, s, employer, job, veteranID)
		return
	}

	applications := s.store.ApplicationsByJob(job.ID)
	if len(applications) == 0 {
		fmt.Println(valueStyle.Render("No applications for this job yet."))
		return
	}

	fmt.Println(titleStyle.Render("Applicants: " + job.Title))
	for _, application := range applications {
		name := application.VeteranID
		if veteran := s.store.UserByID(application.VeteranID); veteran != nil {
			name = veteran.Name
		}

		fmt.Printf("%s %s\n", labelStyle.Render(name), valueStyle.Render("("+application.VeteranID+")"))
		fmt.Printf("  %s %s\n", labelStyle.Render("Status:"), scoreStyle.Render(string(application.Status)))
		fmt.Printf("  %s %s\n\n", labelStyle.Render("Applied:"), valueStyle.Render(application.AppliedDate))
	}
}

func updateStatus(cmd *cobra.Command, s *session, employer *store.User, job *store.Job, veteranID string) {
	statusFlag, _ := cmd.Flags().GetString("status")

	if statusFlag == "" {
		items := make([]string, 0, len(store.Statuses))
		for _, status := range store.Statuses {
			items = append(items, string(status))
		}

		prompt := promptui.Select{
			Label: "Select the new status",
			Items: items,
		}
		_, selected, err := prompt.Run()
		if err != nil {
			s.logger.Fatal("exiting", zap.Error(err))
		}
		statusFlag = selected
	}

	status, err := store.ParseStatus(statusFlag)
	if err != nil {
		s.logger.Fatal("parsing status", zap.Error(err))
	}

	if err := s.store.UpdateApplicationStatus(employer, job.ID, veteranID, status); err != nil {
		if errors.Is(err, store.ErrApplicationNotFound) {
			fmt.Println(noticeStyle.Render("That veteran has not applied to this job."))
			return
		}
		s.logger.Fatal("updating application status", zap.Error(err))
	}

	fmt.Printf("%s %s\n", labelStyle.Render("Status changed to:"), scoreStyle.Render(string(status)))
}
