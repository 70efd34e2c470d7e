package cmd

import (
	"fmt"

	"github.com/vetbridge/vetbridge/internal/store"

	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Track your submitted applications (veterans only)",
	Run: func(_ *cobra.Command, _ []string) {
		runTrack()
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

func runTrack() {
	s := newSession()
	veteran := s.requireUser(store.RoleVeteran)

	applications := s.store.ApplicationsByVeteran(veteran.ID)
	if len(applications) == 0 {
		fmt.Println(valueStyle.Render("No applications yet. Browse openings with 'vetbridge suggest'."))
		return
	}

	fmt.Println(titleStyle.Render("My Applications"))
	for _, application := range applications {
		title := application.JobID
		employer := ""
		if job := s.store.JobByID(application.JobID); job != nil {
			title = job.Title
			employer = job.EmployerName
		}

		fmt.Printf("%s %s\n", labelStyle.Render(title), valueStyle.Render("("+application.JobID+")"))
		if employer != "" {
			fmt.Printf("  %s %s\n", labelStyle.Render("Employer:"), valueStyle.Render(employer))
		}
		fmt.Printf("  %s %s\n", labelStyle.Render("Status:"), scoreStyle.Render(string(application.Status)))
		fmt.Printf("  %s %s\n\n", labelStyle.Render("Applied:"), valueStyle.Render(application.AppliedDate))
	}
}
