package cmd

import (
	"fmt"
	"strings"

	"github.com/vetbridge/vetbridge/internal/store"

	"github.com/spf13/cobra"
)

var mentorsCmd = &cobra.Command{
	Use:   "mentors",
	Short: "Browse registered mentors",
	Run: func(_ *cobra.Command, _ []string) {
		runMentors()
	},
}

func init() {
	rootCmd.AddCommand(mentorsCmd)
}

func runMentors() {
	s := newSession()

	mentors := s.store.UsersByRole(store.RoleMentor)
	if len(mentors) == 0 {
		fmt.Println(valueStyle.Render("No mentors registered yet."))
		return
	}

	fmt.Println(titleStyle.Render("Mentors"))
	for _, mentor := range mentors {
		fmt.Printf("%s %s\n", labelStyle.Render(mentor.Name), valueStyle.Render("("+mentor.Email+")"))
		if mentor.ProfessionalTitle != "" {
			line := mentor.ProfessionalTitle
			if mentor.Company != "" {
				line += " at " + mentor.Company
			}
			fmt.Printf("  %s\n", valueStyle.Render(line))
		}
		if mentor.Industry != "" {
			fmt.Printf("  %s %s\n", labelStyle.Render("Industry:"), valueStyle.Render(mentor.Industry))
		}
		if len(mentor.AreasOfExpertise) > 0 {
			fmt.Printf("  %s %s\n", labelStyle.Render("Expertise:"), valueStyle.Render(strings.Join(mentor.AreasOfExpertise, ", ")))
		}
		if mentor.MentoringAvailability != "" {
			fmt.Printf("  %s %s\n", labelStyle.Render("Availability:"), valueStyle.Render(mentor.MentoringAvailability))
		}
		fmt.Println()
	}
}
