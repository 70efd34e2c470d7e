package cmd

import (
	"fmt"
	"strings"

	"github.com/vetbridge/vetbridge/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Post and browse job openings",
}

var jobPostCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a new job opening (employers only)",
	Run: func(cmd *cobra.Command, _ []string) {
		runJobPost(cmd)
	},
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job openings",
	Run: func(cmd *cobra.Command, _ []string) {
		runJobList(cmd)
	},
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobPostCmd, jobListCmd)

	jobPostCmd.Flags().String("title", "", "job title")
	jobPostCmd.Flags().String("description", "", "job description")
	jobPostCmd.Flags().String("location", "", "job location")
	jobPostCmd.Flags().StringSlice("skills", nil, "required skills, comma separated")
	jobPostCmd.Flags().Int("max-age", 0, "maximum applicant age, 0 for no limit")
	jobPostCmd.Flags().String("employment-type", "", "Full-time, Part-time, Contract or Internship")
	jobPostCmd.MarkFlagRequired("title")
	jobPostCmd.MarkFlagRequired("description")

	jobListCmd.Flags().Bool("mine", false, "only jobs posted by the logged-in employer")
}

func runJobPost(cmd *cobra.Command) {
	s := newSession()
	employer := s.requireUser(store.RoleEmployer)

	draft := store.JobDraft{}
	draft.Title, _ = cmd.Flags().GetString("title")
	draft.Description, _ = cmd.Flags().GetString("description")
	draft.Location, _ = cmd.Flags().GetString("location")
	draft.RequiredSkills, _ = cmd.Flags().GetStringSlice("skills")

	if employmentType, _ := cmd.Flags().GetString("employment-type"); employmentType != "" {
		matched := ""
		for _, known := range store.EmploymentTypes {
			if strings.EqualFold(known, employmentType) {
				matched = known
				break
			}
		}
		if matched == "" {
			s.logger.Fatal("invalid employment type",
				zap.String("employment_type", employmentType),
				zap.Strings("accepted", store.EmploymentTypes),
			)
		}
		draft.EmploymentType = matched
	}

	if maxAge, _ := cmd.Flags().GetInt("max-age"); maxAge > 0 {
		draft.MaxAgeRequirement = &maxAge
	}

	job, err := s.store.PostJob(employer, draft)
	if err != nil {
		s.logger.Fatal("posting job", zap.Error(err))
	}

	fmt.Printf("%s %s\n", labelStyle.Render("Job posted:"), valueStyle.Render(job.ID))
}

func runJobList(cmd *cobra.Command) {
	s := newSession()

	var jobs []*store.Job
	if mine, _ := cmd.Flags().GetBool("mine"); mine {
		employer := s.requireUser(store.RoleEmployer)
		jobs = s.store.JobsByEmployer(employer.ID)
	} else {
		jobs = s.store.Jobs()
	}

	if len(jobs) == 0 {
		fmt.Println(valueStyle.Render("No job openings posted yet."))
		return
	}

	fmt.Println(titleStyle.Render("Job Openings"))
	for _, job := range jobs {
		printJob(job)
	}
}

func printJob(job *store.Job) {
	fmt.Printf("%s %s\n", labelStyle.Render(job.Title), valueStyle.Render("("+job.ID+")"))
	fmt.Printf("  %s %s\n", labelStyle.Render("Employer:"), valueStyle.Render(job.EmployerName))
	if job.Location != "" {
		fmt.Printf("  %s %s\n", labelStyle.Render("Location:"), valueStyle.Render(job.Location))
	}
	if job.EmploymentType != "" {
		fmt.Printf("  %s %s\n", labelStyle.Render("Type:"), valueStyle.Render(job.EmploymentType))
	}
	if len(job.RequiredSkills) > 0 {
		fmt.Printf("  %s %s\n", labelStyle.Render("Skills:"), valueStyle.Render(strings.Join(job.RequiredSkills, ", ")))
	}
	if job.MaxAgeRequirement != nil {
		fmt.Printf("  %s %s\n", labelStyle.Render("Max age:"), valueStyle.Render(fmt.Sprintf("%d", *job.MaxAgeRequirement)))
	}
	fmt.Printf("  %s\n\n", valueStyle.Render(job.Description))
}
