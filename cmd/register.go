package cmd

import (
	"errors"
	"fmt"

	"github.com/vetbridge/vetbridge/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account and sign in",
}

var registerVeteranCmd = &cobra.Command{
	Use:   "veteran",
	Short: "Register as a military veteran",
	Run: func(cmd *cobra.Command, _ []string) {
		user := &store.User{Role: store.RoleVeteran}
		user.Email, _ = cmd.Flags().GetString("email")
		user.Name, _ = cmd.Flags().GetString("name")
		user.MilitaryBranch, _ = cmd.Flags().GetString("branch")
		user.YearsOfService, _ = cmd.Flags().GetInt("years-of-service")
		user.ExperienceSummary, _ = cmd.Flags().GetString("experience-summary")
		user.Skills, _ = cmd.Flags().GetStringSlice("skills")
		user.DesiredIndustries, _ = cmd.Flags().GetStringSlice("industries")
		user.DesiredJobTitles, _ = cmd.Flags().GetStringSlice("titles")
		user.LocationPreference, _ = cmd.Flags().GetString("location")
		user.EmploymentType, _ = cmd.Flags().GetString("employment-type")
		user.Age, _ = cmd.Flags().GetInt("age")
		user.HighestQualification, _ = cmd.Flags().GetString("qualification")

		runRegister(user)
	},
}

var registerMentorCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Register as a mentor",
	Run: func(cmd *cobra.Command, _ []string) {
		user := &store.User{Role: store.RoleMentor}
		user.Email, _ = cmd.Flags().GetString("email")
		user.Name, _ = cmd.Flags().GetString("name")
		user.ProfessionalTitle, _ = cmd.Flags().GetString("title")
		user.Company, _ = cmd.Flags().GetString("company")
		user.Industry, _ = cmd.Flags().GetString("industry")
		user.YearsOfExperience, _ = cmd.Flags().GetInt("years-of-experience")
		user.AreasOfExpertise, _ = cmd.Flags().GetStringSlice("expertise")
		user.MentoringAvailability, _ = cmd.Flags().GetString("availability")

		runRegister(user)
	},
}

var registerEmployerCmd = &cobra.Command{
	Use:   "employer",
	Short: "Register as an employer",
	Run: func(cmd *cobra.Command, _ []string) {
		user := &store.User{Role: store.RoleEmployer}
		user.Email, _ = cmd.Flags().GetString("email")
		user.Name, _ = cmd.Flags().GetString("name")
		user.CompanyName, _ = cmd.Flags().GetString("company")
		user.CompanyIndustry, _ = cmd.Flags().GetString("industry")
		user.CompanyWebsite, _ = cmd.Flags().GetString("website")
		user.CompanySize, _ = cmd.Flags().GetString("size")
		user.CompanyDescription, _ = cmd.Flags().GetString("description")
		user.CompanyLocations, _ = cmd.Flags().GetStringSlice("locations")
		user.ContactJobTitle, _ = cmd.Flags().GetString("contact-title")
		user.HiringFocus, _ = cmd.Flags().GetString("hiring-focus")

		runRegister(user)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.AddCommand(registerVeteranCmd, registerMentorCmd, registerEmployerCmd)

	for _, sub := range []*cobra.Command{registerVeteranCmd, registerMentorCmd, registerEmployerCmd} {
		sub.Flags().String("email", "", "account email, unique across all roles")
		sub.Flags().String("name", "", "full name")
		sub.MarkFlagRequired("email")
		sub.MarkFlagRequired("name")
	}

	registerVeteranCmd.Flags().String("branch", "", "military branch served in")
	registerVeteranCmd.Flags().Int("years-of-service", 0, "years of military service")
	registerVeteranCmd.Flags().String("experience-summary", "", "summary of military experience")
	registerVeteranCmd.Flags().StringSlice("skills", nil, "skills, comma separated")
	registerVeteranCmd.Flags().StringSlice("industries", nil, "desired industries, comma separated")
	registerVeteranCmd.Flags().StringSlice("titles", nil, "desired job titles, comma separated")
	registerVeteranCmd.Flags().String("location", "", "location preference")
	registerVeteranCmd.Flags().String("employment-type", "", "preferred employment type")
	registerVeteranCmd.Flags().Int("age", 0, "age")
	registerVeteranCmd.Flags().String("qualification", "", "highest qualification")

	registerMentorCmd.Flags().String("title", "", "professional title")
	registerMentorCmd.Flags().String("company", "", "current company")
	registerMentorCmd.Flags().String("industry", "", "industry")
	registerMentorCmd.Flags().Int("years-of-experience", 0, "years of professional experience")
	registerMentorCmd.Flags().StringSlice("expertise", nil, "areas of expertise, comma separated")
	registerMentorCmd.Flags().String("availability", "", "mentoring availability")

	registerEmployerCmd.Flags().String("company", "", "company name")
	registerEmployerCmd.Flags().String("industry", "", "company industry")
	registerEmployerCmd.Flags().String("website", "", "company website")
	registerEmployerCmd.Flags().String("size", "", "company size")
	registerEmployerCmd.Flags().String("description", "", "company description")
	registerEmployerCmd.Flags().StringSlice("locations", nil, "company locations, comma separated")
	registerEmployerCmd.Flags().String("contact-title", "", "contact person's job title")
	registerEmployerCmd.Flags().String("hiring-focus", "", "hiring focus")
	registerEmployerCmd.MarkFlagRequired("company")
}

func runRegister(user *store.User) {
	s := newSession()

	if err := s.store.Register(user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			fmt.Println(noticeStyle.Render("This email is already registered. Please log in instead."))
			return
		}
		s.logger.Fatal("registering", zap.Error(err))
	}

	s.logger.Info("registration successful",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	fmt.Printf("%s %s\n", labelStyle.Render("Welcome,"), valueStyle.Render(user.Name))
}
