package cmd

import (
	"errors"
	"fmt"

	"github.com/vetbridge/vetbridge/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a registered email and role",
	Run: func(cmd *cobra.Command, _ []string) {
		runLogin(cmd)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the active session",
	Run: func(_ *cobra.Command, _ []string) {
		s := newSession()
		if err := s.store.Logout(); err != nil {
			s.logger.Fatal("logging out", zap.Error(err))
		}
		fmt.Println(valueStyle.Render("Logged out."))
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd)

	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("role", "", "account role: veteran, mentor or employer")
	loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command) {
	s := newSession()

	email, _ := cmd.Flags().GetString("email")
	roleFlag, _ := cmd.Flags().GetString("role")

	if roleFlag == "" {
		items := make([]string, 0, len(store.Roles))
		for _, role := range store.Roles {
			items = append(items, string(role))
		}

		prompt := promptui.Select{
			Label: "Select a role",
			Items: items,
		}
		_, selected, err := prompt.Run()
		if err != nil {
			s.logger.Fatal("exiting", zap.Error(err))
		}
		roleFlag = selected
	}

	role, err := store.ParseRole(roleFlag)
	if err != nil {
		s.logger.Fatal("parsing role", zap.Error(err))
	}

	user, err := s.store.Login(email, role)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			fmt.Println(noticeStyle.Render("User not found or role mismatch. Check your credentials or register."))
			return
		}
		s.logger.Fatal("logging in", zap.Error(err))
	}

	fmt.Printf("%s %s\n", labelStyle.Render("Welcome back,"), valueStyle.Render(user.Name))
}
