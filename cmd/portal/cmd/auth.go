package cmd

import (
	"time"

	"github.com/jrsteele09/go-game-portal/authflow"
	"github.com/jrsteele09/go-game-portal/token"
	"github.com/spf13/cobra"
)

func newLoginCmd(run appRunner) *cobra.Command {
	var username, password, otp string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with username and password, then verify the OTP",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.fill(
				field{title: "Username", value: &username},
				field{title: "Password", value: &password, secret: true},
			); err != nil {
				return err
			}
			if err := a.outcome(a.flow.Login(cmd.Context(), username, password)); err != nil {
				return err
			}

			if otp == "" && !a.interactive {
				a.notice(authflow.Notice{Kind: authflow.NoticeInfo, Text: "portal otp <code>"})
				return nil
			}
			if err := a.fill(field{title: "OTP", value: &otp}); err != nil {
				return err
			}
			return a.outcome(a.flow.VerifyOTP(cmd.Context(), otp))
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&otp, "otp", "", "one-time code; prompted for when omitted")
	return cmd
}

func newOTPCmd(run appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "otp [code]",
		Short: "Verify the OTP for a pending login",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(func(cmd *cobra.Command, a *app, args []string) error {
			var code string
			if len(args) == 1 {
				code = args[0]
			}
			if err := a.fill(field{title: "OTP", value: &code}); err != nil {
				return err
			}
			return a.outcome(a.flow.VerifyOTP(cmd.Context(), code))
		}),
	}
}

func newLogoutCmd(run appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: run(func(_ *cobra.Command, a *app, _ []string) error {
			return a.outcome(a.flow.Logout())
		}),
	}
}

func newStatusCmd(run appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: run(func(_ *cobra.Command, a *app, _ []string) error {
			a.row("state", a.flow.State())
			s, ok := a.store.Load()
			if !ok {
				return nil
			}
			if name := s.Username(); name != "" {
				a.row("username", name)
			}
			if id, ok := s.AuthID(); ok {
				a.row("auth_id", id)
			}
			if exp, ok := token.Expiry(s.AccessToken()); ok {
				state := "valid"
				if token.Expired(s.AccessToken()) {
					state = "expired, refreshed on next call"
				}
				a.row("access token", exp.Local().Format(time.DateTime)+" ("+state+")")
			}
			return nil
		}),
	}
}

func newRegisterCmd(run appRunner) *cobra.Command {
	var in authflow.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.fill(
				field{title: "Username", value: &in.Username},
				field{title: "Email", value: &in.Email},
				field{title: "Password", value: &in.Password, secret: true},
				field{title: "Confirm password", value: &in.ConfirmPassword, secret: true},
			); err != nil {
				return err
			}
			return a.outcome(a.flow.Register(cmd.Context(), in))
		}),
	}
	cmd.Flags().StringVarP(&in.Username, "username", "u", "", "account name")
	cmd.Flags().StringVar(&in.RealName, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address for OTP delivery")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&in.ConfirmPassword, "confirm", "", "password again")
	return cmd
}

func newChangePasswordCmd(run appRunner) *cobra.Command {
	var oldPassword, newPassword string
	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the password of the logged in account",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.fill(
				field{title: "Current password", value: &oldPassword, secret: true},
				field{title: "New password", value: &newPassword, secret: true},
			); err != nil {
				return err
			}
			return a.outcome(a.flow.ChangePassword(cmd.Context(), oldPassword, newPassword))
		}),
	}
	cmd.Flags().StringVar(&oldPassword, "old", "", "current password")
	cmd.Flags().StringVar(&newPassword, "new", "", "new password")
	return cmd
}

func newResetPasswordCmd(run appRunner) *cobra.Command {
	var username, otp, newPassword, confirm string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a forgotten password with an emailed OTP",
		Long: `reset-password asks the backend to email an OTP for the account, then sets the new
password with it. Missing values are prompted for on a terminal.`,
		Args: cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.fill(field{title: "Username", value: &username}); err != nil {
				return err
			}
			recovery := a.flow.Recovery()
			if err := a.outcome(recovery.RequestOTP(cmd.Context(), username)); err != nil {
				return err
			}
			if err := a.fill(
				field{title: "OTP", value: &otp},
				field{title: "New password", value: &newPassword, secret: true},
				field{title: "Confirm new password", value: &confirm, secret: true},
			); err != nil {
				return err
			}
			return a.outcome(recovery.ResetPassword(cmd.Context(), otp, newPassword, confirm))
		}),
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVar(&otp, "otp", "", "code from the reset email")
	cmd.Flags().StringVar(&newPassword, "new", "", "new password")
	cmd.Flags().StringVar(&confirm, "confirm", "", "new password again")
	return cmd
}
