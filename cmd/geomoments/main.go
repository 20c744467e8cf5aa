package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"geomoments/internal/bootstrap"
	authdto "geomoments/internal/modules/auth/dto"
	"geomoments/internal/platform/config"
	apperrors "geomoments/internal/platform/errors"
	"geomoments/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, apperrors.ErrSessionExpired) || errors.Is(err, apperrors.ErrNotAuthenticated) {
			_, _ = fmt.Fprintln(os.Stderr, "run `geomoments login` first")
		}
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	stateDir   string
	ephemeral  bool
	logLevel   string
}

func (f *rootFlags) overrides() config.Overrides {
	return config.Overrides{
		ConfigPath: f.configPath,
		StateDir:   f.stateDir,
		Ephemeral:  f.ephemeral,
		LogLevel:   f.logLevel,
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "geomoments",
		Short:         "Share check-ins on a map from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default <state-dir>/config.yaml)")
	pf.StringVar(&flags.stateDir, "state-dir", "", "directory for cookies, cache and logs (default ~/.geomoments)")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "keep the session and cache in memory only")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug|info|warn|error")

	root.AddCommand(newMapCmd(flags))
	root.AddCommand(newLoginCmd(flags))
	root.AddCommand(newRegisterCmd(flags))
	root.AddCommand(newLogoutCmd(flags))
	root.AddCommand(newWhoamiCmd(flags))
	root.AddCommand(newCheckInCmd(flags))
	root.AddCommand(newLocateCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	return root
}

// loadApp wires the application with logs going to the command's stderr.
func loadApp(cmd *cobra.Command, flags *rootFlags) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.overrides())
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	return bootstrap.New(cfg, logger)
}

func newMapCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Open the interactive map",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.overrides())
			if err != nil {
				return err
			}
			logFile, err := bootstrap.OpenLogFile(cfg)
			if err != nil {
				return err
			}
			defer logFile.Close()

			app, err := bootstrap.New(cfg, logging.New(cfg.Log.Level, cfg.Log.Format, logFile))
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func readPassword(cmd *cobra.Command, password string, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return "", fmt.Errorf("%w: password is required (--password or --password-stdin)", apperrors.ErrInvalidInput)
	}
	return password, nil
}

func printSession(w io.Writer, s authdto.SessionOutput) {
	if !s.Authenticated {
		_, _ = fmt.Fprintln(w, "anonymous")
		return
	}
	_, _ = fmt.Fprintf(w, "%s <%s> id=%s\n", s.User.Username, s.User.Email, s.User.ID)
	if !s.ExpiresAt.IsZero() {
		state := "valid"
		if s.Expired {
			state = "expired"
		}
		_, _ = fmt.Fprintf(w, "token %s until %s\n", state, s.ExpiresAt.Local().Format(time.RFC3339))
	}
}

func newLoginCmd(flags *rootFlags) *cobra.Command {
	var user, password string
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a username or email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readPassword(cmd, password, passwordStdin)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AuthCLI.Login(context.Background(), user, pw)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), "logged in as ")
			printSession(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "username or email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("user")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	return cmd
}

func newRegisterCmd(flags *rootFlags) *cobra.Command {
	var username, email, password string
	var passwordStdin bool
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readPassword(cmd, password, passwordStdin)
			if err != nil {
				return err
			}
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AuthCLI.Register(context.Background(), username, email, pw)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), "registered ")
			printSession(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	return cmd
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.AuthCLI.Logout(context.Background()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newWhoamiCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.AuthCLI.Current(context.Background())
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newCheckInCmd(flags *rootFlags) *cobra.Command {
	checkin := &cobra.Command{Use: "checkin", Short: "List and post check-ins"}

	var offline bool
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List check-ins, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.CheckInCLI.List(context.Background(), offline, limit)
			if err != nil {
				return err
			}
			if out.Stale {
				note := "showing cached check-ins"
				if !out.FetchedAt.IsZero() {
					note += " from " + out.FetchedAt.Local().Format(time.RFC3339)
				}
				if out.Warning != "" {
					note += ": " + out.Warning
				}
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), note)
			}
			if len(out.Items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no check-ins")
				return nil
			}
			for _, c := range out.Items {
				caption := c.Caption
				if strings.TrimSpace(caption) == "" {
					caption = "No caption"
				}
				labels := strings.TrimSpace(c.TypeLabel + " " + c.StatusLabel)
				if labels != "" {
					labels = "  [" + labels + "]"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %9.5f,%10.5f  ♥%d  %s%s\n",
					c.ID,
					c.CreatedAt.Local().Format("2006-01-02 15:04"),
					c.Lat, c.Lng,
					c.LikeCount,
					caption,
					labels,
				)
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&offline, "offline", false, "read only the local cache")
	listCmd.Flags().IntVar(&limit, "limit", 50, "maximum check-ins to show (0 for all)")

	var images []string
	var caption string
	var lat, lng float64
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Post a check-in with one or more images",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := context.Background()
			if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
				located, err := app.GeoCLI.Locate(ctx)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("lat") {
					lat = located.Position.Lat
				}
				if !cmd.Flags().Changed("lng") {
					lng = located.Position.Lng
				}
			}
			out, err := app.CheckInCLI.Create(ctx, caption, images, lat, lng)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "posted %s at %.5f, %.5f with %d image(s)\n", out.ID, out.Lat, out.Lng, len(out.ImageURLs))
			return nil
		},
	}
	createCmd.Flags().StringArrayVar(&images, "image", nil, "image file to attach (repeatable)")
	createCmd.Flags().StringVar(&caption, "caption", "", "caption")
	createCmd.Flags().Float64Var(&lat, "lat", 0, "latitude (default: map center)")
	createCmd.Flags().Float64Var(&lng, "lng", 0, "longitude (default: map center)")
	_ = createCmd.MarkFlagRequired("image")

	checkin.AddCommand(listCmd, createCmd)
	return checkin
}

func newLocateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Show the position new check-ins default to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.GeoCLI.Locate(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%.5f, %.5f (%s)\n", out.Position.Lat, out.Position.Lng, out.Source)
			return nil
		},
	}
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration commands"}
	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.overrides())
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	})
	return cfgCmd
}
