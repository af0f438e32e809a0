package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrsteele09/go-game-portal/authfetch"
	"github.com/jrsteele09/go-game-portal/authflow"
	"github.com/jrsteele09/go-game-portal/internal/config"
	"github.com/jrsteele09/go-game-portal/internal/errors"
	"github.com/jrsteele09/go-game-portal/internal/i18n"
	"github.com/jrsteele09/go-game-portal/portal"
	"github.com/jrsteele09/go-game-portal/session/boltstore"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	apiURL     string
	dataDir    string
	language   string
}

// app is everything a subcommand needs. It is built once per invocation.
type app struct {
	cfg    config.Config
	store  *boltstore.Store
	api    *authfetch.Client
	flow   *authflow.Controller
	portal *portal.Portal
	loc    *i18n.Localizer
	out    io.Writer
	// interactive is true when prompts may be shown for missing values.
	interactive bool
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Err(err).Msg("close session store")
		}
	}
}

// NewRootCmd builds the portal command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:   "portal",
		Short: "Game portal client and API proxy",
		Long: `portal logs in to the game backend (password + OTP), keeps the session on disk,
and calls the player pages: profile, top-up, account shop, chatbot and leaderboard.
"portal serve" runs the /api proxy the web front end talks to.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "optional YAML config file")
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "API base URL (default API_BASE_URL)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data", "", "directory for the session store (default FOLDER)")
	root.PersistentFlags().StringVar(&opts.language, "lang", "", "notice language: en or vi (default LANGUAGE)")

	// Commands that talk to the backend get the full app; serve only needs config.
	withApp := func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if err := a.open(cmd, opts); err != nil {
				return err
			}
			defer a.close()
			return run(cmd, a, args)
		}
	}
	withConfig := func(run func(cmd *cobra.Command, cfg config.Config, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return run(cmd, cfg, args)
		}
	}

	root.AddCommand(
		newServeCmd(withConfig),
		newLoginCmd(withApp),
		newOTPCmd(withApp),
		newLogoutCmd(withApp),
		newStatusCmd(withApp),
		newRegisterCmd(withApp),
		newChangePasswordCmd(withApp),
		newResetPasswordCmd(withApp),
		newProfileCmd(withApp),
		newPayCmd(withApp),
		newQRCmd(withApp),
		newShopCmd(withApp),
		newAskCmd(withApp),
		newLeaderboardCmd(withApp),
	)
	return root
}

type appRunner = func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error

type configRunner = func(run func(cmd *cobra.Command, cfg config.Config, args []string) error) func(*cobra.Command, []string) error

func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		var shown silentError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		}
		os.Exit(1)
	}
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.GetLogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}

func (a *app) open(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	dataDir := opts.dataDir
	if dataDir == "" {
		dataDir = cfg.GetDataFolder()
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	store, err := boltstore.Open(filepath.Join(dataDir, filepath.Base(cfg.GetSessionFile())), cfg.GetSessionKey())
	if err != nil {
		return err
	}

	apiURL := opts.apiURL
	if apiURL == "" {
		apiURL = cfg.GetAPIBaseURL()
	}
	lang := opts.language
	if lang == "" {
		lang = cfg.GetLanguage()
	}

	a.cfg = cfg
	a.store = store
	a.loc = i18n.New(lang)
	a.api = authfetch.New(store,
		authfetch.WithBaseURL(apiURL),
		authfetch.WithTimeout(cfg.GetRequestTimeout()),
		authfetch.WithLogger(log.Logger),
	)
	a.flow = authflow.New(a.api, a.loc, authflow.WithLogger(log.Logger))
	a.portal = portal.New(a.api)
	a.out = cmd.OutOrStdout()
	a.interactive = isInteractive(cmd.InOrStdin())
	return nil
}
