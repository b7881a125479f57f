// main.go
//
// CLI entrypoint for BERTLE.
//
//	bertle            play in the terminal (same as `bertle play`)
//	bertle tui        full-screen terminal UI
//	bertle serve      HTTP API with independent in-memory games
//	bertle rules      print the rules
//	bertle config     write a commented config file template
//	bertle version    print the build version
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/robalobadob/bertle/internal/config"
	"github.com/robalobadob/bertle/internal/console"
	"github.com/robalobadob/bertle/internal/daily"
	"github.com/robalobadob/bertle/internal/httpserver"
	"github.com/robalobadob/bertle/internal/render"
	"github.com/robalobadob/bertle/internal/store"
	"github.com/robalobadob/bertle/internal/tui"
	"github.com/robalobadob/bertle/internal/words"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type flags struct {
	configPath string
	answers    string
	allowed    string
	guesses    int
	daily      bool
	logLevel   string
	port       string
}

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "bertle",
		Short:        "Guess the hidden five-letter word",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", config.DefaultPath(), "config file path")
	pf.StringVar(&f.answers, "answers", "", "answers word list file")
	pf.StringVar(&f.allowed, "allowed", "", "allowed guesses word list file")
	pf.IntVar(&f.guesses, "guesses", config.DefaultMaxGuesses, "guesses per game")
	pf.BoolVar(&f.daily, "daily", false, "play the word of the day")
	pf.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, f)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Play in a full-screen terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, f)
		},
	})
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, f)
		},
	}
	serve.Flags().StringVar(&f.port, "port", config.DefaultPort, "listen port")
	root.AddCommand(serve)
	root.AddCommand(&cobra.Command{
		Use:   "rules",
		Short: "Print the rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), render.Rules(cfg.MaxGuesses))
			return err
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Write a config file template if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeConfigTemplate(cmd.OutOrStdout(), f.configPath)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	})
	return root
}

// resolveConfig layers explicitly set CLI flags over file and env config.
func resolveConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	fs := cmd.Flags()
	if fs.Changed("answers") {
		cfg.AnswersFile = f.answers
	}
	if fs.Changed("allowed") {
		cfg.AllowedFile = f.allowed
	}
	if fs.Changed("guesses") {
		cfg.MaxGuesses = f.guesses
	}
	if fs.Changed("daily") {
		cfg.Daily = f.daily
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Lookup("port") != nil && fs.Changed("port") {
		cfg.Server.Port = f.port
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setupLogging writes human-readable logs to w; colour only on a terminal.
func setupLogging(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !term.IsTerminal(int(f.Fd()))
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, NoColor: noColor})
	if err != nil && level != "" {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
}

// loadSession resolves config, sets up logging and loads the word lists.
func loadSession(cmd *cobra.Command, f *flags, logTo io.Writer) (config.Config, *words.Lists, error) {
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return config.Config{}, nil, err
	}
	setupLogging(cfg.LogLevel, logTo)
	wl, err := words.Load(words.Config{AnswersFile: cfg.AnswersFile, AllowedFile: cfg.AllowedFile})
	if err != nil {
		log.Error().Err(err).Msg("failed to load word lists")
		return config.Config{}, nil, fmt.Errorf("failed to load word lists: %w", err)
	}
	return cfg, wl, nil
}

// targetPicker returns nil (random) or the daily picker.
func targetPicker(cfg config.Config, wl *words.Lists) func() string {
	if !cfg.Daily {
		return nil
	}
	p := daily.Picker{Salt: cfg.DailySalt}
	return func() string {
		_, idx := p.Pick(len(wl.Answers()))
		return wl.Answer(idx)
	}
}

func runPlay(cmd *cobra.Command, f *flags) error {
	cfg, wl, err := loadSession(cmd, f, os.Stderr)
	if err != nil {
		return err
	}
	opts := []console.Option{console.WithRows(cfg.MaxGuesses)}
	if pick := targetPicker(cfg, wl); pick != nil {
		opts = append(opts, console.WithPicker(pick))
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return console.New(cmd.InOrStdin(), cmd.OutOrStdout(), wl, opts...).Run(ctx)
}

func runTUI(cmd *cobra.Command, f *flags) error {
	// The alternate screen owns the terminal; keep logs off it.
	cfg, wl, err := loadSession(cmd, f, io.Discard)
	if err != nil {
		return err
	}
	model := tui.NewModel(wl, targetPicker(cfg, wl), cfg.MaxGuesses)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, f *flags) error {
	cfg, wl, err := loadSession(cmd, f, os.Stderr)
	if err != nil {
		return err
	}
	srv := httpserver.New(store.NewMemoryStore(), wl, httpserver.Options{
		Rows:         cfg.MaxGuesses,
		ClientOrigin: cfg.Server.ClientOrigin,
		DailySalt:    cfg.DailySalt,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	addr := ":" + cfg.Server.Port
	a, w := wl.Stats()
	log.Info().Str("addr", addr).Int("answers", a).Int("allowed", w).Msg("starting bertle server")
	g.Go(func() error { return srv.Serve(ctx, addr) })
	g.Go(func() error { return srv.RunSweeper(ctx, cfg.Server.SweepInterval, cfg.Server.SessionTTL) })

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func writeConfigTemplate(out io.Writer, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		_, err = fmt.Fprintf(out, "config already exists: %s\n", path)
		return err
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	_, err := fmt.Fprintf(out, "wrote %s\n", path)
	return err
}
