// Package main provides the CLI entrypoint for typesprint.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typesprint/internal/config"
	"github.com/verte-zerg/typesprint/internal/generator"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/scores"
	"github.com/verte-zerg/typesprint/internal/session"
	"github.com/verte-zerg/typesprint/internal/store"
	"github.com/verte-zerg/typesprint/internal/text"
	"github.com/verte-zerg/typesprint/internal/translate"
	"github.com/verte-zerg/typesprint/internal/tui"
	"github.com/verte-zerg/typesprint/internal/wordlist"
)

const (
	defaultDuration  = int(session.DefaultDuration / time.Second)
	defaultSentences = text.DefaultSentences
	defaultLang      = text.DefaultLang
	defaultBackend   = translate.BackendLibreTranslate
	defaultTimeout   = int(translate.DefaultTimeout / time.Second)
	envFile          = ".env"
)

var (
	testDuration  int
	testSentences int
	testWordsDir  string

	translateLang     string
	translateBackend  string
	translateEndpoint string
	translateModel    string
	translateTimeout  int

	scoresPath string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typesprint",
		Short:         "Terminal typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.Flags().IntVar(&testDuration, "duration", defaultDuration, "test length in seconds")
	rootCmd.Flags().IntVar(&testSentences, "sentences", defaultSentences, "sentences per generated text")
	rootCmd.Flags().StringVar(&testWordsDir, "words-dir", "", "directory with nouns.txt, verbs.txt, adjectives.txt, adverbs.txt")
	rootCmd.Flags().StringVar(&translateLang, "lang", defaultLang, "target language code for ctrl+t")
	rootCmd.Flags().StringVar(&translateBackend, "backend", defaultBackend, "translation backend: libretranslate, openai or none")
	rootCmd.Flags().StringVar(&translateEndpoint, "endpoint", "", "translation service base URL")
	rootCmd.Flags().StringVar(&translateModel, "model", "", "model name for the openai backend")
	rootCmd.Flags().IntVar(&translateTimeout, "timeout", defaultTimeout, "translation request timeout in seconds")
	rootCmd.PersistentFlags().StringVar(&scoresPath, "scores", "", "high score file (default: XDG data dir)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScoresCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newTextCmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	cfg, trCfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogFile(config.DefaultLogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	provider, err := buildProvider(cfg, trCfg)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "err", cerr)
		}
	}()

	board := scores.Open(cfg.ScoresPath, logger)
	logger.Info("starting test UI", "duration", cfg.Duration, "scores", board.Path(), "backend", trCfg.Backend)

	m := tui.NewModel(tui.Options{
		Config:   cfg,
		Provider: provider,
		Scores:   board,
		History:  st,
		Logger:   logger,
		Timeout:  trCfg.Timeout,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadSettings merges defaults, the config file and flags, in increasing priority.
func loadSettings(cmd *cobra.Command) (model.Config, model.TranslateConfig, error) {
	if err := config.LoadEnv(envFile); err != nil {
		logErrf("ignoring %s: %v\n", envFile, err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, model.TranslateConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg, trCfg := resolveSettings(cmd, fileCfg)
	if err := validateConfig(cfg, trCfg); err != nil {
		return model.Config{}, model.TranslateConfig{}, err
	}
	return cfg, trCfg, nil
}

func resolveSettings(cmd *cobra.Command, fileCfg config.FileConfig) (model.Config, model.TranslateConfig) {
	applyIntConfig(cmd, "duration", &testDuration, fileCfg.Test.Duration)
	applyIntConfig(cmd, "sentences", &testSentences, fileCfg.Test.Sentences)
	applyStringConfig(cmd, "words-dir", &testWordsDir, fileCfg.Test.WordsDir)
	applyStringConfig(cmd, "lang", &translateLang, fileCfg.Translate.Lang)
	applyStringConfig(cmd, "backend", &translateBackend, fileCfg.Translate.Backend)
	applyStringConfig(cmd, "endpoint", &translateEndpoint, fileCfg.Translate.Endpoint)
	applyStringConfig(cmd, "model", &translateModel, fileCfg.Translate.Model)
	applyIntConfig(cmd, "timeout", &translateTimeout, fileCfg.Translate.Timeout)
	applyStringConfig(cmd, "scores", &scoresPath, fileCfg.Scores.Path)

	apiKey := config.APIKeyFromEnv()
	if fileCfg.Translate.APIKey != nil && *fileCfg.Translate.APIKey != "" {
		apiKey = *fileCfg.Translate.APIKey
	}
	path := scoresPath
	if path == "" {
		path = config.DefaultScoresPath()
	}

	cfg := model.Config{
		Duration:      time.Duration(testDuration) * time.Second,
		Sentences:     testSentences,
		WordsDir:      testWordsDir,
		TranslateLang: translateLang,
		ScoresPath:    path,
	}
	trCfg := model.TranslateConfig{
		Backend:  translateBackend,
		Endpoint: translateEndpoint,
		APIKey:   apiKey,
		Model:    translateModel,
		Timeout:  time.Duration(translateTimeout) * time.Second,
	}
	return cfg, trCfg
}

// buildProvider wires word lists, the sentence generator and the translator.
// A translator that cannot be built disables translation instead of failing.
func buildProvider(cfg model.Config, trCfg model.TranslateConfig) (*text.Manager, error) {
	words, err := wordlist.LoadDir(cfg.WordsDir, wordlist.FilterForLang(translate.SourceLang))
	if err != nil {
		return nil, fmt.Errorf("failed to load word lists: %w", err)
	}
	translator, err := translate.New(trCfg)
	if err != nil {
		slog.Warn("translation disabled", "backend", trCfg.Backend, "err", err)
		translator = nil
	}
	return text.NewManager(generator.New(words), translator), nil
}

// openLogFile routes slog and the standard logger to path while the TUI owns
// the terminal.
func openLogFile(path string) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "typesprint")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, nil))
	slog.SetDefault(logger)
	return logger, func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

func stderrLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config, trCfg model.TranslateConfig) error {
	if cfg.Duration < time.Second {
		return fmt.Errorf("--duration must be >= 1")
	}
	if cfg.Sentences <= 0 {
		return fmt.Errorf("--sentences must be > 0")
	}
	if !translate.ValidLangCode(cfg.TranslateLang) {
		return fmt.Errorf("--lang must be a two-letter language code")
	}
	switch trCfg.Backend {
	case translate.BackendLibreTranslate, translate.BackendOpenAI, translate.BackendNone:
	default:
		return fmt.Errorf("--backend must be one of %s, %s, %s",
			translate.BackendLibreTranslate, translate.BackendOpenAI, translate.BackendNone)
	}
	if trCfg.Timeout < time.Second {
		return fmt.Errorf("--timeout must be >= 1")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func writeOut(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
