package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typesprint/internal/config"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/scores"
	"github.com/verte-zerg/typesprint/internal/stats"
	"github.com/verte-zerg/typesprint/internal/store"
	"github.com/verte-zerg/typesprint/internal/translate"
)

const defaultCurveWindow = 10

var (
	historySince  string
	historyLast   int
	historyWindow int

	textSentences int
	textTranslate string
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Print the high score table",
		Args:  cobra.NoArgs,
		RunE:  runScoresCmd,
	}
}

func runScoresCmd(cmd *cobra.Command, _ []string) error {
	path, err := resolveScoresPath(cmd)
	if err != nil {
		return err
	}
	board := scores.Open(path, stderrLogger())
	return stats.RenderLeaderboard(cmd.OutOrStdout(), board.TopScores())
}

func resolveScoresPath(cmd *cobra.Command) (string, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "scores", &scoresPath, fileCfg.Scores.Path)
	if scoresPath == "" {
		return config.DefaultScoresPath(), nil
	}
	return scoresPath, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs with speed and accuracy trends",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&historyWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation(model.DateLayout, historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(cmd.Context(), st, model.HistoryConfig{Since: sinceTime, Last: historyLast})
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Runs); err != nil {
		return err
	}
	if len(report.Runs) == 0 {
		return nil
	}
	if err := stats.RenderRuns(out, report.Runs); err != nil {
		return err
	}
	return stats.RenderCurves(out, report.Runs, historyWindow, stats.TerminalWidth())
}

func newTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Print a generated practice paragraph",
		Args:  cobra.NoArgs,
		RunE:  runTextCmd,
	}
	cmd.Flags().IntVar(&textSentences, "sentences", 3, "number of sentences")
	cmd.Flags().StringVar(&textTranslate, "translate", "", "also print a translation into this language code")
	return cmd
}

func runTextCmd(cmd *cobra.Command, _ []string) error {
	if textSentences <= 0 {
		return fmt.Errorf("--sentences must be > 0")
	}
	if err := config.LoadEnv(envFile); err != nil {
		logErrf("ignoring %s: %v\n", envFile, err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, trCfg := resolveSettings(cmd, fileCfg)
	if err := validateConfig(cfg, trCfg); err != nil {
		return err
	}
	if textTranslate != "" {
		if _, err := translate.New(trCfg); err != nil {
			return fmt.Errorf("failed to set up translation: %w", err)
		}
	}
	provider, err := buildProvider(cfg, trCfg)
	if err != nil {
		return err
	}

	paragraph, err := provider.Paragraph(cmd.Context(), textSentences)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := writeOut(out, "%s\n", paragraph); err != nil {
		return err
	}
	if textTranslate == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), trCfg.Timeout)
	defer cancel()
	translated, err := provider.Translate(ctx, paragraph, textTranslate)
	if err != nil {
		return err
	}
	return writeOut(out, "\n%s\n", translated)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typesprint configuration
# Uncomment a value to enable it. CLI flags override config values.
# API keys may also come from TYPESPRINT_API_KEY or OPENAI_API_KEY (a .env
# file in the working directory is read at startup).

[test]
# duration = %d           # Test length in seconds
# sentences = %d          # Sentences per generated text
# words-dir = ""          # Directory with nouns.txt, verbs.txt, adjectives.txt, adverbs.txt

[translate]
# backend = %q  # libretranslate, openai or none
# lang = %q               # Target language for ctrl+t
# endpoint = %q
# api-key = ""
# model = %q
# timeout = %d            # Request timeout in seconds

[scores]
# path = ""               # High score file (default: %s)
`,
		defaultDuration,
		defaultSentences,
		defaultBackend,
		defaultLang,
		translate.DefaultLibreTranslateEndpoint,
		translate.DefaultOpenAIModel,
		defaultTimeout,
		config.DefaultScoresPath(),
	)
}
