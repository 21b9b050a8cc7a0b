package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ebowman/focal/internal/ai"
	"github.com/ebowman/focal/internal/alfred"
	"github.com/ebowman/focal/internal/config"
	"github.com/ebowman/focal/internal/event"
	"github.com/ebowman/focal/internal/notify"
	"github.com/ebowman/focal/internal/osascript"
	"github.com/ebowman/focal/internal/render"
)

const version = "1.0.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "focal",
	Short: "Natural-language calendar events from Alfred",
	Long:  "focal takes a plain-English event description, extracts structured fields with OpenAI, and creates the event in Apple Calendar or Fantastical.",
}

var createCmd = &cobra.Command{
	Use:   "create <description>",
	Short: "Create a calendar event from a description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCreate,
}

var previewCmd = &cobra.Command{
	Use:   "preview [query]",
	Short: "Emit Alfred Script Filter feedback for a query",
	RunE:  runPreview,
}

var calendarsCmd = &cobra.Command{
	Use:   "calendars",
	Short: "List Apple Calendar calendar names",
	RunE:  runCalendars,
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and calendar app availability",
	RunE:  runDoctor,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open the config file in your editor",
	RunE:  runConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the focal version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(calendarsCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger writes to stderr, which Alfred surfaces in its debug console.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runCreate(cmd *cobra.Command, args []string) error {
	input := event.SanitizeInput(strings.Join(args, " "))
	if input == "" {
		return fmt.Errorf("no event description provided")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.ValidateAPIKey(cfg.OpenAI.APIKey); err != nil {
		return err
	}

	logger := newLogger()
	ctx := context.Background()
	now := time.Now()

	provider := ai.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, logger)
	fallback := ai.NewHeuristic(logger)

	extractCtx, cancel := context.WithTimeout(ctx, cfg.OpenAI.Timeout())
	ev, err := provider.Extract(extractCtx, input, now)
	cancel()

	usedFallback := false
	if err != nil {
		logger.Warn("model extraction failed, using heuristic parser", "error", err)
		if ev, err = fallback.Extract(ctx, input, now); err != nil {
			return fmt.Errorf("parsing event description: %w", err)
		}
		usedFallback = true
	}

	runner := osascript.NewRunner(cfg.Calendar.ScriptTimeout(), logger)
	target, err := render.NewTarget(cfg.Calendar.App, cfg.Calendar.Name, runner, logger)
	if err != nil {
		return err
	}

	if err := target.Create(ctx, ev); err != nil {
		if usedFallback {
			return creationError(target, err)
		}
		// The model's event was rejected; rebuild from the heuristic
		// parse and retry once.
		logger.Warn("event creation failed, retrying with heuristic parse", "error", err)
		fbEv, fbErr := fallback.Extract(ctx, input, now)
		if fbErr != nil {
			return creationError(target, err)
		}
		if err := target.Create(ctx, fbEv); err != nil {
			return creationError(target, err)
		}
		ev = fbEv
		usedFallback = true
	}

	if cfg.Notifications.Enabled {
		if err := notify.Created(ev, target.Name()); err != nil {
			logger.Warn("notification failed", "error", err)
		}
	}

	method := "model extraction"
	if usedFallback {
		method = "fallback parsing"
	}
	fmt.Printf("Created %q in %s (%s)\n", ev.Title, target.Name(), method)
	return nil
}

func creationError(target render.Target, err error) error {
	return fmt.Errorf("creating event in %s: %w (try rephrasing, e.g. \"Lunch on Monday at 12 pm\")",
		target.Name(), err)
}

func runPreview(cmd *cobra.Command, args []string) error {
	return alfred.Preview(strings.Join(args, " ")).Write(os.Stdout)
}

func runCalendars(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	runner := osascript.NewRunner(cfg.Calendar.ScriptTimeout(), newLogger())
	names, err := runner.ListCalendars(context.Background())
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Println("No calendars found.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

// The bundle IDs and process names the doctor probes per app preference.
var scriptedApps = map[string]struct {
	bundleID string
	process  string
}{
	render.AppCalendar:    {"com.apple.iCal", "Calendar"},
	render.AppFantastical: {"com.flexibits.fantastical2.mac", "Fantastical"},
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var issues []string

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := config.ValidateAPIKey(cfg.OpenAI.APIKey); err != nil {
		fmt.Printf("  ✗ API key: %v\n", err)
		issues = append(issues, "API key")
	} else {
		fmt.Printf("  ✓ API key configured: %s...\n", cfg.OpenAI.APIKey[:10])
	}

	app := cfg.Calendar.App
	if _, err := render.NewTarget(app, cfg.Calendar.Name, nil, nil); err != nil {
		fmt.Printf("  ✗ Calendar app: %v\n", err)
		issues = append(issues, "calendar app preference")
	} else {
		fmt.Printf("  ✓ Calendar app preference: %s\n", app)
	}

	if probe, ok := scriptedApps[app]; ok {
		runner := osascript.NewRunner(cfg.Calendar.ScriptTimeout(), newLogger())
		ctx := context.Background()

		installed, err := runner.AppInstalled(ctx, probe.bundleID)
		switch {
		case err != nil:
			fmt.Printf("  ✗ Could not probe %s: %v\n", probe.process, err)
			issues = append(issues, "app probe")
		case !installed:
			fmt.Printf("  ✗ %s is not installed\n", probe.process)
			issues = append(issues, probe.process+" missing")
		default:
			running, _ := runner.AppRunning(ctx, probe.process)
			fmt.Printf("  ✓ %s installed (running: %t)\n", probe.process, running)
		}
	}

	if len(issues) > 0 {
		return fmt.Errorf("%d issue(s) found: %s", len(issues), strings.Join(issues, ", "))
	}
	fmt.Println("\nEverything looks good.")
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		data := fmt.Sprintf(`[openai]
model = "%s"
timeout_seconds = %d

[calendar]
app = "%s"
name = "%s"
script_timeout_seconds = %d

[notifications]
enabled = %t
`,
			cfg.OpenAI.Model,
			cfg.OpenAI.TimeoutSeconds,
			cfg.Calendar.App,
			cfg.Calendar.Name,
			cfg.Calendar.ScriptTimeoutSeconds,
			cfg.Notifications.Enabled,
		)
		if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}
