// spritegen generates images through cloud image models and keys their
// backgrounds to transparency, producing sprites ready for compositing.
//
// Usage:
//
//	spritegen [flags] "prompt"
//
// Generation goes through the configured provider (Gemini by default);
// background removal runs locally, either as a border-connected flood fill
// or as a global ffmpeg chroma key.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"spritegen/bgremove"
	"spritegen/core"
	"spritegen/history"
	"spritegen/imagegen"
	"spritegen/logging"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// stringList collects repeatable string flags.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// options holds every CLI flag after defaults-file merging.
type options struct {
	output       string
	model        string
	editPath     string
	refPaths     stringList
	removeBG     bool
	bgMode       string
	keyColor     string
	threshold    int
	similarity   float64
	blend        float64
	skipGenerate bool
	showHistory  int
}

// registerFlags wires every CLI flag into a fresh options value. The removal
// tuning flags default from the environment (BG_THRESHOLD, BG_SIMILARITY,
// BG_BLEND) so a shell profile can carry per-machine tuning without flags.
func registerFlags(fs *flag.FlagSet) *options {
	opts := &options{}
	fs.StringVar(&opts.output, "o", "generated_image.png", "output file path")
	fs.StringVar(&opts.output, "output", "generated_image.png", "output file path (same as -o)")
	fs.StringVar(&opts.model, "m", "", "generation model (default from config)")
	fs.StringVar(&opts.model, "model", "", "generation model (same as -m)")
	fs.StringVar(&opts.editPath, "e", "", "input image path to edit")
	fs.StringVar(&opts.editPath, "edit", "", "input image path to edit (same as -e)")
	fs.Var(&opts.refPaths, "ref", "reference image path (repeatable)")
	fs.BoolVar(&opts.removeBG, "remove-bg", true, "key the background to transparency after generation")
	fs.StringVar(&opts.bgMode, "bg-mode", "flood-fill", "background removal mode: flood-fill or key")
	fs.StringVar(&opts.keyColor, "key-color", "FFFFFF", "hex color to key out, or \"auto\" to detect it")
	fs.IntVar(&opts.threshold, "threshold", core.ParseIntEnv("BG_THRESHOLD", bgremove.DefaultThreshold), "per-channel tolerance for flood-fill removal")
	fs.Float64Var(&opts.similarity, "similarity", core.ParseFloat64Env("BG_SIMILARITY", bgremove.DefaultSimilarity), "chroma-key color similarity in [0,1]")
	fs.Float64Var(&opts.blend, "blend", core.ParseFloat64Env("BG_BLEND", bgremove.DefaultBlend), "chroma-key edge blend in [0,1]")
	fs.BoolVar(&opts.skipGenerate, "skip-generate", false, "skip generation and only post-process the output file")
	fs.IntVar(&opts.showHistory, "history", 0, "print the N most recent generations and exit")
	return opts
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Load .env if present; a missing file is the normal case.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("spritegen", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: spritegen [flags] \"prompt\"\n\nFlags:\n")
		fs.PrintDefaults()
	}

	opts := registerFlags(fs)

	if err := fs.Parse(args); err != nil {
		return core.ExitCodeUsage
	}

	cfg, err := core.LoadConfig()
	if err != nil {
		printConfigError(err)
		return core.ExitCodeUsage
	}

	defaults, err := core.LoadDefaults(core.DefaultsFileName)
	if err != nil {
		printConfigError(err)
		return core.ExitCodeUsage
	}
	applyDefaults(fs, opts, defaults)

	if opts.model != "" {
		cfg.Model = opts.model
	}
	if opts.bgMode != "flood-fill" && opts.bgMode != "key" {
		fmt.Fprintf(os.Stderr, "Invalid -bg-mode %q: must be \"flood-fill\" or \"key\"\n", opts.bgMode)
		return core.ExitCodeUsage
	}

	logger, err := logging.NewLogger(cfg.DevMode, cfg.LogFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.showHistory > 0 {
		return printHistory(ctx, cfg, opts.showHistory)
	}

	if fs.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Unexpected argument %q: the prompt must be a single quoted string.\n", fs.Arg(1))
		fs.Usage()
		return core.ExitCodeUsage
	}
	prompt := strings.TrimSpace(fs.Arg(0))
	if !opts.skipGenerate && prompt == "" {
		fmt.Fprintln(os.Stderr, "A prompt is required unless -skip-generate is set.")
		fs.Usage()
		return core.ExitCodeUsage
	}

	// Resolve the key color up front so a bad hex fails before any API
	// spend. "auto" is resolved later, against the generated image.
	var key bgremove.Color
	autoKey := strings.EqualFold(opts.keyColor, "auto")
	if opts.removeBG && !autoKey {
		key, err = bgremove.ParseHexColor(opts.keyColor)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -key-color: %v\n", err)
			return core.ExitCodeUsage
		}
	}

	if !opts.skipGenerate {
		if opts.removeBG {
			prompt = appendMatteConstraint(prompt, matteHex(key, autoKey))
		}
		if code := generate(ctx, cfg, logger, opts, prompt); code != core.ExitCodeSuccess {
			return code
		}
	}

	if opts.removeBG {
		if code := removeBackground(ctx, logger, opts, key, autoKey); code != core.ExitCodeSuccess {
			return code
		}
	}

	return core.ExitCodeSuccess
}

// applyDefaults merges the YAML defaults file into opts for every flag the
// user did not set explicitly.
func applyDefaults(fs *flag.FlagSet, opts *options, d *core.Defaults) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if d.Output != nil && !set["o"] && !set["output"] {
		opts.output = *d.Output
	}
	if d.Model != nil && !set["m"] && !set["model"] {
		opts.model = *d.Model
	}
	if d.RemoveBG != nil && !set["remove-bg"] {
		opts.removeBG = *d.RemoveBG
	}
	if d.BGMode != nil && !set["bg-mode"] {
		opts.bgMode = *d.BGMode
	}
	if d.KeyColor != nil && !set["key-color"] {
		opts.keyColor = *d.KeyColor
	}
	if d.Threshold != nil && !set["threshold"] {
		opts.threshold = *d.Threshold
	}
	if d.Similarity != nil && !set["similarity"] {
		opts.similarity = *d.Similarity
	}
	if d.Blend != nil && !set["blend"] {
		opts.blend = *d.Blend
	}
}

// matteHex picks the hex color named in the prompt constraint. Automatic
// detection happens after generation, so the constraint asks for white and
// detection confirms what the model actually produced.
func matteHex(key bgremove.Color, autoKey bool) string {
	if autoKey {
		return bgremove.White.Hex()
	}
	return key.Hex()
}

// appendMatteConstraint nudges the model toward a clean uniform backdrop so
// keying is reliable.
func appendMatteConstraint(prompt, hex string) string {
	return prompt + "\n\n" +
		"Important output constraint: use a completely pure matte background " +
		"(#" + hex + "), flat and uniform, with no shadows, floor, gradients, or texture."
}

// generate runs the provider pipeline and prints the generation summary.
func generate(ctx context.Context, cfg *core.Config, logger *logging.Logger, opts *options, prompt string) int {
	provider, err := buildProvider(cfg)
	if err != nil {
		printConfigError(err)
		return core.ExitCodeUsage
	}

	var recorder imagegen.HistoryRecorder
	if cfg.HasHistory() {
		store, err := history.Open(cfg.HistoryDBPath)
		if err != nil {
			// History is best effort; the generation still runs.
			logger.Warn("history database unavailable", zap.Error(err))
		} else {
			defer store.Close()
			recorder = store
		}
	}

	generator, err := imagegen.NewGenerator(provider,
		imagegen.NewDownloader(core.GetDefaultHTTPClient(cfg)), logger, recorder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation setup failed: %v\n", err)
		return core.ExitCodeError
	}

	genCtx := ctx
	if cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
	}

	outcome, err := generator.Generate(genCtx, imagegen.Request{
		Prompt:   prompt,
		EditPath: opts.editPath,
		RefPaths: opts.refPaths,
	}, opts.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		return core.ExitCodeError
	}

	printOutcome(outcome)
	return core.ExitCodeSuccess
}

// buildProvider selects the provider named in the config.
func buildProvider(cfg *core.Config) (imagegen.Provider, error) {
	switch cfg.Provider {
	case "openai":
		return imagegen.NewOpenAIProvider(cfg)
	default:
		return imagegen.NewGeminiProvider(cfg)
	}
}

// removeBackground applies the selected removal strategy to the output file.
func removeBackground(ctx context.Context, logger *logging.Logger, opts *options, key bgremove.Color, autoKey bool) int {
	if autoKey {
		detected, err := bgremove.DetectKeyColor(opts.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Key color detection failed: %v\n", err)
			return core.ExitCodeError
		}
		key = detected
		logger.Info("detected key color", zap.String("key", key.String()))
	}

	switch opts.bgMode {
	case "flood-fill":
		if err := bgremove.RemoveFloodFill(opts.output, key, opts.threshold); err != nil {
			fmt.Fprintf(os.Stderr, "Post-process failed: %v\n", err)
			return core.ExitCodeError
		}
		fmt.Printf("Applied corner flood-fill background removal (key=%s, threshold=%d).\n",
			key.String(), opts.threshold)
	case "key":
		if err := bgremove.RemoveChromaKey(ctx, opts.output, key, opts.similarity, opts.blend); err != nil {
			fmt.Fprintf(os.Stderr, "Post-process failed: %v\n", err)
			return core.ExitCodeError
		}
		fmt.Printf("Applied chroma-key background removal (key=%s, similarity=%g, blend=%g).\n",
			key.String(), opts.similarity, opts.blend)
	}
	return core.ExitCodeSuccess
}

// printOutcome writes the colored generation summary to stdout.
func printOutcome(outcome *imagegen.Outcome) {
	if outcome.ModelText != "" {
		for _, line := range strings.Split(outcome.ModelText, "\n") {
			color.New(color.Faint).Printf("[model text] %s\n", line)
		}
	}

	color.New(color.FgGreen, color.Bold).Printf("Saved image to %s\n", outcome.OutputPath)
	if outcome.ModelVersion != "" {
		fmt.Printf("Model: %s\n", outcome.ModelVersion)
	}
	if outcome.Usage != nil {
		color.New(color.FgCyan).Printf("Usage: prompt=%d output=%d total=%d\n",
			outcome.Usage.PromptTokens, outcome.Usage.OutputTokens, outcome.Usage.TotalTokens)
	}
	fmt.Printf("Duration: %s\n", outcome.Duration.Round(10*time.Millisecond))
}

// printHistory lists recent generations from the history database.
func printHistory(ctx context.Context, cfg *core.Config, limit int) int {
	if !cfg.HasHistory() {
		fmt.Fprintln(os.Stderr, "History is disabled; set HISTORY_DB_PATH to enable it.")
		return core.ExitCodeUsage
	}

	store, err := history.Open(cfg.HistoryDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history: %v\n", err)
		return core.ExitCodeError
	}
	defer store.Close()

	records, err := store.Recent(ctx, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read history: %v\n", err)
		return core.ExitCodeError
	}
	if len(records) == 0 {
		fmt.Println("No generations recorded yet.")
		return core.ExitCodeSuccess
	}

	for _, rec := range records {
		color.New(color.Bold).Printf("%s  %s/%s  %s\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.Provider, rec.Model, rec.OutputPath)
		fmt.Printf("  [%s] tokens=%d duration=%dms\n", rec.CorrelationID, rec.TotalTokens, rec.DurationMS)
		fmt.Printf("  %s\n", truncatePrompt(rec.Prompt, 100))
	}
	return core.ExitCodeSuccess
}

// truncatePrompt shortens long prompts for one-line display.
func truncatePrompt(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// printConfigError renders coded config errors with their suggested action.
func printConfigError(err error) {
	if cfgErr, ok := core.IsConfigError(err); ok {
		fmt.Fprintf(os.Stderr, "%s\n", cfgErr.Message)
		if cfgErr.Action != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", cfgErr.Action)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
