package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/san-kum/boxsim/internal/automation"
	"github.com/san-kum/boxsim/internal/circles"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/engine"
	"github.com/san-kum/boxsim/internal/export"
	"github.com/san-kum/boxsim/internal/logging"
	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/physics"
	"github.com/san-kum/boxsim/internal/storage"
	"github.com/san-kum/boxsim/internal/tui"
	"github.com/san-kum/boxsim/internal/viz"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string
	fps        int
	integrator string
	gravityY   float64

	duration   float64
	numCircles int
	cols       int
	rows       int
	seed       int64
	showFrame  bool
	saveRun    bool
	svgFile    string
	scenario   string

	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "boxsim",
		Short:        "2D rigid-body box world in the terminal",
		SilenceUsage: true,
		RunE:         playWorld,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".boxsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.IntVar(&fps, "fps", engine.DefaultTargetFPS, "target frames per second")
	pf.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, verlet)")
	pf.Float64Var(&gravityY, "gravity", 0, "initial vertical gravity (m/s^2)")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "interactive box world: click to drop circles, arrows tilt gravity",
		RunE:  playWorld,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report frame timing",
		RunE:  runHeadless,
	}
	runCmd.Flags().Float64Var(&duration, "time", 5.0, "duration in seconds")
	runCmd.Flags().IntVar(&numCircles, "circles", 20, "circles to drop")
	runCmd.Flags().IntVar(&cols, "cols", 80, "canvas columns")
	runCmd.Flags().IntVar(&rows, "rows", 24, "canvas rows")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().BoolVar(&showFrame, "show", false, "print the last frame")
	runCmd.Flags().StringVar(&scenario, "scenario", "", "scripted input (yaml) instead of random drops")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the last frame as svg")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store the frame timings in the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the frame rate of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE:  dumpConfig,
	}
	configCmd.Flags().StringVar(&outFile, "out", "", "write to file instead of stdout")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(playCmd, runCmd, listCmd, plotCmd, configCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers preset, config file, BOXSIM_* env and explicit flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Loop.TargetFPS = fps
	}
	if flags.Changed("integrator") {
		cfg.World.Integrator = integrator
	}
	if flags.Changed("gravity") {
		cfg.World.GravityY = gravityY
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	return cfg, nil
}

// awaitLoop stops w when ctx ends and returns as soon as the loop exits,
// whichever comes first.
func awaitLoop(ctx context.Context, w *engine.World) error {
	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	w.Stop()
	return w.Wait()
}

func buildWorld(cfg *config.Config, surface engine.Surface, log zerolog.Logger, observers ...engine.Observer) (*engine.World, *circles.Game, error) {
	integ, err := physics.GetIntegrator(cfg.World.Integrator)
	if err != nil {
		return nil, nil, err
	}
	phys := physics.NewWorld(integ)
	phys.SetRestitution(cfg.World.Restitution)

	ec, err := cfg.Engine()
	if err != nil {
		return nil, nil, err
	}

	opts := []engine.Option{engine.WithLogger(log)}
	for _, o := range observers {
		opts = append(opts, engine.WithObserver(o))
	}
	w, err := engine.New(ec, phys, surface, opts...)
	if err != nil {
		return nil, nil, err
	}

	game := circles.New(w, phys, circles.Options{
		WorldHeight:  cfg.World.Height,
		WallMargin:   cfg.World.WallMargin,
		CircleRadius: cfg.Circles.Radius,
		Gravity:      cfg.Gravity(),
	})
	return w, game, nil
}

func playWorld(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI, so logs only go to a file.
	log, closer, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	surface := viz.NewTerminalSurface(nil)
	w, game, err := buildWorld(cfg, surface, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return tui.Run(ctx, w, game, surface)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if duration <= 0 {
		return fmt.Errorf("invalid duration: %v", duration)
	}

	var script *automation.Scenario
	if scenario != "" {
		script, err = automation.LoadScenario(scenario)
		if err != nil {
			return fmt.Errorf("failed to load scenario: %w", err)
		}
		if d := script.Duration(); d.Seconds() > duration {
			fmt.Printf("note: scenario runs %.1fs, longer than --time %.1fs\n", d.Seconds(), duration)
		}
	}

	var log zerolog.Logger
	var closer io.Closer
	if cfg.Log.File != "" {
		log, closer, err = logging.Open(cfg.Log.File, cfg.Log.Level)
	} else {
		log, err = logging.New(os.Stderr, cfg.Log.Level)
	}
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	surface := viz.NewHeadlessSurface(cols, rows)
	recorder := metrics.NewFrameRecorder(0)
	saturation := metrics.NewSaturation(cfg.Loop.MaxStepsPerFrame)

	w, game, err := buildWorld(cfg, surface, log, recorder, saturation)
	if err != nil {
		return err
	}

	fmt.Printf("running box world for %.1fs (%d fps, %d circles, %s)\n",
		duration, cfg.Loop.TargetFPS, numCircles, cfg.World.Integrator)

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(duration*float64(time.Second)))
	defer cancel()

	if err := w.Start(ctx); err != nil {
		return err
	}
	if err := game.Init(cols*2, rows*4); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if script != nil {
			fired, err := automation.RunScenario(gctx, script, scriptInput{game: game, world: w})
			log.Info().Int("events", fired).Str("scenario", script.Name).Msg("scenario finished")
			return err
		}
		return dropCircles(gctx, game, numCircles, cols*2, rows*4)
	})
	g.Go(func() error { return awaitLoop(gctx, w) })
	if err := g.Wait(); err != nil {
		return err
	}

	summary := recorder.Summary()
	printSummary(summary, saturation, game.Circles())
	plotFPS(recorder.History())

	if showFrame {
		fmt.Println(surface.Last())
	}
	if svgFile != "" {
		if err := os.WriteFile(svgFile, []byte(export.CanvasToSVG(surface.Canvas(), 4)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		fpsHistory, elapsed := recorder.History(), recorder.Elapsed()
		frames := make([]storage.Frame, len(fpsHistory))
		for i := range fpsHistory {
			frames[i] = storage.Frame{FPS: fpsHistory[i], Elapsed: elapsed[i]}
		}
		runID, err := st.Save(storage.RunMetadata{
			Seed:       seed,
			Duration:   duration,
			TargetFPS:  cfg.Loop.TargetFPS,
			Integrator: cfg.World.Integrator,
			Circles:    game.Circles(),
			Metrics: map[string]float64{
				"frames":        float64(summary.Frames),
				"mean_fps":      summary.MeanFPS,
				"min_fps":       summary.MinFPS,
				"max_fps":       summary.MaxFPS,
				"p95_frame_ms":  float64(summary.P95FrameTime) / float64(time.Millisecond),
				"physics_steps": float64(summary.TotalSteps),
				"saturation":    saturation.Value(),
				"messages":      float64(summary.Messages),
			},
		}, frames)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("saved run: %s\n", runID)
	}
	return nil
}

func plotFPS(history []float64) {
	if len(history) < 2 {
		return
	}
	graph := asciigraph.Plot(history,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("fps per frame"),
	)
	fmt.Println(graph)
	fmt.Println()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tFPS\tINTEGRATOR\tCIRCLES\tMEAN FPS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%.1f\n",
			r.ID, r.Timestamp.Format(time.DateTime), r.TargetFPS, r.Integrator, r.Circles, r.Metrics["mean_fps"])
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return fmt.Errorf("failed to load frames: %w", err)
	}

	fmt.Printf("run %s: %d fps target, %s, %d circles\n\n", meta.ID, meta.TargetFPS, meta.Integrator, meta.Circles)
	history := make([]float64, len(frames))
	elapsed := make([]time.Duration, len(frames))
	for i, f := range frames {
		history[i] = f.FPS
		elapsed[i] = f.Elapsed
	}
	plotFPS(history)

	spectrum := metrics.JitterSpectrum(elapsed)
	if len(spectrum) < 2 {
		return nil
	}
	graph := asciigraph.Plot(spectrum,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("frame time spectrum (ms)"),
	)
	fmt.Println(graph)
	fmt.Println()
	fmt.Printf("jitter: %v", metrics.Jitter(elapsed))
	if period := metrics.DominantPeriod(spectrum, len(elapsed)); period > 0 {
		fmt.Printf(", strongest period: %.1f frames", period)
	}
	fmt.Println()
	return nil
}

// scriptInput routes scenario events to the sample game and the world.
type scriptInput struct {
	game  *circles.Game
	world *engine.World
}

func (s scriptInput) Touch(x, y float64) error       { return s.game.Touch(x, y) }
func (s scriptInput) Tilt(roll, pitch float64) error { return s.game.Tilt(roll, pitch) }
func (s scriptInput) Pause() error                   { return s.world.Pause() }
func (s scriptInput) Resume() error                  { return s.world.Resume() }

// dropCircles spreads n touches over the upper half of the screen until ctx ends.
func dropCircles(ctx context.Context, game *circles.Game, n, width, height int) error {
	if n <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	interval := time.Duration(duration * float64(time.Second) / float64(n+1))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		x := float64(width) * (0.15 + 0.7*rng.Float64())
		y := float64(height) * (0.1 + 0.4*rng.Float64())
		if err := game.Touch(x, y); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(s metrics.FrameSummary, sat *metrics.Saturation, circleCount int64) {
	fmt.Println()
	fmt.Println("frame summary:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  frames\t%d\n", s.Frames)
	fmt.Fprintf(w, "  fps (mean/min/max)\t%.1f / %.1f / %.1f\n", s.MeanFPS, s.MinFPS, s.MaxFPS)
	fmt.Fprintf(w, "  p95 frame time\t%v\n", s.P95FrameTime)
	fmt.Fprintf(w, "  physics steps\t%d\n", s.TotalSteps)
	fmt.Fprintf(w, "  messages\t%d\n", s.Messages)
	fmt.Fprintf(w, "  saturated frames\t%d (%.1f%%)\n", sat.Hits(), sat.Value()*100)
	fmt.Fprintf(w, "  circles\t%d\n", circleCount)
	w.Flush()
	fmt.Println()
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := config.Save(outFile, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Printf("  %-10s fps=%d step=%s max_steps=%d gravity_y=%.1f\n",
			name, cfg.Loop.TargetFPS, formatStep(cfg.Loop.PhysicsStep), cfg.Loop.MaxStepsPerFrame, cfg.World.GravityY)
	}
	fmt.Println()
	fmt.Println("integrators: " + strings.Join(physics.ListIntegrators(), ", "))
	return nil
}

func formatStep(step float64) string {
	return fmt.Sprintf("1/%.0f", 1/step)
}
