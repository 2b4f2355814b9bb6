package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TylerFair/jaxoplanet/internal/analysis"
	"github.com/TylerFair/jaxoplanet/internal/config"
	"github.com/TylerFair/jaxoplanet/internal/dataset"
	"github.com/TylerFair/jaxoplanet/internal/export"
	"github.com/TylerFair/jaxoplanet/internal/infer"
	"github.com/TylerFair/jaxoplanet/internal/metrics"
	"github.com/TylerFair/jaxoplanet/internal/orbit"
	"github.com/TylerFair/jaxoplanet/internal/plot"
	"github.com/TylerFair/jaxoplanet/internal/storage"
	"github.com/TylerFair/jaxoplanet/internal/trace"
	"github.com/TylerFair/jaxoplanet/internal/tui"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	seed       uint64
	steps      int
	burn       int
	walkers    int
	thin       int
	histParam  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jaxoplanet",
		Short: "transit light curve and timing variation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".jaxoplanet", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "generate a synthetic transit dataset",
		RunE:  simulate,
	}
	simulateCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	fitCmd := &cobra.Command{
		Use:   "fit [run_id]",
		Short: "maximum a posteriori fit of the timing model",
		Args:  cobra.ExactArgs(1),
		RunE:  fitRun,
	}

	sampleCmd := &cobra.Command{
		Use:   "sample [run_id]",
		Short: "sample the posterior with an ensemble sampler",
		Args:  cobra.ExactArgs(1),
		RunE:  sampleRun,
	}
	sampleCmd.Flags().IntVar(&steps, "steps", 0, "post-burn steps per walker")
	sampleCmd.Flags().IntVar(&burn, "burn", -1, "burn-in steps per walker")
	sampleCmd.Flags().IntVar(&walkers, "walkers", 0, "ensemble size")
	sampleCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")

	liveCmd := &cobra.Command{
		Use:   "live [run_id]",
		Short: "sample with a live progress view",
		Args:  cobra.ExactArgs(1),
		RunE:  liveRun,
	}
	liveCmd.Flags().IntVar(&steps, "steps", 0, "post-burn steps per walker")
	liveCmd.Flags().IntVar(&burn, "burn", -1, "burn-in steps per walker")
	liveCmd.Flags().IntVar(&walkers, "walkers", 0, "ensemble size")
	liveCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")

	summaryCmd := &cobra.Command{
		Use:   "summary [run_id]",
		Short: "summarize the posterior chain",
		Args:  cobra.ExactArgs(1),
		RunE:  summarizeRun,
	}
	summaryCmd.Flags().IntVar(&thin, "thin", 1, "keep every n-th draw")
	summaryCmd.Flags().StringVar(&histParam, "param", "", "show the posterior histogram for one parameter")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the light curve, with the fit when one exists",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	ttvCmd := &cobra.Command{
		Use:   "ttv [run_id]",
		Short: "observed-minus-calculated timing diagram",
		Args:  cobra.ExactArgs(1),
		RunE:  ttvRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return config.Save(args[0], cfg)
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run results to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the light curve as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	rootCmd.AddCommand(simulateCmd, listCmd, fitCmd, sampleCmd, liveCmd, summaryCmd,
		plotCmd, ttvCmd, presetsCmd, initCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	return cfg, nil
}

func simulate(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Synth.Seed = seed
	}

	synthCfg, err := cfg.Synth.SynthConfig()
	if err != nil {
		return err
	}

	start := time.Now()
	ds, truth, err := dataset.Synthesize(synthCfg)
	if err != nil {
		return err
	}
	log.Info().
		Int("points", len(ds.Time)).
		Int("planets", len(truth.Planets)).
		Dur("elapsed", time.Since(start)).
		Msg("synthesized dataset")

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.CreateRun(storage.RunMetadata{
		Kind:    "simulate",
		Seed:    cfg.Synth.Seed,
		Planets: len(truth.Planets),
		NoiseSD: truth.NoiseSD,
	})
	if err != nil {
		return err
	}
	if err := st.SaveDataset(runID, ds); err != nil {
		return err
	}
	if err := st.SaveTruth(runID, truth); err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", runID)
	for i, times := range truth.TransitTimes {
		fmt.Printf("planet %d: %d transits\n", i, len(times))
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tPLANETS\tSEED\tNOISE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2g\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Planets,
			run.Seed,
			run.NoiseSD,
		)
	}
	return w.Flush()
}

// buildModel reconstructs the timing model for a stored run, using the
// injected transit times as initial guesses.
func buildModel(st *storage.Store, cfg *config.Config, runID string) (*infer.Model, error) {
	ds, err := st.LoadDataset(runID)
	if err != nil {
		return nil, err
	}
	truth, err := st.LoadTruth(runID)
	if err != nil {
		return nil, err
	}

	guesses := make([]infer.TTVGuess, len(truth.Planets))
	for i, p := range truth.Planets {
		guesses[i] = infer.TTVGuess{
			TransitTimes: truth.TransitTimes[i],
			TransitInds:  truth.TransitInds[i],
			Duration:     p.Duration,
			ImpactParam:  p.ImpactParam,
			RadiusRatio:  p.RadiusRatio,
		}
	}
	sigma, err := cfg.Fit.TimingSigmaDays()
	if err != nil {
		return nil, err
	}
	return infer.NewTTVModel(ds, infer.TTVModelConfig{
		Planets:        guesses,
		TimingSigma:    sigma,
		FitLimbDark:    cfg.Fit.FitLimbDark,
		LimbDark:       truth.LimbDark,
		Seed:           cfg.Fit.Seed,
		PriorOverrides: cfg.Fit.Priors,
	})
}

// startPoint prefers a stored MAP fit over the prior means.
func startPoint(st *storage.Store, m *infer.Model, runID string) []float64 {
	point, err := st.LoadMAP(runID)
	if err != nil {
		return m.PriorMeans()
	}
	theta := m.PriorMeans()
	for i, name := range m.Names() {
		if v, ok := point[name]; ok {
			theta[i] = v
		}
	}
	return theta
}

func fitRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	log := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	m, err := buildModel(st, cfg, runID)
	if err != nil {
		return err
	}

	log.Info().Int("dim", m.Dim()).Msg("optimizing")
	start := time.Now()
	res, err := infer.MAP(context.Background(), m, infer.MAPConfig{MaxEvals: cfg.Fit.MaxEvals})
	if err != nil {
		return err
	}
	log.Info().
		Int("evals", res.Evals).
		Float64("log_prob", res.LogProb).
		Dur("elapsed", time.Since(start)).
		Msg("optimization finished")

	if err := st.SaveMAP(runID, res.Point); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tVALUE")
	for _, name := range m.Names() {
		fmt.Fprintf(w, "%s\t%.6g\n", name, res.Point[name])
	}
	return w.Flush()
}

func samplerConfig(cmd *cobra.Command, cfg *config.Config, log zerolog.Logger) infer.SamplerConfig {
	sc := infer.SamplerConfig{
		Walkers: cfg.Sampler.Walkers,
		Steps:   cfg.Sampler.Steps,
		Burn:    cfg.Sampler.Burn,
		Stretch: cfg.Sampler.Stretch,
		Workers: cfg.Sampler.Workers,
		Seed:    cfg.Sampler.Seed,
		Logger:  log,
	}
	if cmd.Flags().Changed("steps") {
		sc.Steps = steps
	}
	if cmd.Flags().Changed("burn") {
		sc.Burn = burn
	}
	if cmd.Flags().Changed("walkers") {
		sc.Walkers = walkers
	}
	if cmd.Flags().Changed("seed") {
		sc.Seed = seed
	}
	return sc
}

func sampleRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	log := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	m, err := buildModel(st, cfg, runID)
	if err != nil {
		return err
	}
	sc := samplerConfig(cmd, cfg, log)

	log.Info().Int("dim", m.Dim()).Int("steps", sc.Steps).Msg("sampling")
	start := time.Now()
	tr, err := infer.Sample(context.Background(), m, startPoint(st, m, runID), sc)
	if err != nil {
		return err
	}
	log.Info().
		Int("draws", tr.Len()).
		Float64("acceptance", tr.Acceptance()).
		Dur("elapsed", time.Since(start)).
		Msg("sampling finished")

	if err := st.SaveTrace(runID, tr); err != nil {
		return err
	}
	fmt.Print(plot.SummaryTable(tr.Summarize()))
	return nil
}

func liveRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	m, err := buildModel(st, cfg, runID)
	if err != nil {
		return err
	}

	monitor := tui.NewMonitor()
	sc := samplerConfig(cmd, cfg, zerolog.Logger{})
	sc.OnStep = monitor.OnStep

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		tr  *trace.Trace
		err error
	}
	done := make(chan result, 1)
	go func() {
		tr, err := infer.Sample(ctx, m, startPoint(st, m, runID), sc)
		done <- result{tr, err}
		monitor.Done(err)
	}()

	if _, err := tea.NewProgram(tui.NewModel(monitor, cancel)).Run(); err != nil {
		return err
	}

	res := <-done
	if res.err != nil && res.tr == nil {
		return res.err
	}
	if res.tr == nil || res.tr.Len() == 0 {
		fmt.Println("no draws kept")
		return nil
	}
	if err := st.SaveTrace(runID, res.tr); err != nil {
		return err
	}
	fmt.Print(plot.SummaryTable(res.tr.Summarize()))
	return nil
}

func summarizeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	tr, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if thin > 1 {
		tr = tr.Discard(0, thin)
	}
	fmt.Printf("draws: %d\n\n", tr.Len())
	fmt.Print(plot.SummaryTable(tr.Summarize()))

	fmt.Println("\nconvergence:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tTAU\tESS\tRHAT")
	for _, name := range tr.Names() {
		x, err := tr.Samples(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.0f\t%.3f\n",
			name,
			metrics.AutocorrTime(x),
			metrics.EffectiveSampleSize(x),
			metrics.SplitRHat(x),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(plot.LogProbTrace(tr))

	if histParam != "" {
		x, err := tr.Samples(histParam)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(plot.Histogram(histParam, x, 0))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	ds, err := st.LoadDataset(runID)
	if err != nil {
		return err
	}

	var model []float64
	if point, err := st.LoadMAP(runID); err == nil {
		m, err := buildModel(st, cfg, runID)
		if err == nil {
			theta := m.PriorMeans()
			for i, name := range m.Names() {
				if v, ok := point[name]; ok {
					theta[i] = v
				}
			}
			model, _ = m.Predict(theta)
		}
	}

	first, last := ds.Span()
	fmt.Printf("run: %s  points: %d  span: %.1f d\n\n", runID, len(ds.Time), last-first)
	fmt.Println(plot.LightCurve(ds, model))
	return nil
}

func ttvRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	truth, err := st.LoadTruth(runID)
	if err != nil {
		return err
	}

	// posterior medians when a chain exists, injected times otherwise
	var summaries map[string]float64
	if tr, err := st.LoadTrace(runID); err == nil {
		summaries = make(map[string]float64)
		for _, s := range tr.Summarize() {
			summaries[s.Name] = s.Median
		}
	}

	for i := range truth.Planets {
		times := append([]float64(nil), truth.TransitTimes[i]...)
		source := "injected"
		if summaries != nil {
			for j := range times {
				if v, ok := summaries[fmt.Sprintf("tt[%d][%d]", i, j)]; ok {
					times[j] = v
				}
			}
			source = "posterior median"
		}

		eph, err := orbit.FitEphemeris(truth.TransitInds[i], times)
		if err != nil {
			return err
		}
		fmt.Printf("planet %d (%s transit times)\n", i, source)
		fmt.Println(plot.OMinusC(eph, times, truth.TransitInds[i]))

		if len(times) >= 5 {
			residuals := make([]float64, len(times))
			for j, t := range times {
				residuals[j] = t - eph.Predict(truth.TransitInds[i][j])
			}
			span := times[len(times)-1] - times[0]
			grid := analysis.PeriodGrid(2*eph.Period, 4*span, 400)
			if best, power := analysis.BestPeriod(times, residuals, grid); power > 0 {
				fmt.Printf("strongest timing period: %.2f d (power %.1f)\n", best, power)
			}
		}
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	ds, err := st.LoadDataset(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "flux", "flux_err"}); err != nil {
		return err
	}
	for i := range ds.Time {
		row := []string{
			strconv.FormatFloat(ds.Time[i], 'f', 6, 64),
			strconv.FormatFloat(ds.Flux[i], 'g', -1, 64),
			strconv.FormatFloat(ds.FluxErr[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	ds, err := st.LoadDataset(runID)
	if err != nil {
		return err
	}

	var model []float64
	if point, err := st.LoadMAP(runID); err == nil {
		if m, err := buildModel(st, cfg, runID); err == nil {
			theta := m.PriorMeans()
			for i, name := range m.Names() {
				if v, ok := point[name]; ok {
					theta[i] = v
				}
			}
			model, _ = m.Predict(theta)
		}
	}

	out := fmt.Sprintf("%s.svg", runID)
	if err := os.WriteFile(out, []byte(export.LightCurveSVG(ds, model)), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", out)

	// per-planet timing residual diagrams, posterior medians when a
	// chain exists
	truth, err := st.LoadTruth(runID)
	if err != nil {
		return nil
	}
	var summaries map[string]float64
	if tr, err := st.LoadTrace(runID); err == nil {
		summaries = make(map[string]float64)
		for _, s := range tr.Summarize() {
			summaries[s.Name] = s.Median
		}
	}
	for i := range truth.Planets {
		times := append([]float64(nil), truth.TransitTimes[i]...)
		if summaries != nil {
			for j := range times {
				if v, ok := summaries[fmt.Sprintf("tt[%d][%d]", i, j)]; ok {
					times[j] = v
				}
			}
		}
		eph, err := orbit.FitEphemeris(truth.TransitInds[i], times)
		if err != nil {
			return err
		}
		ocOut := fmt.Sprintf("%s_oc%d.svg", runID, i)
		doc := export.OMinusCSVG(eph, times, truth.TransitInds[i])
		if err := os.WriteFile(ocOut, []byte(doc), 0644); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", ocOut)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.LoadMetadata(runID)
	if err != nil {
		return err
	}

	payload := map[string]any{"metadata": meta}
	if truth, err := st.LoadTruth(runID); err == nil {
		payload["truth"] = truth
	}
	if point, err := st.LoadMAP(runID); err == nil {
		payload["map"] = point
	}
	if tr, err := st.LoadTrace(runID); err == nil {
		payload["posterior"] = tr.Summarize()
		payload["acceptance"] = tr.Acceptance()
	}

	out := fmt.Sprintf("%s.json", runID)
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", out)
	return nil
}
