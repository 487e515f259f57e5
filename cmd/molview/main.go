package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/san-kum/molview/internal/config"
	"github.com/san-kum/molview/internal/protein"
	"github.com/san-kum/molview/internal/scene"
	"github.com/san-kum/molview/internal/structure"
	"github.com/san-kum/molview/internal/viewer"
)

var (
	configFile string
	file       string
	preset     string
	verbose    bool

	// view
	backendName string
	fps         int
	noLabels    bool

	// view, svg, snapshot show
	viewWidth, viewHeight int
	svgWidth, svgHeight   int
	showWidth, showHeight int
	spinMS                float64

	outFile        string
	accessionsFile string

	// fetch
	outDir    string
	workers   int
	skipModel bool

	// stats
	bins int
	axes string

	// serve
	addr    string
	dataDir string

	// snapshot
	snapshotName string
)

// cfg is filled by the root command's PersistentPreRunE.
var cfg *config.Config

func main() {
	rootCmd := &cobra.Command{
		Use:           "molview",
		Short:         "ball-and-stick molecule viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		RunE: runView,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "molview.yaml", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVarP(&file, "file", "f", "", "structure file or URL (overrides structure.path)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "geometry preset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	viewCmd := &cobra.Command{
		Use:   "view [accession]",
		Short: "spin a molecule in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runView,
	}
	viewCmd.Flags().StringVar(&backendName, "backend", "", "viewer backend (ballstick, widget)")
	viewCmd.Flags().IntVar(&fps, "fps", 0, "frame rate")
	viewCmd.Flags().BoolVar(&noLabels, "no-labels", false, "hide element labels")
	viewCmd.Flags().IntVar(&viewWidth, "width", 100, "widget render width in cells")
	viewCmd.Flags().IntVar(&viewHeight, "height", 32, "widget render height in cells")

	sceneCmd := &cobra.Command{
		Use:   "scene",
		Short: "print the built scene graph as JSON",
		Args:  cobra.NoArgs,
		RunE:  runScene,
	}
	sceneCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "render one frame to SVG",
		Args:  cobra.NoArgs,
		RunE:  runSVG,
	}
	svgCmd.Flags().IntVar(&svgWidth, "width", config.DefaultFrameWidth, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", config.DefaultFrameHeight, "image height")
	svgCmd.Flags().Float64Var(&spinMS, "at", 0, "animation time in milliseconds")
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	fetchCmd := &cobra.Command{
		Use:   "fetch [accession]...",
		Short: "look up AlphaFold predictions and UniProt function",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFetch,
	}
	fetchCmd.Flags().StringVarP(&outDir, "out", "o", "", "download model files into this directory")
	fetchCmd.Flags().IntVar(&workers, "workers", 4, "concurrent lookups")
	fetchCmd.Flags().BoolVar(&skipModel, "no-model", false, "skip model downloads")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the protein API and frame server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")
	serveCmd.Flags().StringVar(&dataDir, "data", ".", "directory local scene sources are resolved against")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "structure statistics",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
	statsCmd.Flags().IntVar(&bins, "bins", 20, "radial profile bins")
	statsCmd.Flags().StringVar(&axes, "axes", "xy", "projection plane (xy, xz, yz)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "save and inspect built scenes",
	}
	snapshotSaveCmd := &cobra.Command{
		Use:   "save",
		Short: "build the structure and store it",
		Args:  cobra.NoArgs,
		RunE:  snapshotSave,
	}
	snapshotSaveCmd.Flags().StringVar(&snapshotName, "name", "", "snapshot name (default molecule name)")
	snapshotListCmd := &cobra.Command{
		Use:   "list",
		Short: "list snapshots",
		Args:  cobra.NoArgs,
		RunE:  snapshotList,
	}
	snapshotShowCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "draw a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotShow,
	}
	snapshotShowCmd.Flags().IntVar(&showWidth, "width", 80, "width in cells")
	snapshotShowCmd.Flags().IntVar(&showHeight, "height", 24, "height in cells")
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotListCmd, snapshotShowCmd)

	accessionsCmd := &cobra.Command{
		Use:   "accessions",
		Short: "download the reviewed UniProt accession list",
		Args:  cobra.NoArgs,
		RunE:  runAccessions,
	}
	accessionsCmd.Flags().StringVarP(&accessionsFile, "out", "o", "accessions.tsv", "output file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list geometry presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s scale %.0f  radius %.0f  bond %.0f %s\n", name, p.Scale, p.AtomRadius, p.BondWidth, p.BondColor)
			}
			return nil
		},
	}

	backendsCmd := &cobra.Command{
		Use:   "backends",
		Short: "list viewer backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range registry().Names() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(viewCmd, sceneCmd, svgCmd, fetchCmd, serveCmd, statsCmd, snapshotCmd, accessionsCmd, presetsCmd, backendsCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("molview failed", "error", err)
		os.Exit(1)
	}
}

// setup loads the config, applies the preset and flag overrides and
// installs the default logger.
func setup() error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if preset != "" {
		if err := c.ApplyPreset(preset); err != nil {
			return fmt.Errorf("%w (available: %v)", err, config.ListPresets())
		}
	}
	if file != "" {
		c.Structure.Path = file
	}
	if verbose {
		c.Log.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c
	slog.SetDefault(newLogger(os.Stderr))
	return nil
}

func newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func structureOptions(withProgress bool) structure.Options {
	opts := structure.Options{Format: structure.Format(cfg.Structure.Format)}
	if withProgress && isURL(cfg.Structure.Path) {
		opts.Progress = downloadProgress("downloading " + cfg.Structure.Path)
	}
	return opts
}

func openFunc(withProgress bool) scene.OpenFunc {
	return viewer.OpenStructure(structureOptions(withProgress))
}

// downloadProgress draws a byte progress bar on stderr, created on the
// first callback once the size is known.
func downloadProgress(desc string) structure.Progress {
	var bar *progressbar.ProgressBar
	return func(loaded, total int64) {
		if bar == nil {
			bar = progressbar.NewOptions64(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription(desc),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowBytes(true),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set64(loaded)
		if total > 0 && loaded >= total {
			_ = bar.Finish()
		}
	}
}

func registry() *viewer.Registry {
	return viewer.NewRegistry(viewer.Options{
		Open:   openFunc(false),
		Params: cfg.Params(),
		Client: protein.NewClient(cfg.Protein.API, cfg.Protein.Timeout),
		Style:  cfg.Style(),
	})
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// output opens path for writing, or stdout for "" and "-".
func output(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
