package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/molview/internal/render"
	"github.com/san-kum/molview/internal/tui"
	"github.com/san-kum/molview/internal/viewer"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(80)
)

func runView(cmd *cobra.Command, args []string) error {
	name := backendName
	if name == "" {
		name = cfg.Viewer.Backend
	}
	backend, err := registry().Get(name)
	if err != nil {
		return err
	}

	switch b := backend.(type) {
	case *viewer.Widget:
		if len(args) == 0 {
			return fmt.Errorf("the %s backend needs an accession", b.Name())
		}
		return viewWidget(commandContext(cmd), b, args[0])
	default:
		if len(args) > 0 {
			cfg.Structure.Path = args[0]
		}
		return viewBallStick()
	}
}

// viewBallStick runs the terminal UI. Logs go to a file under the storage
// directory while the alternate screen is up.
func viewBallStick() error {
	if err := os.MkdirAll(cfg.Storage.Dir, 0755); err != nil {
		return err
	}
	logPath := filepath.Join(cfg.Storage.Dir, "molview.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	prev := slog.Default()
	slog.SetDefault(newLogger(f))
	defer slog.SetDefault(prev)

	rate := fps
	if rate <= 0 {
		rate = cfg.Viewer.FPS
	}
	m := tui.New(openFunc(false), cfg.Params(), tui.Options{
		Title:  "molview",
		Source: cfg.Structure.Path,
		FPS:    rate,
		Labels: cfg.Viewer.Labels && !noLabels,
	})
	return tui.Run(m)
}

// viewWidget fetches accession through the protein API and prints one
// frame with the page text.
func viewWidget(ctx context.Context, w *viewer.Widget, accession string) error {
	if err := w.Load(ctx, accession); err != nil {
		return err
	}
	raster := render.NewBraille(viewWidth, viewHeight)
	if err := w.Render(raster); err != nil {
		return err
	}

	page := w.Page()
	fmt.Println(titleStyle.Render(page.ProteinName()) + "  " + dimStyle.Render(accession))
	fmt.Println()
	fmt.Print(raster.String())
	fmt.Println()
	fmt.Println(textStyle.Render(page.Description()))
	return nil
}
