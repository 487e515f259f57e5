package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/molview/internal/analysis"
	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/render"
	"github.com/san-kum/molview/internal/scene"
	"github.com/san-kum/molview/internal/storage"
	"github.com/san-kum/molview/internal/structure"
	"github.com/san-kum/molview/internal/viewer"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func loadMolecule(ctx context.Context) (*molecule.Molecule, error) {
	m, err := structure.Open(ctx, cfg.Structure.Path, structureOptions(true))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", cfg.Structure.Path, err)
	}
	return m, nil
}

func buildGroup(ctx context.Context) (*molecule.Molecule, *scene.Group, error) {
	m, err := loadMolecule(ctx)
	if err != nil {
		return nil, nil, err
	}
	g := scene.NewGroup()
	if err := scene.Build(g, m, cfg.Params()); err != nil {
		return nil, nil, err
	}
	return m, g, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	_, g, err := buildGroup(commandContext(cmd))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}

	out, err := output(outFile)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func runSVG(cmd *cobra.Command, args []string) error {
	svg := render.NewSVG(svgWidth, svgHeight)
	v := viewer.NewContext(svg, nil, openFunc(true), cfg.Params())
	v.Resize(svgWidth, svgHeight)
	if err := v.Load(commandContext(cmd), cfg.Structure.Path); err != nil {
		return err
	}

	start := time.Now()
	if err := v.Frame(start); err != nil {
		return err
	}
	if spinMS > 0 {
		if err := v.Frame(start.Add(time.Duration(spinMS * float64(time.Millisecond)))); err != nil {
			return err
		}
	}

	out, err := output(outFile)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = svg.WriteTo(out)
	return err
}

func runStats(cmd *cobra.Command, args []string) error {
	m, err := loadMolecule(commandContext(cmd))
	if err != nil {
		return err
	}

	counts := analysis.ElementCounts(m)
	lengths := analysis.BondLengths(m)
	sum := analysis.Summarize(lengths)

	fmt.Println(titleStyle.Render(m.Name) + "  " + dimStyle.Render(cfg.Structure.Path))
	fmt.Printf("formula: %s\n", analysis.Formula(counts))
	fmt.Printf("atoms:   %d\n", len(m.Atoms))
	fmt.Printf("bonds:   %d\n\n", len(m.Bonds))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ELEMENT\tCOUNT\tCOLOR")
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%d\t%s\n", c.Element, c.Count, structure.ElementColor(c.Element).Hex())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if sum.Count > 0 {
		fmt.Printf("\nbond lengths: min %.3f  max %.3f  mean %.3f  sd %.3f Å\n\n", sum.Min, sum.Max, sum.Mean, sum.StdDev)
		fmt.Println(asciigraph.Plot(lengths,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("bond length (Å) by bond"),
		))
	}

	if profile, shell := analysis.RadialProfile(m, bins); len(profile) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(profile,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("atoms per %.2f Å shell from centroid", shell)),
		))
	}

	fmt.Printf("\nprojection (%s):\n", axes)
	fmt.Println(analysis.ProjectionToASCII(m, axes, 60, 20))
	return nil
}

func bondStats(m *molecule.Molecule) map[string]float64 {
	s := analysis.Summarize(analysis.BondLengths(m))
	if s.Count == 0 {
		return nil
	}
	return map[string]float64{
		"bond_min":    s.Min,
		"bond_max":    s.Max,
		"bond_mean":   s.Mean,
		"bond_stddev": s.StdDev,
	}
}

func snapshotSave(cmd *cobra.Command, args []string) error {
	m, g, err := buildGroup(commandContext(cmd))
	if err != nil {
		return err
	}
	st := storage.New(cfg.Storage.Dir)
	if err := st.Init(); err != nil {
		return err
	}

	name := snapshotName
	if name == "" {
		name = m.Name
	}
	id, err := st.Save(storage.Snapshot{
		Name:   name,
		Source: cfg.Structure.Path,
		Group:  g,
		Stats:  bondStats(m),
	})
	if err != nil {
		return err
	}
	fmt.Printf("snapshot id: %s\n", id)
	return nil
}

func snapshotList(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.Storage.Dir)
	snaps, err := st.List()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("no snapshots found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tATOMS\tBONDS\tSOURCE")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			s.ID,
			s.Name,
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.Atoms,
			s.Bonds,
			s.Source,
		)
	}
	return w.Flush()
}

func snapshotShow(cmd *cobra.Command, args []string) error {
	st := storage.New(cfg.Storage.Dir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	g, err := st.LoadScene(args[0])
	if err != nil {
		return err
	}

	raster := render.NewBraille(showWidth, showHeight)
	labels := render.NewLabels(showWidth, showHeight)
	s := scene.New(render.Aspect(raster, showWidth, showHeight))
	s.Root = g
	for _, surface := range []render.Surface{raster, labels} {
		if err := surface.Draw(s); err != nil {
			return err
		}
	}

	fmt.Println(titleStyle.Render(meta.Name) + "  " + dimStyle.Render(meta.Timestamp.Format(time.RFC3339)))
	fmt.Printf("source: %s  atoms: %d  bonds: %d\n", meta.Source, meta.Atoms, meta.Bonds)
	if len(meta.Stats) > 0 {
		keys := make([]string, 0, len(meta.Stats))
		for k, v := range meta.Stats {
			keys = append(keys, fmt.Sprintf("%s=%.3f", k, v))
		}
		sort.Strings(keys)
		fmt.Println(dimStyle.Render(strings.Join(keys, "  ")))
	}
	fmt.Println()
	fmt.Print(labels.Compose(raster.String()))
	return nil
}
