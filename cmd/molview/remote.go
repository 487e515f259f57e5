package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/molview/internal/api"
	"github.com/san-kum/molview/internal/protein"
	"github.com/san-kum/molview/internal/structure"
)

type lookup struct {
	accession  string
	prediction *protein.Prediction
	function   string
	saved      string
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	af := protein.NewAlphaFold(cfg.Protein.AlphaFold, cfg.Protein.Timeout)
	up := protein.NewUniProt(cfg.Protein.UniProt, cfg.Protein.Timeout)

	if outDir != "" && !skipModel {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
	}

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("fetching"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	results := make([]lookup, len(args))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, acc := range args {
		g.Go(func() error {
			defer bar.Add(1)
			res, err := fetchOne(ctx, af, up, acc)
			if err != nil {
				return fmt.Errorf("%s: %w", acc, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	_ = bar.Finish()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCESSION\tGENE\tORGANISM\tNAME\tMODEL")
	for _, r := range results {
		model := r.prediction.CifURL
		if r.saved != "" {
			model = r.saved
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.accession,
			r.prediction.Gene,
			r.prediction.OrganismScientificName,
			r.prediction.UniprotDescription,
			model,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, r := range results {
		fmt.Println()
		fmt.Println(titleStyle.Render(r.accession))
		fmt.Println(textStyle.Render(r.function))
	}
	return nil
}

func fetchOne(ctx context.Context, af *protein.AlphaFold, up *protein.UniProt, accession string) (lookup, error) {
	res := lookup{accession: accession}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := af.Prediction(gctx, accession)
		res.prediction = p
		return err
	})
	g.Go(func() error {
		fn, err := up.Function(gctx, accession)
		if err != nil {
			slog.Warn("no function annotation", "accession", accession, "error", err)
			fn = protein.NoFunction
		}
		res.function = fn
		return nil
	})
	if err := g.Wait(); err != nil {
		return res, err
	}

	if outDir == "" || skipModel {
		return res, nil
	}
	if res.prediction.CifURL == "" {
		return res, protein.ErrNoModelURL
	}
	data, err := structure.Fetch(ctx, res.prediction.CifURL, structure.Options{})
	if err != nil {
		return res, err
	}
	res.saved = filepath.Join(outDir, accession+".cif")
	if err := os.WriteFile(res.saved, data, 0644); err != nil {
		return res, err
	}
	slog.Debug("model saved", "accession", accession, "path", res.saved, "bytes", len(data))
	return res, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	listen := addr
	if listen == "" {
		listen = cfg.Server.Addr
	}
	srv := api.New(api.Config{
		Addr:           listen,
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DataDir:        dataDir,
		FrameFPS:       cfg.Server.FrameFPS,
		FrameWidth:     cfg.Server.FrameWidth,
		FrameHeight:    cfg.Server.FrameHeight,
	},
		protein.NewAlphaFold(cfg.Protein.AlphaFold, cfg.Protein.Timeout),
		protein.NewUniProt(cfg.Protein.UniProt, cfg.Protein.Timeout),
		openFunc(false),
		cfg.Params(),
	)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runAccessions(cmd *cobra.Command, args []string) error {
	up := protein.NewUniProt(cfg.Protein.UniProt, 0)

	out, err := output(accessionsFile)
	if err != nil {
		return err
	}
	defer out.Close()

	bar := progressbar.DefaultBytes(-1, "downloading accessions")
	n, err := up.ReviewedAccessions(commandContext(cmd), &progressWriter{w: out, bar: bar})
	if err != nil {
		return err
	}
	_ = bar.Finish()
	slog.Info("accessions saved", "path", accessionsFile, "bytes", n)
	return nil
}

type progressWriter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	_ = p.bar.Add(n)
	return n, err
}
