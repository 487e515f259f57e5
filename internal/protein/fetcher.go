package protein

import (
	"context"
	"fmt"
	"log/slog"
)

// Fetcher updates a page from the protein API.
type Fetcher struct {
	Client *Client
	Page   *Page
	Style  Style
	Logger *slog.Logger
}

func NewFetcher(c *Client, p *Page) *Fetcher {
	return &Fetcher{Client: c, Page: p, Style: Style{Color: Spectrum}, Logger: slog.Default()}
}

// Update loads metadata for accession into the page, then its model into
// the widget. A metadata failure leaves the page untouched. A model failure
// leaves the previous model on the widget but the page text already shows
// the new protein. Every failure is logged and returned.
func (f *Fetcher) Update(ctx context.Context, accession string) error {
	log := f.Logger
	if log == nil {
		log = slog.Default()
	}

	meta, err := f.Client.Metadata(ctx, accession)
	if err != nil {
		log.Error("error fetching protein data", "accession", accession, "error", err)
		return fmt.Errorf("fetching protein data: %w", err)
	}
	f.Page.Apply(meta)

	if err := f.loadModel(ctx, meta.ModelURL); err != nil {
		log.Error("error loading the model", "accession", accession, "url", meta.ModelURL, "error", err)
		return fmt.Errorf("loading model: %w", err)
	}
	log.Debug("protein updated", "accession", accession, "name", meta.Name)
	return nil
}

func (f *Fetcher) loadModel(ctx context.Context, modelURL string) error {
	w := f.Page.Widget
	if w == nil {
		return nil
	}
	data, err := f.Client.Structure(ctx, modelURL)
	if err != nil {
		return err
	}
	if err := w.AddModel(data, "cif"); err != nil {
		return err
	}
	w.SetStyle(f.Style)
	w.ZoomTo()
	return w.Render()
}
