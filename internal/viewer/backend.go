package viewer

import (
	"context"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/protein"
	"github.com/san-kum/molview/internal/render"
	"github.com/san-kum/molview/internal/scene"
	"github.com/san-kum/molview/internal/structure"
)

// Backend is a way of turning a source into pictures.
type Backend interface {
	Name() string
	Load(ctx context.Context, source string) error
	Render(target render.Surface) error
}

// OpenStructure returns an OpenFunc reading PDB or mmCIF files and URLs.
func OpenStructure(opts structure.Options) scene.OpenFunc {
	return func(ctx context.Context, source string) (*molecule.Molecule, error) {
		return structure.Open(ctx, source, opts)
	}
}

// Widget shows proteins by accession through the protein API.
type Widget struct {
	page    *protein.Page
	widget  *protein.StructureWidget
	fetcher *protein.Fetcher
}

func NewWidget(client *protein.Client, style protein.Style) *Widget {
	w := protein.NewStructureWidget(nil)
	page := protein.NewPage(w)
	f := protein.NewFetcher(client, page)
	f.Style = style
	return &Widget{page: page, widget: w, fetcher: f}
}

func (w *Widget) Name() string { return "widget" }

// Load treats source as an accession.
func (w *Widget) Load(ctx context.Context, source string) error {
	return w.fetcher.Update(ctx, source)
}

func (w *Widget) Render(target render.Surface) error {
	if target == nil {
		return ErrNoSurface
	}
	return w.widget.RenderTo(target)
}

// Page exposes the text shown alongside the widget.
func (w *Widget) Page() *protein.Page { return w.page }
