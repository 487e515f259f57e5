package protein

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/render"
)

const uniprotEntry = `ID   TEST_HUMAN              Reviewed;         120 AA.
AC   P12345;
CC   -!- FUNCTION: Catalyzes the first step of a very important pathway
CC       and binds zinc. {ECO:0000269|PubMed:123}.
CC   -!- CATALYTIC ACTIVITY:
CC       Reaction=ATP + H2O = ADP + phosphate;
CC   -!- SUBCELLULAR LOCATION: Cytoplasm.
`

func TestPageApply(t *testing.T) {
	tests := []struct {
		name     string
		meta     *Metadata
		wantDesc string
		wantName string
	}{
		{"full", &Metadata{Name: "Kinase", Description: "Does things."}, "Does things.", "Protein: Kinase"},
		{"no description", &Metadata{Name: "Kinase"}, NoDescription, "Protein: Kinase"},
		{"no name", &Metadata{Description: "Does things."}, "Does things.", NoName},
		{"nil", nil, NoDescription, NoName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(nil)
			p.Apply(tt.meta)
			if p.Description() != tt.wantDesc {
				t.Errorf("description = %q, want %q", p.Description(), tt.wantDesc)
			}
			if p.ProteinName() != tt.wantName {
				t.Errorf("name = %q, want %q", p.ProteinName(), tt.wantName)
			}
		})
	}
}

func TestClientMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/protein/P12345":
			json.NewEncoder(w).Encode(map[string]string{
				"name":        "Kinase",
				"description": "Does things.",
				"modelUrl":    "http://example.org/model.cif",
			})
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/protein/", time.Second)
	meta, err := c.Metadata(context.Background(), "P12345")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	want := Metadata{Accession: "P12345", Name: "Kinase", Description: "Does things.", ModelURL: "http://example.org/model.cif"}
	if *meta != want {
		t.Errorf("got %+v, want %+v", *meta, want)
	}

	_, err = c.Metadata(context.Background(), "Q00000")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("expected 404 StatusError, got %v", err)
	}

	if _, err := c.Structure(context.Background(), ""); !errors.Is(err, ErrNoModelURL) {
		t.Errorf("expected ErrNoModelURL, got %v", err)
	}
}

func TestAlphaFoldPrediction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/P12345":
			w.Write([]byte(`[{"uniprotAccession":"P12345","uniprotDescription":"Kinase","cifUrl":"https://x/AF-P12345-F1-model_v4.cif","gene":"KIN1"},{"uniprotAccession":"P12345","cifUrl":"second"}]`))
		case "/EMPTY":
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`{"detail":"not a list"}`))
		}
	}))
	defer srv.Close()

	af := NewAlphaFold(srv.URL+"/", time.Second)
	p, err := af.Prediction(context.Background(), "P12345")
	if err != nil {
		t.Fatalf("Prediction: %v", err)
	}
	if p.UniprotDescription != "Kinase" || p.Gene != "KIN1" || !strings.HasSuffix(p.CifURL, "model_v4.cif") {
		t.Errorf("unexpected prediction %+v", p)
	}

	if _, err := af.Prediction(context.Background(), "EMPTY"); !errors.Is(err, ErrNoPrediction) {
		t.Errorf("expected ErrNoPrediction, got %v", err)
	}
	if _, err := af.Prediction(context.Background(), "OBJ"); err == nil {
		t.Error("expected error for non-list body")
	}
}

func TestExtractFunction(t *testing.T) {
	got, err := ExtractFunction(strings.NewReader(uniprotEntry), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "-!- FUNCTION: Catalyzes the first step of a very important pathway and binds zinc. {ECO:0000269|PubMed:123}."
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}

	filtered, _ := ExtractFunction(strings.NewReader(uniprotEntry), []string{"ECO:0000269"})
	if filtered != "and binds zinc. {ECO:0000269|PubMed:123}." {
		t.Errorf("filtered = %q", filtered)
	}

	none, _ := ExtractFunction(strings.NewReader("ID   X\nCC   -!- SUBUNIT: Monomer.\n"), nil)
	if none != NoFunction {
		t.Errorf("expected fallback, got %q", none)
	}
}

func TestUniProtFunction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/P12345.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(uniprotEntry))
	}))
	defer srv.Close()

	u := NewUniProt(srv.URL+"/", time.Second)
	got, err := u.Function(context.Background(), "P12345")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "binds zinc") || strings.Contains(got, "Reaction=") {
		t.Errorf("unexpected function %q", got)
	}
	if _, err := u.Function(context.Background(), "NOPE"); err == nil {
		t.Error("expected error for missing entry")
	}
}

func TestReviewedAccessions(t *testing.T) {
	const tsv = "Entry\tEntry Name\nP12345\tTEST_HUMAN\nQ67890\tOTHER_MOUSE\n"
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	zw.Write([]byte(tsv))
	zw.Close()

	for _, compressed := range []bool{true, false} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("format") != "tsv" {
				t.Errorf("unexpected query %q", r.URL.RawQuery)
			}
			if compressed {
				w.Write(gz.Bytes())
				return
			}
			w.Write([]byte(tsv))
		}))

		var out bytes.Buffer
		u := NewUniProt(srv.URL+"/", time.Second)
		n, err := u.ReviewedAccessions(context.Background(), &out)
		srv.Close()
		if err != nil {
			t.Fatalf("compressed=%v: %v", compressed, err)
		}
		if out.String() != tsv || n != int64(len(tsv)) {
			t.Errorf("compressed=%v: got %q (%d bytes)", compressed, out.String(), n)
		}
	}
}

func TestTraceAndColorize(t *testing.T) {
	m := &molecule.Molecule{Atoms: []molecule.Atom{
		{Name: "N", Element: "N", ChainID: "A"},
		{Name: "CA", Element: "C", ChainID: "A", BFactor: 95, Position: molecule.Vec3{X: 0}},
		{Name: "CA", Element: "C", ChainID: "A", BFactor: 70, Position: molecule.Vec3{X: 3.8}},
		{Name: "CA", Element: "C", ChainID: "B", BFactor: 40, Position: molecule.Vec3{X: 7.6}},
		{Name: "CA", Element: "Ca", ChainID: "B", Position: molecule.Vec3{X: 20}},
	}}
	tr := Trace(m)
	if len(tr.Atoms) != 3 {
		t.Fatalf("expected 3 trace atoms, got %d", len(tr.Atoms))
	}
	if len(tr.Bonds) != 1 {
		t.Errorf("expected 1 bond within chain A, got %d", len(tr.Bonds))
	}

	spec := Colorize(tr, Spectrum)
	if spec.Atoms[0].Color != (molecule.Color{B: 1}) || spec.Atoms[2].Color != (molecule.Color{R: 1}) {
		t.Errorf("spectrum ends = %v, %v", spec.Atoms[0].Color, spec.Atoms[2].Color)
	}
	if tr.Atoms[0].Color == spec.Atoms[0].Color {
		t.Error("Colorize must not modify its input")
	}

	conf := Colorize(tr, PLDDT)
	if conf.Atoms[0].Color != (molecule.Color{B: 1}) || conf.Atoms[2].Color != (molecule.Color{R: 1}) {
		t.Errorf("plddt clamps = %v, %v", conf.Atoms[0].Color, conf.Atoms[2].Color)
	}

	noCA := &molecule.Molecule{Atoms: []molecule.Atom{{Name: "O1", Element: "O"}}}
	if Trace(noCA) != noCA {
		t.Error("models without CA should be returned unchanged")
	}
}

func TestParseColorScheme(t *testing.T) {
	for in, want := range map[string]ColorScheme{"rainbow": Spectrum, "lDDT": PLDDT, "": Spectrum} {
		if got, err := ParseColorScheme(in); err != nil || got != want {
			t.Errorf("%q: got %v, %v", in, got, err)
		}
	}
	if _, err := ParseColorScheme("chain"); err == nil {
		t.Error("expected error")
	}
}

func TestFetcherUpdate(t *testing.T) {
	cif, err := os.ReadFile("../../testdata/diglycine.cif")
	if err != nil {
		t.Fatal(err)
	}

	var base string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/protein/GOOD":
			json.NewEncoder(w).Encode(Metadata{Name: "Diglycine", Description: "Two glycines.", ModelURL: base + "/files/good.cif"})
		case "/api/protein/NOMODEL":
			json.NewEncoder(w).Encode(Metadata{Name: "Ghost", ModelURL: base + "/files/missing.cif"})
		case "/files/good.cif":
			w.Write(cif)
		case "/api/protein/BROKEN":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	base = srv.URL

	var logs bytes.Buffer
	rec := render.NewRecorder()
	widget := NewStructureWidget(rec)
	page := NewPage(widget)
	f := NewFetcher(NewClient(srv.URL+"/api/protein/", time.Second), page)
	f.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	ctx := context.Background()

	if err := f.Update(ctx, "GOOD"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if page.ProteinName() != "Protein: Diglycine" || page.Description() != "Two glycines." {
		t.Errorf("page = %q / %q", page.ProteinName(), page.Description())
	}
	if widget.Residues() != 2 {
		t.Errorf("expected 2 residues, got %d", widget.Residues())
	}
	frame, ok := rec.Last()
	if !ok || frame.Spheres != 2 || frame.Boxes != 1 || frame.Labels != 0 {
		t.Errorf("frame = %+v", frame)
	}

	// Metadata failure: nothing changes.
	if err := f.Update(ctx, "BROKEN"); err == nil {
		t.Error("expected error for 500")
	}
	if page.ProteinName() != "Protein: Diglycine" {
		t.Errorf("page changed after metadata failure: %q", page.ProteinName())
	}
	if !strings.Contains(logs.String(), "error fetching protein data") {
		t.Errorf("metadata failure not logged: %s", logs.String())
	}

	// Model failure: page text moves on, previous model stays.
	if err := f.Update(ctx, "NOMODEL"); err == nil {
		t.Error("expected error for missing model")
	}
	if page.ProteinName() != "Protein: Ghost" || page.Description() != NoDescription {
		t.Errorf("page = %q / %q", page.ProteinName(), page.Description())
	}
	if widget.Residues() != 2 || len(rec.Frames()) != 1 {
		t.Errorf("previous model should remain: residues=%d frames=%d", widget.Residues(), len(rec.Frames()))
	}
	if !strings.Contains(logs.String(), "error loading the model") {
		t.Errorf("model failure not logged: %s", logs.String())
	}
}

func TestWidgetSetStyleLogsFailure(t *testing.T) {
	var logs bytes.Buffer
	w := NewStructureWidget(nil)
	w.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	w.SetStyle(Style{Color: PLDDT})
	if logs.Len() != 0 {
		t.Errorf("no model, nothing to log: %s", logs.String())
	}

	w.trace = &molecule.Molecule{}
	w.SetStyle(Style{Color: Spectrum})
	if !strings.Contains(logs.String(), "error applying style") || !strings.Contains(logs.String(), "no atoms") {
		t.Errorf("rebuild failure not logged: %s", logs.String())
	}
	if w.Scene().Root.Len() != 0 {
		t.Errorf("scene should be empty after a failed rebuild, has %d children", w.Scene().Root.Len())
	}
}

func TestWidgetZoomTo(t *testing.T) {
	cif, err := os.ReadFile("../../testdata/diglycine.cif")
	if err != nil {
		t.Fatal(err)
	}
	w := NewStructureWidget(nil)
	if err := w.AddModel(string(cif), "cif"); err != nil {
		t.Fatal(err)
	}
	w.SetStyle(Style{Color: PLDDT})
	w.ZoomTo()

	r := w.Scene().Root.Bounds()
	d := w.Scene().Camera.Distance()
	if d <= r {
		t.Errorf("camera at %v is inside the model bounds %v", d, r)
	}
	if err := w.Render(); err != nil {
		t.Errorf("Render without a target: %v", err)
	}
	if err := w.AddModel("not a model", "cif"); err == nil {
		t.Error("expected parse error")
	}
}
