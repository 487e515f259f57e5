package structure

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/san-kum/molview/internal/molecule"
)

type Format string

const (
	FormatPDB Format = "pdb"
	FormatCIF Format = "cif"
)

// FormatFromPath maps a file name or URL path to a format, ignoring a
// trailing ".gz".
func FormatFromPath(p string) (Format, error) {
	if u, err := url.Parse(p); err == nil && u.Scheme != "" {
		p = u.Path
	}
	name := strings.ToLower(path.Base(p))
	name = strings.TrimSuffix(name, ".gz")
	switch path.Ext(name) {
	case ".pdb", ".ent":
		return FormatPDB, nil
	case ".cif", ".mmcif":
		return FormatCIF, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, p)
}

// Parse dispatches to the parser for format.
func Parse(r io.Reader, format Format) (*molecule.Molecule, error) {
	switch format {
	case FormatPDB:
		return ParsePDB(r)
	case FormatCIF:
		return ParseCIF(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Progress is called as bytes arrive. total is -1 when unknown.
type Progress func(loaded, total int64)

// Options tune Open.
type Options struct {
	Client   *http.Client
	Progress Progress
	// Format overrides detection from the source name.
	Format Format
}

// Open reads and parses a structure from a local path or an http(s) URL.
func Open(ctx context.Context, source string, opts Options) (*molecule.Molecule, error) {
	format := opts.Format
	if format == "" {
		f, err := FormatFromPath(source)
		if err != nil {
			return nil, err
		}
		format = f
	}

	data, err := Fetch(ctx, source, opts)
	if err != nil {
		return nil, err
	}

	m, err := Parse(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}
	if m.Name == "" {
		m.Name = baseName(source)
	}
	return m, nil
}

// Fetch returns the (decompressed) bytes behind source.
func Fetch(ctx context.Context, source string, opts Options) ([]byte, error) {
	var (
		body  io.ReadCloser
		total int64 = -1
	)

	if isURL(source) {
		client := opts.Client
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", source, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: status %d", source, resp.StatusCode)
		}
		body, total = resp.Body, resp.ContentLength
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		if st, err := f.Stat(); err == nil {
			total = st.Size()
		}
		body = f
	}
	defer body.Close()

	var reader io.Reader = &progressReader{r: body, total: total, fn: opts.Progress}
	if strings.HasSuffix(strings.ToLower(sourcePath(source)), ".gz") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(reader)
}

type progressReader struct {
	r      io.Reader
	loaded int64
	total  int64
	fn     Progress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		if p.fn != nil {
			p.fn(p.loaded, p.total)
		}
	}
	return n, err
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func sourcePath(s string) string {
	if isURL(s) {
		if u, err := url.Parse(s); err == nil {
			return u.Path
		}
	}
	return s
}

func baseName(source string) string {
	name := path.Base(sourcePath(source))
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, path.Ext(name))
}
