package protein

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	UniProtAPI = "https://rest.uniprot.org/uniprotkb/"

	reviewedQuery = "stream?compressed=true&fields=accession%2Cid&format=tsv&query=(reviewed:true)%20AND%20(annotation_score:5)"

	NoFunction = "No function description found."
)

const (
	functionStart = "CC   -!- FUNCTION:"
	functionStop  = "CC   -!- CATALYTIC ACTIVITY:"
	evidenceMark  = " {ECO:"
)

type UniProt struct {
	baseURL string
	client  *http.Client
	// ECOFilter keeps only function lines mentioning one of these codes.
	ECOFilter []string
}

func NewUniProt(baseURL string, timeout time.Duration) *UniProt {
	if baseURL == "" {
		baseURL = UniProtAPI
	}
	return &UniProt{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// Function returns the FUNCTION comment of the flat-file entry.
func (u *UniProt) Function(ctx context.Context, accession string) (string, error) {
	body, err := get(ctx, u.client, u.baseURL+accession+".txt")
	if err != nil {
		return "", err
	}
	return ExtractFunction(bytes.NewReader(body), u.ECOFilter)
}

// ExtractFunction collects lines from the first FUNCTION comment up to and
// including the line that carries its evidence code or a following
// CATALYTIC ACTIVITY comment.
func ExtractFunction(r io.Reader, ecoFilter []string) (string, error) {
	var lines []string
	inSection := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, functionStart) {
			inSection = true
		}
		if !inSection {
			continue
		}
		if len(line) > 5 {
			lines = append(lines, strings.TrimSpace(line[5:]))
		} else {
			lines = append(lines, "")
		}
		if strings.Contains(line, functionStop) || strings.Contains(line, evidenceMark) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	if len(ecoFilter) > 0 {
		kept := lines[:0]
		for _, l := range lines {
			for _, eco := range ecoFilter {
				if strings.Contains(l, eco) {
					kept = append(kept, l)
					break
				}
			}
		}
		lines = kept
	}

	summary := strings.Join(lines, " ")
	if summary == "" {
		return NoFunction, nil
	}
	return summary, nil
}

// ReviewedAccessions streams the TSV of reviewed entries with annotation
// score 5 into w and returns the number of bytes written.
func (u *UniProt) ReviewedAccessions(ctx context.Context, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+reviewedQuery, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	// Ask for the raw stream; decompression happens below.
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := u.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("uniprot request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{URL: req.URL.String(), Code: resp.StatusCode}
	}

	body := bufio.NewReader(resp.Body)
	var src io.Reader = body
	if isGzip(resp.Header.Get("Content-Encoding"), body) {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return 0, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer gz.Close()
		src = gz
	}
	return io.Copy(w, src)
}

// isGzip trusts the header, then sniffs the magic bytes.
func isGzip(encoding string, r *bufio.Reader) bool {
	if encoding == "gzip" {
		return true
	}
	magic, err := r.Peek(2)
	return err == nil && magic[0] == 0x1f && magic[1] == 0x8b
}
