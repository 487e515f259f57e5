package protein

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const AlphaFoldAPI = "https://alphafold.ebi.ac.uk/api/prediction/"

// Prediction is one entry of the AlphaFold prediction list.
type Prediction struct {
	EntryID                string `json:"entryId"`
	Gene                   string `json:"gene"`
	UniprotAccession       string `json:"uniprotAccession"`
	UniprotDescription     string `json:"uniprotDescription"`
	OrganismScientificName string `json:"organismScientificName"`
	CifURL                 string `json:"cifUrl"`
	PdbURL                 string `json:"pdbUrl"`
	LatestVersion          int    `json:"latestVersion"`
}

type AlphaFold struct {
	baseURL string
	client  *http.Client
}

func NewAlphaFold(baseURL string, timeout time.Duration) *AlphaFold {
	if baseURL == "" {
		baseURL = AlphaFoldAPI
	}
	return &AlphaFold{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

// Prediction returns the first prediction listed for accession.
func (a *AlphaFold) Prediction(ctx context.Context, accession string) (*Prediction, error) {
	body, err := get(ctx, a.client, a.baseURL+accession)
	if err != nil {
		return nil, err
	}
	var list []Prediction
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("unexpected response format from AlphaFold: %w", err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoPrediction, accession)
	}
	return &list[0], nil
}
