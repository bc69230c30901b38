package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const sheetsBase = "https://sheets.googleapis.com/v4/spreadsheets"

// SheetSource fetches the live sheet through the Google Sheets values
// endpoint. Read-only; an API key is enough for a link-shared sheet.
type SheetSource struct {
	Client        *http.Client
	SpreadsheetID string
	Range         string // e.g. "Scholarships!A:AZ"
	APIKey        string
}

func NewSheetSource(spreadsheetID, sheetRange, apiKey string) *SheetSource {
	return &SheetSource{
		Client:        &http.Client{Timeout: 30 * time.Second},
		SpreadsheetID: spreadsheetID,
		Range:         sheetRange,
		APIKey:        apiKey,
	}
}

func (s *SheetSource) Name() string { return "sheet" }

type sheetValuesResponse struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

func (s *SheetSource) Fetch(ctx context.Context) ([]string, [][]string, error) {
	if s.SpreadsheetID == "" || s.APIKey == "" {
		return nil, nil, fmt.Errorf("sheet source: spreadsheet id and api key required")
	}

	u := fmt.Sprintf("%s/%s/values/%s?key=%s",
		sheetsBase,
		url.PathEscape(s.SpreadsheetID),
		url.PathEscape(s.Range),
		url.QueryEscape(s.APIKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, nil, fmt.Errorf("sheets api status %d: %s", resp.StatusCode, string(body))
	}

	var decoded sheetValuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, nil, fmt.Errorf("decode sheet response: %w", err)
	}
	if len(decoded.Values) == 0 {
		return nil, nil, fmt.Errorf("sheet %s range %s is empty", s.SpreadsheetID, s.Range)
	}

	return decoded.Values[0], decoded.Values[1:], nil
}
