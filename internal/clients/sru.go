package clients

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// SRUClient queries the SRU bibliographic service for article metadata and
// for newspaper co-occurrence counts (spec §4.6's match_txt_entities_newspapers).
type SRUClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewSRUClient constructs an SRUClient.
func NewSRUClient(hc *http.Client, baseURL string) *SRUClient {
	return &SRUClient{HTTPClient: hc, BaseURL: baseURL}
}

type sruRecord struct {
	Date string `xml:"recordData>metadata>dc>date"`
}

type sruResponse struct {
	NumberOfRecords int         `xml:"numberOfRecords"`
	Records         []sruRecord `xml:"records>record"`
}

// PublicationYear fetches the article metadata for uniqueKey and returns
// the four-digit publication year parsed from its Dublin Core date.
func (c *SRUClient) PublicationYear(ctx context.Context, uniqueKey string) (int, error) {
	q := url.Values{}
	q.Set("operation", "searchRetrieve")
	q.Set("x-collection", "DDD_artikel")
	q.Set("query", "uniqueKey="+uniqueKey)
	reqURL := c.BaseURL + "?" + q.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return 0, err
	}

	var resp sruResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("sru metadata: parsing xml: %w", err)
	}
	if len(resp.Records) == 0 || len(resp.Records[0].Date) < 4 {
		return 0, fmt.Errorf("sru metadata: no date found")
	}
	year, err := strconv.Atoi(resp.Records[0].Date[:4])
	if err != nil {
		return 0, fmt.Errorf("sru metadata: invalid year: %w", err)
	}
	return year, nil
}

// CooccurrenceCount issues a newspaper co-occurrence query
// (prefLabel AND (e1 OR e2 ...)) and returns the result count.
func (c *SRUClient) CooccurrenceCount(ctx context.Context, prefLabel string, others []string) (int, error) {
	if len(others) == 0 {
		return 0, nil
	}
	query := prefLabel + " AND (" + joinOR(others) + ")"
	q := url.Values{}
	q.Set("operation", "searchRetrieve")
	q.Set("x-collection", "DDD_artikel")
	q.Set("query", query)
	reqURL := c.BaseURL + "?" + q.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return 0, err
	}

	var resp sruResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("sru cooccurrence: parsing xml: %w", err)
	}
	return resp.NumberOfRecords, nil
}

func (c *SRUClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sru service: building request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sru service: %w: %s", ErrSRUUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sru service: %w: status %d", ErrSRUUnavailable, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func joinOR(terms []string) string {
	out := ""
	for i, t := range terms {
		if i > 0 {
			out += " OR "
		}
		out += t
	}
	return out
}
