// Package ensembl provides a minimal client for the Ensembl REST API.
package ensembl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public Ensembl REST endpoint.
const DefaultBaseURL = "https://rest.ensembl.org"

// DefaultTimeout bounds a single REST request.
const DefaultTimeout = 10 * time.Second

// ErrNotFound is returned when the API answers but has nothing for the query.
var ErrNotFound = errors.New("ensembl: not found")

// XRef is one record of the xrefs/symbol endpoint.
type XRef struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Gene is the lookup/symbol record of a gene.
type Gene struct {
	ID          string `json:"id"`
	Symbol      string `json:"display_name"`
	Description string `json:"description"`
	Chromosome  string `json:"seq_region_name"`
	Biotype     string `json:"biotype"`
	Species     string `json:"species"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Strand      int    `json:"strand"`
}

// Client queries symbol cross-references and sequences from Ensembl.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the REST endpoint, e.g. for GRCh37 or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new REST API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LookupSymbol returns the Ensembl identifiers for a gene symbol in an organism.
// An empty result is reported as ErrNotFound.
func (c *Client) LookupSymbol(ctx context.Context, organism, symbol string) ([]XRef, error) {
	u := fmt.Sprintf("%s/xrefs/symbol/%s/%s?content-type=application/json",
		c.baseURL, url.PathEscape(organism), url.PathEscape(symbol))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var xrefs []XRef
	if err := json.NewDecoder(body).Decode(&xrefs); err != nil {
		return nil, fmt.Errorf("decode xrefs response: %w", err)
	}

	// Keep only records that carry an identifier
	out := xrefs[:0]
	for _, x := range xrefs {
		if x.ID != "" {
			out = append(out, x)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no identifier for %s in %s", ErrNotFound, symbol, organism)
	}
	return out, nil
}

// LookupGene returns the location and annotation of a gene symbol in an organism.
func (c *Client) LookupGene(ctx context.Context, organism, symbol string) (*Gene, error) {
	u := fmt.Sprintf("%s/lookup/symbol/%s/%s?content-type=application/json",
		c.baseURL, url.PathEscape(organism), url.PathEscape(symbol))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var g Gene
	if err := json.NewDecoder(body).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	if g.ID == "" {
		return nil, fmt.Errorf("%w: no gene for %s in %s", ErrNotFound, symbol, organism)
	}
	g.Description = trimSourceTag(g.Description)
	return &g, nil
}

// trimSourceTag drops the " [Source:HGNC Symbol;Acc:...]" suffix of descriptions.
func trimSourceTag(desc string) string {
	if i := strings.Index(desc, " [Source:"); i >= 0 {
		desc = desc[:i]
	}
	return strings.TrimSpace(desc)
}

// FetchSequence returns the genomic sequence for an Ensembl identifier as plain text.
func (c *Client) FetchSequence(ctx context.Context, id string) (string, error) {
	u := fmt.Sprintf("%s/sequence/id/%s?content-type=text/plain", c.baseURL, url.PathEscape(id))

	body, err := c.get(ctx, u)
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read sequence response: %w", err)
	}
	seq := strings.ToUpper(strings.TrimSpace(string(raw)))
	if seq == "" {
		return "", fmt.Errorf("%w: empty sequence for %s", ErrNotFound, id)
	}
	return seq, nil
}

func (c *Client) get(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("REST API request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: REST API error %d: %s", ErrNotFound, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, fmt.Errorf("REST API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp.Body, nil
}
