package marketdata

// Package marketdata adapts an upstream pricing feed into the MarketData port.
// Feed payload shapes vary by vendor, so field locations are configured as
// JMESPath expressions rather than hardcoded struct tags.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/quantbridge/tradeops/internal/domain/model"
)

// Evaluator abstracts JMESPath operations for testability.
type Evaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements Evaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// FieldPaths locates quote fields inside one feed item. Zero values fall back
// to the conventional snake_case names.
type FieldPaths struct {
	Items     string // path to the item array in the response document
	ID        string
	LastPrice string
	ChgNet1D  string
	ChgPct1D  string
	ChgPct5D  string
	ChgPct1M  string
	ChgPct6M  string
	ChgPctYTD string
}

func (p FieldPaths) withDefaults() FieldPaths {
	def := func(s *string, fallback string) {
		if *s == "" {
			*s = fallback
		}
	}
	def(&p.Items, "items")
	def(&p.ID, "id")
	def(&p.LastPrice, "last_price")
	def(&p.ChgNet1D, "chg_net_1d")
	def(&p.ChgPct1D, "chg_pct_1d")
	def(&p.ChgPct5D, "chg_pct_5d")
	def(&p.ChgPct1M, "chg_pct_1m")
	def(&p.ChgPct6M, "chg_pct_6m")
	def(&p.ChgPctYTD, "chg_pct_ytd")
	return p
}

// FeedOptions configures an HTTPFeed.
type FeedOptions struct {
	BaseURL    string
	APIKey     string
	Paths      FieldPaths
	HTTPClient *http.Client // optional
}

// HTTPFeed is a MarketData implementation over a JSON pricing endpoint.
type HTTPFeed struct {
	baseURL string
	apiKey  string
	paths   FieldPaths
	client  *http.Client
	eval    Evaluator
}

// NewHTTPFeed constructs an HTTPFeed and validates the configured paths.
func NewHTTPFeed(opts FeedOptions) (*HTTPFeed, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("marketdata: base URL is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	eval := jmespathLibEvaluator{}
	paths := opts.Paths.withDefaults()
	for _, expr := range []string{
		paths.Items, paths.ID, paths.LastPrice, paths.ChgNet1D, paths.ChgPct1D,
		paths.ChgPct5D, paths.ChgPct1M, paths.ChgPct6M, paths.ChgPctYTD,
	} {
		if err := eval.Validate(expr); err != nil {
			return nil, fmt.Errorf("marketdata: invalid field path %q: %w", expr, err)
		}
	}

	return &HTTPFeed{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		paths:   paths,
		client:  client,
		eval:    eval,
	}, nil
}

// Quotes fetches snapshots for the given identifiers. Identifiers the feed
// does not know are omitted from the result.
func (f *HTTPFeed) Quotes(ctx context.Context, ids []string) (map[string]model.Quote, error) {
	items, err := f.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string]model.Quote, len(ids))
	for _, item := range items {
		id := f.str(item, f.paths.ID)
		if id == "" {
			continue
		}
		out[id] = model.Quote{
			CUSIP:     id,
			LastPrice: f.num(item, f.paths.LastPrice),
			ChgNet1D:  f.num(item, f.paths.ChgNet1D),
			ChgPct1D:  f.num(item, f.paths.ChgPct1D),
		}
	}
	return out, nil
}

// Indicators fetches macro rows for the given tickers, tagging each with its
// dashboard group.
func (f *HTTPFeed) Indicators(ctx context.Context, tickers []string) ([]model.MacroIndicator, error) {
	items, err := f.fetch(ctx, tickers)
	if err != nil {
		return nil, err
	}

	out := make([]model.MacroIndicator, 0, len(items))
	for _, item := range items {
		id := f.str(item, f.paths.ID)
		if id == "" {
			continue
		}
		out = append(out, model.MacroIndicator{
			Ticker:    id,
			LastPrice: f.num(item, f.paths.LastPrice),
			ChgNet1D:  f.num(item, f.paths.ChgNet1D),
			ChgPct1D:  f.num(item, f.paths.ChgPct1D),
			ChgPct5D:  f.num(item, f.paths.ChgPct5D),
			ChgPct1M:  f.num(item, f.paths.ChgPct1M),
			ChgPct6M:  f.num(item, f.paths.ChgPct6M),
			ChgPctYTD: f.num(item, f.paths.ChgPctYTD),
			Group:     GroupFor(id),
		})
	}
	return out, nil
}

func (f *HTTPFeed) fetch(ctx context.Context, ids []string) ([]any, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := url.Values{"ids": {strings.Join(ids, ",")}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/quotes?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	if f.apiKey != "" {
		req.Header.Set("X-Api-Key", f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var doc any
	if decErr := json.NewDecoder(resp.Body).Decode(&doc); decErr != nil {
		return nil, fmt.Errorf("decode feed response: %w", decErr)
	}

	raw, err := f.eval.Evaluate(f.paths.Items, doc)
	if err != nil {
		return nil, fmt.Errorf("extract items: %w", err)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("feed items path %q did not yield an array", f.paths.Items)
	}
	return items, nil
}

func (f *HTTPFeed) str(item any, expr string) string {
	v, err := f.eval.Evaluate(expr, item)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (f *HTTPFeed) num(item any, expr string) float64 {
	v, err := f.eval.Evaluate(expr, item)
	if err != nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		fv, _ := n.Float64()
		return fv
	default:
		return 0
	}
}

// GroupFor returns the macro dashboard group for a ticker, or empty when the
// ticker is not part of the fixed layout.
func GroupFor(ticker string) string {
	for _, g := range model.MacroGroups {
		for _, t := range g.Tickers {
			if t == ticker {
				return g.Name
			}
		}
	}
	return ""
}
