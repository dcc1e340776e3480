package stock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/retailpoint/counterd/internal/domain/errors"
	"github.com/retailpoint/counterd/internal/domain/model"
)

// TooManyRequestsError represents a rate limiting signal from the ERP.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes per-warehouse stock lookups.
type Client interface {
	Levels(ctx context.Context, itemCode string) ([]model.StockLevel, error)
}

// HTTPClient implements Client against a Frappe-style REST backend.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// binsResponse mirrors the list envelope returned by the ERP: one Bin row
// per item/warehouse pair.
type binsResponse struct {
	Data []struct {
		Warehouse string  `json:"warehouse"`
		ActualQty float64 `json:"actual_qty"`
	} `json:"data"`
}

// NewHTTPClient creates a stock client with a default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse erp url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("erp url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Levels queries the ERP for the item's on-hand quantity in every warehouse.
func (c *HTTPClient) Levels(ctx context.Context, itemCode string) ([]model.StockLevel, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/resource/Bin")
	query := endpoint.Query()
	query.Set("item_code", itemCode)
	query.Set("fields", `["warehouse","actual_qty"]`)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data binsResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		if len(data.Data) == 0 {
			return nil, domainErrors.ErrItemNotTracked
		}
		levels := make([]model.StockLevel, 0, len(data.Data))
		for _, bin := range data.Data {
			levels = append(levels, model.StockLevel{Warehouse: bin.Warehouse, Available: bin.ActualQty})
		}
		return levels, nil
	case http.StatusNotFound:
		return nil, domainErrors.ErrItemNotTracked
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("stock request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("stock error: %s", resp.Status)
	}
}

// IsNotTracked reports whether the error means the ERP has no bins for the
// item at all.
func IsNotTracked(err error) bool {
	return errors.Is(err, domainErrors.ErrItemNotTracked)
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
