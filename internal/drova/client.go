package drova

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher defines the catalog endpoints used by the launcher.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchStationProducts(ctx context.Context, stationUUID, token string) ([]StationProduct, error)
	FetchProductsFull(ctx context.Context, token string) ([]ProductMeta, error)
	FetchLaunchDetails(ctx context.Context, stationUUID, productID, token string) (LaunchDetails, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// AuthHeader carries the station token.
const AuthHeader = "X-Auth-Token"

const (
	defaultAPIBase    = "https://services.drova.io"
	defaultUserAgent  = "drova-launcher/0.1"
	defaultTimeout    = 30 * time.Second
	maxLoggedBodySize = 512
)

// Endpoints holds path templates relative to the API base. {station} and
// {product} are replaced with path-escaped values.
type Endpoints struct {
	StationProducts string
	ProductsFull    string
	LaunchDetails   string
	StationInfo     string
	StationHardware string
}

// DefaultEndpoints returns the production path layout.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		StationProducts: "/product-manager/serverproduct/list/{station}",
		ProductsFull:    "/product-manager/product/listfull2?limit=2000",
		LaunchDetails:   "/product-manager/serverproduct/launch/{station}/{product}",
		StationInfo:     "/server-manager/servers/public/{station}",
		StationHardware: "/server-manager/hardware/list/{station}",
	}
}

// Options configure a Client.
type Options struct {
	BaseURL   string
	Endpoints Endpoints
	Timeout   time.Duration
	HTTP      *http.Client // optional; overrides Timeout
	Logger    *slog.Logger
}

// Client talks to the Drova catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	endpoints Endpoints
	http      *http.Client
	userAgent string
	log       *slog.Logger
}

// NewClient builds a Client. Empty endpoint templates fall back to the
// production layout.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTP
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   base,
		endpoints: withDefaults(opts.Endpoints),
		http:      httpClient,
		userAgent: defaultUserAgent,
		log:       logger.With("component", "drova"),
	}, nil
}

// HTTPClient exposes the underlying client so the image cache can share
// its transport.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// FetchStationProducts retrieves the products assigned to a station.
func (c *Client) FetchStationProducts(ctx context.Context, stationUUID, token string) ([]StationProduct, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []StationProduct
	path := expand(c.endpoints.StationProducts, stationUUID, "")
	if err := c.get(ctx, path, token, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchProductsFull retrieves the full product metadata catalog. An empty
// token issues an unauthenticated request.
func (c *Client) FetchProductsFull(ctx context.Context, token string) ([]ProductMeta, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []ProductMeta
	if err := c.get(ctx, c.endpoints.ProductsFull, token, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchLaunchDetails retrieves the launch descriptor of one station product.
func (c *Client) FetchLaunchDetails(ctx context.Context, stationUUID, productID, token string) (LaunchDetails, error) {
	if c == nil {
		return LaunchDetails{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(productID) == "" {
		return LaunchDetails{}, fmt.Errorf("product id required")
	}
	var payload LaunchDetails
	path := expand(c.endpoints.LaunchDetails, stationUUID, productID)
	if err := c.get(ctx, path, token, &payload); err != nil {
		return LaunchDetails{}, err
	}
	return payload, nil
}

// FetchStationInfo retrieves the public station entry.
func (c *Client) FetchStationInfo(ctx context.Context, stationUUID string) (StationInfo, error) {
	if c == nil {
		return StationInfo{}, fmt.Errorf("client is nil")
	}
	var payload StationInfo
	if err := c.get(ctx, expand(c.endpoints.StationInfo, stationUUID, ""), "", &payload); err != nil {
		return StationInfo{}, err
	}
	return payload, nil
}

// FetchStationHardware retrieves the station hardware listing.
func (c *Client) FetchStationHardware(ctx context.Context, stationUUID string) (Hardware, error) {
	if c == nil {
		return Hardware{}, fmt.Errorf("client is nil")
	}
	var payload Hardware
	if err := c.get(ctx, expand(c.endpoints.StationHardware, stationUUID, ""), "", &payload); err != nil {
		return Hardware{}, err
	}
	return payload, nil
}

// FetchStationDetails combines station info and hardware. Hardware is
// optional: its failure is logged and an empty listing is returned.
func (c *Client) FetchStationDetails(ctx context.Context, stationUUID string) (StationDetails, error) {
	info, err := c.FetchStationInfo(ctx, stationUUID)
	if err != nil {
		return StationDetails{}, err
	}
	hw, err := c.FetchStationHardware(ctx, stationUUID)
	if err != nil {
		c.log.Debug("hardware info unavailable", "error", err)
		hw = Hardware{}
	}
	return StationDetails{Name: info.Name, Description: info.Description, Hardware: hw}, nil
}

func (c *Client) get(ctx context.Context, path, token string, dest any) error {
	rel, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse path %q: %w", path, err)
	}
	return c.doURL(ctx, http.MethodGet, rel, token, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, token string, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel).String()
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return &TransportError{URL: reqURL, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if token != "" {
		req.Header.Set(AuthHeader, token)
	}

	c.log.Debug("http get", "url", reqURL, "auth", token != "")
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBodySize))
		c.log.Debug("http error", "url", reqURL, "status", resp.StatusCode, "body", string(body))
		return &StatusError{URL: reqURL, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return &DecodeError{URL: reqURL, Err: err}
	}
	return nil
}

func expand(template, stationUUID, productID string) string {
	out := strings.ReplaceAll(template, "{station}", url.PathEscape(stationUUID))
	return strings.ReplaceAll(out, "{product}", url.PathEscape(productID))
}

func withDefaults(e Endpoints) Endpoints {
	d := DefaultEndpoints()
	if strings.TrimSpace(e.StationProducts) == "" {
		e.StationProducts = d.StationProducts
	}
	if strings.TrimSpace(e.ProductsFull) == "" {
		e.ProductsFull = d.ProductsFull
	}
	if strings.TrimSpace(e.LaunchDetails) == "" {
		e.LaunchDetails = d.LaunchDetails
	}
	if strings.TrimSpace(e.StationInfo) == "" {
		e.StationInfo = d.StationInfo
	}
	if strings.TrimSpace(e.StationHardware) == "" {
		e.StationHardware = d.StationHardware
	}
	return e
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
