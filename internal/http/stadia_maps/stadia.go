package stadiamaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bwise1/travel_planner_api/util"
	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

const (
	defaultStadiaBaseURL = "https://api.stadiamaps.com"
)

// ErrNoResults is returned by Geocode when the search matched nothing.
var ErrNoResults = errors.New("no geocoding results")

// Client handles communication with the Stadia Maps geocoding API.
type Client struct {
	BaseURL    *url.URL
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new Stadia Maps API client with default timeout.
func NewClient(apiKey string) *Client {
	baseURL, _ := url.Parse(defaultStadiaBaseURL)
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

// GeocodeQuery represents parameters for search requests.
type GeocodeQuery struct {
	Text          string   `url:"text,omitempty"`
	Size          *int     `url:"size,omitempty"`
	Layers        []string `url:"layers,omitempty,comma"`
	FocusPointLat *float64 `url:"focus.point.lat,omitempty"`
	FocusPointLon *float64 `url:"focus.point.lon,omitempty"`
}

type Feature struct {
	Type     string `json:"type"`
	Geometry *struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
	Properties struct {
		Gid                  string  `json:"gid"`
		Layer                string  `json:"layer"`
		Name                 string  `json:"name,omitempty"`
		Label                string  `json:"label,omitempty"`
		FormattedAddressLine string  `json:"formatted_address_line,omitempty"`
		CoarseLocation       string  `json:"coarse_location,omitempty"`
		Confidence           float64 `json:"confidence,omitempty"`
	} `json:"properties"`
}

// FeatureCollection is the GeoJSON body returned by the search endpoint.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Place is a resolved search result.
type Place struct {
	Name       string          `json:"name"`
	Coordinate util.Coordinate `json:"coordinate"`
}

// buildURL constructs the API URL with query parameters.
func (c *Client) buildURL(endpoint string, queryParams interface{}) (string, error) {
	rel, err := url.Parse(endpoint)
	if err != nil {
		return "", errors.Wrap(err, "parse endpoint")
	}
	u := c.BaseURL.ResolveReference(rel)

	q := u.Query()
	q.Set("api_key", c.APIKey)

	if queryParams != nil {
		v, err := query.Values(queryParams)
		if err != nil {
			return "", errors.Wrap(err, "encode query parameters")
		}
		for k, vals := range v {
			for _, val := range vals {
				q.Add(k, val)
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Search performs forward geocoding.
// Endpoint: /geocoding/v2/search
func (c *Client) Search(ctx context.Context, text string, params *GeocodeQuery) (*FeatureCollection, error) {
	if params == nil {
		params = &GeocodeQuery{}
	}
	params.Text = text

	reqURL, err := c.buildURL("/geocoding/v2/search", params)
	if err != nil {
		return nil, errors.Wrap(err, "build search URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create search request")
	}

	var result FeatureCollection
	if err := c.do(req, &result); err != nil {
		return nil, errors.Wrap(err, "execute search request")
	}
	return &result, nil
}

// Geocode returns the best match for text.
func (c *Client) Geocode(ctx context.Context, text string) (Place, error) {
	size := 1
	result, err := c.Search(ctx, text, &GeocodeQuery{Size: &size})
	if err != nil {
		return Place{}, err
	}
	for _, f := range result.Features {
		if f.Geometry == nil || len(f.Geometry.Coordinates) < 2 {
			continue
		}
		name := f.Properties.Name
		if f.Properties.FormattedAddressLine != "" {
			name = f.Properties.FormattedAddressLine
		}
		return Place{
			Name:       name,
			Coordinate: util.Coordinate{Lat: f.Geometry.Coordinates[1], Lon: f.Geometry.Coordinates[0]},
		}, nil
	}
	return Place{}, ErrNoResults
}

// do executes HTTP requests and decodes JSON responses.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "execute HTTP request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}
