// Package valhalla is a client for the Valhalla routing engine's /route
// endpoint. It turns an ordered list of stops into a single road route.
package valhalla

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwise1/travel_planner_api/util"
	"github.com/pkg/errors"
	"github.com/twpayne/go-polyline"
)

const (
	CostingAuto       = "auto"
	CostingPedestrian = "pedestrian"
	CostingBicycle    = "bicycle"

	unitsKilometers = "kilometers"
)

// ErrNoRoute is returned when Valhalla answers without any leg.
var ErrNoRoute = errors.New("valhalla: no route found")

// Valhalla shapes are encoded with six decimal places.
var shapeCodec = polyline.Codec{Dim: 2, Scale: 1e6}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ValidCosting reports whether costing is a travel mode trips may request.
func ValidCosting(costing string) bool {
	switch costing {
	case CostingAuto, CostingPedestrian, CostingBicycle:
		return true
	}
	return false
}

type location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Type string  `json:"type,omitempty"`
}

type routeRequest struct {
	Locations []location `json:"locations"`
	Costing   string     `json:"costing"`
	Units     string     `json:"units"`
}

type summary struct {
	Length float64 `json:"length"`
	Time   float64 `json:"time"`
}

type leg struct {
	Shape   string  `json:"shape"`
	Summary summary `json:"summary"`
}

type routeResponse struct {
	Trip struct {
		Legs          []leg   `json:"legs"`
		Summary       summary `json:"summary"`
		Status        int     `json:"status"`
		StatusMessage string  `json:"status_message"`
	} `json:"trip"`
}

// Route is a road route through every stop, in order.
type Route struct {
	Points          []util.Coordinate
	DistanceMeters  float64
	DurationSeconds float64
}

// Route asks Valhalla for a route visiting stops in order. Intermediate stops
// are sent as break points so every stop is actually visited.
func (c *Client) Route(ctx context.Context, stops []util.Coordinate, costing string) (Route, error) {
	if len(stops) < 2 {
		return Route{}, errors.New("valhalla: at least two stops are required")
	}
	if costing == "" {
		costing = CostingAuto
	}

	body := routeRequest{Costing: costing, Units: unitsKilometers}
	for _, s := range stops {
		body.Locations = append(body.Locations, location{Lat: s.Lat, Lon: s.Lon, Type: "break"})
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Route{}, errors.Wrap(err, "failed to marshal route request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/route", bytes.NewReader(payload))
	if err != nil {
		return Route{}, errors.Wrap(err, "failed to create route request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Route{}, errors.Wrap(err, "failed to call valhalla")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return Route{}, errors.Wrap(err, "failed to read valhalla response")
	}
	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("valhalla error: status code %d, body: %s", resp.StatusCode, raw)
	}

	var decoded routeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Route{}, errors.Wrap(err, "failed to decode valhalla response")
	}
	if len(decoded.Trip.Legs) == 0 {
		return Route{}, ErrNoRoute
	}

	route := Route{
		DistanceMeters:  decoded.Trip.Summary.Length * 1000,
		DurationSeconds: decoded.Trip.Summary.Time,
	}
	for i, l := range decoded.Trip.Legs {
		coords, _, err := shapeCodec.DecodeCoords([]byte(l.Shape))
		if err != nil {
			return Route{}, errors.Wrapf(err, "failed to decode shape of leg %d", i)
		}
		for j, p := range coords {
			// consecutive legs share their joining point
			if i > 0 && j == 0 {
				continue
			}
			route.Points = append(route.Points, util.Coordinate{Lat: p[0], Lon: p[1]})
		}
	}
	return route, nil
}
