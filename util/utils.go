package util

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/twpayne/go-polyline"
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Slugify lower-cases s, keeps ASCII letters, digits, '-' and '_', and turns
// whitespace into dashes.
func Slugify(s string) string {
	var buf bytes.Buffer

	for _, r := range strings.TrimSpace(s) {
		switch {
		case r > unicode.MaxASCII:
			continue
		case unicode.IsLetter(r):
			buf.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r), r == '_', r == '-':
			buf.WriteRune(r)
		case unicode.IsSpace(r):
			buf.WriteRune('-')
		}
	}

	return buf.String()
}

// Coordinate represents a latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lon float64 `json:"lon" bson:"lon"`
}

// EncodeRoute encodes coordinates as a Google polyline (precision 1e5).
func EncodeRoute(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}
	pts := make([][]float64, len(coords))
	for i, c := range coords {
		pts[i] = []float64{c.Lat, c.Lon}
	}
	return string(polyline.EncodeCoords(pts))
}

func DecodeRoute(shape string) ([]Coordinate, error) {
	decoded, _, err := polyline.DecodeCoords([]byte(shape))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline %w", err)
	}
	coords := make([]Coordinate, len(decoded))
	for i, p := range decoded {
		coords[i] = Coordinate{Lat: p[0], Lon: p[1]}
	}
	return coords, nil
}
