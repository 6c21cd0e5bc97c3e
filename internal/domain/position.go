package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Position is a geographic point. It wraps orb.Point, so X is longitude and
// Y is latitude; use Lat and Lng rather than indexing.
type Position struct {
	orb.Point
}

// NewPosition builds a Position from latitude and longitude in degrees.
func NewPosition(lat, lng float64) Position {
	return Position{Point: orb.Point{lng, lat}}
}

// decimal matches a plain decimal number, optionally with an exponent,
// followed by the end of input or by whitespace and an annotation such as
// the "N" in "19.07 N".
var decimal = regexp.MustCompile(`^([+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?)(?:\s.*)?$`)

// ParsePosition parses latitude and longitude strings.
// Each value must be a decimal number; surrounding whitespace and a trailing
// whitespace-separated annotation are ignored. Go literal forms such as
// "1_9.07" or "0x1p4" are rejected. ok is false unless both values parse to
// finite numbers.
func ParsePosition(lat, lng string) (Position, bool) {
	la, ok := parseDecimal(lat)
	if !ok {
		return Position{}, false
	}
	ln, ok := parseDecimal(lng)
	if !ok {
		return Position{}, false
	}
	return NewPosition(la, ln), true
}

func parseDecimal(s string) (float64, bool) {
	m := decimal.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

// Lng returns the longitude in degrees.
func (p Position) Lng() float64 { return p.Point.Lon() }

// LatLng formats the position as "lat,lng" with the shortest exact
// representation of each value.
func (p Position) LatLng() string {
	return strconv.FormatFloat(p.Lat(), 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng(), 'f', -1, 64)
}

// MarshalJSON encodes the position as {"lat":..,"lng":..}, the literal shape
// map widgets accept.
func (p Position) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 48)
	b = append(b, `{"lat":`...)
	b = strconv.AppendFloat(b, p.Lat(), 'f', -1, 64)
	b = append(b, `,"lng":`...)
	b = strconv.AppendFloat(b, p.Lng(), 'f', -1, 64)
	b = append(b, '}')
	return b, nil
}

// UnmarshalJSON decodes the {"lat":..,"lng":..} shape written by MarshalJSON.
func (p *Position) UnmarshalJSON(data []byte) error {
	var raw struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = NewPosition(raw.Lat, raw.Lng)
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
