package gpsmap

import (
	"strings"

	"github.com/carnetphoto/carnet/pkg/generate"
	"github.com/carnetphoto/carnet/pkg/geo"
)

// City is one requested marker: the text sent to the geocoder, the label
// drawn next to the marker and an optional forced label position.
type City struct {
	Query string
	Label string

	// Anchor forces the label quadrant. Nil picks it from the marker's
	// position relative to the map center.
	Anchor *LabelAnchor
}

// LabelAnchor places a city label relative to its marker, as unit offsets:
// H is +1 east of the marker, -1 west; V is +1 north, -1 south. A zero axis
// keeps the label centered on that axis.
type LabelAnchor struct {
	H, V int
}

// compassAnchors maps the accepted position tokens. O is French ouest.
var compassAnchors = map[string]LabelAnchor{
	"N":  {0, 1},
	"S":  {0, -1},
	"E":  {1, 0},
	"O":  {-1, 0},
	"NE": {1, 1},
	"NO": {-1, 1},
	"SE": {1, -1},
	"SO": {-1, -1},
}

// ParseCity parses one city entry of the form "query[:label[:position]]",
// e.g. "Annecy", "74290:Menthon", "Talloires::SE". An empty label part
// falls back to the query text.
func ParseCity(s string) (City, error) {
	parts := strings.SplitN(s, ":", 3)

	c := City{Query: strings.TrimSpace(parts[0])}
	if c.Query == "" {
		return City{}, generate.Validationf("empty city entry %q", s)
	}
	c.Label = c.Query
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		c.Label = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		token := strings.ToUpper(strings.TrimSpace(parts[2]))
		anchor, ok := compassAnchors[token]
		if !ok {
			return City{}, generate.Validationf("bad label position %q for city %s (use N, S, E, O, NE, NO, SE, SO)", parts[2], c.Query)
		}
		c.Anchor = &anchor
	}
	return c, nil
}

// ParseCities parses a whole city list, failing on the first bad entry.
func ParseCities(entries []string) ([]City, error) {
	cities := make([]City, 0, len(entries))
	for _, e := range entries {
		c, err := ParseCity(e)
		if err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, nil
}

// anchorAt resolves the label anchor for a marker at the given spot. Without
// a forced position the label leans toward the map center, so it stays on
// the canvas for markers near the edge.
func (c City) anchorAt(at geo.Point, extent geo.BBox) LabelAnchor {
	if c.Anchor != nil {
		return *c.Anchor
	}
	center := extent.Center()
	a := LabelAnchor{H: 1, V: 1}
	if at.X >= center.X {
		a.H = -1
	}
	if at.Y >= center.Y {
		a.V = -1
	}
	return a
}
