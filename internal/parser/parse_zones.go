package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterstace/simplefeatures/geom"
)

var ErrBadZones = errors.New("invalid exclusion zones")

// ParseZones reads exclusion zones as WKT geometries, one per line. Blank
// lines and lines starting with # are ignored. Only areal geometries make
// sense as zones; anything else is rejected.
func (p *Parser) ParseZones(r io.Reader) ([]geom.Geometry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var zones []geom.Geometry
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		g, err := geom.UnmarshalWKT(text)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadZones, line, err)
		}
		if !g.IsPolygon() && !g.IsMultiPolygon() {
			return nil, fmt.Errorf("%w: line %d: %s is not an areal geometry", ErrBadZones, line, g.Type())
		}
		zones = append(zones, g)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadZones, err)
	}

	if p.logger != nil {
		p.logger.Debug("Parsed exclusion zones", "count", len(zones))
	}
	return zones, nil
}
