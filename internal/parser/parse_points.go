package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/windlidar/campaign-planner/internal/util"
	"github.com/windlidar/campaign-planner/pkg/core"
)

var ErrBadPoints = errors.New("invalid measurement points")

// ParsePoints reads measurement points from CSV with columns id,x,y,z.
// A header row is skipped when the first field is not numeric. Duplicate
// point IDs are rejected, since IDs key every downstream report.
func (p *Parser) ParsePoints(r io.Reader) ([]core.MeasurementPoint, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPoints, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrBadPoints)
	}

	start := 0
	if isPointHeader(records[0]) {
		start = 1
	}

	seen := make(map[string]bool)
	var points []core.MeasurementPoint
	for line, rec := range records[start:] {
		if len(rec) != 4 {
			return nil, fmt.Errorf("%w: line %d has %d fields, expected 4", ErrBadPoints, start+line+1, len(rec))
		}

		id := util.TrimQuotes(rec[0])
		if id == "" {
			return nil, fmt.Errorf("%w: line %d has an empty id", ErrBadPoints, start+line+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate point id %q", ErrBadPoints, id)
		}
		seen[id] = true

		x, err := parseFloatField("x", rec[1])
		if err != nil {
			return nil, fmt.Errorf("%w: point %s: %v", ErrBadPoints, id, err)
		}
		y, err := parseFloatField("y", rec[2])
		if err != nil {
			return nil, fmt.Errorf("%w: point %s: %v", ErrBadPoints, id, err)
		}
		z, err := parseFloatField("z", rec[3])
		if err != nil {
			return nil, fmt.Errorf("%w: point %s: %v", ErrBadPoints, id, err)
		}

		points = append(points, core.MeasurementPoint{
			ID:       id,
			Position: core.Position3D{X: x, Y: y, Z: z},
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrBadPoints)
	}

	if p.logger != nil {
		p.logger.Debug("Parsed measurement points", "count", len(points))
	}
	return points, nil
}

func isPointHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	_, err := parseFloatField("x", rec[len(rec)-1])
	return err != nil
}
