package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/windlidar/campaign-planner/internal/terrain"
	"github.com/windlidar/campaign-planner/internal/util"
)

var ErrBadRaster = errors.New("invalid raster")

const defaultNodata = -9999

// ParseRaster reads an ESRI ASCII grid and returns a terrain surface.
// Header keywords are case-insensitive; xllcenter/yllcenter headers are
// converted to the corner convention. Data rows run north to south in the
// file and are flipped so row 0 is the southernmost.
func (p *Parser) ParseRaster(r io.Reader) (*terrain.Surface, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	header := map[string]float64{
		"nodata_value": defaultNodata,
	}
	dims := map[string]int{}
	var rows, cols int
	var dataLines [][]string

	for scanner.Scan() {
		fields := util.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		key := util.NormalizeKey(fields[0])
		if len(fields) == 2 && isHeaderKey(key) {
			// grid dimensions must be whole numbers, the rest are floats
			if key == "ncols" || key == "nrows" {
				v, err := parseIntField(key, fields[1])
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrBadRaster, err)
				}
				dims[key] = v
				continue
			}
			v, err := parseFloatField(key, fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBadRaster, err)
			}
			header[key] = v
			continue
		}

		// first non-header line starts the elevation block
		dataLines = append(dataLines, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRaster, err)
	}

	for _, required := range []string{"ncols", "nrows"} {
		if _, ok := dims[required]; !ok {
			return nil, fmt.Errorf("%w: missing %s header", ErrBadRaster, required)
		}
	}
	if _, ok := header["cellsize"]; !ok {
		return nil, fmt.Errorf("%w: missing cellsize header", ErrBadRaster)
	}
	cols = dims["ncols"]
	rows = dims["nrows"]
	cellSize := header["cellsize"]
	nodata := header["nodata_value"]

	originX, originY, err := origin(header, cellSize)
	if err != nil {
		return nil, err
	}

	if len(dataLines) != rows {
		return nil, fmt.Errorf("%w: expected %d data rows, got %d", ErrBadRaster, rows, len(dataLines))
	}

	// file rows are north first; flip so index 0 is the southern edge
	samples := make([]float64, rows*cols)
	for fileRow, fields := range dataLines {
		if len(fields) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrBadRaster, fileRow, len(fields), cols)
		}
		gridRow := rows - 1 - fileRow
		for col, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad elevation %q at row %d col %d", ErrBadRaster, s, fileRow, col)
			}
			samples[gridRow*cols+col] = v
		}
	}

	surface, err := terrain.NewSurface(samples, rows, cols, originX, originY, cellSize, nodata)
	if err != nil {
		return nil, err
	}
	if p.logger != nil {
		p.logger.Debug("Parsed elevation raster", "rows", rows, "cols", cols, "cellSize", cellSize)
	}
	return surface, nil
}

func isHeaderKey(key string) bool {
	switch key {
	case "ncols", "nrows", "xllcorner", "yllcorner", "xllcenter", "yllcenter", "cellsize", "nodata_value":
		return true
	}
	return false
}

// origin resolves the lower-left corner from either corner or cell-center
// headers.
func origin(header map[string]float64, cellSize float64) (x, y float64, err error) {
	switch {
	case hasKeys(header, "xllcorner", "yllcorner"):
		return header["xllcorner"], header["yllcorner"], nil
	case hasKeys(header, "xllcenter", "yllcenter"):
		return header["xllcenter"] - cellSize/2, header["yllcenter"] - cellSize/2, nil
	}
	return 0, 0, fmt.Errorf("%w: missing xllcorner/yllcorner headers", ErrBadRaster)
}

func hasKeys(m map[string]float64, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}
