package export

import (
	"encoding/xml"
	"fmt"
	"io"
)

// motionProgram is the per-unit command file the scanner controllers load.
// Times are whole milliseconds on the shared campaign timeline.
type motionProgram struct {
	XMLName xml.Name        `xml:"motionProgram"`
	Unit    string          `xml:"unit,attr"`
	Site    string          `xml:"site,attr"`
	CycleMs int64           `xml:"cycleMs,attr"`
	Steps   []motionCommand `xml:"step"`
}

type motionCommand struct {
	Point     string  `xml:"point,attr"`
	Azimuth   float64 `xml:"azimuth"`
	Elevation float64 `xml:"elevation"`
	MoveMs    int64   `xml:"moveMs"`
	ArrivalMs int64   `xml:"arrivalMs"`
	DwellMs   int64   `xml:"dwellMs"`
}

// WriteMotionXML writes one unit's scan program.
func WriteMotionXML(w io.Writer, c Campaign, unitID string) error {
	plan, ok := c.Plans[unitID]
	if !ok {
		return fmt.Errorf("no trajectory plan for unit %s", unitID)
	}

	prog := motionProgram{
		Unit:    plan.UnitID,
		Site:    plan.SiteID,
		CycleMs: plan.CycleTime().Milliseconds(),
	}
	for _, step := range plan.Steps {
		prog.Steps = append(prog.Steps, motionCommand{
			Point:     step.PointID,
			Azimuth:   step.Azimuth,
			Elevation: step.Elevation,
			MoveMs:    step.MoveTime.Milliseconds(),
			ArrivalMs: step.Arrival.Milliseconds(),
			DwellMs:   step.Dwell.Milliseconds(),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(prog)
}
