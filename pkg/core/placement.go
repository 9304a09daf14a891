// pkg/core/placement.go
package core

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrPlacementFrozen   = errors.New("placement is frozen")
	ErrSiteOccupied      = errors.New("site already occupied")
	ErrUnitNotPlaced     = errors.New("unit has no assigned site")
	ErrPlacementBadInput = errors.New("invalid placement input")
)

// Placement maps every LidarUnit to exactly one CandidateSite. No two units
// may occupy the same site. Once frozen, assignments can no longer change;
// trajectory generation requires a frozen placement.
type Placement struct {
	sites  map[string]CandidateSite // unit ID -> site
	frozen bool
}

// NewPlacement creates an empty, mutable placement.
func NewPlacement() *Placement {
	return &Placement{sites: make(map[string]CandidateSite)}
}

// Assign binds a unit to a site, replacing any previous assignment for that
// unit. Assigning a site already held by a different unit fails.
func (p *Placement) Assign(unitID string, site CandidateSite) error {
	if p.frozen {
		return fmt.Errorf("%w: cannot assign %q", ErrPlacementFrozen, unitID)
	}
	if unitID == "" || site.ID == "" {
		return fmt.Errorf("%w: empty unit or site ID", ErrPlacementBadInput)
	}
	for id, s := range p.sites {
		if id != unitID && s.ID == site.ID {
			return fmt.Errorf("%w: site %q held by unit %q", ErrSiteOccupied, site.ID, id)
		}
	}
	p.sites[unitID] = site
	return nil
}

// Site returns the site assigned to the unit.
func (p *Placement) Site(unitID string) (CandidateSite, error) {
	site, ok := p.sites[unitID]
	if !ok {
		return CandidateSite{}, fmt.Errorf("%w: %q", ErrUnitNotPlaced, unitID)
	}
	return site, nil
}

// UnitIDs returns the placed unit IDs in sorted order.
func (p *Placement) UnitIDs() []string {
	out := make([]string, 0, len(p.sites))
	for id := range p.sites {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of placed units.
func (p *Placement) Len() int { return len(p.sites) }

// Freeze makes the placement immutable.
func (p *Placement) Freeze() { p.frozen = true }

// Frozen reports whether the placement has been frozen.
func (p *Placement) Frozen() bool { return p.frozen }

// Clone returns a mutable deep copy of the placement.
func (p *Placement) Clone() *Placement {
	c := NewPlacement()
	for id, s := range p.sites {
		c.sites[id] = s
	}
	return c
}
