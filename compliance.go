/*
Copyright © 2024 the GliderNC authors.
This file is part of GliderNC.

GliderNC is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GliderNC is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GliderNC.  If not, see <http://www.gnu.org/licenses/>.
*/

package glidernc

import (
	"fmt"
	"sort"
	"strings"
)

// axisOrder is the NODC-mandated coordinate ordering.
var axisOrder = []string{"T", "X", "Y", "Z"}

// EnsureCompliance maps over the combined metadata table and ensures
// attributes, units and names comply with the declared conventions:
// every entry is re-normalized (catching entries added without going
// through Register), axis-tagged variables are collected per
// dimension role into ordered coordinate strings, and the
// coordinates attribute is attached to the CTD-results vectors.
// Invariant violations accumulate into the returned error; any
// non-nil result means the table is misconfigured and would corrupt
// every output file, so callers must treat it as fatal.
//
// The pass is idempotent: it is called once after all static and
// extension registrations are in, and defensively again when late
// contributions merge, where it is a no-op.
func (t *SchemaTable) EnsureCompliance(dims *DimRegistry) error {
	var problems []string

	coordVars := map[DimRole]map[string]string{}
	for _, name := range t.Names() {
		e := t.entries[name]
		if err := normalizeEntry(name, e); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		axis, ok := e.Attrs["axis"].(string)
		if !ok {
			continue
		}
		if !e.IncludeInMission {
			t.log.Warnf("%s declares an axis (%s) but is not declared to be included in mission products!",
				name, axis)
			continue
		}
		if len(e.DimInfo) != 1 {
			continue
		}
		role := e.DimInfo[0]
		if coordVars[role] == nil {
			coordVars[role] = map[string]string{}
		}
		coordVars[role][axis] = name
	}

	// Collapse each role's axis map into a space-joined coordinate
	// string; order matters to NODC.
	t.coordVars = map[DimRole]string{}
	for role, axes := range coordVars {
		var parts []string
		for _, axis := range axisOrder {
			if v, ok := axes[axis]; ok {
				parts = append(parts, v)
			}
		}
		t.coordVars[role] = strings.Join(parts, " ")
	}

	// To be CF compliant per NODC only one coordinate system may
	// appear in a file, so coordinates are attached to the derived
	// CTD results only, not generalized to every role with axes.
	if coords, ok := t.coordVars[CTDResultsInfo]; ok && coords != "" {
		for _, e := range t.entries {
			if len(e.DimInfo) != 1 || e.DimInfo[0] != CTDResultsInfo {
				continue
			}
			if _, hasAxis := e.Attrs["axis"]; hasAxis {
				continue // a primary axis carries no coordinates
			}
			e.Attrs["coordinates"] = coords
		}
	}

	// Every registered time variable must be declared and included
	// in mission products so data can be decimated against it.
	dimNames := make([]string, 0, len(dims.timeVars))
	for d := range dims.timeVars {
		dimNames = append(dimNames, d)
	}
	sort.Strings(dimNames)
	for _, d := range dimNames {
		timeVar := dims.timeVars[d]
		e, ok := t.entries[timeVar]
		if !ok {
			problems = append(problems, fmt.Sprintf("undeclared time var %s", timeVar))
			continue
		}
		if !e.IncludeInMission {
			t.log.Warnf("Time var %s not declared for inclusion in mission products, as required -- fixing", timeVar)
			e.IncludeInMission = true
		}
	}

	// Instrument variables referenced by dimension roles must exist.
	roles := make([]string, 0, len(dims.instrumentVars))
	for role := range dims.instrumentVars {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)
	for _, role := range roles {
		iv := dims.instrumentVars[DimRole(role)]
		if _, ok := t.entries[iv]; !ok {
			problems = append(problems, fmt.Sprintf("undeclared instrument var %s", iv))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("problems in the metadata table definition: %s", strings.Join(problems, "; "))
	}
	t.checked = true
	return nil
}

// InitTables absorbs extension contributions and runs the compliance
// pass over the combined table. It is the startup-time consistency
// check: a non-nil error means the installation's metadata is broken
// and no file should be written.
func InitTables(t *SchemaTable, dims *DimRegistry, contribs map[string]Contribution) error {
	t.AddContributions(contribs)
	return t.EnsureCompliance(dims)
}
