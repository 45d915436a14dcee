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
	"reflect"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// SchemaEntry is the declared metadata for one netCDF variable.
type SchemaEntry struct {
	// IncludeInMission marks the variable for propagation to
	// mission timeseries/profile aggregation products. Mission
	// variables must be scalar or one-dimensional.
	IncludeInMission bool

	// MissionType, when set, overrides Type for values written to
	// mission aggregation products (typically narrowing doubles to
	// floats to keep mission files small).
	MissionType TypeCode

	// Type is the physical storage type. TypeNone defers to the
	// value supplied at materialization time.
	Type TypeCode

	// Attrs holds the descriptive attributes (units, standard_name,
	// comment, _FillValue, axis, flags).
	Attrs map[string]interface{}

	// DimInfo binds the variable to dimension roles. nil marks a
	// scalar; mission variables carry at most one role.
	DimInfo []DimRole
}

// clone returns a deep copy so registry entries never alias caller
// maps.
func (e *SchemaEntry) clone() *SchemaEntry {
	c := *e
	c.Attrs = make(map[string]interface{}, len(e.Attrs))
	for k, v := range e.Attrs {
		c.Attrs[k] = v
	}
	c.DimInfo = append([]DimRole(nil), e.DimInfo...)
	return &c
}

// RegisterOutcome reports what Register did with an entry.
type RegisterOutcome int

const (
	// RegisterCreated: the name was new, or re-registered with an
	// identical record.
	RegisterCreated RegisterOutcome = iota
	// RegisterReplaced: the name existed with a different record
	// and was overwritten (a warning was logged).
	RegisterReplaced
	// RegisterRejected: the entry violated a schema invariant and
	// was not installed.
	RegisterRejected
)

// Contribution is the schema fragment a sensor or logger extension
// supplies at process start.
type Contribution struct {
	SchemaAdditions map[string]SchemaEntry
}

// SchemaTable is the central registry mapping variable names to
// their declared metadata. It is read-heavy after startup: all
// mutation happens during init-time registration and the one-time
// compliance pass, never concurrently with file writing.
type SchemaTable struct {
	log       logrus.FieldLogger
	entries   map[string]*SchemaEntry
	coordVars map[DimRole]string
	checked   bool
}

// NewSchemaTable returns a table holding the static variable
// declarations.
func NewSchemaTable(log logrus.FieldLogger) *SchemaTable {
	t := &SchemaTable{log: log}
	t.Reset()
	return t
}

// Reset restores the initial declared state, discarding extension
// contributions and compliance rewrites. Batch drivers processing
// several missions in one process call this between runs.
func (t *SchemaTable) Reset() {
	t.entries = make(map[string]*SchemaEntry, len(staticMetadata))
	for name, e := range staticMetadata {
		entry := e
		t.entries[name] = entry.clone()
	}
	t.coordVars = nil
	t.checked = false
}

// normalizeEntry applies the declaration policies in place:
// one-dimensional mission variables, description renamed to comment,
// qc_flag units expanded into the canonical flag pair, PSU rewritten
// to its dimensionless form. Idempotent.
func normalizeEntry(name string, e *SchemaEntry) error {
	if e.IncludeInMission && len(e.DimInfo) > 1 {
		return fmt.Errorf("mission variable %s has improper number of dimensions %v; must be one-dimensional",
			name, e.DimInfo)
	}
	if e.Attrs == nil {
		e.Attrs = map[string]interface{}{}
	}
	if d, ok := e.Attrs["description"]; ok {
		delete(e.Attrs, "description")
		e.Attrs["comment"] = d
	}
	if u, ok := e.Attrs["units"].(string); ok {
		if u == "qc_flag" {
			delete(e.Attrs, "units")
			e.Attrs["flag_values"] = QCFlagValues
			e.Attrs["flag_meanings"] = QCFlagMeanings
		} else if strings.Contains(u, "PSU") {
			// PSU is dimensionless; the standard wants 1e-3.
			e.Attrs["units"] = strings.ReplaceAll(u, "PSU", "1e-3")
		}
	}
	return nil
}

// Register validates, normalizes and installs the entry under name.
// Replacing an existing entry with a semantically different one logs
// a warning; invariant violations reject the entry.
func (t *SchemaTable) Register(name string, e SchemaEntry) (RegisterOutcome, error) {
	entry := e.clone()
	if err := normalizeEntry(name, entry); err != nil {
		t.log.Error(err)
		return RegisterRejected, err
	}
	if prev, ok := t.entries[name]; ok && !reflect.DeepEqual(prev, entry) {
		t.log.Warnf("Replacing nc metadata for %s (%v) (%v)", name, prev, entry)
		t.entries[name] = entry
		return RegisterReplaced, nil
	}
	t.entries[name] = entry
	return RegisterCreated, nil
}

// Lookup returns the entry declared for name.
func (t *SchemaTable) Lookup(name string) (*SchemaEntry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Len returns the number of declared variables.
func (t *SchemaTable) Len() int { return len(t.entries) }

// Names returns the sorted declared variable names.
func (t *SchemaTable) Names() []string {
	o := make([]string, 0, len(t.entries))
	for name := range t.entries {
		o = append(o, name)
	}
	sort.Strings(o)
	return o
}

// AddContributions absorbs extension schema fragments. The first
// writer wins: static declarations, and earlier extensions, always
// take priority over later dynamic contributions. Entries are
// normalized by the compliance pass that follows contribution merge.
func (t *SchemaTable) AddContributions(contribs map[string]Contribution) {
	modules := make([]string, 0, len(contribs))
	for m := range contribs {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	if t.checked && len(modules) > 0 {
		t.log.Debugf("Late contributions from %v; compliance pass must be re-run", modules)
	}
	for _, m := range modules {
		for name, e := range contribs[m].SchemaAdditions {
			if _, ok := t.entries[name]; ok {
				continue
			}
			entry := e
			t.entries[name] = entry.clone()
		}
	}
}

// Coordinates returns the space-joined T,X,Y,Z coordinate variable
// list computed for a dimension role by the compliance pass.
func (t *SchemaTable) Coordinates(role DimRole) (string, bool) {
	c, ok := t.coordVars[role]
	return c, ok
}
