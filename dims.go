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

	"github.com/sirupsen/logrus"
)

// DimRole names a class of per-file dimension: which sensor or event
// stream a set of vectors belongs to. Each role is bound to a
// concrete dimension name per output file; many roles may share one
// concrete dimension (all truck-sampled sensors index the same
// engineering sample points) while others need their own (CTD
// results truncated by QC).
type DimRole string

// Built-in dimension roles and their default concrete names.
const (
	TrajectoryInfo DimRole = "trajectory_info"
	GPSInfo        DimRole = "gps_info_info"
	GCEventInfo    DimRole = "gc_event_info"
	GCStateInfo    DimRole = "gc_state_info"
	SGDataInfo     DimRole = "sg_data_info"
	CTDResultsInfo DimRole = "ctd_results_info"

	DimTrajectory  = "trajectory" // for CF compliance
	DimGPSInfo     = "gps_info"   // rather than 'gps_time'
	DimGCEvent     = "gc_event"
	DimGCState     = "gc_state"
	DimSGDataPoint = "sg_data_point" // rather than 'time'
	DimCTDDataPoint = "ctd_data_point"

	// SGTimeVar is the legacy name of the truck time variable.
	// Should have been sg_time but so it goes.
	SGTimeVar  = "time"
	CTDTimeVar = "ctd_time"
)

// DimRegistry is the static default-binding table: for each
// registered role, the default concrete dimension name, the time
// variable indexing that dimension, whether the role's vectors are
// raw data (dropped and rebuilt on reprocessing) and an optional
// instrument-description variable.
type DimRegistry struct {
	log            logrus.FieldLogger
	schema         *SchemaTable
	defaults       map[DimRole]string
	timeVars       map[string]string // dim name -> time variable
	diveNumVars    map[DimRole]string
	instrumentVars map[DimRole]string
	rawInfos       map[DimRole]bool
	dataKinds      map[string]string // instrument variable -> data kind
}

// NewDimRegistry returns the registry with the truck roles
// registered. Sensor extensions add theirs through RegisterRole.
func NewDimRegistry(log logrus.FieldLogger, schema *SchemaTable) *DimRegistry {
	r := &DimRegistry{
		log:            log,
		schema:         schema,
		defaults:       map[DimRole]string{},
		timeVars:       map[string]string{},
		diveNumVars:    map[DimRole]string{},
		instrumentVars: map[DimRole]string{},
		rawInfos:       map[DimRole]bool{},
		dataKinds:      map[string]string{},
	}
	// trajectory is 'data', so it is removed when reloading dive data
	r.RegisterRole(TrajectoryInfo, DimTrajectory, "", "physical", "")
	r.RegisterRole(SGDataInfo, DimSGDataPoint, SGTimeVar, "physical", "") // lots of instruments
	// derived from raw data
	r.RegisterRole(GPSInfo, DimGPSInfo, "log_gps_time", "", "")
	r.RegisterRole(GCEventInfo, DimGCEvent, "gc_st_secs", "", "")
	r.RegisterRole(GCStateInfo, DimGCState, "gc_state_secs", "", "")
	r.RegisterRole(CTDResultsInfo, DimCTDDataPoint, CTDTimeVar, "", "")
	return r
}

// RegisterRole registers a dimension role with its default concrete
// dimension name and that dimension's time variable. dataKind marks
// the role's vectors as raw data of the given kind ("physical",
// "chemical", ...); empty means derived. Duplicate registration is
// an error; the first registration wins. Registering a role with a
// default dimension also declares the <dim>_dive_number mission
// variable used by mission timeseries to tag every accumulated point
// with its dive.
func (r *DimRegistry) RegisterRole(role DimRole, dimName, timeVar, dataKind, instrumentVar string) {
	if _, ok := r.defaults[role]; ok {
		r.log.Errorf("Duplicate registration of %s -- ignored", role)
		return
	}
	r.defaults[role] = dimName
	if dimName != "" {
		diveNumVar := dimName + "_dive_number"
		r.diveNumVars[role] = diveNumVar
		r.schema.Register(diveNumVar, SchemaEntry{
			IncludeInMission: true,
			Type:             TypeInt32,
			Attrs: map[string]interface{}{
				"description": fmt.Sprintf("Dive number for given %s observation", dimName),
			},
			DimInfo: []DimRole{role},
		})
	}
	if dimName != "" && timeVar != "" {
		r.timeVars[dimName] = timeVar
	}
	if dataKind != "" {
		r.rawInfos[role] = true
		if instrumentVar != "" {
			r.dataKinds[instrumentVar] = dataKind // to help form titles
		}
	}
	if instrumentVar != "" {
		r.instrumentVars[role] = instrumentVar
	}
}

// DefaultDim returns the default concrete dimension name registered
// for role.
func (r *DimRegistry) DefaultDim(role DimRole) (string, bool) {
	d, ok := r.defaults[role]
	return d, ok
}

// TimeVar returns the time variable registered for a concrete
// dimension name.
func (r *DimRegistry) TimeVar(dimName string) (string, bool) {
	v, ok := r.timeVars[dimName]
	return v, ok
}

// IsRawData reports whether the role's vectors describe raw data,
// which reprocessing drops and rebuilds.
func (r *DimRegistry) IsRawData(role DimRole) bool { return r.rawInfos[role] }

// DataKinds maps instrument variables to the kind of data they
// produce, for forming NODC titles.
func (r *DimRegistry) DataKinds() map[string]string { return r.dataKinds }

// InstrumentAttrs returns the declared attributes of the instrument
// variable associated with role, if any.
func (r *DimRegistry) InstrumentAttrs(role DimRole) map[string]interface{} {
	iv, ok := r.instrumentVars[role]
	if !ok {
		return nil
	}
	e, ok := r.schema.Lookup(iv)
	if !ok {
		return nil
	}
	return e.Attrs
}

// FileInfo holds the transient per-file dimension bindings: which
// concrete dimension each role uses in the file being written, and
// how large each concrete dimension is. It is discarded (or Reset)
// when the file is closed.
type FileInfo struct {
	log   logrus.FieldLogger
	reg   *DimRegistry
	names map[DimRole]string
	sizes map[string]int
}

// NewFileInfo returns an empty per-file binding table.
func (r *DimRegistry) NewFileInfo() *FileInfo {
	fi := &FileInfo{log: r.log, reg: r}
	fi.Reset()
	return fi
}

// Reset clears the bindings for a new output file.
func (fi *FileInfo) Reset() {
	fi.names = map[DimRole]string{}
	fi.sizes = map[string]int{}
}

// AssignDimName binds a role to a concrete dimension name for this
// file. Rebinding to a different name is permitted but flagged;
// unregistered roles are refused.
func (fi *FileInfo) AssignDimName(role DimRole, name string) {
	if name == "" {
		fi.log.Errorf("Missing dimension name to assign to %s", role)
		return
	}
	if prev, ok := fi.names[role]; ok {
		if prev != "" && prev != name {
			fi.log.Warnf("Reassigning %s dim_name from %s to %s!", role, prev, name)
		}
	} else if _, ok := fi.reg.defaults[role]; !ok {
		fi.log.Errorf("Unregistered dim_info %s!", role)
		return
	}
	fi.names[role] = name
}

// AssignDimSize records the size of the concrete dimension bound to
// role, resolving the name through this file's bindings and falling
// back to the registered default. A zero or missing size produces
// malformed files downstream, so it is refused with an error.
func (fi *FileInfo) AssignDimSize(role DimRole, size int) {
	if size <= 0 {
		fi.log.Errorf("Missing dimension size to assign to %s", role)
		return
	}
	name, ok := fi.names[role]
	if !ok || name == "" {
		name, ok = fi.reg.defaults[role]
		if !ok || name == "" {
			fi.log.Errorf("Attempting to assign a size %d to missing dimension name for %s!", size, role)
			return
		}
		fi.names[role] = name // inherit
	}
	if prev, ok := fi.sizes[name]; ok && prev != size {
		fi.log.Warnf("Reassigning %s size from %d to %d!", name, prev, size)
	}
	fi.sizes[name] = size
}

// DimName resolves the concrete dimension name for role in this
// file, falling back to the registered default.
func (fi *FileInfo) DimName(role DimRole) (string, bool) {
	if name, ok := fi.names[role]; ok && name != "" {
		return name, true
	}
	name, ok := fi.reg.defaults[role]
	return name, ok && name != ""
}

// VarDims returns the dimension-name tuple for a vector bound to
// role, suitable for FileBuilder.CreateVar.
func (fi *FileInfo) VarDims(role DimRole) []string {
	name, ok := fi.DimName(role)
	if !ok {
		return nil
	}
	return []string{name}
}

// Size returns the recorded size of a concrete dimension.
func (fi *FileInfo) Size(dimName string) (int, bool) {
	s, ok := fi.sizes[dimName]
	return s, ok
}

// Apply declares every bound dimension with its recorded size on the
// file builder.
func (fi *FileInfo) Apply(b *FileBuilder) error {
	names := make([]string, 0, len(fi.sizes))
	for n := range fi.sizes {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if err := b.AddDim(n, fi.sizes[n]); err != nil {
			return err
		}
	}
	return nil
}
