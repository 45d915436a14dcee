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

// Package glidernc is the variable-metadata registry and
// global-attribute merge engine for Seaglider netCDF processing.
//
// The package holds a declarative table describing every netCDF
// variable a dive or mission file may contain (storage type,
// attributes, dimension binding, whether the variable propagates to
// mission aggregation products), the dimension-role registry that
// binds abstract sensor streams to concrete per-file dimensions, the
// CF/NODC compliance pass that validates and rewrites the combined
// table, and the file builder that materializes schema entries as
// physical variables in a classic netCDF file.
package glidernc

import "sort"

// Version is the schema-engine release identifier stamped into the
// base_station_version global attribute of every file written.
const Version = "3.0.3"

// QualityControlVersion identifies the revision of the quality
// control procedures applied to files this engine writes.
const QualityControlVersion = "1.12"

// Archival metadata conventions the files are written against.
const (
	MetadataConventions = "Unidata Dataset Discovery v1.0"
	VariableConventions = "CF-1.6"
	NamingAuthority     = "edu.washington.apl"
	NODCTemplateVersion = "NODC_NetCDF_Trajectory_Template_v0.9"
)

// Variable name prefixes for the different telemetry sources.
const (
	SGCalPrefix   = "sg_cal_"
	SGLogPrefix   = "log_"
	SGEngPrefix   = "eng_"
	GCPrefix      = "gc_"
	GCStatePrefix = "gc_state_"
)

// Options carries the site configuration the engine needs: where the
// installation-wide configuration lives and where the current
// mission's files live. The mission directory takes precedence when
// both supply a site-local override file.
type Options struct {
	EtcDir     string
	MissionDir string
}

// sortKeys returns the sorted keys of m.
func sortKeys(m map[string]interface{}) []string {
	o := make([]string, 0, len(m))
	for k := range m {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}
