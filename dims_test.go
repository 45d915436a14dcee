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
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestRegisterRoleDefaults(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := NewSchemaTable(log)
	r := NewDimRegistry(log, s)

	d, ok := r.DefaultDim(SGDataInfo)
	if !ok || d != DimSGDataPoint {
		t.Errorf("DefaultDim(%s) = %q, want %q", SGDataInfo, d, DimSGDataPoint)
	}
	v, ok := r.TimeVar(DimCTDDataPoint)
	if !ok || v != CTDTimeVar {
		t.Errorf("TimeVar(%s) = %q, want %q", DimCTDDataPoint, v, CTDTimeVar)
	}
	if !r.IsRawData(SGDataInfo) {
		t.Errorf("%s should be raw data", SGDataInfo)
	}
	if r.IsRawData(CTDResultsInfo) {
		t.Errorf("%s is derived, not raw data", CTDResultsInfo)
	}
}

func TestRegisterRoleDiveNumberVar(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := NewSchemaTable(log)
	r := NewDimRegistry(log, s)

	r.RegisterRole("optode_info", "optode_data_point", "optode_time", "chemical", "optode")

	e, ok := s.Lookup("optode_data_point_dive_number")
	if !ok {
		t.Fatal("dive-number variable not declared for the new role")
	}
	if !e.IncludeInMission || e.Type != TypeInt32 {
		t.Errorf("dive-number variable misdeclared: %+v", e)
	}
	if !reflect.DeepEqual(e.DimInfo, []DimRole{DimRole("optode_info")}) {
		t.Errorf("dive-number variable dims = %v", e.DimInfo)
	}
}

func TestRegisterRoleDuplicate(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	s := NewSchemaTable(log)
	r := NewDimRegistry(log, s)

	r.RegisterRole("optode_info", "optode_data_point", "optode_time", "", "")
	r.RegisterRole("optode_info", "other_dim", "other_time", "", "")

	d, _ := r.DefaultDim("optode_info")
	if d != "optode_data_point" {
		t.Errorf("DefaultDim = %q, first registration should win", d)
	}
	errored := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errored = true
		}
	}
	if !errored {
		t.Error("expected an error for the duplicate registration")
	}
}

// Two roles sharing one concrete dimension with matching sizes is
// legitimate (truck instruments all index the engineering sample
// points) and must not warn.
func TestFileInfoSharedDim(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	s := NewSchemaTable(log)
	r := NewDimRegistry(log, s)
	r.RegisterRole("aux_info", "aux_point", "aux_time", "", "")
	hook.Reset()

	fi := r.NewFileInfo()
	fi.AssignDimName(SGDataInfo, "sg_data_point")
	fi.AssignDimName("aux_info", "sg_data_point")
	fi.AssignDimSize(SGDataInfo, 1024)
	fi.AssignDimSize("aux_info", 1024)

	for _, e := range hook.AllEntries() {
		if e.Level <= logrus.WarnLevel {
			t.Errorf("unexpected %s: %s", e.Level, e.Message)
		}
	}
	if n, ok := fi.Size("sg_data_point"); !ok || n != 1024 {
		t.Errorf("Size(sg_data_point) = %d, %v", n, ok)
	}

	// a conflicting size on the shared dimension does warn
	fi.AssignDimSize("aux_info", 512)
	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning for the conflicting size")
	}
}

func TestFileInfoZeroSizeRefused(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	s := NewSchemaTable(log)
	r := NewDimRegistry(log, s)

	fi := r.NewFileInfo()
	fi.AssignDimSize(CTDResultsInfo, 0)

	if _, ok := fi.Size(DimCTDDataPoint); ok {
		t.Error("zero size should not be recorded")
	}
	errored := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errored = true
		}
	}
	if !errored {
		t.Error("expected an error for the zero size")
	}
}

func TestFileInfoDefaultFallback(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := NewSchemaTable(log)
	r := NewDimRegistry(log, s)

	fi := r.NewFileInfo()
	// no explicit binding; the registered default applies
	fi.AssignDimSize(CTDResultsInfo, 900)
	if d, ok := fi.DimName(CTDResultsInfo); !ok || d != DimCTDDataPoint {
		t.Errorf("DimName = %q, want the default %q", d, DimCTDDataPoint)
	}
	if n, ok := fi.Size(DimCTDDataPoint); !ok || n != 900 {
		t.Errorf("Size = %d, %v, want 900", n, ok)
	}
	if dims := fi.VarDims(CTDResultsInfo); !reflect.DeepEqual(dims, []string{DimCTDDataPoint}) {
		t.Errorf("VarDims = %v", dims)
	}
}

func TestFileInfoUnregisteredRole(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	s := NewSchemaTable(log)
	r := NewDimRegistry(log, s)

	fi := r.NewFileInfo()
	fi.AssignDimName("never_registered_info", "some_dim")
	if _, ok := fi.DimName("never_registered_info"); ok {
		t.Error("unregistered role should not be bound")
	}
	errored := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errored = true
		}
	}
	if !errored {
		t.Error("expected an error for the unregistered role")
	}
}
