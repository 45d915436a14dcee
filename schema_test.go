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
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

func TestRegisterQCExpansion(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := NewSchemaTable(log)

	if _, err := s.Register("optode_qc", SchemaEntry{
		IncludeInMission: true,
		Type:             TypeQC,
		Attrs: attrs{
			"units":       "qc_flag",
			"description": "Whether to trust each oxygen value",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	}); err != nil {
		t.Fatal(err)
	}

	e, ok := s.Lookup("optode_qc")
	if !ok {
		t.Fatal("optode_qc not registered")
	}
	if _, hasUnits := e.Attrs["units"]; hasUnits {
		t.Error("qc_flag units should be removed")
	}
	if e.Attrs["flag_values"] != QCFlagValues {
		t.Errorf("flag_values = %v, want %v", e.Attrs["flag_values"], QCFlagValues)
	}
	if e.Attrs["flag_meanings"] != QCFlagMeanings {
		t.Errorf("flag_meanings = %v, want %v", e.Attrs["flag_meanings"], QCFlagMeanings)
	}
	if _, hasDesc := e.Attrs["description"]; hasDesc {
		t.Error("description should be renamed to comment")
	}
	if e.Attrs["comment"] != "Whether to trust each oxygen value" {
		t.Errorf("comment = %v", e.Attrs["comment"])
	}
}

func TestRegisterPSURewrite(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := NewSchemaTable(log)

	if _, err := s.Register("absolute_salinity", SchemaEntry{
		Type:    TypeFloat64,
		Attrs:   attrs{"units": "g/kg PSU"},
		DimInfo: []DimRole{CTDResultsInfo},
	}); err != nil {
		t.Fatal(err)
	}
	e, _ := s.Lookup("absolute_salinity")
	if e.Attrs["units"] != "g/kg 1e-3" {
		t.Errorf("units = %v, want g/kg 1e-3", e.Attrs["units"])
	}
}

func TestRegisterMissionMultiDim(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := NewSchemaTable(log)

	outcome, err := s.Register("bad_mission_var", SchemaEntry{
		IncludeInMission: true,
		Type:             TypeFloat64,
		DimInfo:          []DimRole{SGDataInfo, CTDResultsInfo},
	})
	if err == nil {
		t.Fatal("expected rejection of a multi-dimensional mission variable")
	}
	if outcome != RegisterRejected {
		t.Errorf("outcome = %v, want RegisterRejected", outcome)
	}
	if _, ok := s.Lookup("bad_mission_var"); ok {
		t.Error("rejected entry should not be installed")
	}
}

func TestRegisterReplaceWarns(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	s := NewSchemaTable(log)

	entry := SchemaEntry{Type: TypeFloat64, Attrs: attrs{"units": "meters"}}
	if outcome, _ := s.Register("sg_cal_length", entry); outcome != RegisterCreated {
		t.Errorf("first registration outcome = %v, want RegisterCreated", outcome)
	}

	// identical re-registration is silent
	if outcome, _ := s.Register("sg_cal_length", entry); outcome != RegisterCreated {
		t.Errorf("identical re-registration outcome = %v, want RegisterCreated", outcome)
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("unexpected log entries: %v", hook.AllEntries())
	}

	// a different record replaces with a warning
	entry.Attrs["units"] = "cm"
	outcome, _ := s.Register("sg_cal_length", entry)
	if outcome != RegisterReplaced {
		t.Errorf("outcome = %v, want RegisterReplaced", outcome)
	}
	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && strings.Contains(e.Message, "sg_cal_length") {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a replacement warning")
	}
	e, _ := s.Lookup("sg_cal_length")
	if e.Attrs["units"] != "cm" {
		t.Errorf("units = %v, want the replacement value", e.Attrs["units"])
	}
}

func TestRegisterDoesNotAliasCaller(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := NewSchemaTable(log)

	a := attrs{"units": "meters"}
	s.Register("sg_cal_length", SchemaEntry{Type: TypeFloat64, Attrs: a})
	a["units"] = "furlongs"
	e, _ := s.Lookup("sg_cal_length")
	if e.Attrs["units"] != "meters" {
		t.Error("registry entry aliases the caller's attribute map")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	e := &SchemaEntry{
		IncludeInMission: true,
		Type:             TypeQC,
		Attrs: attrs{
			"units":       "qc_flag",
			"description": "d",
		},
		DimInfo: []DimRole{CTDResultsInfo},
	}
	if err := normalizeEntry("x_qc", e); err != nil {
		t.Fatal(err)
	}
	once := e.clone()
	if err := normalizeEntry("x_qc", e); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(once, e) {
		t.Errorf("second normalization changed the entry: %v vs %v", once, e)
	}
}

func TestAddContributionsFirstWriterWins(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := NewSchemaTable(log)

	s.AddContributions(map[string]Contribution{
		"a_ext": {SchemaAdditions: map[string]SchemaEntry{
			"shared_var": {Type: TypeFloat64, Attrs: attrs{"units": "a"}},
			"a_only":     {Type: TypeFloat64},
		}},
		"b_ext": {SchemaAdditions: map[string]SchemaEntry{
			"shared_var": {Type: TypeFloat64, Attrs: attrs{"units": "b"}},
			"b_only":     {Type: TypeFloat64},
		}},
	})

	e, ok := s.Lookup("shared_var")
	if !ok {
		t.Fatal("shared_var not contributed")
	}
	// modules merge in sorted order, so a_ext wrote first
	if e.Attrs["units"] != "a" {
		t.Errorf("units = %v, want the first writer's value", e.Attrs["units"])
	}
	if _, ok := s.Lookup("a_only"); !ok {
		t.Error("a_only not contributed")
	}
	if _, ok := s.Lookup("b_only"); !ok {
		t.Error("b_only not contributed")
	}

	// static declarations always beat contributions
	s.AddContributions(map[string]Contribution{
		"c_ext": {SchemaAdditions: map[string]SchemaEntry{
			"salinity": {Type: TypeInt32},
		}},
	})
	e, _ = s.Lookup("salinity")
	if e.Type != TypeFloat64 {
		t.Errorf("salinity type = %v, contribution should not replace a static entry", e.Type)
	}
}

func TestResetDiscardsContributions(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := NewSchemaTable(log)
	n := s.Len()

	s.AddContributions(BuiltinContributions())
	if s.Len() <= n {
		t.Fatal("contributions not absorbed")
	}
	s.Reset()
	if s.Len() != n {
		t.Errorf("Len after Reset = %d, want %d", s.Len(), n)
	}
	if _, ok := s.Lookup("SBE43_dissolved_oxygen"); ok {
		t.Error("contributed entry survived Reset")
	}
}
