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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// MergeRule resolves a conflict between a master and a slave value of
// the same named global attribute when per-dive attribute sets are
// folded into a mission-level aggregate.
type MergeRule int

const (
	// RuleCopy ignores the master and takes the slave value.
	RuleCopy MergeRule = iota
	// RuleStet keeps the master value; don't ask, don't tell.
	RuleStet
	// RuleIdentical keeps the master value, warning if the slave
	// value differs.
	RuleIdentical
	// RuleEarliestDate keeps the lexicographically smaller of two
	// zero-padded ISO8601 date strings.
	RuleEarliestDate
	// RuleLatestDate keeps the lexicographically larger date string.
	RuleLatestDate
	// RuleMin and RuleMax keep the numeric extreme.
	RuleMin
	RuleMax
	// RuleRemove always deletes the attribute. Used for per-file
	// attributes that must never survive aggregation.
	RuleRemove
)

// resolve applies the rule to the master and slave values of the
// attribute called name. A nil result signals that the attribute is
// to be deleted from the master set. The rules are total over
// well-typed inputs; the only side effect is logging.
func (r MergeRule) resolve(log logrus.FieldLogger, name string, master, slave interface{}) interface{} {
	switch r {
	case RuleCopy:
		return slave
	case RuleStet:
		return master
	case RuleIdentical:
		if !reflect.DeepEqual(master, slave) {
			log.Warnf("NC global values for %s don't match during merge ('%v' vs. '%v') -- using '%v'",
				name, master, slave, master)
		}
		return master
	case RuleEarliestDate:
		if cast.ToString(master) <= cast.ToString(slave) {
			return master
		}
		return slave
	case RuleLatestDate:
		if cast.ToString(master) > cast.ToString(slave) {
			return master
		}
		return slave
	case RuleMin:
		if cast.ToFloat64(master) <= cast.ToFloat64(slave) {
			return master
		}
		return slave
	case RuleMax:
		if cast.ToFloat64(master) >= cast.ToFloat64(slave) {
			return master
		}
		return slave
	case RuleRemove:
		return nil
	}
	return nil
}

// removed reports whether a resolved value signals deletion: nil or
// an empty string never survives into the master set.
func removed(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}
