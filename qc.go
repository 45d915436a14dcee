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
	"strings"
)

// Quality-control flag codes attached to measured values. The
// vocabulary follows the Argo/GTSPP convention used by the Seaglider
// quality control manual; 7 is unassigned.
const (
	QCNoChange     = 0 // no QC performed
	QCGood         = 1
	QCProbablyGood = 2
	QCProbablyBad  = 3 // potentially correctable
	QCBad          = 4 // untrustworthy and irreparable
	QCChanged      = 5 // explicit manual change
	QCUnsampled    = 6 // explicitly not sampled
	QCInterpolated = 8
	QCMissing      = 9 // instrument timed out
)

// qcCharacterBase maps a flag code to its character encoding.
const qcCharacterBase = '0'

// QCFlagValues and QCFlagMeanings are the canonical flag_values and
// flag_meanings attribute pair attached to every QC variable in
// place of a units attribute. flag_values is a string of
// blank-separated character codes because the flags themselves are
// stored as characters.
const (
	QCFlagValues   = "0 1 2 3 4 5 6 8 9"
	QCFlagMeanings = "QC_NO_CHANGE QC_GOOD QC_PROBABLY_GOOD QC_PROBABLY_BAD QC_BAD QC_CHANGED QC_UNSAMPLED QC_INTERPOLATED QC_MISSING"
)

// encodeQC converts a QC value to its character representation for
// storage. Numeric scalars and vectors become strings of character
// codes; already-encoded text passes through.
func encodeQC(v Value) (Value, error) {
	switch x := v.(type) {
	case Text:
		return x, nil
	case Int:
		return Text(string(rune(qcCharacterBase + int(x)))), nil
	case Float:
		return Text(string(rune(qcCharacterBase + int(x)))), nil
	case IntArray:
		var b strings.Builder
		for _, c := range x {
			b.WriteByte(byte(qcCharacterBase + int(c)))
		}
		return Text(b.String()), nil
	case FloatArray:
		var b strings.Builder
		for _, c := range x {
			b.WriteByte(byte(qcCharacterBase + int(c)))
		}
		return Text(b.String()), nil
	}
	return nil, fmt.Errorf("cannot encode %T as QC flags", v)
}

// decodeQC converts character-encoded QC flags back to their numeric
// codes, for callers rebuilding state from an existing file.
func decodeQC(s string) FloatArray {
	o := make(FloatArray, len(s))
	for i := 0; i < len(s); i++ {
		o[i] = float64(s[i] - qcCharacterBase)
	}
	return o
}
