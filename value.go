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

// TypeCode is the physical storage type of a netCDF variable.
type TypeCode int

const (
	// TypeNone defers type resolution to materialization time,
	// where the type is inferred from the supplied value.
	TypeNone TypeCode = iota
	TypeFloat32
	TypeFloat64
	TypeInt32
	TypeChar
	// TypeQC marks a quality-control flag variable. It is stored as
	// character data with the canonical flag vocabulary attached.
	TypeQC
)

func (t TypeCode) String() string {
	switch t {
	case TypeFloat32:
		return "f"
	case TypeFloat64:
		return "d"
	case TypeInt32:
		return "i"
	case TypeChar:
		return "c"
	case TypeQC:
		return "Q"
	}
	return "?"
}

// Value is a datum destined for a netCDF variable. The set of
// implementations is closed; type resolution for undeclared scalars
// is a total function over it.
type Value interface {
	typeCode() TypeCode
	count() int
}

// Int is a scalar integer value.
type Int int32

// Float is a scalar floating point value.
type Float float64

// Text is a scalar string value, stored as a character vector.
type Text string

// IntArray is an integer vector.
type IntArray []int32

// FloatArray is a floating point vector.
type FloatArray []float64

// TextArray is a vector of fixed-width strings. Entries shorter than
// the widest are space padded at materialization time.
type TextArray []string

func (Int) typeCode() TypeCode        { return TypeInt32 }
func (Float) typeCode() TypeCode      { return TypeFloat64 }
func (Text) typeCode() TypeCode       { return TypeChar }
func (IntArray) typeCode() TypeCode   { return TypeInt32 }
func (FloatArray) typeCode() TypeCode { return TypeFloat64 }
func (TextArray) typeCode() TypeCode  { return TypeChar }

func (Int) count() int            { return 1 }
func (Float) count() int          { return 1 }
func (v Text) count() int         { return len(v) }
func (v IntArray) count() int     { return len(v) }
func (v FloatArray) count() int   { return len(v) }
func (v TextArray) count() int    { return len(v) }
