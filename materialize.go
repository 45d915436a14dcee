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
	"errors"
	"fmt"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Per-variable creation errors. One bad variable does not abort the
// file; callers log and continue with the rest.
var (
	ErrUnknownVector    = errors.New("unknown vector variable")
	ErrUndeterminedType = errors.New("unable to determine storage type")
	ErrEmptyString      = errors.New("empty value for string variable")
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrAssignment       = errors.New("value assignment failed")
)

// stringDimFormat names the pooled character dimensions backing
// string storage, keyed by exact byte length.
const stringDimFormat = "string_%d"

// Template tokens substituted into attribute text depending on the
// kind of file being written: [P] renders "profile" or "sample", [D]
// renders "profile" or "dive".
const (
	tokenProfileSample = "[P]"
	tokenProfileDive   = "[D]"
)

// Var is one physical variable buffered for output.
type Var struct {
	Name string
	Dims []string
	Type TypeCode

	value    Value
	padWidth int // fixed string width for TextArray values
	attrs    map[string]interface{}
}

// FileBuilder accumulates the definition of one netCDF output file:
// dimensions, global attributes, and variables with their values and
// attributes. The classic CDF encoding wants the whole layout known
// before any data is written, so creation buffers here and Write
// performs the define/check/create/write sequence in one shot.
//
// A builder describes exactly one file; the character-dimension pool
// starts empty for each new builder.
type FileBuilder struct {
	log     logrus.FieldLogger
	schema  *SchemaTable
	profile bool // profile file, as opposed to a per-dive/timeseries file

	dims     []string
	sizes    []int
	dimIdx   map[string]int
	charDims map[int]string

	globals map[string]interface{}
	vars    map[string]*Var
	order   []string
}

// NewFileBuilder returns an empty builder writing against the given
// schema. profile selects the wording substituted for the template
// tokens in descriptive attributes.
func NewFileBuilder(log logrus.FieldLogger, schema *SchemaTable, profile bool) *FileBuilder {
	return &FileBuilder{
		log:      log,
		schema:   schema,
		profile:  profile,
		dimIdx:   map[string]int{},
		charDims: map[int]string{},
		globals:  map[string]interface{}{},
		vars:     map[string]*Var{},
	}
}

// AddDim declares a dimension. Redeclaring with the same size is a
// no-op; a conflicting size is an error, since two streams would be
// fighting over one physical dimension.
func (b *FileBuilder) AddDim(name string, size int) error {
	if size <= 0 {
		return fmt.Errorf("dimension %s: size must be positive, got %d", name, size)
	}
	if i, ok := b.dimIdx[name]; ok {
		if b.sizes[i] != size {
			b.log.Warnf("Reassigning %s size from %d to %d!", name, b.sizes[i], size)
			b.sizes[i] = size
		}
		return nil
	}
	b.dimIdx[name] = len(b.dims)
	b.dims = append(b.dims, name)
	b.sizes = append(b.sizes, size)
	return nil
}

// SetGlobal records a file-level attribute.
func (b *FileBuilder) SetGlobal(name string, value interface{}) {
	b.globals[name] = value
}

// stringDim returns the pooled character dimension for the given
// byte length, declaring it on first use.
func (b *FileBuilder) stringDim(size int) string {
	if d, ok := b.charDims[size]; ok {
		return d
	}
	d := fmt.Sprintf(stringDimFormat, size)
	b.charDims[size] = d
	b.AddDim(d, size)
	return d
}

// VarOpts adjusts a single CreateVar call.
type VarOpts struct {
	// Extra attributes for this variable; override the declared
	// ones.
	Extra map[string]interface{}
	// Remove lists declared attribute names to drop.
	Remove []string
	// Override forces the storage type for this call.
	Override TypeCode
	// MissionVal selects the mission-product type override encoded
	// in the schema entry, if any.
	MissionVal bool
}

// CreateVar materializes the named variable in the output file:
// resolves its schema entry and storage type, handles string and QC
// encoding, verifies the value fits the requested dimensions, and
// attaches the merged attributes with template tokens substituted.
// Creating a variable that already exists returns the existing one.
// dims holds concrete dimension names; empty means scalar.
func (b *FileBuilder) CreateVar(name string, dims []string, value Value, opts *VarOpts) (*Var, error) {
	if v, ok := b.vars[name]; ok {
		return v, nil
	}
	if opts == nil {
		opts = &VarOpts{}
	}

	var entry SchemaEntry
	declared, ok := b.schema.Lookup(name)
	if ok {
		entry = *declared.clone()
	} else {
		if len(dims) > 0 {
			b.log.Errorf("Unknown vector nc variable %s%v -- unable to create NC variable", name, dims)
			return nil, ErrUnknownVector
		}
		// ad hoc scalar; type inferred from the value below
		entry = SchemaEntry{Type: TypeNone, Attrs: map[string]interface{}{}}
	}

	t := entry.Type
	if opts.Override != TypeNone {
		t = opts.Override
	} else if opts.MissionVal && entry.MissionType != TypeNone {
		t = entry.MissionType
	}
	if t == TypeNone {
		if value == nil {
			b.log.Errorf("Unable to determine type for %s -- unable to create NC variable", name)
			return nil, ErrUndeterminedType
		}
		t = value.typeCode()
		if !ok {
			b.log.Warnf("Missing metadata for %s type should be '%s'", name, t)
			entry.Type = t
			b.schema.Register(name, entry)
		}
	}

	if t == TypeQC {
		// coerce type and value
		t = TypeChar
		if value != nil {
			encoded, err := encodeQC(value)
			if err != nil {
				b.log.Errorf("Unable to encode QC value for %s: %v", name, err)
				return nil, ErrAssignment
			}
			value = encoded
		}
	}

	padWidth := 0
	if len(dims) == 0 {
		if t == TypeChar {
			// String scalars are arrays of characters over a pooled
			// length dimension. Empty strings crash downstream
			// netCDF readers, so they are refused outright.
			txt, isText := value.(Text)
			if !isText || len(txt) == 0 {
				b.log.Errorf("Must supply a non-empty value for string-valued NC var (%s) -- variable not created", name)
				return nil, ErrEmptyString
			}
			dims = []string{b.stringDim(len(txt))}
		}
	} else {
		if ta, isTextArray := value.(TextArray); isTextArray {
			padWidth = maxWidth(ta)
			if padWidth == 0 {
				b.log.Errorf("Must supply a non-empty value for string-valued NC var (%s) -- variable not created", name)
				return nil, ErrEmptyString
			}
			dims = append(append([]string(nil), dims...), b.stringDim(padWidth))
		}
	}

	n := 1
	for _, d := range dims {
		i, ok := b.dimIdx[d]
		if !ok {
			b.log.Errorf("Unknown dimension %s for nc variable %s", d, name)
			return nil, ErrUnknownDimension
		}
		n *= b.sizes[i]
	}
	if value != nil && !fits(value, t, n, padWidth) {
		b.log.Errorf("Unable to assign value to nc var %s %v", name, dims)
		return nil, ErrAssignment
	}

	attrs := map[string]interface{}{}
	for k, v := range entry.Attrs {
		attrs[k] = v
	}
	for k, v := range opts.Extra {
		attrs[k] = v
	}
	for _, k := range opts.Remove {
		delete(attrs, k)
	}
	for k, v := range attrs {
		s, isString := v.(string)
		if !isString {
			continue
		}
		if strings.Contains(s, tokenProfileSample) {
			alt := "sample"
			if b.profile {
				alt = "profile"
			}
			s = strings.ReplaceAll(s, tokenProfileSample, alt)
		}
		if strings.Contains(s, tokenProfileDive) {
			alt := "dive"
			if b.profile {
				alt = "profile"
			}
			s = strings.ReplaceAll(s, tokenProfileDive, alt)
		}
		attrs[k] = s
	}

	v := &Var{
		Name:     name,
		Dims:     dims,
		Type:     t,
		value:    value,
		padWidth: padWidth,
		attrs:    attrs,
	}
	b.vars[name] = v
	b.order = append(b.order, name)
	return v, nil
}

// Lookup returns the buffered variable, if created.
func (b *FileBuilder) Lookup(name string) (*Var, bool) {
	v, ok := b.vars[name]
	return v, ok
}

// fits reports whether the value's element count matches the
// variable's total length.
func fits(value Value, t TypeCode, n, padWidth int) bool {
	switch x := value.(type) {
	case TextArray:
		return len(x)*padWidth == n
	case Text:
		return len(x) == n
	case Int, Float:
		if t == TypeChar {
			return false
		}
		return n == 1
	default:
		return value.count() == n
	}
}

func maxWidth(ta TextArray) int {
	w := 0
	for _, s := range ta {
		if len(s) > w {
			w = len(s)
		}
	}
	return w
}

// Write defines the netCDF header, validates it, creates the file on
// rw and writes every buffered value. Definition problems are
// returned; a value that fails to write is logged with its variable
// name and skipped, favoring a complete file with partial data over
// aborting the dive.
func (b *FileBuilder) Write(rw cdf.ReaderWriterAt) error {
	h := cdf.NewHeader(b.dims, b.sizes)
	for _, k := range sortKeys(b.globals) {
		h.AddAttribute("", k, attrValue(b.globals[k]))
	}
	for _, name := range b.order {
		v := b.vars[name]
		h.AddVariable(name, v.Dims, typeTemplate(v.Type))
		for _, a := range sortKeys(v.attrs) {
			h.AddAttribute(name, a, variableAttrValue(v.Type, a, v.attrs[a]))
		}
	}
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		return fmt.Errorf("creating netcdf file: %s", strings.Join(msgs, "; "))
	}
	f, err := cdf.Create(rw, h)
	if err != nil {
		return fmt.Errorf("creating netcdf file: %w", err)
	}
	for _, name := range b.order {
		v := b.vars[name]
		if v.value == nil {
			// no data supplied; lay down fill values
			if err := f.Fill(v.Name); err != nil {
				b.log.Errorf("Unable to fill nc var %s %v: %v", v.Name, v.Dims, err)
			}
			continue
		}
		if err := writeValue(f, v); err != nil {
			b.log.Errorf("Unable to assign value to nc var %s %v: %v", v.Name, v.Dims, err)
		}
	}
	return nil
}

// typeTemplate returns a zero value of the dynamic type cdf uses to
// select the variable's storage type.
func typeTemplate(t TypeCode) interface{} {
	switch t {
	case TypeFloat32:
		return []float32{0}
	case TypeInt32:
		return []int32{0}
	case TypeChar:
		return ""
	default:
		return []float64{0}
	}
}

// attrValue coerces a global attribute to one of the slice types the
// cdf encoder accepts, preserving the native numeric kind.
func attrValue(v interface{}) interface{} {
	switch x := v.(type) {
	case string:
		return x
	case []float64, []float32, []int32, []int16, []uint8:
		return x
	case float64, float32:
		return []float64{cast.ToFloat64(x)}
	case int, int8, int16, int32, int64, uint, uint16, uint32:
		return []int32{int32(cast.ToInt64(x))}
	default:
		return cast.ToString(x)
	}
}

// variableAttrValue is attrValue specialized for per-variable
// attributes: _FillValue must be stored with the variable's own type
// for readers to recognize it.
func variableAttrValue(t TypeCode, name string, v interface{}) interface{} {
	if name != "_FillValue" {
		return attrValue(v)
	}
	switch t {
	case TypeFloat32:
		return []float32{float32(cast.ToFloat64(v))}
	case TypeInt32:
		return []int32{int32(cast.ToInt64(v))}
	case TypeChar:
		return cast.ToString(v)
	default:
		return []float64{cast.ToFloat64(v)}
	}
}

// writeValue writes one buffered value through the cdf strider.
func writeValue(f *cdf.File, v *Var) error {
	w := f.Writer(v.Name, nil, nil)
	if w == nil {
		return fmt.Errorf("no such variable")
	}
	var data interface{}
	switch v.Type {
	case TypeFloat32:
		data = toFloat32s(v.value)
	case TypeInt32:
		data = toInt32s(v.value)
	case TypeChar:
		data = charBytes(v.value, v.padWidth)
	default:
		data = toFloat64s(v.value)
	}
	if data == nil {
		return fmt.Errorf("value of type %T cannot be stored as '%s'", v.value, v.Type)
	}
	_, err := w.Write(data)
	return err
}

func toFloat64s(v Value) []float64 {
	switch x := v.(type) {
	case Float:
		return []float64{float64(x)}
	case Int:
		return []float64{float64(x)}
	case FloatArray:
		return []float64(x)
	case IntArray:
		o := make([]float64, len(x))
		for i, e := range x {
			o[i] = float64(e)
		}
		return o
	}
	return nil
}

func toFloat32s(v Value) []float32 {
	switch x := v.(type) {
	case Float:
		return []float32{float32(x)}
	case Int:
		return []float32{float32(x)}
	case FloatArray:
		o := make([]float32, len(x))
		for i, e := range x {
			o[i] = float32(e)
		}
		return o
	case IntArray:
		o := make([]float32, len(x))
		for i, e := range x {
			o[i] = float32(e)
		}
		return o
	}
	return nil
}

func toInt32s(v Value) []int32 {
	switch x := v.(type) {
	case Int:
		return []int32{int32(x)}
	case Float:
		return []int32{int32(x)}
	case IntArray:
		return []int32(x)
	case FloatArray:
		o := make([]int32, len(x))
		for i, e := range x {
			o[i] = int32(e)
		}
		return o
	}
	return nil
}

// charBytes lays out character data: a scalar string as its bytes, a
// string array as space-padded fixed-width rows.
func charBytes(v Value, padWidth int) []uint8 {
	switch x := v.(type) {
	case Text:
		return []uint8(string(x))
	case TextArray:
		o := make([]uint8, 0, len(x)*padWidth)
		for _, s := range x {
			o = append(o, s...)
			for i := len(s); i < padWidth; i++ {
				o = append(o, ' ')
			}
		}
		return o
	}
	return nil
}
