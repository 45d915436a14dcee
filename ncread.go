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

	"github.com/ctessum/cdf"
)

// ReadGlobals returns the global attributes of an existing netCDF
// file as plain values suitable for the merge engine: single-element
// numeric attributes collapse to scalars, character attributes to
// strings.
func ReadGlobals(rw cdf.ReaderWriterAt) (map[string]interface{}, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("reading netcdf file: %w", err)
	}
	globals := map[string]interface{}{}
	for _, name := range f.Header.Attributes("") {
		globals[name] = collapseAttr(f.Header.GetAttribute("", name))
	}
	return globals, nil
}

func collapseAttr(v interface{}) interface{} {
	switch x := v.(type) {
	case string:
		return x
	case []float64:
		if len(x) == 1 {
			return x[0]
		}
	case []float32:
		if len(x) == 1 {
			return float64(x[0])
		}
	case []int32:
		if len(x) == 1 {
			return int(x[0])
		}
	case []int16:
		if len(x) == 1 {
			return int(x[0])
		}
	}
	return v
}
