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
)

func TestEncodeQC(t *testing.T) {
	cases := []struct {
		in   Value
		want Value
	}{
		{Int(QCGood), Text("1")},
		{Float(QCBad), Text("4")},
		{FloatArray{0, 1, 2, 3, 4, 5, 6, 8, 9}, Text("012345689")},
		{IntArray{1, 1, 9}, Text("119")},
		{Text("119"), Text("119")}, // already encoded
	}
	for _, c := range cases {
		got, err := encodeQC(c.in)
		if err != nil {
			t.Errorf("encodeQC(%v): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("encodeQC(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := encodeQC(TextArray{"1"}); err == nil {
		t.Error("expected an error for a string array")
	}
}

func TestDecodeQC(t *testing.T) {
	got := decodeQC("012345689")
	want := FloatArray{0, 1, 2, 3, 4, 5, 6, 8, 9}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decodeQC = %v, want %v", got, want)
	}
	for _, v := range decodeQC("119") {
		if v != QCGood && v != QCMissing {
			t.Errorf("decodeQC returned unexpected code %v", v)
		}
	}
}
