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

// Command glidernc is a command-line interface for Seaglider netCDF
// metadata processing.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/glidernc/gliderncutil"
)

func main() {
	if err := gliderncutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
