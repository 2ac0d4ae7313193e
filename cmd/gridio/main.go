/*
Copyright © 2024 the gridio authors.
This file is part of gridio.

gridio is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridio is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridio.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command gridio is a command-line interface for reading, writing and
// converting geostatistical grid files.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/gridio/gridioutil"
)

func main() {
	if err := gridioutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
