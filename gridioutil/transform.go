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

package gridioutil

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/spatialmodel/gridio"
)

// expressionFuncs are the functions available in value expressions.
var expressionFuncs = map[string]govaluate.ExpressionFunction{
	"exp":   mathFunc("exp", math.Exp),
	"log":   mathFunc("log", math.Log),
	"sqrt":  mathFunc("sqrt", math.Sqrt),
	"abs":   mathFunc("abs", math.Abs),
	"floor": mathFunc("floor", math.Floor),
	"ceil":  mathFunc("ceil", math.Ceil),
}

func mathFunc(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("gridio: got %d arguments for function '%s', but needs 1", len(arg), name)
		}
		v, ok := arg[0].(float64)
		if !ok {
			return nil, fmt.Errorf("gridio: function '%s' needs a number but got %v", name, arg[0])
		}
		return f(v), nil
	}
}

// expressionVars are the variables a value expression can refer to:
// the cell value, its world coordinates, and its grid indices.
var expressionVars = map[string]bool{
	"v": true, "x": true, "y": true, "z": true, "i": true, "j": true, "k": true,
}

// TransformValues replaces the value of every non-NaN cell of g with the
// result of expression, for example "v * 1000" or "log(v) + z / 100".
// The expression can use the cell value v, the world coordinates x, y and z,
// and the cell indices i, j and k. Expressions that compare values
// (e.g., "v > 3") produce 1 for true and 0 for false.
func TransformValues(g *gridio.Grid, geom gridio.Geometry, expression string) error {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, expressionFuncs)
	if err != nil {
		return fmt.Errorf("gridio: parsing value expression: %v", err)
	}
	for _, name := range expr.Vars() {
		if !expressionVars[name] {
			return fmt.Errorf("gridio: value expression uses undefined variable '%s'", name)
		}
	}
	nx, ny, nz := g.Dims()
	params := make(map[string]interface{}, len(expressionVars))
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				v := g.At(i, j, k)
				if math.IsNaN(v) {
					continue
				}
				x, y, z := geom.Coord(i, j, k)
				params["v"], params["x"], params["y"], params["z"] = v, x, y, z
				params["i"], params["j"], params["k"] = float64(i), float64(j), float64(k)
				result, err := expr.Evaluate(params)
				if err != nil {
					return fmt.Errorf("gridio: evaluating value expression at cell (%d, %d, %d): %v", i, j, k, err)
				}
				switch r := result.(type) {
				case float64:
					g.Set(r, i, j, k)
				case bool:
					if r {
						g.Set(1, i, j, k)
					} else {
						g.Set(0, i, j, k)
					}
				default:
					return fmt.Errorf("gridio: value expression produced %v, which is not a number", result)
				}
			}
		}
	}
	return nil
}
