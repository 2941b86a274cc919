// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package geom provides the grid geometry used by circuits: cell coordinates,
// cell sides, chip orientations, rectangles and the fixed-point scalar carried
// by analog wires.
//
package geom
