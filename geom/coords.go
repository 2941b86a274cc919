// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package geom

import "strconv"

// Coords is the location of a grid cell. X grows eastward and Y southward.
//
type Coords struct {
	X, Y int
}

// C is a shorthand for Coords{x, y}.
//
func C(x, y int) Coords { return Coords{x, y} }

// Add returns c + d.
//
func (c Coords) Add(d Coords) Coords { return Coords{c.X + d.X, c.Y + d.Y} }

// Sub returns c - d.
//
func (c Coords) Sub(d Coords) Coords { return Coords{c.X - d.X, c.Y - d.Y} }

// Plus returns the coordinates of the cell adjacent to c in direction dir.
//
func (c Coords) Plus(dir Direction) Coords { return c.Add(dir.Delta()) }

// Less orders coordinates row-major. It is used to make map iteration
// deterministic.
//
func (c Coords) Less(d Coords) bool {
	if c.Y != d.Y {
		return c.Y < d.Y
	}
	return c.X < d.X
}

func (c Coords) String() string {
	return "(" + strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y) + ")"
}

// Size is the width and height of a rectangular area, in cells.
//
type Size struct {
	W, H int
}

// IsEmpty returns true if s covers no cell.
//
func (s Size) IsEmpty() bool { return s.W <= 0 || s.H <= 0 }

// Area returns the number of cells covered by s.
//
func (s Size) Area() int {
	if s.IsEmpty() {
		return 0
	}
	return s.W * s.H
}

// Expand returns s grown by margin on each side.
//
func (s Size) Expand(margin int) Size { return Size{s.W + 2*margin, s.H + 2*margin} }

func (s Size) String() string {
	return strconv.Itoa(s.W) + "x" + strconv.Itoa(s.H)
}

// Rect is an axis-aligned rectangle of cells.
//
type Rect struct {
	X, Y, W, H int
}

// RectAt returns the rectangle of the given size whose top-left cell is at c.
//
func RectAt(c Coords, s Size) Rect { return Rect{c.X, c.Y, s.W, s.H} }

// TopLeft returns the coordinates of the top-left cell of r.
//
func (r Rect) TopLeft() Coords { return Coords{r.X, r.Y} }

// Size returns the size of r.
//
func (r Rect) Size() Size { return Size{r.W, r.H} }

// Right returns the x coordinate just past the right edge of r.
//
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate just past the bottom edge of r.
//
func (r Rect) Bottom() int { return r.Y + r.H }

// IsEmpty returns true if r covers no cell.
//
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Area returns the number of cells covered by r.
//
func (r Rect) Area() int { return r.Size().Area() }

// Contains returns true if cell c lies within r.
//
func (r Rect) Contains(c Coords) bool {
	return c.X >= r.X && c.Y >= r.Y && c.X < r.Right() && c.Y < r.Bottom()
}

// ContainsRect returns true if every cell of o lies within r. An empty o is
// contained in any rectangle.
//
func (r Rect) ContainsRect(o Rect) bool {
	if o.IsEmpty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects returns true if r and o share at least one cell.
//
func (r Rect) Intersects(o Rect) bool {
	return !r.Intersection(o).IsEmpty()
}

// Intersection returns the cells common to r and o.
//
func (r Rect) Intersection(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{x0, y0, 0, 0}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Expand returns r grown by margin cells on each side.
//
func (r Rect) Expand(margin int) Rect {
	return Rect{r.X - margin, r.Y - margin, r.W + 2*margin, r.H + 2*margin}
}

// Cells calls fn for every cell of r in row-major order.
//
func (r Rect) Cells(fn func(c Coords)) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			fn(Coords{x, y})
		}
	}
}

func (r Rect) String() string {
	return r.TopLeft().String() + "+" + r.Size().String()
}
