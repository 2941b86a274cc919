// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package geom

import "github.com/pkg/errors"

// Orientation is the placement transform of a chip: an optional reflection
// across the horizontal axis followed by a number of clockwise quarter turns.
// The zero value is the identity.
//
// Orientations form a group under Compose; applying o.Compose(p) to a
// direction is the same as applying p then o.
//
type Orientation struct {
	rotate uint8
	mirror bool
}

// NewOrientation returns the orientation made of an optional reflection
// followed by rotate clockwise quarter turns.
//
func NewOrientation(rotate int, mirror bool) Orientation {
	return Orientation{uint8(((rotate % 4) + 4) % 4), mirror}
}

// Rotation returns the number of clockwise quarter turns of o.
//
func (o Orientation) Rotation() int { return int(o.rotate) }

// IsMirrored returns true if o includes a reflection.
//
func (o Orientation) IsMirrored() bool { return o.mirror }

// RotateCW returns o followed by a clockwise quarter turn.
//
func (o Orientation) RotateCW() Orientation {
	return Orientation{(o.rotate + 1) & 3, o.mirror}
}

// RotateCCW returns o followed by a counter-clockwise quarter turn.
//
func (o Orientation) RotateCCW() Orientation {
	return Orientation{(o.rotate + 3) & 3, o.mirror}
}

// FlipHorz returns o followed by a reflection across the vertical axis.
//
func (o Orientation) FlipHorz() Orientation {
	r := o.rotate
	if r%2 == 0 {
		r = (r + 2) & 3
	}
	return Orientation{r, !o.mirror}
}

// FlipVert returns o followed by a reflection across the horizontal axis.
//
func (o Orientation) FlipVert() Orientation {
	r := o.rotate
	if r%2 != 0 {
		r = (r + 2) & 3
	}
	return Orientation{r, !o.mirror}
}

// Compose returns the orientation that applies p first, then o.
//
func (o Orientation) Compose(p Orientation) Orientation {
	if o.mirror {
		p = p.FlipVert()
	}
	p.rotate = (p.rotate + o.rotate) & 3
	return p
}

// Apply transforms a cell side.
//
func (o Orientation) Apply(d Direction) Direction {
	if o.mirror {
		d = d.FlipVert()
	}
	switch o.rotate {
	case 1:
		return d.RotateCW()
	case 2:
		return d.Neg()
	case 3:
		return d.RotateCCW()
	}
	return d
}

// ApplySize returns the footprint of a rectangle of size s once transformed.
//
func (o Orientation) ApplySize(s Size) Size {
	if o.rotate%2 == 0 {
		return s
	}
	return Size{s.H, s.W}
}

// TransformInSize maps an offset within an untransformed rectangle of size s
// to the matching offset within the transformed rectangle.
//
func (o Orientation) TransformInSize(delta Coords, s Size) Coords {
	x, y := delta.X, delta.Y
	if o.mirror {
		y = s.H - y - 1
	}
	switch o.rotate {
	case 1:
		return Coords{s.H - y - 1, x}
	case 2:
		return Coords{s.W - x - 1, s.H - y - 1}
	case 3:
		return Coords{y, s.W - x - 1}
	}
	return Coords{x, y}
}

func (o Orientation) String() string {
	b := [2]byte{'f', '0' + o.rotate}
	if o.mirror {
		b[0] = 't'
	}
	return string(b[:])
}

// ParseOrientation parses the two-letter form returned by String: "f0" to
// "f3" and "t0" to "t3".
//
func ParseOrientation(s string) (Orientation, error) {
	if len(s) != 2 || s[1] < '0' || s[1] > '3' || (s[0] != 't' && s[0] != 'f') {
		return Orientation{}, errors.Errorf("invalid orientation %q", s)
	}
	return Orientation{s[1] - '0', s[0] == 't'}, nil
}
