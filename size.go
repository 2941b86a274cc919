// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import "github.com/pkg/errors"

// WireSize is the width of the data carried by a wire. Discrete sizes are
// ordered by bit count; Analog sits above all of them and has neither a half
// nor a double.
//
type WireSize uint8

// Wire sizes.
//
const (
	Zero WireSize = iota
	One
	Two
	Four
	Eight
	Sixteen
	Analog
)

// MaxDiscrete is the widest non-analog wire size.
//
const MaxDiscrete = Sixteen

var sizeNames = [...]string{"Zero", "One", "Two", "Four", "Eight", "Sixteen", "Analog"}
var sizeBits = [...]uint{0, 1, 2, 4, 8, 16, 32}

// MinSizeForValue returns the narrowest discrete size able to hold v.
//
func MinSizeForValue(v uint32) WireSize {
	switch {
	case v > 0xff:
		return Sixteen
	case v > 0xf:
		return Eight
	case v > 3:
		return Four
	case v > 1:
		return Two
	case v > 0:
		return One
	}
	return Zero
}

// NumBits returns the number of bits of a value of size s. Analog values use
// the full 32 bits of their encoding.
//
func (s WireSize) NumBits() uint { return sizeBits[s] }

// Mask returns the bit mask for values of size s.
//
func (s WireSize) Mask() uint32 {
	if s >= Analog {
		return 0xffffffff
	}
	return 1<<sizeBits[s] - 1
}

// Half returns the size with half as many bits. One and Zero both halve to
// Zero. Analog halves to itself.
//
func (s WireSize) Half() WireSize {
	switch s {
	case Zero, One:
		return Zero
	case Analog:
		return Analog
	}
	return s - 1
}

// Double returns the size with twice as many bits. It returns false for
// Sixteen and Analog.
//
func (s WireSize) Double() (WireSize, bool) {
	switch s {
	case Zero:
		return Zero, true
	case Sixteen, Analog:
		return s, false
	}
	return s + 1, true
}

// IsAnalog returns true for the Analog size.
//
func (s WireSize) IsAnalog() bool { return s == Analog }

func (s WireSize) String() string {
	if int(s) < len(sizeNames) {
		return sizeNames[s]
	}
	return "WireSize(?)"
}

// ParseWireSize parses either a bit count ("0", "1", "2", "4", "8", "16") or
// a size name ("Zero" to "Sixteen", "Analog").
//
func ParseWireSize(str string) (WireSize, error) {
	switch str {
	case "0":
		return Zero, nil
	case "1":
		return One, nil
	case "2":
		return Two, nil
	case "4":
		return Four, nil
	case "8":
		return Eight, nil
	case "16":
		return Sixteen, nil
	}
	for i, n := range sizeNames {
		if n == str {
			return WireSize(i), nil
		}
	}
	return 0, errors.Errorf("invalid wire size %q", str)
}

// SizeInterval is a closed interval [Lo, Hi] of wire sizes. Any interval with
// Lo > Hi is empty, and all empty intervals compare equal.
//
type SizeInterval struct {
	Lo, Hi WireSize
}

// EmptyInterval returns an interval that contains no size.
//
func EmptyInterval() SizeInterval { return SizeInterval{Analog, Zero} }

// FullInterval returns the interval of all discrete sizes.
//
func FullInterval() SizeInterval { return SizeInterval{Zero, MaxDiscrete} }

// Exactly returns the interval [s, s].
//
func Exactly(s WireSize) SizeInterval { return SizeInterval{s, s} }

// AtLeast returns the interval of discrete sizes >= s.
//
func AtLeast(s WireSize) SizeInterval { return SizeInterval{s, MaxDiscrete} }

// AtMost returns the interval of discrete sizes <= s.
//
func AtMost(s WireSize) SizeInterval { return SizeInterval{Zero, min(s, MaxDiscrete)} }

// IsEmpty returns true if i contains no size.
//
func (i SizeInterval) IsEmpty() bool { return i.Lo > i.Hi }

// IsAmbiguous returns true if i contains more than one size.
//
func (i SizeInterval) IsAmbiguous() bool { return i.Lo < i.Hi }

// LowerBound returns the smallest size in i, or false if i is empty.
//
func (i SizeInterval) LowerBound() (WireSize, bool) {
	if i.IsEmpty() {
		return 0, false
	}
	return i.Lo, true
}

// Equal compares two intervals.
//
func (i SizeInterval) Equal(o SizeInterval) bool {
	if i.IsEmpty() || o.IsEmpty() {
		return i.IsEmpty() && o.IsEmpty()
	}
	return i == o
}

// MakeAtLeast raises the lower bound of i to s. It reports whether i changed.
// Empty intervals are left untouched.
//
func (i *SizeInterval) MakeAtLeast(s WireSize) bool {
	if !i.IsEmpty() && i.Lo < s {
		i.Lo = s
		return true
	}
	return false
}

// MakeAtMost lowers the upper bound of i to s. It reports whether i changed.
// Empty intervals are left untouched.
//
func (i *SizeInterval) MakeAtMost(s WireSize) bool {
	if !i.IsEmpty() && i.Hi > s {
		i.Hi = s
		return true
	}
	return false
}

// Intersect returns the sizes common to i and o.
//
func (i SizeInterval) Intersect(o SizeInterval) SizeInterval {
	return SizeInterval{max(i.Lo, o.Lo), min(i.Hi, o.Hi)}
}

// Half returns the interval of the halves of the sizes in i. Sizes that have
// no non-zero half (Zero and One) are dropped.
//
func (i SizeInterval) Half() SizeInterval {
	if i.IsEmpty() || i.Lo == Analog {
		return EmptyInterval()
	}
	return SizeInterval{max(i.Lo, Two).Half(), min(i.Hi, MaxDiscrete).Half()}
}

// Double returns the interval of the doubles of the sizes in i.
//
func (i SizeInterval) Double() SizeInterval {
	if i.IsEmpty() {
		return EmptyInterval()
	}
	lo, ok := i.Lo.Double()
	if !ok {
		return EmptyInterval()
	}
	hi, ok := i.Hi.Double()
	if !ok {
		hi = MaxDiscrete
	}
	return SizeInterval{lo, hi}
}

func (i SizeInterval) String() string {
	if i.IsEmpty() {
		return "[]"
	}
	return "[" + i.Lo.String() + "," + i.Hi.String() + "]"
}
