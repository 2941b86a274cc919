// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package geom

import (
	"math"
	"strconv"
)

const fixedLimit = 1000000000

// Fixed is a fixed-point scalar in [-1, 1] with a resolution of 1e-9. It is
// the value carried by analog wires. Arithmetic saturates at the range
// bounds.
//
type Fixed int32

// Fixed constants.
//
const (
	FixedZero Fixed = 0
	FixedOne  Fixed = fixedLimit
)

// NewFixed returns the Fixed with raw value v, clamped to range.
//
func NewFixed(v int64) Fixed {
	if v >= fixedLimit {
		return fixedLimit
	}
	if v <= -fixedLimit {
		return -fixedLimit
	}
	return Fixed(v)
}

// FixedFromRatio returns num/den rounded half away from zero. A zero
// denominator saturates to the sign of num, and 0/0 is zero.
//
func FixedFromRatio(num, den int32) Fixed {
	if den == 0 {
		switch {
		case num > 0:
			return FixedOne
		case num < 0:
			return -FixedOne
		}
		return FixedZero
	}
	sign := int64(1)
	n, d := int64(num), int64(den)
	if n < 0 {
		sign, n = -sign, -n
	}
	if d < 0 {
		sign, d = -sign, -d
	}
	q, r := n*fixedLimit/d, n*fixedLimit%d
	var mag int64
	switch {
	case q >= fixedLimit:
		mag = fixedLimit
	case r*2 >= d:
		mag = q + 1
	default:
		mag = q
	}
	return Fixed(sign * mag)
}

// FixedFromFloat converts v, clamped to [-1, 1].
//
func FixedFromFloat(v float64) Fixed {
	v = math.Max(-1, math.Min(1, v))
	return NewFixed(int64(math.Round(v * fixedLimit)))
}

// Float returns f as a float64.
//
func (f Fixed) Float() float64 { return float64(f) / fixedLimit }

// Encode returns the bit pattern stored on the wire bus.
//
func (f Fixed) Encode() uint32 { return uint32(int32(f)) }

// DecodeFixed is the inverse of Fixed.Encode. Out of range patterns are
// clamped.
//
func DecodeFixed(u uint32) Fixed { return NewFixed(int64(int32(u))) }

// Add returns f + g.
//
func (f Fixed) Add(g Fixed) Fixed { return NewFixed(int64(f) + int64(g)) }

// Sub returns f - g.
//
func (f Fixed) Sub(g Fixed) Fixed { return NewFixed(int64(f) - int64(g)) }

// Mul returns f * g.
//
func (f Fixed) Mul(g Fixed) Fixed { return NewFixed(int64(f) * int64(g) / fixedLimit) }

// Neg returns -f.
//
func (f Fixed) Neg() Fixed { return -f }

// Abs returns |f|.
//
func (f Fixed) Abs() Fixed {
	if f < 0 {
		return -f
	}
	return f
}

func (f Fixed) String() string { return strconv.FormatFloat(f.Float(), 'g', -1, 64) }
