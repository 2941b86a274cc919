// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"math"
	"strconv"

	"github.com/db47h/gridsim/geom"
	"github.com/pkg/errors"
)

// DeltaKey returns the string key for coordinates d. The key is the sign
// letter of X (p or m) followed by its magnitude, then the same for Y:
// (3, -1) gives "p3m1".
//
func DeltaKey(d geom.Coords) string {
	b := make([]byte, 0, 8)
	b = appendSigned(b, d.X)
	b = appendSigned(b, d.Y)
	return string(b)
}

func appendSigned(b []byte, v int) []byte {
	if v < 0 {
		b = append(b, 'm')
		return strconv.AppendUint(b, uint64(-int64(v)), 10)
	}
	return strconv.AppendUint(append(b, 'p'), uint64(v), 10)
}

// ParseDeltaKey parses a key returned by DeltaKey.
//
func ParseDeltaKey(key string) (geom.Coords, error) {
	x, rest, ok := parseSigned(key)
	if !ok {
		return geom.Coords{}, errors.Errorf("invalid coords key %q", key)
	}
	y, rest, ok := parseSigned(rest)
	if !ok || rest != "" {
		return geom.Coords{}, errors.Errorf("invalid coords key %q", key)
	}
	return geom.C(x, y), nil
}

func parseSigned(s string) (int, string, bool) {
	if len(s) < 2 {
		return 0, s, false
	}
	var sign int64
	switch s[0] {
	case 'p':
		sign = 1
	case 'm':
		sign = -1
	default:
		return 0, s, false
	}
	i := 1
	var v int64
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		v = v*10 + int64(s[i]-'0')
		if v > math.MaxInt32 {
			return 0, s, false
		}
	}
	if i == 1 {
		return 0, s, false
	}
	return int(sign * v), s[i:], true
}

// LocationKey returns the string key of a wire fragment: the DeltaKey of its
// cell followed by the direction letter (e, s, w or n).
//
func LocationKey(d geom.Coords, dir geom.Direction) string {
	return DeltaKey(d) + string(dir.Letter())
}

// ParseLocationKey parses a key returned by LocationKey.
//
func ParseLocationKey(key string) (geom.Coords, geom.Direction, error) {
	if key == "" {
		return geom.Coords{}, 0, errors.New("empty location key")
	}
	dir, ok := geom.DirectionFromLetter(key[len(key)-1])
	if !ok {
		return geom.Coords{}, 0, errors.Errorf("invalid location key %q", key)
	}
	d, err := ParseDeltaKey(key[:len(key)-1])
	if err != nil {
		return geom.Coords{}, 0, errors.Errorf("invalid location key %q", key)
	}
	return d, dir, nil
}
