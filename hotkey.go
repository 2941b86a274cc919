// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import "github.com/pkg/errors"

// HotkeyCode is a keyboard key that a Button chip can be bound to, or that a
// host can press during evaluation.
//
type HotkeyCode uint8

// Hotkey codes.
//
const (
	KeyUp HotkeyCode = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyKp0
	KeyKp1
	KeyKp2
	KeyKp3
	KeyKp4
	KeyKp5
	KeyKp6
	KeyKp7
	KeyKp8
	KeyKp9
	KeyNum0
	KeyNum1
	KeyNum2
	KeyNum3
	KeyNum4
	KeyNum5
	KeyNum6
	KeyNum7
	KeyNum8
	KeyNum9
	KeyBackquote
	KeyBackslash
	KeyLeftBracket
	KeyRightBracket
	KeyComma
	KeyEquals
	KeyMinus
	KeyPeriod
	KeyQuote
	KeySemicolon
	KeySlash
	KeySpace
	KeyTab

	hotkeyCodeCount
)

var hotkeyNames = func() []string {
	names := []string{"Up", "Down", "Left", "Right"}
	for c := 'A'; c <= 'Z'; c++ {
		names = append(names, string(c))
	}
	for c := '0'; c <= '9'; c++ {
		names = append(names, "Kp"+string(c))
	}
	for c := '0'; c <= '9'; c++ {
		names = append(names, "Num"+string(c))
	}
	return append(names, "Backquote", "Backslash", "LeftBracket", "RightBracket",
		"Comma", "Equals", "Minus", "Period", "Quote", "Semicolon", "Slash",
		"Space", "Tab")
}()

// AllHotkeyCodes returns every hotkey code in declaration order.
//
func AllHotkeyCodes() []HotkeyCode {
	codes := make([]HotkeyCode, hotkeyCodeCount)
	for i := range codes {
		codes[i] = HotkeyCode(i)
	}
	return codes
}

func (h HotkeyCode) String() string {
	if h < hotkeyCodeCount {
		return hotkeyNames[h]
	}
	return "HotkeyCode(?)"
}

// ParseHotkeyCode returns the code whose String is name.
//
func ParseHotkeyCode(name string) (HotkeyCode, error) {
	for i, n := range hotkeyNames {
		if n == name {
			return HotkeyCode(i), nil
		}
	}
	return 0, errors.Errorf("invalid hotkey code %q", name)
}
