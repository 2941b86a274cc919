// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"os"
	"strconv"

	gs "github.com/db47h/gridsim"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Hotkey is a host action that can be bound to a key.
//
type Hotkey uint8

// Hotkey actions.
//
const (
	EvalFastForward Hotkey = iota
	EvalReset
	EvalRunPause
	EvalStepCycle
	EvalStepSubcycle
	EvalStepTime
	FlipHorz
	FlipVert
	RotateCcw
	RotateCw
	ScrollDown
	ScrollLeft
	ScrollRight
	ScrollUp
	ZoomDefault
	ZoomIn
	ZoomOut

	hotkeyCount
)

var hotkeys = [hotkeyCount]struct {
	name string
	def  gs.HotkeyCode
}{
	EvalFastForward:  {"EvalFastForward", gs.KeyG},
	EvalReset:        {"EvalReset", gs.KeyT},
	EvalRunPause:     {"EvalRunPause", gs.KeyR},
	EvalStepCycle:    {"EvalStepCycle", gs.KeyD},
	EvalStepSubcycle: {"EvalStepSubcycle", gs.KeyS},
	EvalStepTime:     {"EvalStepTime", gs.KeyF},
	FlipHorz:         {"FlipHorz", gs.KeyA},
	FlipVert:         {"FlipVert", gs.KeyW},
	RotateCcw:        {"RotateCcw", gs.KeyQ},
	RotateCw:         {"RotateCw", gs.KeyE},
	ScrollDown:       {"ScrollDown", gs.KeyDown},
	ScrollLeft:       {"ScrollLeft", gs.KeyLeft},
	ScrollRight:      {"ScrollRight", gs.KeyRight},
	ScrollUp:         {"ScrollUp", gs.KeyUp},
	ZoomDefault:      {"ZoomDefault", gs.KeyNum0},
	ZoomIn:           {"ZoomIn", gs.KeyEquals},
	ZoomOut:          {"ZoomOut", gs.KeyMinus},
}

// AllHotkeys returns every action in declaration order.
//
func AllHotkeys() []Hotkey {
	hs := make([]Hotkey, hotkeyCount)
	for i := range hs {
		hs[i] = Hotkey(i)
	}
	return hs
}

func (h Hotkey) String() string {
	if h < hotkeyCount {
		return hotkeys[h].name
	}
	return "Hotkey(" + strconv.Itoa(int(h)) + ")"
}

// DefaultKeycode returns the key bound to h by default.
//
func (h Hotkey) DefaultKeycode() gs.HotkeyCode { return hotkeys[h].def }

// ParseHotkey returns the action whose String is name.
//
func ParseHotkey(name string) (Hotkey, error) {
	for i := range hotkeys {
		if hotkeys[i].name == name {
			return Hotkey(i), nil
		}
	}
	return 0, errors.Errorf("unknown hotkey %q", name)
}

// HotkeyBindings maps actions to keys. Every action is bound to exactly one
// key and no key is bound to more than one action.
//
type HotkeyBindings struct {
	keys    [hotkeyCount]gs.HotkeyCode
	actions map[gs.HotkeyCode]Hotkey
}

// DefaultHotkeyBindings returns the default bindings.
//
func DefaultHotkeyBindings() *HotkeyBindings {
	b := &HotkeyBindings{actions: make(map[gs.HotkeyCode]Hotkey, hotkeyCount)}
	for i := range hotkeys {
		b.keys[i] = hotkeys[i].def
		b.actions[hotkeys[i].def] = Hotkey(i)
	}
	return b
}

// Keycode returns the key bound to h.
//
func (b *HotkeyBindings) Keycode(h Hotkey) gs.HotkeyCode { return b.keys[h] }

// Hotkey returns the action bound to code, if any.
//
func (b *HotkeyBindings) Hotkey(code gs.HotkeyCode) (Hotkey, bool) {
	h, ok := b.actions[code]
	return h, ok
}

// SetKeycode binds h to code. If code was bound to another action, that
// action takes the key previously bound to h.
//
func (b *HotkeyBindings) SetKeycode(h Hotkey, code gs.HotkeyCode) {
	old := b.keys[h]
	if old == code {
		return
	}
	if other, ok := b.actions[code]; ok {
		b.keys[other] = old
		b.actions[old] = other
	} else {
		delete(b.actions, old)
	}
	b.keys[h] = code
	b.actions[code] = h
}

// AreDefaults reports whether every action has its default key.
//
func (b *HotkeyBindings) AreDefaults() bool {
	for i := range hotkeys {
		if b.keys[i] != hotkeys[i].def {
			return false
		}
	}
	return true
}

// MarshalYAML implements yaml.Marshaler. Bindings are written as a mapping
// from action name to key name.
//
func (b *HotkeyBindings) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for i := range hotkeys {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: hotkeys[i].name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: b.keys[i].String(), Style: yaml.DoubleQuotedStyle})
	}
	return n, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Unknown actions and keys are
// ignored and missing actions keep their default key.
//
func (b *HotkeyBindings) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]string
	if err := value.Decode(&m); err != nil {
		return errors.Wrap(err, "could not deserialize hotkey bindings")
	}
	*b = *DefaultHotkeyBindings()
	for _, h := range AllHotkeys() {
		name, ok := m[h.String()]
		if !ok {
			continue
		}
		code, err := gs.ParseHotkeyCode(name)
		if err != nil {
			continue
		}
		b.SetKeycode(h, code)
	}
	return nil
}

// EncodeHotkeys returns the YAML form of b.
//
func EncodeHotkeys(b *HotkeyBindings) ([]byte, error) {
	out, err := yaml.Marshal(b)
	return out, errors.Wrap(err, "could not serialize hotkey bindings")
}

// DecodeHotkeys parses YAML hotkey bindings.
//
func DecodeHotkeys(data []byte) (*HotkeyBindings, error) {
	b := DefaultHotkeyBindings()
	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadHotkeys reads a bindings file. A missing file yields the defaults.
//
func LoadHotkeys(name string) (*HotkeyBindings, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultHotkeyBindings(), nil
		}
		return nil, errors.Wrap(err, "could not read hotkey file")
	}
	return DecodeHotkeys(data)
}
