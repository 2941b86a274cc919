// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	"fmt"
	"sort"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

const (
	alienInput     = "EGARAW RASLIJANI EYON VARENEM SI RIHAN UT UTASA= EGARAW UT ONUBEMIA ID ISYKEA DUHAM UTASIKI= EYOM IGNU YAPI DENG IX= RIHAN SHAOMA UTASA UT NU GAREP EYOMI VAD= "
	expectedOutput = "ALIENS BIZARRE US ATTACKED DURING DAY THE FIRST. ALIENS THE KILLING AND DESTRUCTION WANT ONLY. WE BECAUSE WHY KNOW NOT. DAY THAT FIRST THE OF WAR OUR WAS. "

	// MaxWordLen is the capacity of the translation buffer.
	MaxWordLen = 12

	unknownTranslation = "???"
)

type translation struct {
	delay        uint32
	alien, human string
}

// sorted by alien word
var translations = []translation{
	{4, "DENG", "KNOW"},
	{4, "DUHAM", "WANT"},
	{5, "EGARAW", "ALIENS"},
	{4, "EYOM", "WE"},
	{5, "EYOMI", "OUR"},
	{4, "EYON", "US"},
	{5, "GAREP", "WAR"},
	{3, "ID", "AND"},
	{5, "IGNU", "BECAUSE"},
	{8, "ISYKEA", "DESTRUCTION"},
	{3, "IX", "NOT"},
	{4, "NU", "OF"},
	{9, "ONUBEMIA", "KILLING"},
	{9, "RASLIJANI", "BIZARRE"},
	{5, "RIHAN", "DAY"},
	{5, "SHAOMA", "THAT"},
	{4, "SI", "DURING"},
	{3, "UT", "THE"},
	{4, "UTASA", "FIRST"},
	{4, "UTASIKI", "ONLY"},
	{5, "VAD", "WAS"},
	{7, "VARENEM", "ATTACKED"},
	{5, "YAPI", "WHY"},
}

// AlienByteToValue encodes a character of alien text.
//
func AlienByteToValue(b byte) uint32 {
	switch {
	case b >= 'A' && b <= 'Z':
		return uint32(b-'A') + 1
	case b == '=':
		return 30
	}
	return 0
}

// AlienValueToByte decodes a character of alien text.
//
func AlienValueToByte(v uint32) byte {
	switch {
	case v == 0:
		return ' '
	case v >= 1 && v <= 26:
		return 'A' + byte(v-1)
	case v == 30:
		return '='
	}
	return '?'
}

// TranslateWord returns the translation of an alien word and the number of
// time steps it takes. A trailing '=' ends a sentence.
//
func TranslateWord(alien string) (delay uint32, human string) {
	if alien == "" {
		return 1, ""
	}
	n := len(alien)
	period := alien[n-1] == '='
	if period {
		alien = alien[:n-1]
	}
	i := sort.Search(len(translations), func(i int) bool { return translations[i].alien >= alien })
	if i < len(translations) && translations[i].alien == alien {
		delay, human = translations[i].delay, translations[i].human
	} else {
		delay, human = uint32(len(alien)), unknownTranslation
	}
	if period {
		human += "."
	}
	return delay, human
}

var translatorInterfaces = []Interface{
	{
		Name:        "Reader",
		Description: "Connects to an OCR scanner for reading alien text.",
		Side:        geom.West, Pos: Center,
		Ports:       []InterfacePort{in("Read", gs.Event, gs.Eight)},
	},
	{
		Name:        "Printer",
		Description: "Connects to a printer for the translated text.",
		Side:        geom.East, Pos: Center,
		Ports:       []InterfacePort{out("Print", gs.Event, gs.Eight)},
	},
	{
		Name:        "Translation",
		Description: "Connects to the translation unit. Send alien characters one at a time, then a zero to translate the word.",
		Side:        geom.South, Pos: Center,
		Ports: []InterfacePort{
			out("Alien", gs.Event, gs.Eight),
			in("Human", gs.Event, gs.Eight),
		},
	},
}

type pendingTranslation struct {
	delay uint32
	bytes []byte
}

// Translator is the environment of the translator puzzle: the circuit feeds
// alien words to a slow translation unit and prints the result.
//
type Translator struct {
	gs.BasePuzzle
	read, print, alien, human gs.Slot

	numRead int
	printed []byte
	buffer  []byte
	pending *pendingTranslation
}

func newTranslator(slots [][]gs.Slot) *Translator {
	return &Translator{
		read:  slots[0][0],
		print: slots[1][0],
		alien: slots[2][0],
		human: slots[2][1],
	}
}

// BytesRead returns the input read so far.
//
func (t *Translator) BytesRead() string { return alienInput[:t.numRead] }

// BytesPrinted returns the output printed so far.
//
func (t *Translator) BytesPrinted() string { return string(t.printed) }

// Buffer returns the contents of the translation buffer.
//
func (t *Translator) Buffer() string { return string(t.buffer) }

// Pending returns the part of the current translation not yet sent.
//
func (t *Translator) Pending() (string, bool) {
	if t.pending == nil {
		return "", false
	}
	return string(t.pending.bytes), true
}

func (t *Translator) sendTranslated(s *gs.State) {
	p := t.pending
	if p == nil || p.delay != 0 {
		return
	}
	s.SendEvent(t.human.Wire, uint32(p.bytes[0]))
	p.bytes = p.bytes[1:]
	if len(p.bytes) == 0 {
		t.buffer = t.buffer[:0]
		t.pending = nil
	}
}

// TaskIsCompleted implements gridsim.PuzzleEval.
//
func (t *Translator) TaskIsCompleted(*gs.State) bool {
	return len(t.printed) >= len(expectedOutput)
}

// BeginTimeStep implements gridsim.PuzzleEval.
//
func (t *Translator) BeginTimeStep(s *gs.State) {
	if t.numRead < len(alienInput) {
		s.SendEvent(t.read.Wire, AlienByteToValue(alienInput[t.numRead]))
		t.numRead++
	}
	t.sendTranslated(s)
}

// BeginAdditionalCycle implements gridsim.PuzzleEval.
//
func (t *Translator) BeginAdditionalCycle(s *gs.State) { t.sendTranslated(s) }

// EndCycle implements gridsim.PuzzleEval.
//
func (t *Translator) EndCycle(s *gs.State) []gs.EvalError {
	var errs []gs.EvalError
	if v, ok := s.RecvEvent(t.alien.Wire); ok {
		switch {
		case t.pending != nil:
			errs = append(errs, s.FatalPortError(t.alien.Loc,
				"Can't push new characters to translation buffer while translation is in progress"))
		case v == 0:
			delay, human := TranslateWord(string(t.buffer))
			t.pending = &pendingTranslation{delay: delay, bytes: append([]byte(human), 0)}
		default:
			t.buffer = append(t.buffer, AlienValueToByte(v))
			if len(t.buffer) > MaxWordLen {
				errs = append(errs, s.FatalPortError(t.alien.Loc,
					fmt.Sprintf("Too many characters in translation buffer (max word length is %d)", MaxWordLen)))
			}
		}
	}
	if v, ok := s.RecvEvent(t.print.Wire); ok {
		b := byte(v)
		switch {
		case b == 0:
			b = ' '
		case b >= 'A' && b <= 'Z' || b == '.':
		default:
			b = '?'
		}
		i := len(t.printed)
		if i >= len(expectedOutput) {
			errs = append(errs, s.FatalPortError(t.print.Loc,
				fmt.Sprintf("Printed too many output characters (expected only %d)", len(expectedOutput))))
		} else if want := expectedOutput[i]; b != want {
			wv := uint32(want)
			if want == ' ' {
				wv = 0
			}
			errs = append(errs, s.FatalPortError(t.print.Loc,
				fmt.Sprintf("Printed incorrect character at position %d (expected %d, but was %d)", i, wv, v)))
		}
		t.printed = append(t.printed, b)
	}
	return errs
}

// NeedsAnotherCycle implements gridsim.PuzzleEval.
//
func (t *Translator) NeedsAnotherCycle(*gs.State) bool {
	return t.pending != nil && t.pending.delay == 0
}

// EndTimeStep implements gridsim.PuzzleEval.
//
func (t *Translator) EndTimeStep(*gs.State) []gs.EvalError {
	if t.pending != nil && t.pending.delay > 0 {
		t.pending.delay--
	}
	return nil
}
