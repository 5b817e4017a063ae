// Package keys classifies raw key codes read from a terminal in raw mode.
package keys

import (
	"fmt"
	"unicode"
)

// Raw codes the classifier understands. Dedicated codes sit above the Unicode
// range so they never collide with a printable rune.
const (
	CodeInterrupt = 0x03 // ETX, Ctrl+C in raw mode
	CodeBS        = 0x08
	CodeLF        = 0x0a
	CodeCR        = 0x0d
	CodeDEL       = 0x7f // erase character sent by most terminals

	CodeEnter     = unicode.MaxRune + 1
	CodeBackspace = unicode.MaxRune + 2
)

// Kind is the semantic class of a key.
type Kind int

// Key kinds.
const (
	Ignored Kind = iota
	Enter
	Backspace
	Interrupt
	Printable
)

func (k Kind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Backspace:
		return "backspace"
	case Interrupt:
		return "interrupt"
	case Printable:
		return "printable"
	default:
		return "ignored"
	}
}

// Key is a classified key event. Rune is set only for Printable keys.
type Key struct {
	Kind Kind
	Rune rune
}

func (k Key) String() string {
	if k.Kind == Printable {
		return fmt.Sprintf("%s(%q)", k.Kind, k.Rune)
	}
	return k.Kind.String()
}

// Classify maps a raw key code to a Key.
func Classify(code int) Key {
	switch code {
	case CodeLF, CodeCR, CodeEnter:
		return Key{Kind: Enter}
	case CodeBS, CodeDEL, CodeBackspace:
		return Key{Kind: Backspace}
	case CodeInterrupt:
		return Key{Kind: Interrupt}
	}
	if code < 0 || code > unicode.MaxRune {
		return Key{Kind: Ignored}
	}
	r := rune(code)
	if !unicode.IsPrint(r) {
		return Key{Kind: Ignored}
	}
	return Key{Kind: Printable, Rune: r}
}

// Char builds a Printable key for r.
func Char(r rune) Key {
	return Key{Kind: Printable, Rune: r}
}
