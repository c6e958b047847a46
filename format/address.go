package format

import (
	"io"
)

// Separator is written in front of every address word.
const Separator = " "

// Address is a letter address such as X, F or S paired with a Format. A modal
// address remembers the last word it wrote and stays silent while the same
// word is set again.
type Address struct {
	Text   string
	Format Format
	Modal  bool

	pending    string
	hasPending bool
	previous   string
	hasPrev    bool
}

func NewAddress(text string, f Format, modal bool) *Address {
	return &Address{Text: text, Format: f, Modal: modal}
}

// Set stores the word for v; it is written by the next Write.
func (a *Address) Set(v float64) *Address {
	a.pending = a.Text + a.Format.String(v)
	a.hasPending = true
	return a
}

// Pending returns the word waiting to be written.
func (a *Address) Pending() (string, bool) {
	return a.pending, a.hasPending
}

// Previous returns the last word written.
func (a *Address) Previous() (string, bool) {
	return a.previous, a.hasPrev
}

// Write writes the pending word, preceded by Separator, unless there is none
// or the address is modal and the word equals the one last written. The
// pending word is cleared either way.
func (a *Address) Write(w io.StringWriter) error {
	if !a.hasPending {
		return nil
	}
	s := a.pending
	a.pending = ""
	a.hasPending = false

	if a.Modal && a.hasPrev && s == a.previous {
		return nil
	}
	if _, err := w.WriteString(Separator + s); err != nil {
		return err
	}
	a.previous = s
	a.hasPrev = true
	return nil
}

// Reset forgets the last written word so the next Write always emits.
func (a *Address) Reset() {
	a.previous = ""
	a.hasPrev = false
}

// AddressPlusMinus appends one of two suffixes depending on the sign of the
// value, e.g. a spindle speed followed by its direction code.
type AddressPlusMinus struct {
	Address
}

func NewAddressPlusMinus(text string, f Format, modal bool) *AddressPlusMinus {
	return &AddressPlusMinus{Address{Text: text, Format: f, Modal: modal}}
}

// Set stores the word for v followed by plus when v > 0 and by minus otherwise.
func (a *AddressPlusMinus) Set(v float64, plus, minus string) *AddressPlusMinus {
	a.Address.Set(v)
	if v > 0.0 {
		a.pending += plus
	} else {
		a.pending += minus
	}
	return a
}
