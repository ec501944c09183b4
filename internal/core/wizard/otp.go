package wizard

import "strings"

// OTPLength is the number of single-digit cells in an OTP entry.
const OTPLength = 6

// OTP models the six single-digit inputs and which one has focus.
type OTP struct {
	Cells [OTPLength]string
	Focus int
}

// Enter applies a keystroke to cell i. Only the first character is kept, a
// non-digit leaves the cell unchanged, and a digit in any cell but the last
// moves focus to the next cell. An empty value clears the cell.
func (o OTP) Enter(i int, v string) OTP {
	if i < 0 || i >= OTPLength {
		return o
	}
	if len(v) > 1 {
		v = v[:1]
	}
	if v != "" && (v[0] < '0' || v[0] > '9') {
		return o
	}
	o.Cells[i] = v
	if v != "" && i < OTPLength-1 {
		o.Focus = i + 1
	}
	return o
}

// Backspace applies a backspace to cell i: a filled cell is cleared, an empty
// cell moves focus back one place.
func (o OTP) Backspace(i int) OTP {
	if i < 0 || i >= OTPLength {
		return o
	}
	if o.Cells[i] != "" {
		o.Cells[i] = ""
		return o
	}
	if i > 0 {
		o.Focus = i - 1
	}
	return o
}

// Fill enters each value into its cell in order, as if typed.
func (o OTP) Fill(values []string) OTP {
	for i, v := range values {
		if i >= OTPLength {
			break
		}
		o = o.Enter(i, v)
	}
	return o
}

// Code joins the cells.
func (o OTP) Code() string {
	return strings.Join(o.Cells[:], "")
}

// Complete reports whether every cell holds a digit.
func (o OTP) Complete() bool {
	for _, c := range o.Cells {
		if c == "" {
			return false
		}
	}
	return true
}
