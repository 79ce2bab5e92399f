// Package codeinput models a fixed-length, one-digit-per-cell code entry
// widget.
//
// The model is pure state: it knows nothing about terminals or rendering.
// A front-end feeds it keystrokes and paste events and draws Cells() however
// it likes. When every cell holds a digit the completion callback fires with
// the assembled code.
package codeinput

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultLength is the number of cells when New receives a non-positive length.
const DefaultLength = 6

// Input is the segmented code entry model.
//
// The zero value is not usable; construct with New.
type Input struct {
	cells      []rune // 0 means the cell is empty
	focus      int
	disabled   bool
	completed  bool
	onComplete func(code string)
}

// New creates an Input with the given number of cells. Focus starts at the
// first cell, mirroring the widget receiving focus on mount. onComplete may
// be nil.
func New(length int, onComplete func(code string)) *Input {
	if length <= 0 {
		length = DefaultLength
	}

	return &Input{
		cells:      make([]rune, length),
		onComplete: onComplete,
	}
}

// Length returns the number of cells.
func (in *Input) Length() int {
	return len(in.cells)
}

// Focus returns the index of the focused cell.
func (in *Input) Focus() int {
	return in.focus
}

// Disabled reports whether the widget ignores input.
func (in *Input) Disabled() bool {
	return in.disabled
}

// Cells returns a copy of the per-cell contents; 0 marks an empty cell.
func (in *Input) Cells() []rune {
	out := make([]rune, len(in.cells))
	copy(out, in.cells)
	return out
}

// String returns the digits entered so far, skipping empty cells.
func (in *Input) String() string {
	var sb strings.Builder
	for _, c := range in.cells {
		if c != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// Complete reports whether every cell holds a digit.
func (in *Input) Complete() bool {
	return lo.EveryBy(in.cells, func(c rune) bool { return c != 0 })
}

// SetDisabled toggles input handling. Transitioning from disabled to enabled
// returns focus to the first cell, the same as a fresh mount.
func (in *Input) SetDisabled(disabled bool) {
	if in.disabled && !disabled {
		in.focus = 0
	}
	in.disabled = disabled
}

// Reset clears all cells, returns focus to the first cell and re-arms the
// completion callback.
func (in *Input) Reset() {
	for i := range in.cells {
		in.cells[i] = 0
	}
	in.focus = 0
	in.completed = false
}

// Key handles a single typed character. Digits are stored in the focused cell
// and advance focus; anything else is rejected and leaves the cell unchanged.
func (in *Input) Key(r rune) {
	if in.disabled || !isDigit(r) {
		return
	}

	in.cells[in.focus] = r
	if in.focus < len(in.cells)-1 {
		in.focus++
	}

	// Completion is content-based, not focus-based: a digit typed into the
	// last cell completes the code even though focus has nowhere to go.
	in.fireIfComplete()
}

// Backspace clears the focused cell when it holds a digit; on an empty cell
// it moves focus one cell to the left instead.
func (in *Input) Backspace() {
	if in.disabled {
		return
	}

	if in.cells[in.focus] != 0 {
		in.cells[in.focus] = 0
		in.completed = false
		return
	}

	if in.focus > 0 {
		in.focus--
	}
}

// Left moves focus one cell to the left without altering content.
func (in *Input) Left() {
	if in.disabled {
		return
	}
	if in.focus > 0 {
		in.focus--
	}
}

// Right moves focus one cell to the right without altering content.
func (in *Input) Right() {
	if in.disabled {
		return
	}
	if in.focus < len(in.cells)-1 {
		in.focus++
	}
}

// Paste distributes the digits of s left-to-right starting at the first cell,
// overwriting existing content. Non-digit characters are stripped and the
// remainder is truncated to the cell count. Focus lands on the last cell that
// received a character; an effectively empty paste is a no-op.
func (in *Input) Paste(s string) {
	if in.disabled {
		return
	}

	digits := lo.Filter([]rune(s), func(r rune, _ int) bool { return isDigit(r) })
	if len(digits) == 0 {
		return
	}
	if len(digits) > len(in.cells) {
		digits = digits[:len(in.cells)]
	}

	for i, d := range digits {
		in.cells[i] = d
	}
	in.focus = len(digits) - 1

	in.fireIfComplete()
}

func (in *Input) fireIfComplete() {
	if in.completed || !in.Complete() {
		return
	}

	in.completed = true
	if in.onComplete != nil {
		in.onComplete(in.String())
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
