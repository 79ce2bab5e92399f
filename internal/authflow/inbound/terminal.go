// Package inbound is the interactive terminal front-end of the
// authentication flow.
package inbound

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
	"github.com/harvestlink/farmgate/internal/authflow/usecase"
	"github.com/harvestlink/farmgate/internal/pkg/codeinput"
	"golang.org/x/term"
)

// Terminal walks a farmer through the flow on a text terminal. When stdin is
// a real terminal the code step switches to raw mode and renders the
// segmented input cell by cell; otherwise it falls back to line input, which
// also keeps the front-end scriptable.
type Terminal struct {
	flow  *usecase.Flow
	in    io.Reader
	out   io.Writer
	rawFD int // -1 when raw mode is unavailable
}

// NewTerminal creates a front-end reading from in and writing to out.
func NewTerminal(flow *usecase.Flow, in io.Reader, out io.Writer) *Terminal {
	rawFD := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rawFD = int(f.Fd())
	}

	return &Terminal{
		flow:  flow,
		in:    in,
		out:   out,
		rawFD: rawFD,
	}
}

// Run drives the flow until it is authenticated, dismissed, or the input
// runs dry.
func (t *Terminal) Run(ctx context.Context) error {
	reader := bufio.NewReader(t.in)

	for {
		if err := ctx.Err(); err != nil {
			t.flow.Close()
			return err
		}

		switch t.flow.Mode() {
		case entity.ModeLogin:
			if err := t.stepLogin(ctx, reader); err != nil {
				return err
			}
		case entity.ModeSignup:
			if err := t.stepSignup(ctx, reader); err != nil {
				return err
			}
		case entity.ModeOTP:
			if err := t.stepCode(ctx, reader); err != nil {
				return err
			}
		case entity.ModeAuthenticated:
			fmt.Fprintf(t.out, "\nWelcome, %s! You are signed in.\n", t.flow.Name())
			return nil
		default:
			return nil
		}
	}
}

func (t *Terminal) showError() {
	if msg := t.flow.LastError(); msg != "" {
		fmt.Fprintf(t.out, "  ! %s\n", msg)
	}
}

// readLine returns the next line without its terminator. io.EOF dismisses
// the flow.
func (t *Terminal) readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		t.flow.Close()
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) stepLogin(ctx context.Context, reader *bufio.Reader) error {
	t.showError()
	fmt.Fprint(t.out, "Email (q to quit): ")

	line, err := t.readLine(reader)
	if err != nil {
		return nil
	}
	if line == "q" {
		t.flow.Close()
		return nil
	}

	// Failures surface through LastError on the next render.
	_ = t.flow.SubmitEmail(ctx, usecase.SubmitEmailInput{Email: line})
	return nil
}

func (t *Terminal) stepSignup(ctx context.Context, reader *bufio.Reader) error {
	t.showError()
	fmt.Fprintf(t.out, "No account for %s yet. Let's create one.\n", t.flow.Email())

	fmt.Fprint(t.out, "Name (b to go back): ")
	name, err := t.readLine(reader)
	if err != nil {
		return nil
	}
	if name == "b" {
		_ = t.flow.Back(ctx)
		return nil
	}

	fmt.Fprint(t.out, "Phone: ")
	phone, err := t.readLine(reader)
	if err != nil {
		return nil
	}

	_ = t.flow.SubmitSignup(ctx, usecase.SubmitSignupInput{Name: name, Phone: phone})
	return nil
}

func (t *Terminal) stepCode(ctx context.Context, reader *bufio.Reader) error {
	t.showError()
	fmt.Fprintf(t.out, "A %d-digit code was sent to %s.\n", usecase.CodeLength, t.flow.Email())

	if t.rawFD >= 0 {
		return t.codeRaw(ctx)
	}
	return t.codeLine(ctx, reader)
}

// codeLine is the cooked-mode code step: a full line is pasted into the
// widget, "r" resends, "q" quits.
func (t *Terminal) codeLine(ctx context.Context, reader *bufio.Reader) error {
	fmt.Fprint(t.out, "Code (r to resend, q to quit): ")

	line, err := t.readLine(reader)
	if err != nil {
		return nil
	}

	switch line {
	case "q":
		t.flow.Close()
		return nil
	case "r":
		_ = t.flow.ResendCode(ctx)
		return nil
	}

	var code string
	in := codeinput.New(usecase.CodeLength, func(c string) { code = c })
	in.Paste(line)
	if code == "" {
		fmt.Fprintf(t.out, "  ! Please enter all %d digits.\n", usecase.CodeLength)
		return nil
	}

	_ = t.flow.SubmitCode(ctx, usecase.SubmitCodeInput{Code: code})
	return nil
}

// codeRaw is the raw-mode code step: one keystroke per cell, arrows and
// backspace move between cells, Ctrl+C dismisses.
func (t *Terminal) codeRaw(ctx context.Context) error {
	oldState, err := term.MakeRaw(t.rawFD)
	if err != nil {
		return err
	}
	defer term.Restore(t.rawFD, oldState)

	var code string
	in := codeinput.New(usecase.CodeLength, func(c string) { code = c })

	buf := make([]byte, 1)
	for code == "" {
		t.renderCells(in)

		if _, err := t.in.Read(buf); err != nil {
			t.flow.Close()
			return nil
		}

		switch buf[0] {
		case 0x03: // Ctrl+C
			fmt.Fprint(t.out, "\r\n")
			t.flow.Close()
			return nil
		case 'r':
			term.Restore(t.rawFD, oldState)
			fmt.Fprint(t.out, "\r\n")
			_ = t.flow.ResendCode(ctx)
			return nil
		case 0x7f, 0x08: // Backspace
			in.Backspace()
		case 0x1b: // ESC [ C / ESC [ D arrow sequences
			seq := make([]byte, 2)
			if _, err := io.ReadFull(t.in, seq); err != nil {
				continue
			}
			if seq[0] != '[' {
				continue
			}
			switch seq[1] {
			case 'C':
				in.Right()
			case 'D':
				in.Left()
			}
		default:
			in.Key(rune(buf[0]))
		}
	}

	term.Restore(t.rawFD, oldState)
	fmt.Fprint(t.out, "\r\n")

	_ = t.flow.SubmitCode(ctx, usecase.SubmitCodeInput{Code: code})
	return nil
}

func (t *Terminal) renderCells(in *codeinput.Input) {
	var sb strings.Builder
	sb.WriteString("\r  ")

	for i, c := range in.Cells() {
		if i == in.Focus() {
			sb.WriteByte('[')
		} else {
			sb.WriteByte(' ')
		}
		if c == 0 {
			sb.WriteByte('_')
		} else {
			sb.WriteRune(c)
		}
		if i == in.Focus() {
			sb.WriteByte(']')
		} else {
			sb.WriteByte(' ')
		}
	}

	fmt.Fprint(t.out, sb.String())
}
