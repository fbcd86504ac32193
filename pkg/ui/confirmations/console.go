// Package confirmations asks the user to approve guarded operations such
// as deleting a folder that still has content.
package confirmations

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/scriptbrowser/pkg/types"
)

// maxListed caps how many affected items are printed before "and N more".
const maxListed = 5

// Dialog answers confirmation requests.
type Dialog interface {
	Confirm(req types.ConfirmationRequest) (bool, error)
}

// ConsoleDialog prints the request and asks y/N. On a terminal the
// question is a pterm interactive confirm; otherwise a line is read from
// the input.
type ConsoleDialog struct {
	out    io.Writer
	in     *bufio.Reader
	prompt func(text string, def bool) (bool, error)
}

// NewConsoleDialog creates a console dialog writing to out and reading
// from in.
func NewConsoleDialog(out io.Writer, in io.Reader) *ConsoleDialog {
	d := &ConsoleDialog{out: out, in: bufio.NewReader(in)}
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		d.prompt = interactive
	} else {
		d.prompt = d.readLine
	}
	return d
}

func interactive(text string, def bool) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(def).
		WithDefaultText(text).
		Show()
}

func (d *ConsoleDialog) readLine(text string, def bool) (bool, error) {
	marker := "[y/N]"
	if def {
		marker = "[Y/n]"
	}
	if _, err := fmt.Fprintf(d.out, "%s %s: ", text, marker); err != nil {
		return false, err
	}

	line, err := d.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}
	return ParseAnswer(line, def), nil
}

// ParseAnswer reads a typed y/n answer. Blank means def; anything but
// y or yes is a no.
func ParseAnswer(line string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return def
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Confirm shows req and returns the user's answer.
func (d *ConsoleDialog) Confirm(req types.ConfirmationRequest) (bool, error) {
	Describe(d.out, req)
	return d.prompt("Continue?", req.Default)
}

// Describe prints the title, the affected items and the description of
// req.
func Describe(out io.Writer, req types.ConfirmationRequest) {
	pterm.Fprintln(out, pterm.Bold.Sprint(req.Title))
	items := req.Items
	more := 0
	if len(items) > maxListed {
		more = len(items) - maxListed
		items = items[:maxListed]
	}
	for _, item := range items {
		pterm.Fprintln(out, "  └── "+item)
	}
	if more > 0 {
		pterm.Fprintln(out, fmt.Sprintf("  └── and %d more", more))
	}
	if req.Description != "" {
		pterm.Fprintln(out, req.Description)
	}
}

// StaticDialog gives the same answer to every request. Used for --yes and
// in tests.
type StaticDialog struct {
	Answer bool
	Asked  []types.ConfirmationRequest
}

// Confirm records req and returns the fixed answer.
func (d *StaticDialog) Confirm(req types.ConfirmationRequest) (bool, error) {
	d.Asked = append(d.Asked, req)
	return d.Answer, nil
}

// PresentConfirmations asks about each request in order.
func PresentConfirmations(d Dialog, reqs []types.ConfirmationRequest) ([]types.ConfirmationResponse, error) {
	responses := make([]types.ConfirmationResponse, 0, len(reqs))
	for _, req := range reqs {
		approved, err := d.Confirm(req)
		if err != nil {
			return nil, fmt.Errorf("failed to confirm %s: %w", req.ID, err)
		}
		responses = append(responses, types.ConfirmationResponse{ID: req.ID, Approved: approved})
	}
	return responses, nil
}
