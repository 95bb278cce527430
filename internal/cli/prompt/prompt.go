// Package prompt implements the interactive port and baud selection.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bvat-tools/framelog/internal/cli/console"
	"github.com/bvat-tools/framelog/pkg/detector"
	"github.com/bvat-tools/framelog/pkg/serialport"
)

// ErrAborted is returned when the operator cancels setup or gives input
// that cannot be used. It ends the run without recording anything.
var ErrAborted = errors.New("setup aborted")

// Prompter asks the operator questions on a line-oriented terminal.
// Each question waits for a full answer line or for its context to be
// cancelled, whichever comes first.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter reading answers from in and writing questions
// to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// ListPorts prints the indexed port list, marking the detected adapter.
func ListPorts(w io.Writer, ports []serialport.PortInfo, detected *detector.Result) {
	console.Title(w, "Available serial ports:")
	for i, p := range ports {
		line := fmt.Sprintf("  [%d]: %s - %s", i, p.Name, p.Label())
		if detected != nil && detected.IsBest(p.Name) {
			line += " " + console.DetectedStyle.Render("(detected)")
		}
		fmt.Fprintln(w, line)
	}
}

// SelectPort asks which port to use. The answer may be an index into
// ports, a literal port name, or empty to accept the detected default.
func (p *Prompter) SelectPort(ctx context.Context, ports []serialport.PortInfo, detected *detector.Result) (string, error) {
	def := ""
	if best := detected.Best(); best != nil {
		def = best.Port.Name
		fmt.Fprintf(p.out, "\nAuto-detected %s adapter on port: %s\n", best.Keyword, console.DetectedStyle.Render(def))
	}

	question := "Enter port number or full name: "
	if def != "" {
		question = fmt.Sprintf("Enter port number or full name (default: %s): ", def)
	}

	answer, err := p.ask(ctx, question)
	if err != nil {
		return "", err
	}

	if answer == "" {
		if def == "" {
			return "", fmt.Errorf("%w: no serial port selected", ErrAborted)
		}
		return def, nil
	}

	if idx, err := strconv.Atoi(answer); err == nil {
		if idx < 0 || idx >= len(ports) {
			return "", fmt.Errorf("%w: invalid port number %d", ErrAborted, idx)
		}
		return ports[idx].Name, nil
	}
	return answer, nil
}

// Baud asks for the baud rate, offering def when the answer is empty.
func (p *Prompter) Baud(ctx context.Context, def int) (int, error) {
	answer, err := p.ask(ctx, fmt.Sprintf("Enter baud rate (default: %d): ", def))
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return def, nil
	}

	baud, err := strconv.Atoi(answer)
	if err != nil || baud <= 0 {
		return 0, fmt.Errorf("%w: invalid baud rate %q", ErrAborted, answer)
	}
	return baud, nil
}

// reply is one line read from the operator.
type reply struct {
	text string
	err  error
}

// ask prints question and returns the trimmed answer. End of input or a
// cancelled context means the operator cancelled. The read continues in
// the background after cancellation; the prompter must not be reused.
func (p *Prompter) ask(ctx context.Context, question string) (string, error) {
	fmt.Fprint(p.out, question)

	ch := make(chan reply, 1)
	go func() {
		text, err := p.in.ReadString('\n')
		ch <- reply{text: text, err: err}
	}()

	var a reply
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", fmt.Errorf("%w: selection cancelled", ErrAborted)
	case a = <-ch:
	}

	if a.err != nil && !(errors.Is(a.err, io.EOF) && a.text != "") {
		fmt.Fprintln(p.out)
		if errors.Is(a.err, io.EOF) {
			return "", fmt.Errorf("%w: selection cancelled", ErrAborted)
		}
		return "", fmt.Errorf("reading answer: %w", a.err)
	}
	return strings.TrimSpace(a.text), nil
}
