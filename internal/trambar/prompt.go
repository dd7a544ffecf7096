package trambar

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Prompter asks interactive questions on the terminal. When AssumeYes is
// set, or stdin is not a terminal, every prompt resolves to its default
// without blocking.
type Prompter struct {
	In        io.Reader
	Out       io.Writer
	AssumeYes bool

	reader *bufio.Reader
}

func NewPrompter(assumeYes bool) *Prompter {
	return &Prompter{
		In:        os.Stdin,
		Out:       os.Stdout,
		AssumeYes: assumeYes || !stdinIsTerminal(),
	}
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (p *Prompter) readLine() (string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. The default answer is shown uppercased
// and taken on empty input.
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	if p.AssumeYes {
		return def, nil
	}
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.Out, "%s [%s] ", question, hint)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return def, nil
}

// Ask reads a line of text, returning def on empty input.
func (p *Prompter) Ask(question, def string) (string, error) {
	if p.AssumeYes {
		return def, nil
	}
	if def != "" {
		fmt.Fprintf(p.Out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.Out, "%s: ", question)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// AskPort reads a TCP port, re-prompting until the input parses.
func (p *Prompter) AskPort(question, def string) (string, error) {
	for {
		val, err := p.Ask(question, def)
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(val); err == nil && n >= 1 && n <= 65535 {
			return val, nil
		}
		if p.AssumeYes {
			return "", fmt.Errorf("invalid port: %s", val)
		}
		fmt.Fprintf(p.Out, "invalid port %q, enter a number between 1 and 65535\n", val)
	}
}

var ErrPasswordMismatch = errors.New("passwords do not match")

// AskPassword reads a password twice with echo disabled. Fails rather than
// defaulting when the session is non-interactive.
func (p *Prompter) AskPassword(question string) (string, error) {
	if p.AssumeYes {
		return "", errors.New("cannot prompt for password in non-interactive mode; use --password")
	}
	fmt.Fprintf(p.Out, "%s: ", question)
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", err
	}
	fmt.Fprint(p.Out, "Confirm password: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", ErrPasswordMismatch
	}
	if len(first) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(first), nil
}
