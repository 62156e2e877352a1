package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt to w and reads a secret without echo when stdin
// is a terminal. Otherwise (piped input) the next line of reader is used.
func GetPassword(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := reader.ReadString('\n')
		fmt.Fprintln(w)
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// argOrPrompt returns args[i] when present, otherwise asks for it.
func (a *App) argOrPrompt(args []string, i int, prompt string) (string, error) {
	if i < len(args) {
		return args[i], nil
	}
	return getSimpleText(a.reader, prompt, a.Out)
}

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)
