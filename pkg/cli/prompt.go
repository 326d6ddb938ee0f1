package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptLine reads one line of visible input.
func promptLine(rt *runtimeState, label string) (string, error) {
	fmt.Fprintf(rt.Writer(), "%s: ", label)
	line, err := rt.input().ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal.
// Non-terminal input (tests, pipes) falls back to a plain line read.
func promptPassword(rt *runtimeState, label string) (string, error) {
	fmt.Fprintf(rt.Writer(), "%s: ", label)

	if f, ok := rt.reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(rt.Writer())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}

	line, err := rt.input().ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
