package provider

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/crypto/ssh/terminal"
)

// Package level vars
//
// credential_process owns stdout, so prompts never go there
var (
	PromptIn  io.Reader = os.Stdin
	PromptOut io.Writer = os.Stderr
)

const mfaCodeAttempts = 3

var (
	ErrInvalidMFACode = errors.New("invalid MFA code")

	mfaCodeRegexp = regexp.MustCompile(`^\d{6}$`)
)

// Prompt writes prompt to PromptOut and reads a line from PromptIn.
//
// If sensitive and PromptIn is a terminal, the input is not echoed.
func Prompt(prompt string, sensitive bool) (string, error) {
	fmt.Fprintf(PromptOut, "%s: ", prompt)

	if f, ok := PromptIn.(*os.File); ok && sensitive && terminal.IsTerminal(int(f.Fd())) {
		defer fmt.Fprintf(PromptOut, "\n")
		input, err := terminal.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(input)), nil
	}

	value, err := readLine(PromptIn)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// readLine reads up to and excluding the next newline, one byte at a time so
// nothing past it is consumed
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	b := make([]byte, 1)
	for {
		n, err := r.Read(b)
		if n == 1 {
			if b[0] == '\n' {
				return sb.String(), nil
			}
			sb.WriteByte(b[0])
		}
		if err == io.EOF && sb.Len() > 0 {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

// MFACode prompts for the current code of the MFA device serial, asking
// again when the input isn't 6 digits
func MFACode(serial string) (string, error) {
	for i := 0; i < mfaCodeAttempts; i++ {
		code, err := Prompt(fmt.Sprintf("MFA code for %s", serial), true)
		if err != nil {
			return "", fmt.Errorf("failed to read MFA code: %s", err)
		}
		if mfaCodeRegexp.MatchString(code) {
			return code, nil
		}
		fmt.Fprintln(PromptOut, "MFA codes are 6 digits")
	}
	return "", ErrInvalidMFACode
}
