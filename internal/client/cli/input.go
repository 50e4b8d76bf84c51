package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/karmaboard/internal/server/config"
)

// Terminal seams, replaced in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
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

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// promptCredentials asks for whichever upstream credential is still empty.
// Nothing is asked when stdin is not a terminal; the sync pass then fails
// with an auth error.
func promptCredentials(cfg *config.Config, reader *bufio.Reader, w io.Writer) error {
	if cfg.MulearnUser != "" && cfg.MulearnPassword != "" {
		return nil
	}
	if !isTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	if cfg.MulearnUser == "" {
		user, err := GetSimpleText(reader, "µLearn email or muid", w)
		if err != nil {
			return err
		}
		cfg.MulearnUser = user
	}
	if cfg.MulearnPassword == "" {
		pw, err := GetPassword(w)
		if err != nil {
			return err
		}
		cfg.MulearnPassword = string(pw)
	}
	return nil
}
