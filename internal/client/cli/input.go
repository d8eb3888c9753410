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

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetPassword prompts on w and reads the account password from the terminal
// without echo. The caller wipes the returned slice.
func GetPassword(w io.Writer) ([]byte, error) {
	fmt.Fprint(w, "Account password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

// GetMultiline reads lines from reader until an empty line or EOF and joins
// them with '\n'. A read error other than EOF is returned as is.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s (finish with an empty line):\n", prompt)

	var b strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(line)
		}
		if line == "" || err != nil {
			break
		}
	}

	return strings.TrimSpace(b.String()), nil
}
