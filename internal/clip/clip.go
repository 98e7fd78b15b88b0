// Package clip copies short values such as document identifiers to the
// user's clipboard from the command line.
package clip

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// Method names how a value was made available.
type Method string

const (
	MethodNative Method = "native"
	MethodOSC52  Method = "osc52"
	MethodFile   Method = "file"
)

// ErrEmpty is returned when there is nothing to copy.
var ErrEmpty = errors.New("nothing to copy")

// maxOSC52 caps the escape sequence payload; some terminals drop larger ones.
const maxOSC52 = 8 * 1024

// Result reports where the value went. Path is set for MethodFile only.
type Result struct {
	Method Method
	Path   string
}

// Copier tries the system clipboard, then an OSC52 sequence on Terminal,
// then a file under Dir.
type Copier struct {
	Terminal *os.File
	Dir      string
	Getenv   func(string) string

	native     func(string) error
	isTerminal func(fd int) bool
}

// New returns a Copier writing OSC52 sequences to stderr.
func New() *Copier {
	return &Copier{
		Terminal:   os.Stderr,
		Getenv:     os.Getenv,
		native:     atotto.WriteAll,
		isTerminal: term.IsTerminal,
	}
}

// Copy makes text available using the first method that works.
func (c *Copier) Copy(text string) (Result, error) {
	if text == "" {
		return Result{}, ErrEmpty
	}
	if c.native != nil && c.native(text) == nil {
		return Result{Method: MethodNative}, nil
	}
	if c.writeOSC52(text) == nil {
		return Result{Method: MethodOSC52}, nil
	}
	path, err := c.writeFile(text)
	if err != nil {
		return Result{}, fmt.Errorf("copying value: %w", err)
	}
	return Result{Method: MethodFile, Path: path}, nil
}

func (c *Copier) writeOSC52(text string) error {
	if c.Terminal == nil || c.isTerminal == nil || !c.isTerminal(int(c.Terminal.Fd())) {
		return errors.New("no terminal")
	}
	if len(text) > maxOSC52 {
		return fmt.Errorf("value too large for OSC52: %d bytes", len(text))
	}
	return sendOSC52(c.Terminal, text, c.getenv)
}

func sendOSC52(w io.Writer, text string, getenv func(string) string) error {
	seq := osc52.New(text).Limit(maxOSC52)
	switch {
	case getenv("TMUX") != "":
		seq = seq.Tmux()
	case getenv("STY") != "":
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(w)
	return err
}

func (c *Copier) getenv(key string) string {
	if c.Getenv == nil {
		return ""
	}
	return c.Getenv(key)
}

func (c *Copier) writeFile(text string) (string, error) {
	f, err := os.CreateTemp(c.Dir, "docfix-copy-*.txt")
	if err != nil {
		return "", err
	}
	path := f.Name()
	if _, err := f.WriteString(text + "\n"); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return filepath.Clean(path), nil
}
