// Package input reads text piped into the dialog on standard input.
package input

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// Candidate is one encoding tried while decoding piped bytes.
type Candidate struct {
	Name     string
	Encoding encoding.Encoding
}

// Candidates are tried in order; the first that decodes cleanly wins.
var Candidates = []Candidate{
	{Name: "utf-8", Encoding: unicode.UTF8BOM},
	{Name: "gbk", Encoding: simplifiedchinese.GBK},
	{Name: "gb18030", Encoding: simplifiedchinese.GB18030},
}

// Lossy names the fallback used when no candidate decodes cleanly.
const Lossy = "utf-8 (lossy)"

// newlines maps CRLF and lone CR to LF.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

var replacementBytes = []byte(string(utf8.RuneError))

// Available reports whether f is a pipe or redirect rather than a terminal.
func Available(f *os.File) bool {
	if f == nil {
		return false
	}
	return !term.IsTerminal(int(f.Fd()))
}

// ReadPiped reads r to the end and returns the decoded text with line endings
// normalized to \n and trailing line breaks removed. Empty input yields "".
func ReadPiped(r io.Reader) (text string, encodingName string, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("reading piped input: %w", err)
	}
	if len(raw) == 0 {
		return "", "", nil
	}
	text, encodingName = Decode(raw)
	text = newlines.Replace(text)
	return strings.TrimRight(text, "\n"), encodingName, nil
}

// Decode converts raw bytes to text using the first clean candidate, falling
// back to UTF-8 with invalid sequences replaced.
func Decode(raw []byte) (string, string) {
	for _, c := range Candidates {
		if text, ok := tryDecode(c.Encoding, raw); ok {
			return text, c.Name
		}
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError)), Lossy
}

// tryDecode fails when decoding introduced replacement runes that were not
// already present in the source.
func tryDecode(enc encoding.Encoding, raw []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}
	if bytes.Count(out, replacementBytes) > bytes.Count(raw, replacementBytes) {
		return "", false
	}
	return string(out), true
}
