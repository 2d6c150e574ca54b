package cache

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const (
	// MaxTextSize is the largest file the text cache will load.
	MaxTextSize = 64 << 20

	sniffLen      = 512
	nullCheckLen  = 1024
	nullThreshold = 0.15
)

// Text holds the decoded UTF-8 content of a file. The file is read on first
// access; files that are missing, too large or binary are unavailable.
type Text struct {
	fs   afero.Fs
	path string

	loaded   bool
	closed   bool
	ok       bool
	binary   bool
	raw      []byte
	content  string
	encoding string
	lines    []string
	err      error
}

// NewText is the Factory for KindText.
func NewText(fs afero.Fs, path string) (Cache, error) {
	return &Text{fs: fs, path: path}, nil
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) load() {
	if t.loaded || t.closed {
		return
	}
	t.loaded = true

	info, err := t.fs.Stat(t.path)
	if err != nil {
		t.err = err
		return
	}
	if info.IsDir() || info.Size() > MaxTextSize {
		return
	}

	raw, err := afero.ReadFile(t.fs, t.path)
	if err != nil {
		t.err = err
		return
	}
	t.raw = raw

	if isBinary(raw) {
		t.binary = true
		return
	}

	decoded, name, err := decode(raw)
	if err != nil {
		t.err = err
		return
	}
	t.content = decoded
	t.encoding = name
	t.ok = true
}

// Content returns the decoded text. ok is false when the file could not be
// read as text.
func (t *Text) Content() (string, bool) {
	t.load()
	if t.closed || !t.ok {
		return "", false
	}
	return t.content, true
}

// Raw returns the undecoded bytes, including for binary files.
func (t *Text) Raw() ([]byte, bool) {
	t.load()
	if t.closed || t.raw == nil {
		return nil, false
	}
	return t.raw, true
}

// Lines splits the decoded text on newlines. A trailing newline does not
// produce an empty last line.
func (t *Text) Lines() ([]string, bool) {
	content, ok := t.Content()
	if !ok {
		return nil, false
	}
	if t.lines == nil {
		trimmed := strings.TrimSuffix(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
		if trimmed == "" {
			t.lines = []string{}
		} else {
			t.lines = strings.Split(trimmed, "\n")
		}
	}
	return t.lines, true
}

// Encoding is the detected source encoding, or "" when unavailable.
func (t *Text) Encoding() string {
	t.load()
	return t.encoding
}

// IsBinary reports whether the file content looked binary.
func (t *Text) IsBinary() bool {
	t.load()
	return t.binary
}

// Err is the read or decode error hit while loading, if any.
func (t *Text) Err() error {
	t.load()
	return t.err
}

func (t *Text) Close() error {
	t.closed = true
	t.raw = nil
	t.content = ""
	t.lines = nil
	return nil
}

func decode(raw []byte) (string, string, error) {
	if trimmed := bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")); utf8.Valid(trimmed) {
		return string(trimmed), "utf-8", nil
	}
	enc, name, _ := charset.DetermineEncoding(raw, "")
	if enc == nil {
		return string(raw), "utf-8", nil
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
	if err != nil {
		return "", name, err
	}
	return string(out), name, nil
}

func isBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	if bytes.HasPrefix(content, []byte{0xff, 0xfe}) || bytes.HasPrefix(content, []byte{0xfe, 0xff}) {
		return false
	}

	sniff := content
	if len(sniff) > sniffLen {
		sniff = sniff[:sniffLen]
	}
	mime := strings.TrimSpace(strings.SplitN(http.DetectContentType(sniff), ";", 2)[0])
	if !textLike(mime) {
		return true
	}

	check := content
	if len(check) > nullCheckLen {
		check = check[:nullCheckLen]
	}
	nulls := bytes.Count(check, []byte{0})
	return float64(nulls)/float64(len(check)) > nullThreshold
}

func textLike(mime string) bool {
	switch {
	case strings.HasPrefix(mime, "text/"):
		return true
	case strings.HasSuffix(mime, "+xml"), strings.HasSuffix(mime, "+json"):
		return true
	}
	switch mime {
	case "application/json", "application/xml", "application/javascript",
		"application/octet-stream", "image/svg+xml":
		return true
	}
	return false
}
