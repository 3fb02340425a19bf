package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jsamuelsen11/sitesmith/internal/platform/atomicfs"
)

var errEmptyManifest = errors.New("manifest is empty")

// decodeManifest parses a JSON object, keeping numbers as json.Number so a
// rewrite does not change their formatting.
func decodeManifest(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyManifest
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if doc == nil {
		return nil, errors.New("manifest is not a JSON object")
	}
	return doc, nil
}

// setManifestName returns data with its top-level "name" field set.
func setManifestName(data []byte, name string) ([]byte, error) {
	doc, err := decodeManifest(data)
	if err != nil {
		return nil, err
	}
	doc["name"] = name

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// manifestName extracts the top-level "name" string field.
func manifestName(data []byte) (string, error) {
	doc, err := decodeManifest(data)
	if err != nil {
		return "", err
	}
	name, _ := doc["name"].(string)
	return name, nil
}

// manifestNamed passes manifests whose "name" field equals name.
func manifestNamed(name string) atomicfs.Validator[[]byte] {
	return func(b []byte) bool {
		got, err := manifestName(b)
		return err == nil && got == name
	}
}

// replaceName replaces occurrences of old in s that stand alone, i.e. are
// not part of a longer token of letters, digits, '-' or '_'. It returns the
// new string and the number of replacements.
func replaceName(s, old, repl string) (string, int) {
	if old == "" {
		return s, 0
	}

	var b strings.Builder
	n, i := 0, 0
	for {
		j := strings.Index(s[i:], old)
		if j < 0 {
			break
		}
		j += i
		end := j + len(old)
		if !standalone(s, j, end) {
			b.WriteString(s[i : j+1])
			i = j + 1
			continue
		}
		b.WriteString(s[i:j])
		b.WriteString(repl)
		i = end
		n++
	}
	if n == 0 {
		return s, 0
	}
	b.WriteString(s[i:])
	return b.String(), n
}

func standalone(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isNameRune(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isNameRune(r) {
			return false
		}
	}
	return true
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}
