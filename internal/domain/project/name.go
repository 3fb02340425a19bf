package project

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jsamuelsen11/sitesmith/internal/domain"
)

// MaxNameLength is the longest accepted project name, in characters.
const MaxNameLength = 100

// forbiddenChars may not appear anywhere in a project name.
const forbiddenChars = "<>:\"|?*\\/\x00"

// reservedNames are device names Windows refuses as file names, with or
// without an extension.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// NameValidation is the outcome of ValidateName. Error is empty when Valid.
type NameValidation struct {
	Valid bool
	Error string
}

// NormalizeName returns name in Unicode NFC form so that visually identical
// names map to the same directory.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}

// ValidateName checks name against the project naming rules. It is pure: the
// only path logic is a lexical containment check, nothing touches the disk.
func ValidateName(name string) NameValidation {
	name = NormalizeName(name)

	switch {
	case strings.TrimSpace(name) == "":
		return invalid("name is required")
	case strings.Contains(name, ".."):
		return invalid("name must not contain path traversal sequences")
	case strings.ContainsAny(name, forbiddenChars):
		return invalid(`name must not contain any of < > : " | ? * \ / or NUL`)
	case strings.IndexFunc(name, isControl) >= 0:
		return invalid("name must not contain control characters")
	case strings.HasPrefix(name, ".") || strings.HasPrefix(name, " "):
		return invalid("name must not start with a dot or space")
	case strings.HasSuffix(name, ".") || strings.HasSuffix(name, " "):
		return invalid("name must not end with a dot or space")
	case utf8.RuneCountInString(name) > MaxNameLength:
		return invalid(fmt.Sprintf("name must be at most %d characters", MaxNameLength))
	case isReserved(name):
		return invalid(fmt.Sprintf("name %q is reserved by the operating system", name))
	case !filepath.IsLocal(name):
		return invalid("name must resolve inside the workspace")
	}

	return NameValidation{Valid: true}
}

// CheckName is ValidateName expressed as an error: a *domain.ValidationError
// on the given field, or nil.
func CheckName(field, name string) error {
	if v := ValidateName(name); !v.Valid {
		return domain.NewValidationError(field, v.Error)
	}
	return nil
}

func invalid(msg string) NameValidation {
	return NameValidation{Error: msg}
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// isReserved matches the device name before the first dot, so "con.txt" is
// rejected the same way Windows rejects it.
func isReserved(name string) bool {
	base, _, _ := strings.Cut(name, ".")
	return reservedNames[strings.ToUpper(strings.TrimSpace(base))]
}
