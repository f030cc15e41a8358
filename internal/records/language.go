package records

import (
	"path/filepath"
	"strings"

	"github.com/src-d/enry/v2"
)

// Language returns a human-readable language name for a line classification.
// The file name is consulted first; an unknown file falls back to the upper-cased type.
func Language(typ, file string) string {
	if file != "" {
		if lang := enry.GetLanguage(filepath.Base(file), nil); lang != "" {
			return lang
		}
	}
	if typ != "" {
		if lang, _ := enry.GetLanguageByExtension("x." + typ); lang != "" {
			return lang
		}
	}
	return strings.ToUpper(typ)
}
