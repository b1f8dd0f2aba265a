package store

import (
	"fmt"
	"path"
	"strings"
)

// TextExt is the extension of stored documents.
const TextExt = ".txt"

// UploadName picks the stored name of an uploaded file. A name given
// by the client must end with ".txt" (any case), otherwise ok is false.
// Without it the original file name is used, with ".txt" appended when
// missing. Directory parts are dropped.
func UploadName(original, provided string) (name string, ok bool) {
	switch {
	case provided != "":
		if !hasTextExt(provided) {
			return "", false
		}
		name = provided
	case original == "":
		name = "upload" + TextExt
	case hasTextExt(original):
		name = original
	default:
		name = original + TextExt
	}

	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name, true
}

// AltName returns the n-th alternative for a taken filename:
// "notes.txt" becomes "notes_1.txt", "notes_2.txt" and so on.
func AltName(name string, n int) string {
	stem := strings.TrimSuffix(name, path.Ext(name))
	return fmt.Sprintf("%s_%d%s", stem, n, TextExt)
}

func hasTextExt(s string) bool {
	return strings.HasSuffix(strings.ToLower(s), TextExt)
}
