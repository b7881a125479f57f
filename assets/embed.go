// assets/embed.go
//
// Embedded default word lists. Used when no word list files are configured,
// so the game runs straight from the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed allowed.txt answers.txt
var FS embed.FS

const (
	AnswersFile = "answers.txt"
	AllowedFile = "allowed.txt"
)

// Open opens one of the embedded lists.
func Open(name string) (fs.File, error) {
	return FS.Open(name)
}
