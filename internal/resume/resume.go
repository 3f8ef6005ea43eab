// Resume loading: file reference to plain text, done once per run.

package resume

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"code.sajari.com/docconv"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Load extracts the text content of a resume file (PDF, DOCX, TXT).
// Whitespace is collapsed to single spaces to keep the model token count
// down.
func Load(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("resume file not found: %s: %w", path, err)
	}

	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume %s: %w", path, err)
	}

	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(res.Body, " "))
	if text == "" {
		return "", fmt.Errorf("resume %s contained no extractable text", path)
	}
	return text, nil
}
