package templating

import (
	"fmt"
	"hash/crc32"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
)

var valueIndent = regexp.MustCompile(`(?m)^(?: {4}|\t)`)

// staticFile appends the checksum of the file's copy in the destination
// directory to name, so that browsers reload changed assets. Names of files
// that do not exist are returned unchanged.
func (tm *TemplateManager) staticFile(name string) string {
	filename := filepath.Join(tm.config.Destination, name)

	tm.versionsMu.Lock()
	defer tm.versionsMu.Unlock()

	version, ok := tm.versions[filename]
	if !ok {
		data, err := os.ReadFile(filename)
		if err != nil {
			return name
		}
		version = fmt.Sprintf("%d", crc32.ChecksumIEEE(data))
		tm.versions[filename] = version
	}
	return name + "?" + version
}

func (tm *TemplateManager) highlightSource(source string) template.HTML {
	return tm.highlighter.Highlight(source)
}

// highlightValue highlights a default value or constant definition after
// removing one level of indentation from each line.
func (tm *TemplateManager) highlightValue(definition string) template.HTML {
	return tm.highlighter.Highlight(valueIndent.ReplaceAllString(definition, ""))
}
