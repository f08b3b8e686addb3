package hosts

import (
	"strings"

	"zapret-launcher/internal/constants"
)

// Category is a named group of hosts entries in document order.
type Category struct {
	Name  string
	Lines []string
}

// Document is the parsed override document for presentation.
type Document struct {
	Date       string
	Categories []Category
}

// Lookup returns the entries of the named category.
func (d Document) Lookup(name string) ([]string, bool) {
	for _, c := range d.Categories {
		if c.Name == name {
			return c.Lines, true
		}
	}
	return nil, false
}

// Parse extracts the update date and categories from content.
func Parse(content string) Document {
	return Document{Date: ParseDate(content), Categories: ParseCategories(content)}
}

// ParseDate returns the text after the "last updated" phrase, or the unknown-date placeholder.
func ParseDate(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if !strings.Contains(line, constants.HostsUpdatedPhrase) {
			continue
		}
		line = strings.TrimLeft(line, "#")
		line = strings.ReplaceAll(line, constants.HostsUpdatedPhrase+":", "")
		return strings.TrimSpace(line)
	}
	return constants.HostsUnknownDate
}

// ParseCategories groups the entries between the markers under the last comment seen.
// Entries before any comment, and comments starting with the default prefix, go to
// the default category. Categories are returned in first-seen order.
func ParseCategories(content string) []Category {
	var cats []Category
	index := map[string]int{}
	current := constants.HostsDefaultCategory
	inside := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == constants.HostsStartMarker {
			inside = true
			continue
		}
		if line == constants.HostsEndMarker {
			break
		}
		if !inside || line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			comment := strings.TrimSpace(strings.TrimLeft(line, "#"))
			if comment == "" || strings.Contains(comment, constants.HostsUpdatedPhrase) {
				continue
			}
			if strings.HasPrefix(strings.ToLower(comment), constants.HostsDefaultPrefix) {
				current = constants.HostsDefaultCategory
			} else {
				current = comment
			}
			continue
		}

		i, ok := index[current]
		if !ok {
			i = len(cats)
			index[current] = i
			cats = append(cats, Category{Name: current})
		}
		cats[i].Lines = append(cats[i].Lines, line)
	}
	return cats
}
