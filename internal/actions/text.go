package actions

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TextProvider supplies the pure text-transformation actions. All actions
// work on the selected text, preserve line endings, and ignore the query.
type TextProvider struct {
	titleCaser cases.Caser
}

// NewTextProvider creates the text action provider.
func NewTextProvider() *TextProvider {
	return &TextProvider{
		titleCaser: cases.Title(language.Und),
	}
}

// Register registers all text actions with the registry.
func (p *TextProvider) Register(r *Registry) {
	r.Register("text:capitalize", ImmediateFunc(p.capitalize))
	r.Register("text:lower", ImmediateFunc(p.lower))
	r.Register("text:remove_duplicates", ImmediateFunc(p.removeDuplicates))
	r.Register("text:remove_empty", ImmediateFunc(p.removeEmpty))
	r.Register("text:reverse", ImmediateFunc(p.reverseLines))
	r.Register("text:sort_ascending", ImmediateFunc(p.sortAscending))
	r.Register("text:sort_descending", ImmediateFunc(p.sortDescending))
	r.Register("text:strip", ImmediateFunc(p.strip))
	r.Register("text:title", ImmediateFunc(p.title))
	r.Register("text:upper", ImmediateFunc(p.upper))
}

// upper converts the text to uppercase.
func (p *TextProvider) upper(_, text string) (string, error) {
	return strings.ToUpper(text), nil
}

// lower converts the text to lowercase.
func (p *TextProvider) lower(_, text string) (string, error) {
	return strings.ToLower(text), nil
}

// title converts the text to title case.
func (p *TextProvider) title(_, text string) (string, error) {
	return p.titleCaser.String(text), nil
}

// capitalize capitalizes the first character of each line, preserving
// indentation.
func (p *TextProvider) capitalize(_, text string) (string, error) {
	return forEachLine(text, capitalizeFirst), nil
}

// strip trims whitespace from both ends of each line, keeping the line
// ending itself.
func (p *TextProvider) strip(_, text string) (string, error) {
	var sb strings.Builder
	for _, line := range splitLines(text) {
		content, ending := splitEnding(line)
		sb.WriteString(strings.TrimSpace(content))
		sb.WriteString(ending)
	}
	return sb.String(), nil
}

// sortAscending sorts lines in ascending order.
func (p *TextProvider) sortAscending(_, text string) (string, error) {
	lines := splitLines(text)
	sort.Strings(lines)
	return strings.Join(lines, ""), nil
}

// sortDescending sorts lines in descending order.
func (p *TextProvider) sortDescending(_, text string) (string, error) {
	lines := splitLines(text)
	sort.Sort(sort.Reverse(sort.StringSlice(lines)))
	return strings.Join(lines, ""), nil
}

// reverseLines reverses the order of lines.
func (p *TextProvider) reverseLines(_, text string) (string, error) {
	lines := splitLines(text)
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, ""), nil
}

// removeEmpty removes blank lines.
func (p *TextProvider) removeEmpty(_, text string) (string, error) {
	var sb strings.Builder
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) != "" {
			sb.WriteString(line)
		}
	}
	return sb.String(), nil
}

// removeDuplicates removes consecutive duplicate lines.
func (p *TextProvider) removeDuplicates(_, text string) (string, error) {
	var sb strings.Builder
	var previous string
	first := true

	for _, line := range splitLines(text) {
		if first || line != previous {
			sb.WriteString(line)
			previous = line
			first = false
		}
	}
	return sb.String(), nil
}

// splitLines splits text into lines, each keeping its line ending.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitEnding separates a line from its trailing line ending.
func splitEnding(line string) (content, ending string) {
	content = strings.TrimRight(line, "\r\n")
	return content, line[len(content):]
}

// forEachLine applies fn to every line's content past its indentation.
func forEachLine(text string, fn func(string) string) string {
	var sb strings.Builder
	for _, line := range splitLines(text) {
		stripped := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(stripped)]
		sb.WriteString(indent)
		sb.WriteString(fn(stripped))
	}
	return sb.String()
}

// capitalizeFirst uppercases the first character of the line and lowercases
// the rest, leaving the line ending untouched.
func capitalizeFirst(line string) string {
	content, ending := splitEnding(line)
	if content == "" {
		return line
	}

	lowered := strings.ToLower(content)
	runes := []rune(lowered)
	return strings.ToUpper(string(runes[0])) + string(runes[1:]) + ending
}
