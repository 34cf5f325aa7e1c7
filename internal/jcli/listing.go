package jcli

import "strings"

// minListingLines is the line count below which a listing reply holds no
// data rows: only the echoed command and the prompt came back.
const minListingLines = 3

// TableLines returns the data rows of a listing reply. The first two lines
// (echoed command, column header) and the last two (total, prompt) frame
// the rows.
func TableLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(strings.TrimSpace(text), "\r", ""), "\n")
	if len(lines) < minListingLines {
		return nil
	}
	if len(lines) <= 4 {
		return []string{}
	}
	return lines[2 : len(lines)-2]
}

// SplitCols splits rows into fields, keeping only rows whose first field
// starts with '#'.
func SplitCols(lines []string) [][]string {
	var parsed [][]string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], "#") {
			continue
		}
		parsed = append(parsed, fields)
	}
	return parsed
}

// KeyValues parses "key value" lines of a show reply, skipping the echoed
// command on the first line.
func KeyValues(text string) map[string]string {
	out := map[string]string{}
	for _, line := range showLines(text) {
		parts := strings.Fields(line)
		if len(parts) == 2 {
			out[parts[0]] = parts[1]
		}
	}
	return out
}

// showLines drops the echo line, blank lines and the trailing prompt.
func showLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		if strings.TrimSpace(l) == "" || strings.HasPrefix(l, strings.TrimSpace(ReadyPrompt)) {
			continue
		}
		lines = append(lines, l)
	}
	if len(lines) > 0 {
		lines = lines[1:]
	}
	return lines
}

// ShowLines exposes the body lines of a show reply.
func ShowLines(text string) []string { return showLines(text) }
