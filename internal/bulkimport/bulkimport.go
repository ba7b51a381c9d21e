// Package bulkimport parses the plain-text show list accepted by the admin import.
//
// One show per line:
//
//	2017, Blue Devils, Metamorph
//	2016|Carolina Crown|Relentless|https://img.example/relentless.jpg
//
// Fields are year, corps, title and an optional poster URL. A line that contains
// "|" is split on "|", otherwise on ",". Blank lines and lines starting with "#"
// are skipped.
package bulkimport

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/corpsboard/corpsboard-server/internal/domain"
)

// Item is one parsed show line.
type Item struct {
	Line  int
	Input domain.ShowInput
}

// LineError reports a line that could not be parsed.
type LineError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Parse splits text into items. Lines that fail are reported in errs with their
// 1-based line number; parsing continues past them.
func Parse(text string) (items []Item, errs []LineError) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for sc.Scan() {
		lineNum++
		raw := sc.Text()
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		item, err := parseLine(line)
		if err != "" {
			errs = append(errs, LineError{Line: lineNum, Message: err})
			continue
		}
		item.Line = lineNum
		items = append(items, item)
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, LineError{Line: lineNum + 1, Message: err.Error()})
	}
	return items, errs
}

func parseLine(line string) (Item, string) {
	sep := ","
	if strings.Contains(line, "|") {
		sep = "|"
	}
	parts := strings.Split(line, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) != 3 && len(parts) != 4 {
		return Item{}, fmt.Sprintf("expected 3 or 4 fields (year, corps, title, [poster_url]), got %d: %q", len(parts), line)
	}

	year, ok := parseYear(parts[0])
	if !ok {
		return Item{}, fmt.Sprintf("year must be a number, got %q", parts[0])
	}

	in := domain.ShowInput{Year: year, Corps: parts[1], Title: parts[2]}
	if len(parts) == 4 {
		in.PosterURL = parts[3]
	}
	return Item{Input: in}, ""
}

// parseYear accepts only unsigned decimal digits.
func parseYear(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
