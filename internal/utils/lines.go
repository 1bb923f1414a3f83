package utils

import (
	"bufio"
	"strings"
)

// ParseTitleLines splits pasted import text into one title per line.
// Blank lines are skipped.
func ParseTitleLines(text string) ([]string, error) {
	var titles []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		title := strings.TrimSpace(scanner.Text())
		if title != "" {
			titles = append(titles, title)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return titles, nil
}
