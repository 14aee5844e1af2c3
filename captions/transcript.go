package captions

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	// timestampLine matches SRT and VTT cue timing lines.
	timestampLine = regexp.MustCompile(`^\s*\d{2}:\d{2}:\d{2}[.,]\d{3}\s+-->\s+\d{2}:\d{2}:\d{2}[.,]\d{3}`)
	// cueIndexLine matches the bare sequence numbers SRT puts above cues.
	cueIndexLine = regexp.MustCompile(`^\s*\d+\s*$`)
	// vttTag strips inline markup like <c> spans and speaker <v> tags.
	vttTag = regexp.MustCompile(`<[^>]+>`)
)

// ToTranscript reduces SRT or VTT caption text to its spoken lines:
// headers, cue indexes, timing lines, NOTE/STYLE blocks and inline tags
// all go, and consecutive duplicate lines collapse.
func ToTranscript(captionText string) string {
	var lines []string
	inBlockComment := false
	last := ""

	for _, raw := range strings.Split(captionText, "\n") {
		line := strings.TrimRight(strings.TrimPrefix(raw, "\uFEFF"), "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "WEBVTT"):
			continue
		case strings.HasPrefix(trimmed, "NOTE"), strings.HasPrefix(trimmed, "STYLE"), strings.HasPrefix(trimmed, "REGION"):
			inBlockComment = true
			continue
		case trimmed == "":
			inBlockComment = false
			continue
		case inBlockComment:
			continue
		case timestampLine.MatchString(trimmed), cueIndexLine.MatchString(trimmed):
			continue
		}

		text := strings.TrimSpace(vttTag.ReplaceAllString(trimmed, ""))
		if text == "" || text == last {
			continue
		}
		lines = append(lines, text)
		last = text
	}
	return strings.Join(lines, "\n")
}

// ConvertFile writes the transcript of a caption file next to it with a
// .txt extension and returns the new path.
func ConvertFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read caption file: %w", err)
	}
	transcript := ToTranscript(string(data))
	if transcript == "" {
		return "", fmt.Errorf("%s yielded an empty transcript", path)
	}

	txtPath := strings.TrimSuffix(path, "."+extOf(path)) + ".txt"
	if err := os.WriteFile(txtPath, []byte(transcript+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return txtPath, nil
}

func extOf(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return ""
}
