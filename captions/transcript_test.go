package captions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kadmin/kaltura"
)

const srtSample = `1
00:00:01,000 --> 00:00:04,000
Welcome to the course.

2
00:00:04,500 --> 00:00:08,000
Today we cover photosynthesis.
`

const vttSample = `WEBVTT

NOTE
This file was generated automatically.

STYLE
::cue { color: white }

00:00:01.000 --> 00:00:04.000
<v Professor>Welcome to the course.</v>

00:00:04.500 --> 00:00:08.000
Welcome to the course.

00:00:08.500 --> 00:00:12.000
Today we cover <c.highlight>photosynthesis</c>.
`

func TestToTranscriptSRT(t *testing.T) {
	got := ToTranscript(srtSample)
	want := "Welcome to the course.\nToday we cover photosynthesis."
	if got != want {
		t.Errorf("ToTranscript() = %q, want %q", got, want)
	}
}

func TestToTranscriptVTT(t *testing.T) {
	got := ToTranscript(vttSample)
	// Header, NOTE and STYLE blocks, tags and the duplicated line all go.
	want := "Welcome to the course.\nToday we cover photosynthesis."
	if got != want {
		t.Errorf("ToTranscript() = %q, want %q", got, want)
	}
}

func TestToTranscriptBOM(t *testing.T) {
	got := ToTranscript("\uFEFFWEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHello\n")
	if got != "Hello" {
		t.Errorf("ToTranscript() = %q, want Hello", got)
	}
}

func TestToTranscriptKeepsNumericCaptionText(t *testing.T) {
	// A cue whose text is a number must survive; only index lines between
	// cues are dropped, and those always precede a timing line.
	in := "1\n00:00:01,000 --> 00:00:02,000\nRoom 42\n"
	if got := ToTranscript(in); got != "Room 42" {
		t.Errorf("ToTranscript() = %q, want Room 42", got)
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lecture.srt")
	if err := os.WriteFile(path, []byte(srtSample), 0o644); err != nil {
		t.Fatal(err)
	}

	txtPath, err := ConvertFile(path)
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}
	if filepath.Ext(txtPath) != ".txt" {
		t.Errorf("txtPath = %q, want .txt extension", txtPath)
	}
	data, err := os.ReadFile(txtPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "photosynthesis") {
		t.Errorf("transcript = %q", data)
	}
}

func TestConvertFileEmptyTranscript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.vtt")
	if err := os.WriteFile(path, []byte("WEBVTT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ConvertFile(path); err == nil {
		t.Error("ConvertFile() error = nil for empty transcript")
	}
}

func TestCaptionFilename(t *testing.T) {
	entry := kaltura.MediaEntry{ID: "0_abc", Name: "Week 1: Intro"}
	asset := kaltura.CaptionAsset{Label: "English (auto)", FileExt: "srt"}

	single := captionFilename("2026-08-31", entry, asset, false)
	if single != "2026-08-31_0_abc_Week_1_Intro.srt" {
		t.Errorf("single = %q", single)
	}
	multi := captionFilename("2026-08-31", entry, asset, true)
	if multi != "2026-08-31_0_abc_Week_1_Intro_English_auto.srt" {
		t.Errorf("multi = %q", multi)
	}
}

func TestConvertible(t *testing.T) {
	for ext, want := range map[string]bool{"srt": true, "VTT": true, "dfxp": false, "": false} {
		if got := convertible(ext); got != want {
			t.Errorf("convertible(%q) = %v, want %v", ext, got, want)
		}
	}
}
