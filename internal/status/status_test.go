package status

import (
	"bytes"
	"strings"
	"testing"
)

func TestBanner_FramesTitle(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Banner("Starting capturing process")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("banner spans %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "Starting capturing process") {
		t.Errorf("middle line %q does not hold the title", lines[1])
	}
	if !strings.Contains(lines[0], "====") || !strings.Contains(lines[2], "====") {
		t.Errorf("title is not framed: %q / %q", lines[0], lines[2])
	}
}

func TestInfof_AppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Infof("found %d devices", 2)

	if got := buf.String(); got != "found 2 devices\n" {
		t.Errorf("got %q", got)
	}
}

func TestProgressf_RedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Progressf("shot %d pages", 2)
	p.Progressf("shot %d pages", 4)

	got := buf.String()
	if !strings.HasPrefix(got, "\r") {
		t.Errorf("progress line does not start with carriage return: %q", got)
	}
	if strings.Contains(got, "\n") {
		t.Errorf("progress line must not emit newlines: %q", got)
	}
	if strings.Count(got, "\r") != 2 {
		t.Errorf("each redraw should return to column zero: %q", got)
	}
}

func TestDonef_TerminatesProgressLine(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Progressf("shot %d pages", 2)
	p.Donef("captured %d pages in total", 2)

	got := buf.String()
	if !strings.HasSuffix(got, "captured 2 pages in total\n") {
		t.Errorf("got %q", got)
	}
}

func TestPromptf_ContainsMessage(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Promptf("Press %s to capture", "b")

	if !strings.Contains(buf.String(), "Press b to capture") {
		t.Errorf("got %q", buf.String())
	}
}
