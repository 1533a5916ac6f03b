package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestYesNo(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"No\n", false},
		{"maybe\nsure\ny\n", true}, // re-asks until a real answer
	}
	for _, c := range cases {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader(c.input), &out)
		got, err := p.YesNo("proceed?")
		if err != nil {
			t.Fatalf("YesNo(%q): %v", c.input, err)
		}
		if got != c.want {
			t.Errorf("YesNo(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestYesNo_ClosedInput(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	if _, err := p.YesNo("proceed?"); err == nil {
		t.Fatal("YesNo on closed input did not fail")
	}
}

func TestLine_Default(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\n"), &out)
	got, err := p.Line("project?", "2020_nba")
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	if got != "2020_nba" {
		t.Errorf("Line = %q, want default %q", got, "2020_nba")
	}
	if !strings.Contains(out.String(), "[2020_nba]") {
		t.Errorf("prompt does not show the default: %q", out.String())
	}
}

func TestLine_Answer(t *testing.T) {
	p := NewPrompter(strings.NewReader("2021_nfl\n"), &bytes.Buffer{})
	got, err := p.Line("project?", "2020_nba")
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	if got != "2021_nfl" {
		t.Errorf("Line = %q, want %q", got, "2021_nfl")
	}
}

func TestLine_NoDefaultReasks(t *testing.T) {
	p := NewPrompter(strings.NewReader("\n\nORL\n"), &bytes.Buffer{})
	got, err := p.Line("team?", "")
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	if got != "ORL" {
		t.Errorf("Line = %q, want %q", got, "ORL")
	}
}

func TestPick(t *testing.T) {
	options := []string{"2019_nba", "2020_nba", "2021_nfl"}

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("2\n"), &out)
	got, err := p.Pick("project?", options)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got != "2020_nba" {
		t.Errorf("Pick by number = %q, want %q", got, "2020_nba")
	}
	for _, opt := range options {
		if !strings.Contains(out.String(), opt) {
			t.Errorf("option %q not listed", opt)
		}
	}

	p = NewPrompter(strings.NewReader("2021_nfl\n"), &bytes.Buffer{})
	got, err = p.Pick("project?", options)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got != "2021_nfl" {
		t.Errorf("Pick by name = %q, want %q", got, "2021_nfl")
	}

	// Out-of-range numbers re-ask.
	p = NewPrompter(strings.NewReader("9\n0\n1\n"), &bytes.Buffer{})
	got, err = p.Pick("project?", options)
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if got != "2019_nba" {
		t.Errorf("Pick = %q, want %q", got, "2019_nba")
	}
}

func TestPick_Empty(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	if _, err := p.Pick("project?", nil); err == nil {
		t.Fatal("Pick with no options did not fail")
	}
}
