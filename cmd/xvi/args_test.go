package main

import (
	"reflect"
	"testing"
)

func TestParseArgsFiles(t *testing.T) {
	opts, err := parseArgs([]string{"a.txt", "b.txt"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !reflect.DeepEqual(opts.Files, []string{"a.txt", "b.txt"}) {
		t.Errorf("Files = %v", opts.Files)
	}
}

func TestParseArgsDashT(t *testing.T) {
	opts, err := parseArgs([]string{"-t", "mytag"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if opts.Tag != "mytag" {
		t.Errorf("Tag = %q, want mytag", opts.Tag)
	}
	if len(opts.Files) != 0 {
		t.Errorf("Files = %v, want none", opts.Files)
	}
}

func TestParseArgsDashTGlued(t *testing.T) {
	opts, err := parseArgs([]string{"-tmytag"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if opts.Tag != "mytag" {
		t.Errorf("Tag = %q, want mytag", opts.Tag)
	}
}

func TestParseArgsTagThenFileFails(t *testing.T) {
	if _, err := parseArgs([]string{"-t", "mytag", "file.txt"}); err == nil {
		t.Error("expected error for file name after -t")
	}
}

func TestParseArgsSetOpts(t *testing.T) {
	opts, err := parseArgs([]string{"-s", "wrapmargin=4", "-sai", "file.txt"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !reflect.DeepEqual(opts.SetOpts, []string{"wrapmargin=4", "ai"}) {
		t.Errorf("SetOpts = %v", opts.SetOpts)
	}
	if !reflect.DeepEqual(opts.Files, []string{"file.txt"}) {
		t.Errorf("Files = %v", opts.Files)
	}
}

func TestParseArgsPlusLine(t *testing.T) {
	opts, err := parseArgs([]string{"+42", "file.txt"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !opts.HaveLine || opts.Line != 42 {
		t.Errorf("HaveLine/Line = %v/%d, want true/42", opts.HaveLine, opts.Line)
	}
	if !reflect.DeepEqual(opts.Files, []string{"file.txt"}) {
		t.Errorf("Files = %v", opts.Files)
	}
}

func TestParseArgsPlusBare(t *testing.T) {
	opts, err := parseArgs([]string{"+", "file.txt"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !opts.HaveLine || opts.Line != 0 {
		t.Errorf("HaveLine/Line = %v/%d, want true/0", opts.HaveLine, opts.Line)
	}
}

func TestParseArgsPlusDollar(t *testing.T) {
	opts, err := parseArgs([]string{"+$", "file.txt"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if !opts.HaveLine || opts.Line != 0 {
		t.Errorf("HaveLine/Line = %v/%d, want true/0", opts.HaveLine, opts.Line)
	}
}

func TestParseArgsPlusPattern(t *testing.T) {
	opts, err := parseArgs([]string{"+/needle", "file.txt"})
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if opts.Pattern != "needle" {
		t.Errorf("Pattern = %q, want needle", opts.Pattern)
	}
}

func TestParseArgsPlusRequiresFile(t *testing.T) {
	if _, err := parseArgs([]string{"+42"}); err == nil {
		t.Error("expected error for +n with no following file")
	}
}

func TestParseArgsPlusOnlyOneFile(t *testing.T) {
	if _, err := parseArgs([]string{"+42", "a.txt", "b.txt"}); err == nil {
		t.Error("expected error for multiple files after +n")
	}
}

func TestParseArgsUnknownOption(t *testing.T) {
	if _, err := parseArgs([]string{"-z"}); err == nil {
		t.Error("expected error for unknown option")
	}
}

func TestSplitXVInitBasic(t *testing.T) {
	got := splitXVInit("set ai|set number")
	want := []string{"set ai", "set number"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitXVInit = %v, want %v", got, want)
	}
}

func TestSplitXVInitNewline(t *testing.T) {
	got := splitXVInit("set ai\nset number")
	want := []string{"set ai", "set number"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitXVInit = %v, want %v", got, want)
	}
}

func TestSplitXVInitEscaped(t *testing.T) {
	got := splitXVInit(`map x y\|z`)
	want := []string{"map x y|z"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitXVInit = %v, want %v", got, want)
	}
}

func TestSplitXVInitEmpty(t *testing.T) {
	if got := splitXVInit(""); got != nil {
		t.Errorf("splitXVInit(\"\") = %v, want nil", got)
	}
}
