package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"celinker/internal/bridge"
	"celinker/internal/linker"
	"celinker/internal/partnum"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()

	want := []string{"match", "review", "import", "audit", "config"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	root := newRootCommand()
	root.SetArgs([]string{"config", "init", "--path", target})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[bridge]") {
		t.Fatalf("sample config missing bridge section:\n%s", data)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	root := newRootCommand()
	root.SetArgs([]string{"config", "init", "--path", target})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)

	if err := root.Execute(); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestPrintDecisionMarksBest(t *testing.T) {
	best := linker.Candidate{
		RecordID:    42,
		CanonicalPN: "SN74HC595",
		MatchKind:   bridge.MatchExactPN,
		Tier:        linker.Tier0,
		Via:         "exact match on direct key",
		OriginKeys:  []partnum.Origin{partnum.OriginDirect},
	}
	decision := linker.Decision{
		Query:      "SN74HC595",
		TraceID:    "a1b2c3d4e5f60718293a4b5c6d7e8f90",
		Candidates: []linker.Candidate{best},
		Best:       &best,
		Rationale:  "unique exact match on record 42; automatic attachment allowed",
	}

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	printDecision(root, decision)

	rendered := out.String()
	if !strings.Contains(rendered, "SN74HC595") {
		t.Fatalf("output missing part number:\n%s", rendered)
	}
	if !strings.Contains(rendered, "tier0") {
		t.Fatalf("output missing tier:\n%s", rendered)
	}
	if !strings.Contains(rendered, "*") {
		t.Fatalf("best candidate not marked:\n%s", rendered)
	}
}

func TestReadPartNumbersSkipsCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parts.txt")
	content := "# batch 12\nSN74HC595\n\n  LM358DR2G  \n# done\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	pns, err := readPartNumbers(path)
	if err != nil {
		t.Fatalf("readPartNumbers: %v", err)
	}
	want := []string{"SN74HC595", "LM358DR2G"}
	if len(pns) != len(want) {
		t.Fatalf("pns = %v, want %v", pns, want)
	}
	for i := range want {
		if pns[i] != want[i] {
			t.Fatalf("pns = %v, want %v", pns, want)
		}
	}
}
