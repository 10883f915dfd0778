package cmd

import (
	"bytes"
	"testing"
)

func TestHistorySubcommandsRegistered(t *testing.T) {
	want := []string{"conversations", "operations", "local"}
	registered := map[string]bool{}
	for _, cmd := range historyCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("history subcommand %q not registered", name)
		}
	}
}

func TestHistoryCommandHelp(t *testing.T) {
	rootCmd.SetArgs([]string{"history", "--help"})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("history --help failed: %v", err)
	}
	if buf.String() == "" {
		t.Error("history --help should produce output")
	}
}

func TestHistoryFlags(t *testing.T) {
	for _, name := range []string{"limit", "offset"} {
		if historyConversationsCmd.Flag(name) == nil {
			t.Errorf("history conversations should have --%s flag", name)
		}
	}
	for _, name := range []string{"limit", "cluster"} {
		if historyOperationsCmd.Flag(name) == nil {
			t.Errorf("history operations should have --%s flag", name)
		}
	}
	if historyLocalCmd.Flag("limit") == nil {
		t.Error("history local should have --limit flag")
	}
}
