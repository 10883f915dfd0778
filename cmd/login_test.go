package cmd

import (
	"bytes"
	"testing"
)

func TestLoginCommandHelp(t *testing.T) {
	rootCmd.SetArgs([]string{"login", "--help"})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("login --help failed: %v", err)
	}
	if buf.String() == "" {
		t.Error("login --help should produce output")
	}
}

func TestLoginFlags(t *testing.T) {
	for _, name := range []string{"api-key", "url", "password"} {
		if loginCmd.Flag(name) == nil {
			t.Errorf("login should have --%s flag", name)
		}
	}
}

func TestLogoutYesFlag(t *testing.T) {
	if logoutCmd.Flag("yes") == nil {
		t.Error("logout should have --yes flag")
	}
}
