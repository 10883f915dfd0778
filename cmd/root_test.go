package cmd

import (
	"bytes"
	"testing"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{
			name: "version flag",
			args: []string{"--version"},
		},
		{
			name: "help flag",
			args: []string{"--help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			var stdout, stderr bytes.Buffer
			rootCmd.SetOut(&stdout)
			rootCmd.SetErr(&stderr)

			if err := rootCmd.Execute(); err != nil {
				t.Errorf("rootCmd.Execute() error = %v", err)
			}
			if stdout.String() == "" {
				t.Error("expected output, got none")
			}
		})
	}
}

func TestRootCommandUnknownSubcommand(t *testing.T) {
	rootCmd.SetArgs([]string{"nonexistent-command"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err == nil {
		t.Error("Execute() should return error for nonexistent command")
	}
}

func TestRootPersistentFlags(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("root command should have --verbose flag")
	}
	if rootCmd.PersistentFlags().ShorthandLookup("v") == nil {
		t.Error("root command should have -v shorthand")
	}
	if rootCmd.PersistentFlags().Lookup("url") == nil {
		t.Error("root command should have --url flag")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"login", "logout", "whoami", "chat", "cluster", "history", "config", "healthcheck"}
	registered := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}
