package cli

import "testing"

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	if root.Use != "framelog" {
		t.Errorf("Use = %q", root.Use)
	}

	want := []string{"record", "ports", "replay", "validate", "version"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %s not registered (err: %v)", name, err)
		}
	}
}
