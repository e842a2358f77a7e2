package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/acsf-client/internal/constants"
)

func subcommandNames(cmd *cobra.Command) []string {
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	return names
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestCommandStructure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd         *cobra.Command
		use         string
		subcommands []string
	}{
		{NewConfigCommand(), "config", []string{"login", "set", "show", "unset"}},
		{NewSitesCommand(), "sites", []string{
			"backup", "backup-url", "backups", "clear-caches", "delete", "get", "list", "restore",
		}},
		{NewTasksCommand(), "tasks", []string{
			"delete", "list", "logs", "pause", "resume", "status", "stop", "wait",
		}},
		{NewStageCommand(), "stage", []string{"environments", "run"}},
		{NewUpdatesCommand(), "updates", []string{"list", "pause", "resume", "start", "status"}},
		{NewVcsCommand(), "vcs", []string{"refs", "stacks"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			assert.ElementsMatch(t, tt.subcommands, subcommandNames(tt.cmd))
		})
	}
}

func TestCommandAliases(t *testing.T) {
	t.Parallel()

	assert.Contains(t, NewSitesCommand().Aliases, "site")
	assert.Contains(t, NewTasksCommand().Aliases, "task")
	assert.Contains(t, NewUpdatesCommand().Aliases, "update")
}

func TestTasksWaitFlags(t *testing.T) {
	t.Parallel()

	wait, _, err := NewTasksCommand().Find([]string{"wait"})
	require.NoError(t, err)

	assert.NotNil(t, wait.Flags().Lookup("interval"))
	assert.NotNil(t, wait.Flags().Lookup("status-key"))
	assert.NotNil(t, wait.Flags().Lookup("timeout"))
	assert.Nil(t, wait.Flags().Lookup("wait"))

	interval, err := wait.Flags().GetInt("interval")
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultPollInterval, interval)
}

func TestTaskProducingCommandsHaveWaitFlag(t *testing.T) {
	t.Parallel()

	for _, path := range [][]string{
		{"sites", "backup"},
		{"sites", "delete"},
		{"sites", "restore"},
		{"stage", "run"},
		{"updates", "start"},
	} {
		var root *cobra.Command

		switch path[0] {
		case "sites":
			root = NewSitesCommand()
		case "stage":
			root = NewStageCommand()
		case "updates":
			root = NewUpdatesCommand()
		}

		sub, _, err := root.Find(path[1:])
		require.NoError(t, err, path)
		assert.NotNil(t, sub.Flags().Lookup("wait"), path)
	}
}

func TestTasksPauseLevelDefault(t *testing.T) {
	t.Parallel()

	pause, _, err := NewTasksCommand().Find([]string{"pause"})
	require.NoError(t, err)

	level, err := pause.Flags().GetString("level")
	require.NoError(t, err)
	assert.Equal(t, "family", level)
}
