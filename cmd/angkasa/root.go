package main

import (
	"sync"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "angkasa",
	Short:         "Angkasa is the student and provider community platform.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setCommandExecutionContext(commandExecutionContext{
			CommandPath:       cmd.CommandPath(),
			UsesStructuredLog: structuredLogCommand(cmd.Name()),
		})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, usersCmd, seedCmd)
}

// commandExecutionContext records which command is running so fatal-path
// reporting can match the command's own output style.
type commandExecutionContext struct {
	CommandPath       string
	UsesStructuredLog bool
}

var (
	cmdCtxMu sync.Mutex
	cmdCtx   commandExecutionContext
)

func setCommandExecutionContext(ctx commandExecutionContext) {
	cmdCtxMu.Lock()
	defer cmdCtxMu.Unlock()
	cmdCtx = ctx
}

func currentCommandExecutionContext() commandExecutionContext {
	cmdCtxMu.Lock()
	defer cmdCtxMu.Unlock()
	return cmdCtx
}

// structuredLogCommand says whether a command logs through slog. The user
// management commands talk to a human on a terminal instead.
func structuredLogCommand(name string) bool {
	switch name {
	case "serve", "migrate", "seed":
		return true
	default:
		return false
	}
}
