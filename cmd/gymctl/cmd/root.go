// Package cmd implements gymctl, the operator CLI over the record store.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"bestronggym/gym-desk/internal/app"
	"bestronggym/gym-desk/internal/config"
	"bestronggym/gym-desk/internal/logger"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

// state is shared by every subcommand of one invocation.
type state struct {
	configDir  string
	jsonOutput bool
	verbose    bool

	app *app.App
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	st := &state{}

	rootCmd := &cobra.Command{
		Use:   "gymctl",
		Short: "gymctl - front-desk records of Be Strong Gym",
		Long: `gymctl reads and edits the client and membership collections
directly in the configured slot backend, without going through the HTTP API.`,
		PersistentPreRunE:  st.setup,
		PersistentPostRunE: st.teardown,
		SilenceUsage:       true,
		SilenceErrors:      true,
	}

	rootCmd.PersistentFlags().StringVar(&st.configDir, "config-dir", ".", "directory holding config.yaml and .env")
	rootCmd.PersistentFlags().BoolVar(&st.jsonOutput, "json", false, "print JSON instead of tables")
	rootCmd.PersistentFlags().BoolVar(&st.verbose, "verbose", false, "print application logs")

	rootCmd.AddCommand(newClientsCmd(st), newMembershipsCmd(st))
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (st *state) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(st.configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.Discard()
	if st.verbose {
		log = logger.New(cfg.Env)
	}

	st.app, err = app.Build(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

func (st *state) teardown(cmd *cobra.Command, _ []string) error {
	if st.app == nil {
		return nil
	}
	err := st.app.Close(cmd.Context())
	st.app = nil
	return err
}

func (st *state) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// warnDegraded tells the operator that an empty or partial listing comes
// from a failure rather than from an empty collection.
func (st *state) warnDegraded(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	st.app.Log.Debug("degraded listing", slog.String("error", err.Error()))
}
