package cmd

import (
	"fmt"
	"os"

	storecmd "github.com/ValentinKolb/pKV/cmd/store"
	"github.com/ValentinKolb/pKV/cmd/util"
	"github.com/ValentinKolb/pKV/lib/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "pkv",
		Short: "process-local persistent key-value store",
		Long: fmt.Sprintf(`pKV (v%s)

A process-local persistent key-value store written in Go. Reads are served
from memory, mutations are coalesced and written to disk in the background
according to a configurable auto-save policy.`, Version),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.InitLoggers(viper.GetString("log-level"))
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of pKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pKV v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(storecmd.StoreCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("log level (debug, info, warn, error)"))
	_ = viper.BindPFlags(RootCmd.PersistentFlags())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
