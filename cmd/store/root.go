package store

import (
	"context"
	"time"

	"github.com/ValentinKolb/pKV/cmd/util"
	"github.com/ValentinKolb/pKV/lib/registry"
	"github.com/ValentinKolb/pKV/lib/store"
	"github.com/spf13/cobra"
)

var (
	kvStore store.IStore

	// StoreCommands represents the store command group
	StoreCommands = &cobra.Command{
		Use:                "store",
		Short:              "Perform key-value store operations",
		PersistentPreRunE:  setupStore,
		PersistentPostRunE: teardownStore,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common store selection flags to the command group
	util.SetupStoreFlags(StoreCommands)

	// Add subcommands
	StoreCommands.AddCommand(setCmd)
	StoreCommands.AddCommand(getCmd)
	StoreCommands.AddCommand(delCmd)
	StoreCommands.AddCommand(hasCmd)
	StoreCommands.AddCommand(keysCmd)
	StoreCommands.AddCommand(clearCmd)
	StoreCommands.AddCommand(resetCmd)
	StoreCommands.AddCommand(saveCmd)
	StoreCommands.AddCommand(loadCmd)
	StoreCommands.AddCommand(infoCmd)
	StoreCommands.AddCommand(perfTestCmd)
}

// setupStore opens the configured store through the registry
func setupStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	opts, err := util.GetStoreOptions()
	if err != nil {
		return err
	}

	kvStore, err = registry.GetOrCreate(util.GetStoreID(), opts)
	return err
}

// teardownStore flushes and closes all stores opened during the command
func teardownStore(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return registry.Shutdown(ctx)
}
