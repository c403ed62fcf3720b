package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ValentinKolb/pKV/lib/backend"
	"github.com/ValentinKolb/pKV/lib/value"
	"github.com/VictoriaMetrics/metrics"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// parseValue interprets a CLI argument as JSON; anything that is not valid
// JSON is treated as a plain string, so `pkv store set theme dark` works
// without quoting
func parseValue(arg string) (value.Value, error) {
	var raw any
	if err := json.Unmarshal([]byte(arg), &raw); err != nil {
		return value.String(arg), nil
	}
	return value.FromAny(raw)
}

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key (value is parsed as JSON, falling back to a plain string)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			v, err := parseValue(args[1])
			if err != nil {
				return err
			}
			kvStore.Set(key, v)
			fmt.Println("set successfully")
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			v, ok := kvStore.Get(key)
			if !ok {
				fmt.Printf("key=%s, found=false\n", key)
				return nil
			}
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=true, value=%s\n", key, data)
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [key]",
		Short: "Deletes a key value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if kvStore.Delete(key) {
				fmt.Println("delete successfully")
			} else {
				fmt.Println("key not found")
			}
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			fmt.Printf("key=%s, found=%t\n", key, kvStore.Has(key))
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys",
		Short: "Lists all keys in sorted order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range kvStore.Keys() {
				fmt.Println(key)
			}
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all entries from the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if kvStore.Clear() {
				fmt.Println("cleared successfully")
			} else {
				fmt.Println("store was already empty")
			}
			return nil
		},
	}
	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Resets the store to its configured defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if kvStore.Reset() {
				fmt.Println("reset successfully")
			} else {
				fmt.Println("store already matches its defaults")
			}
			return nil
		},
	}
	saveCmd = &cobra.Command{
		Use:   "save",
		Short: "Persists the store immediately, bypassing any debounce window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kvStore.Save(); err != nil {
				return err
			}
			fmt.Println("saved successfully")
			return nil
		},
	}
	loadCmd = &cobra.Command{
		Use:   "load",
		Short: "Reloads the store from its persisted snapshot, discarding unsaved changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := kvStore.Load(); err != nil {
				if backend.IsNotFound(err) {
					fmt.Println("no snapshot on disk yet")
					return nil
				}
				return err
			}
			fmt.Println("loaded successfully")
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints store state and process metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("identifier: %s\n", kvStore.Identifier())
			fmt.Printf("path:       %s\n", kvStore.Path())
			fmt.Printf("policy:     %s\n", kvStore.Policy())
			fmt.Printf("keys:       %d\n", kvStore.Len())
			fmt.Printf("dirty:      %t\n", kvStore.Dirty())

			if stat, err := os.Stat(kvStore.Path()); err == nil {
				fmt.Printf("file size:  %s\n", humanize.Bytes(uint64(stat.Size())))
				fmt.Printf("modified:   %s\n", humanize.Time(stat.ModTime()))
			} else {
				fmt.Printf("file size:  no snapshot on disk yet\n")
			}

			// dump the process metrics for this store
			var sb strings.Builder
			metrics.WritePrometheus(&sb, false)
			dump := sb.String()
			fmt.Println("\nmetrics:")
			printed := false
			for _, line := range strings.Split(dump, "\n") {
				if strings.Contains(line, fmt.Sprintf("store=%q", kvStore.Identifier())) {
					fmt.Println(line)
					printed = true
				}
			}
			if !printed {
				fmt.Println("(none)")
			}
			return nil
		},
	}
)
