package util

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ValentinKolb/pKV/lib/backend"
	"github.com/ValentinKolb/pKV/lib/scheduler"
	"github.com/ValentinKolb/pKV/lib/serializer"
	"github.com/ValentinKolb/pKV/lib/store"
	"github.com/ValentinKolb/pKV/lib/value"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStoreFlags adds the common store selection flags to a command
func SetupStoreFlags(cmd *cobra.Command) {
	key := "data-dir"
	cmd.PersistentFlags().String(key, ".", WrapString("Directory where store files live"))

	key = "store"
	cmd.PersistentFlags().String(key, "default", WrapString("Identifier of the store to operate on; also the file name inside the data directory"))

	key = "serializer"
	cmd.PersistentFlags().String(key, "json", WrapString("Snapshot format to use (json, gob)"))

	key = "backend"
	cmd.PersistentFlags().String(key, "file", WrapString("Persistence backend to use (file, bolt)"))

	key = "autosave"
	cmd.PersistentFlags().String(key, "debounced", WrapString("Auto-save policy (disabled, immediate, debounced)"))

	key = "debounce"
	cmd.PersistentFlags().Duration(key, 100*time.Millisecond, WrapString("Debounce window for the debounced auto-save policy"))

	key = "defaults"
	cmd.PersistentFlags().String(key, "", WrapString("Default mapping as a JSON object, used when the store has no snapshot yet and as the target of reset"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("pkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetStoreID retrieves the configured store identifier
func GetStoreID() string {
	return viper.GetString("store")
}

// GetSerializer creates a serializer based on configuration
func GetSerializer() (serializer.ISnapshotSerializer, error) {
	switch viper.GetString("serializer") {
	case "json":
		return serializer.NewJSONSerializer(), nil
	case "gob":
		return serializer.NewGobSerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}
}

// GetPolicy reads the auto-save policy from viper
func GetPolicy() (scheduler.Policy, error) {
	switch viper.GetString("autosave") {
	case "disabled":
		return scheduler.Disabled(), nil
	case "immediate":
		return scheduler.Immediate(), nil
	case "debounced":
		return scheduler.Debounced(viper.GetDuration("debounce")), nil
	default:
		return scheduler.Policy{}, fmt.Errorf("invalid autosave policy %s", viper.GetString("autosave"))
	}
}

// GetDefaults parses the --defaults JSON object into a mapping
func GetDefaults() (value.Mapping, error) {
	raw := viper.GetString("defaults")
	if raw == "" {
		return nil, nil
	}

	defaults := value.Mapping{}
	if err := json.Unmarshal([]byte(raw), &defaults); err != nil {
		return nil, fmt.Errorf("invalid defaults JSON: %w", err)
	}
	return defaults, nil
}

// ResolveStorePath builds the on-disk path for a store: <data-dir>/<id>.<ext>
func ResolveStorePath(dataDir, id, ext string) string {
	return filepath.Join(dataDir, id+"."+ext)
}

// GetStoreOptions assembles store options from configuration
func GetStoreOptions() (store.Options, error) {
	ser, err := GetSerializer()
	if err != nil {
		return store.Options{}, err
	}

	policy, err := GetPolicy()
	if err != nil {
		return store.Options{}, err
	}

	defaults, err := GetDefaults()
	if err != nil {
		return store.Options{}, err
	}

	opts := store.Options{
		Defaults:   defaults,
		AutoSave:   policy,
		Serializer: ser,
	}

	dataDir := viper.GetString("data-dir")
	id := GetStoreID()

	switch viper.GetString("backend") {
	case "file":
		opts.Path = ResolveStorePath(dataDir, id, ser.Name())
	case "bolt":
		path := ResolveStorePath(dataDir, id, "db")
		opts.Path = path
		opts.Backend = backend.NewBoltBackend(path, ser)
	default:
		return store.Options{}, fmt.Errorf("invalid backend %s", viper.GetString("backend"))
	}

	return opts, nil
}
