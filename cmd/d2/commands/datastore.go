package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/HISPSA/d2/datastore"
	"github.com/HISPSA/d2/errors"
)

// DataStoreCmd represents the datastore command
var DataStoreCmd = &cobra.Command{
	Use:   "datastore",
	Short: "Work with the server's data store namespaces",
	Long: `datastore — Work with the server's named key/value namespaces

Examples:
  d2 datastore ls                        # List all namespaces
  d2 datastore keys settings             # List keys in a namespace
  d2 datastore get settings ui           # Print one value
  d2 datastore set settings ui '{"a":1}' # Create or update a key
  d2 datastore rm settings               # Delete a namespace
  d2 datastore rm settings ui            # Delete a single key`,
}

var dataStoreLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all namespaces",
	RunE:  runDataStoreLs,
}

var dataStoreKeysCmd = &cobra.Command{
	Use:   "keys <namespace>",
	Short: "List the keys in a namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataStoreKeys,
}

var dataStoreGetCmd = &cobra.Command{
	Use:   "get <namespace> <key>",
	Short: "Print the value stored under a key",
	Args:  cobra.ExactArgs(2),
	RunE:  runDataStoreGet,
}

var dataStoreSetCmd = &cobra.Command{
	Use:   "set <namespace> <key> <json>",
	Short: "Create or update a key with a JSON value",
	Args:  cobra.ExactArgs(3),
	RunE:  runDataStoreSet,
}

var dataStoreRmCmd = &cobra.Command{
	Use:   "rm <namespace> [key]",
	Short: "Delete a namespace, or a single key within it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runDataStoreRm,
}

func init() {
	DataStoreCmd.AddCommand(dataStoreLsCmd)
	DataStoreCmd.AddCommand(dataStoreKeysCmd)
	DataStoreCmd.AddCommand(dataStoreGetCmd)
	DataStoreCmd.AddCommand(dataStoreSetCmd)
	DataStoreCmd.AddCommand(dataStoreRmCmd)
}

func runDataStoreLs(cmd *cobra.Command, args []string) error {
	store, err := datastore.GetDataStore()
	if err != nil {
		return err
	}

	namespaces, err := store.GetAll(cmd.Context())
	if err != nil {
		if errors.IsNoNamespacesError(err) {
			pterm.Warning.Println("No namespaces exist.")
			return nil
		}
		return err
	}

	for _, namespace := range namespaces {
		fmt.Println(namespace)
	}
	return nil
}

func runDataStoreKeys(cmd *cobra.Command, args []string) error {
	store, err := datastore.GetDataStore()
	if err != nil {
		return err
	}

	ns, err := store.Get(cmd.Context(), args[0], true)
	if err != nil {
		return err
	}

	if !ns.KeysKnown() {
		pterm.Warning.Printfln("Namespace %q does not exist yet (no keys written)", ns.Name())
		return nil
	}

	for _, key := range ns.Keys() {
		fmt.Println(key)
	}
	return nil
}

func runDataStoreGet(cmd *cobra.Command, args []string) error {
	store, err := datastore.GetDataStore()
	if err != nil {
		return err
	}

	ns, err := store.Get(cmd.Context(), args[0], false)
	if err != nil {
		return err
	}

	var value json.RawMessage
	if err := ns.Get(cmd.Context(), args[1], &value); err != nil {
		return err
	}

	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to format value")
	}
	fmt.Println(string(pretty))
	return nil
}

func runDataStoreSet(cmd *cobra.Command, args []string) error {
	namespace, key, raw := args[0], args[1], args[2]

	var value json.RawMessage
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return errors.Wrap(err, "value is not valid JSON")
	}

	store, err := datastore.GetDataStore()
	if err != nil {
		return err
	}

	// autoLoad so Set knows whether to create or update the key
	ns, err := store.Get(cmd.Context(), namespace, true)
	if err != nil {
		return err
	}

	if err := ns.Set(cmd.Context(), key, value); err != nil {
		return err
	}

	pterm.Success.Printfln("Wrote %s/%s", namespace, key)
	return nil
}

func runDataStoreRm(cmd *cobra.Command, args []string) error {
	store, err := datastore.GetDataStore()
	if err != nil {
		return err
	}

	if len(args) == 2 {
		ns, err := store.Get(cmd.Context(), args[0], false)
		if err != nil {
			return err
		}
		if err := ns.Delete(cmd.Context(), args[1]); err != nil {
			return err
		}
		pterm.Success.Printfln("Deleted %s/%s", args[0], args[1])
		return nil
	}

	if _, err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	pterm.Success.Printfln("Deleted namespace %s", args[0])
	return nil
}
