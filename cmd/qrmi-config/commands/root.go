package commands

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/qiskit-community/qrmi-go/pkg/qrmi"
)

var rootCmd = &cobra.Command{
	Use:   "qrmi-config",
	Short: "Validate and inspect quantum resource config files",
	Long: `qrmi-config - Validate and inspect qrmi_config files.

A config file declares the quantum resources available on a node, one
entry per resource with its type and environment. Both JSON and YAML
files are accepted.

Examples:
  qrmi-config validate /etc/slurm/qrmi_config.json
  qrmi-config resources qrmi_config.yaml
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(resourcesCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a config file for errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := qrmi.LoadConfig(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK, %d resources\n", args[0], len(cfg.Names()))
		return nil
	},
}

var resourcesCmd = &cobra.Command{
	Use:   "resources <file>",
	Short: "List the resources defined in a config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := qrmi.LoadConfig(args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tENVIRONMENT")
		for _, name := range cfg.Names() {
			def, _ := cfg.Resource(name)
			keys := make([]string, 0, len(def.Environment))
			for k := range def.PrefixedEnvironment() {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(w, "%s\t%s\t%s\n", def.Name, def.Type, strings.Join(keys, ","))
		}
		return w.Flush()
	},
}
