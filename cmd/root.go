package cmd

import (
	"multisig/domain/config"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "multisig",
	Short: "Multi-signature treasury approval service",
	Long: `Keeps pooled per-token balances for a group of signers and releases funds only
through proposals that collect enough signatures.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		config.ReadConfig(cfgFile)
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file")
}
