package cmd

import (
	"fmt"
	"log"
	"multisig/domain/config"
	"multisig/interface/repository"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Creates the database tables",
	Long:  `Creates the treasuries, proposals and memos tables if they do not exist. Requires the postgres store.`,
	Run: func(cmd *cobra.Command, args []string) {
		if config.GetStore() != config.StorePostgres {
			fmt.Println("⛔️ Configuration parameter 'store' must be 'postgres' to run migrations.")
			return
		}

		defaultDependencyInject()
		defer dbPool.Close()

		if err := repository.Migrate(dbHandler); err != nil {
			log.Fatalf("Migration failed - %v\n", err.Error())
		}
		fmt.Println("✅ Schema is up to date.")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
