package main

import (
	"FeeloraGo/config"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.LoadConfig(*configPath)
			if err != nil {
				return fmt.Errorf("无法加载配置: %w", err)
			}
			db, err := config.OpenDB(conf)
			if err != nil {
				return fmt.Errorf("无法初始化数据库: %w", err)
			}
			if err := config.MigrateDB(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", conf.DBDriver)
			return nil
		},
	}
}
