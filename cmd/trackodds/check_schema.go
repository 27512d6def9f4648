package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/trackodds/internal/repository"
)

var checkSchemaCmd = &cobra.Command{
	Use:   "check-schema",
	Short: "Print the columns of the store tables and locate the results table",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		return runCheckSchema(ctx)
	},
}

func runCheckSchema(ctx context.Context) error {
	backend, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer backend.Close()

	schema := backend.Repos.Schema
	for _, table := range []string{repository.TableDrivers, repository.TableTracks, repository.TableRaces, repository.TableOdds} {
		cols, err := schema.Columns(ctx, table)
		if err != nil {
			fmt.Printf("%-16s error: %v\n", table, err)
			continue
		}
		if len(cols) == 0 {
			fmt.Printf("%-16s (no rows)\n", table)
			continue
		}
		fmt.Printf("%-16s %s\n", table, strings.Join(cols, ", "))
	}

	fmt.Println()
	found := ""
	for _, table := range repository.ResultsTableCandidates {
		ok, err := schema.TableExists(ctx, table)
		switch {
		case err != nil:
			fmt.Printf("%-16s error: %v\n", table, err)
		case ok:
			fmt.Printf("%-16s found\n", table)
			if found == "" {
				found = table
			}
		default:
			fmt.Printf("%-16s missing\n", table)
		}
	}

	if found == "" {
		return fmt.Errorf("no results table found among %s", strings.Join(repository.ResultsTableCandidates, ", "))
	}
	if found != cfg.Store.ResultsTable {
		appLog.WithField("table", found).Warn("Results live in a different table than store.results_table")
	}
	return nil
}
