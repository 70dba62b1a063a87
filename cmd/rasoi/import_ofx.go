package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/rasoi-labs/rasoi/internal/common"
	"github.com/rasoi-labs/rasoi/internal/model"
	"github.com/rasoi-labs/rasoi/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import [files...]",
		Aliases: []string{"import-ofx"},
		Short:   "Import transactions from OFX/QFX bank exports",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.

Examples:
  # Import a single file
  rasoi import ~/Downloads/statement_jan_2024.qfx

  # Import everything in a directory
  rasoi import ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(pattern); statErr == nil {
				allFiles = append(allFiles, pattern)
			} else {
				common.LogDebug("no files matched pattern", common.Fields{"pattern": pattern})
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}
	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	parser := ofx.NewParser()
	ctx := cmd.Context()

	var parsed []model.Transaction
	bar := progressbar.Default(int64(len(allFiles)), "parsing statements")
	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			common.LogError(err, "failed to open statement", common.Fields{"file": filePath})
			_ = bar.Add(1)
			continue
		}

		transactions, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			common.LogError(err, "failed to parse statement", common.Fields{"file": filePath})
			_ = bar.Add(1)
			continue
		}

		parsed = append(parsed, transactions...)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if len(parsed) == 0 {
		fmt.Println("No transactions found in any file.")
		return nil
	}

	if dryRun {
		for _, txn := range parsed {
			fmt.Printf("%s  %-7s  %s  %s\n", txn.Date, txn.Type, txn.Amount, txn.Description)
		}
		fmt.Printf("\nDry run: %d transactions would be imported.\n", len(parsed))
		return nil
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, txn := range parsed {
		a.store.AddTransaction(ctx, txn)
	}
	fmt.Printf("Imported %d transactions from %d file(s).\n", len(parsed), len(allFiles))
	return nil
}
