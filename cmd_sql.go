package main

import (
	"github.com/spf13/cobra"

	"github.com/filippoaprilee/effemmeweb-helper/csvtools"
	"github.com/filippoaprilee/effemmeweb-helper/sqlgen"
)

func newSQLCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Script SQL di import per il gestionale",
	}

	var (
		input, output, table, delimiter string
		columns                         []string
		fillID                          bool
	)
	genera := &cobra.Command{
		Use:   "genera",
		Short: "Converte un CSV in un blocco di EXECUTE IMMEDIATE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			comma, err := csvtools.ParseComma(delimiter)
			if err != nil {
				return err
			}

			in, err := openInput(input)
			if err != nil {
				return err
			}
			defer in.Close()

			out, err := createOutput(output)
			if err != nil {
				return err
			}
			defer out.Discard()

			n, err := sqlgen.GenerateInserts(in, out, sqlgen.InsertOptions{
				Table:   table,
				Columns: columns,
				Comma:   comma,
				FillID:  fillID,
				Logger:  a.log,
			})
			if err != nil {
				return err
			}
			if err := out.Commit(); err != nil {
				return err
			}

			done("File SQL generato: %s (%d istruzioni)", output, n)
			return nil
		},
	}
	genera.Flags().StringVarP(&input, "input", "i", "input.csv", "CSV di input")
	genera.Flags().StringVarP(&output, "output", "o", "output.sql", "file SQL di output")
	genera.Flags().StringVar(&table, "tabella", sqlgen.DefaultTable, "tabella di destinazione")
	genera.Flags().StringSliceVar(&columns, "colonne", sqlgen.DefaultColumns, "colonne della tabella")
	genera.Flags().StringVarP(&delimiter, "delimitatore", "d", ";", "delimitatore del CSV")
	genera.Flags().BoolVar(&fillID, "genera-id", false, "assegna un UUID alle righe senza ID")

	var (
		sqlInput, outDir string
		perFile          int
	)
	dividi := &cobra.Command{
		Use:   "dividi",
		Short: "Divide uno script SQL in più file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := sqlgen.SplitFile(sqlInput, outDir, perFile)
			if err != nil {
				return err
			}

			for _, f := range created {
				a.log.WithField("file", f).Debug("file creato")
			}
			done("Creati %d file in %s", len(created), outDir)
			return nil
		},
	}
	dividi.Flags().StringVarP(&sqlInput, "input", "i", "input.sql", "script SQL da dividere")
	dividi.Flags().StringVar(&outDir, "dir", "output_files", "directory di output")
	dividi.Flags().IntVar(&perFile, "righe", sqlgen.DefaultStatementsPerFile, "istruzioni per file")

	cmd.AddCommand(genera, dividi)

	return cmd
}
