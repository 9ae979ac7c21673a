package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/filippoaprilee/effemmeweb-helper/csvtools"
)

func newCSVCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Operazioni sui file CSV di rubrica e scraping",
	}

	cmd.AddCommand(
		newDuplicatiCmd(a),
		newSessoCmd(a),
		newComuniIDCmd(a),
		newAffiancaCmd(a),
		newUnisciCmd(a),
		newPulisciURLCmd(a),
		newFiltraCmd(a),
	)

	return cmd
}

func newDuplicatiCmd(a *app) *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "duplicati",
		Short: "Estrae i contatti duplicati non ancora chiamati",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := csvtools.ReadTable(input, ',')
			if err != nil {
				return err
			}

			rows, err := csvtools.FilterDuplicates(t)
			if err != nil {
				return err
			}
			if err := csvtools.WriteTable(output, ',', t.Header, rows); err != nil {
				return err
			}

			a.log.WithField("righe", len(rows)).Info("duplicati filtrati")
			done("Duplicati salvati in %s (%d righe)", output, len(rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "input.csv", "export della rubrica")
	cmd.Flags().StringVarP(&output, "output", "o", "duplicati_filtrati.csv", "file di output")

	return cmd
}

func newSessoCmd(a *app) *cobra.Command {
	var input, output, column string

	cmd := &cobra.Command{
		Use:   "sesso",
		Short: "Aggiunge la colonna SESSO dedotta dal nome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := csvtools.ReadTable(input, ',')
			if err != nil {
				return err
			}

			out, err := csvtools.AddSexColumn(t, column)
			if err != nil {
				return err
			}
			if err := csvtools.WriteTable(output, ',', out.Header, out.Rows); err != nil {
				return err
			}

			done("File %s elaborato. Nuovo file con colonna '%s' salvato in %s.", input, csvtools.ColSesso, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "input.csv", "CSV di input")
	cmd.Flags().StringVarP(&output, "output", "o", "output_con_sesso.csv", "file di output")
	cmd.Flags().StringVar(&column, "colonna", "NOME", "colonna con il nome")

	return cmd
}

func newComuniIDCmd(a *app) *cobra.Command {
	var mappingFile, input, output, column string

	cmd := &cobra.Command{
		Use:   "comuni-id",
		Short: "Sostituisce il nome del comune con il suo ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mt, err := csvtools.ReadTable(mappingFile, ',')
			if err != nil {
				return err
			}
			mapping, err := csvtools.LoadComuniMapping(mt)
			if err != nil {
				return err
			}

			t, err := csvtools.ReadTable(input, ',')
			if err != nil {
				return err
			}
			missing, err := csvtools.ReplaceComuneWithID(t, column, mapping)
			if err != nil {
				return err
			}
			if err := csvtools.WriteTable(output, ',', t.Header, t.Rows); err != nil {
				return err
			}

			if missing > 0 {
				a.log.WithField("non_trovati", missing).Warn("comuni senza ID")
			}
			done("File salvato come: %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mappingFile, "mapping", "m", "comuni-_1_.csv", "CSV con le colonne COMUNE e ID")
	cmd.Flags().StringVarP(&input, "input", "i", "output.csv", "CSV da convertire")
	cmd.Flags().StringVarP(&output, "output", "o", "final_output.csv", "file di output")
	cmd.Flags().StringVar(&column, "colonna", "Comune", "colonna con il nome del comune")

	return cmd
}

func newAffiancaCmd(a *app) *cobra.Command {
	var left, right, output string
	var order []string

	cmd := &cobra.Command{
		Use:   "affianca",
		Short: "Affianca due CSV riga per riga",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lt, err := csvtools.ReadTable(left, ',')
			if err != nil {
				return err
			}
			rt, err := csvtools.ReadTable(right, ',')
			if err != nil {
				return err
			}

			out, err := csvtools.ConcatColumns(lt, rt, order)
			if err != nil {
				return err
			}
			if err := csvtools.WriteTable(output, ',', out.Header, out.Rows); err != nil {
				return err
			}

			a.log.WithField("righe", len(out.Rows)).Info("file affiancati")
			done("Il file %s è stato creato con successo!", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&left, "sinistra", "file1.csv", "primo CSV")
	cmd.Flags().StringVar(&right, "destra", "file2.csv", "secondo CSV")
	cmd.Flags().StringVarP(&output, "output", "o", "file3.csv", "file di output")
	cmd.Flags().StringSliceVar(&order, "ordine", csvtools.DefaultConcatOrder, "ordine delle colonne in uscita")

	return cmd
}

func newUnisciCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "unisci FILE...",
		Short: "Unisce più CSV eliminando righe malformate e duplicati",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := csvtools.MergeFiles(output, args, a.log)
			if err != nil {
				return err
			}

			a.log.WithFields(logrus.Fields{
				"scritte":   stats.Written,
				"duplicati": stats.Duplicates,
				"scartate":  stats.Skipped,
			}).Info("unione completata")
			done("File CSV unito creato con successo: %s (%d righe)", output, stats.Written)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "merged.csv", "file di output")

	return cmd
}

func newPulisciURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pulisci-url PERCORSO...",
		Short: "Rimuove query string e slash finale dalla colonna Sito Web",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cleaned := 0
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("percorso non valido: %w", err)
				}

				if info.IsDir() {
					n, err := csvtools.CleanURLsInDir(path, a.log)
					if err != nil {
						return err
					}
					cleaned += n
					continue
				}

				if err := csvtools.CleanURLsInFile(path); err != nil {
					return err
				}
				cleaned++
			}

			done("Pulizia degli URL completata su %d file.", cleaned)
			return nil
		},
	}
}

func newFiltraCmd(a *app) *cobra.Command {
	var input, output string
	var categories []string

	cmd := &cobra.Command{
		Use:   "filtra",
		Short: "Filtra un CSV per categoria; senza --categoria elenca quelle disponibili",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := csvtools.ReadTable(input, ',')
			if err != nil {
				return err
			}

			if len(categories) == 0 {
				available, err := csvtools.Categories(t)
				if err != nil {
					return err
				}
				fmt.Println(section("Categorie disponibili:"))
				for i, c := range available {
					fmt.Printf("%s %s\n", highlight(fmt.Sprintf("%d.", i+1)), c)
				}
				return nil
			}

			rows, err := csvtools.FilterByCategory(t, categories)
			if err != nil {
				return err
			}
			if err := csvtools.WriteTable(output, ',', t.Header, rows); err != nil {
				return err
			}

			a.log.WithField("righe", len(rows)).Info("csv filtrato")
			done("File CSV filtrato generato con successo: %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "input.csv", "CSV di input")
	cmd.Flags().StringVarP(&output, "output", "o", "filtrato.csv", "file di output")
	cmd.Flags().StringArrayVar(&categories, "categoria", nil, "categoria da mantenere (ripetibile)")

	return cmd
}
