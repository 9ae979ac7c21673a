package main

import (
	"github.com/spf13/cobra"

	"github.com/filippoaprilee/effemmeweb-helper/csvtools"
	"github.com/filippoaprilee/effemmeweb-helper/nomi"
)

func newNomiCmd(a *app) *cobra.Command {
	var (
		input, output, delimiter, encoding string
	)

	cmd := &cobra.Command{
		Use:   "nomi",
		Short: "Divide i nominativi in COGNOME e NOME",
		Long: `Legge un CSV senza intestazione con il nominativo in una o due colonne e
scrive un CSV con le colonne COGNOME e NOME, riconoscendo i prefissi dei
cognomi (DE, DI, DEL, LA, VAN, ...) e le associazioni A.S.D.

Esempio:
  effemmeweb nomi -i prova2.csv -o output.csv`,
		Args: cobra.NoArgs,
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

			n, err := nomi.SplitCSV(in, out, nomi.SplitOptions{
				Comma:    comma,
				Encoding: encoding,
				Logger:   a.log,
			})
			if err != nil {
				return err
			}
			if err := out.Commit(); err != nil {
				return err
			}

			a.log.WithField("righe", n).Info("nominativi divisi")
			done("File salvato come: %s (%d righe)", output, n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "prova2.csv", "CSV di input (- per stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "output.csv", "CSV di output (- per stdout)")
	cmd.Flags().StringVarP(&delimiter, "delimitatore", "d", ",", "delimitatore di campo")
	cmd.Flags().StringVar(&encoding, "encoding", csvtools.EncodingUTF8, "codifica dell'input (utf-8, latin1)")

	return cmd
}
