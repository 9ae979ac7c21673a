package main

import (
	"github.com/gosom/scrapemate"
	"github.com/spf13/cobra"

	"github.com/filippoaprilee/effemmeweb-helper/wiki"
)

func newComuniCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comuni",
		Short: "Estrae l'elenco dei comuni da Wikipedia",
	}

	var (
		tableURL, tableOutput string
	)
	tabella := &cobra.Command{
		Use:   "tabella",
		Short: "Comuni dalle tabelle wikitable di una pagina regionale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.scrapeComuni(cmd, tableOutput, wiki.NewTableJob(tableURL))
		},
	}
	tabella.Flags().StringVar(&tableURL, "url", wiki.DefaultTableURL, "pagina di Wikipedia")
	tabella.Flags().StringVarP(&tableOutput, "output", "o", "lista_comuni.csv", "file di output")

	var (
		categoryURL, categoryOutput string
		maxPages                    int
	)
	categoria := &cobra.Command{
		Use:   "categoria",
		Short: "Comuni elencati in una pagina di categoria provinciale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.scrapeComuni(cmd, categoryOutput, wiki.NewCategoryJob(categoryURL, maxPages))
		},
	}
	categoria.Flags().StringVar(&categoryURL, "url", wiki.DefaultCategoryURL, "pagina di categoria")
	categoria.Flags().StringVarP(&categoryOutput, "output", "o", "comuni_provincia.csv", "file di output")
	categoria.Flags().IntVar(&maxPages, "pagine", 10, "numero massimo di pagine da seguire")

	cmd.AddCommand(tabella, categoria)

	return cmd
}

func (a *app) scrapeComuni(cmd *cobra.Command, output string, job scrapemate.IJob) error {
	comuni, err := wiki.Scrape(cmd.Context(), wiki.ScrapeConfig{
		Concurrency:      a.cfg.Scraper.Concurrency,
		ExitOnInactivity: a.cfg.Scraper.ExitOnInactivity,
		Logger:           a.log,
	}, job)
	if err != nil {
		return err
	}

	out, err := createOutput(output)
	if err != nil {
		return err
	}
	defer out.Discard()

	if err := wiki.WriteComuni(out, comuni); err != nil {
		return err
	}
	if err := out.Commit(); err != nil {
		return err
	}

	a.log.WithField("comuni", len(comuni)).Info("estrazione completata")
	done("Trovati %d comuni, salvati in %s", len(comuni), output)
	return nil
}
