package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/filippoaprilee/effemmeweb-helper/sito"
)

func newSitoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sito",
		Short: "Analisi di hosting, DNS e tecnologie dei siti",
	}

	cmd.AddCommand(newAnalizzaCmd(a), newSconosciutiCmd(a))

	return cmd
}

func newAnalizzaCmd(a *app) *cobra.Command {
	var dynamic, asJSON bool

	cmd := &cobra.Command{
		Use:   "analizza URL",
		Short: "Raccoglie hosting, DNS, tecnologie e prestazioni di un sito",
		Long: `Raccoglie le informazioni tecniche di un sito: ISP (Shodan), hosting dai
nameserver, registrar WHOIS, record DNS, tecnologie usate, punteggi PageSpeed,
tema e plugin WordPress, moduli PrestaShop ed email di contatto.

Le chiavi API si configurano con EFFEMMEWEB_SHODAN_API_KEY e
EFFEMMEWEB_PAGESPEED_API_KEY; senza chiave la relativa analisi viene saltata.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer := a.newAnalyzer()
			analyzer.Dynamic = dynamic

			fmt.Fprintln(os.Stderr, section("\n--- Raccolta informazioni ---"))

			report, err := analyzer.Analyze(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			printReport(report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dynamic, "dinamico", false, "usa un browser headless per le pagine generate via JavaScript")
	cmd.Flags().BoolVar(&asJSON, "json", false, "stampa il report in JSON")

	return cmd
}

func (a *app) newAnalyzer() *sito.Analyzer {
	analyzer := sito.NewAnalyzer(a.cfg.HTTP.Timeout, a.cfg.HTTP.UserAgent, a.log)
	httpClient := &http.Client{Timeout: a.cfg.HTTP.Timeout}

	if shodanClient, err := sito.NewShodanClient(httpClient, a.cfg.Shodan.APIKey); err == nil {
		analyzer.ISP = shodanClient
	} else if errors.Is(err, sito.ErrMissingShodanKey) {
		a.log.Debug("chiave shodan assente, ISP non rilevato")
	}

	if a.cfg.PageSpeed.APIKey != "" {
		analyzer.PageSpeed = sito.NewPageSpeedClient(httpClient, a.cfg.PageSpeed.APIKey, a.cfg.PageSpeed.Rate)
	} else {
		a.log.Debug("chiave pagespeed assente, prestazioni non rilevate")
	}

	return analyzer
}

func printReport(r *sito.SiteReport) {
	field := func(name, value string) {
		fmt.Printf("%s %s\n", highlight(name+":"), value)
	}

	field("URL", r.URL)
	field("Dominio", r.Domain)
	field("Indirizzo IP", r.IP)
	field("Hosting Provider", r.ISP)
	field("Hosting (nameserver)", r.Hosting)
	field("Registrar", r.Registrar)

	fmt.Println(highlight("DNS Records:"))
	for _, kind := range []string{"A", "NS", "MX", "TXT", "error"} {
		if values, ok := r.DNS[kind]; ok {
			fmt.Printf("  %-5s %s\n", kind, strings.Join(values, ", "))
		}
	}

	if len(r.Technologies) > 0 {
		field("Tecnologie utilizzate", strings.Join(r.Technologies, ", "))
	} else {
		field("Tecnologie utilizzate", sito.NoTechnologies)
	}

	field("Performance desktop", formatScore(r.Performance.Desktop))
	field("Performance mobile", formatScore(r.Performance.Mobile))
	field("SEO", formatScore(r.Performance.SEO))

	if r.WordPress != nil {
		theme := r.WordPress.Theme
		if theme == "" {
			theme = sito.NotAvailable
		}
		plugins := "Nessun plugin rilevato"
		if len(r.WordPress.Plugins) > 0 {
			plugins = strings.Join(r.WordPress.Plugins, ", ")
		}
		field("Tema WordPress", theme)
		field("Plugin WordPress", plugins)
	}
	if len(r.PrestaShopModules) > 0 {
		field("Moduli PrestaShop", strings.Join(r.PrestaShopModules, ", "))
	}

	cookie := "No"
	if r.CookiePolicy {
		cookie = "Sì"
	}
	field("Cookie policy", cookie)

	if len(r.Emails) > 0 {
		field("Email", strings.Join(r.Emails, ", "))
	}

	for probe, msg := range r.Errors {
		fmt.Printf("%s %s\n", important("Errore "+probe+":"), msg)
	}
}

func formatScore(score *int) string {
	if score == nil {
		return sito.NotAvailable
	}
	return fmt.Sprintf("%d/100", *score)
}

func newSconosciutiCmd(a *app) *cobra.Command {
	var input, output string
	var whoisRate float64

	cmd := &cobra.Command{
		Use:   "sconosciuti",
		Short: "Aggiunge IP (NSLOOKUP) e registrar (PROVIDER) ai siti di un CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			enricher := &sito.Enricher{
				Resolver: sito.NewResolver(),
				Whois:    sito.DefaultWhoisFetcher,
				Logger:   a.log,
			}
			if whoisRate > 0 {
				enricher.Limiter = rate.NewLimiter(rate.Limit(whoisRate), 1)
			}

			n, err := enricher.EnrichCSV(cmd.Context(), in, out)
			if err != nil {
				return err
			}
			if err := out.Commit(); err != nil {
				return err
			}

			done("File salvato come: %s (%d righe)", output, n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "input.csv", "CSV con le colonne Nome Attività e Sito Web")
	cmd.Flags().StringVarP(&output, "output", "o", "output_sconosciuto.csv", "file di output")
	cmd.Flags().Float64Var(&whoisRate, "whois-rate", 1, "interrogazioni WHOIS al secondo (0 per nessun limite)")

	return cmd
}
