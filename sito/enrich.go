package sito

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/filippoaprilee/effemmeweb-helper/csvtools"
)

// ErrorValue è il valore scritto quando una ricerca fallisce.
const ErrorValue = "Errore"

// UnknownSiteRow è una riga del CSV prodotto da EnrichCSV.
type UnknownSiteRow struct {
	Nome     string `csv:"Nome Attività"`
	Sito     string `csv:"Sito Web"`
	NSLookup string `csv:"NSLOOKUP"`
	Provider string `csv:"PROVIDER"`
}

// Enricher aggiunge indirizzo IP e registrar ai siti di un CSV.
type Enricher struct {
	Resolver *Resolver
	Whois    WhoisFetcher
	// Limiter distanzia le interrogazioni WHOIS; nil per nessun limite.
	Limiter *rate.Limiter
	Logger  logrus.FieldLogger
}

// EnrichCSV legge un CSV con le colonne "Nome Attività" e "Sito Web" e scrive
// le stesse colonne più NSLOOKUP e PROVIDER.
func (e *Enricher) EnrichCSV(ctx context.Context, r io.Reader, w io.Writer) (int, error) {
	table, err := csvtools.ReadTableFrom(r, ',')
	if err != nil {
		return 0, err
	}

	nameIdx, err := table.MustIndex(csvtools.ColNomeAttivita)
	if err != nil {
		return 0, err
	}
	siteIdx, err := table.MustIndex(csvtools.ColSitoWeb)
	if err != nil {
		return 0, err
	}

	log := e.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	rows := make([]*UnknownSiteRow, 0, len(table.Rows))
	for _, record := range table.Rows {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		row := &UnknownSiteRow{
			Nome:     csvtools.Value(record, nameIdx),
			Sito:     csvtools.Value(record, siteIdx),
			NSLookup: NotAvailable,
			Provider: NotAvailable,
		}
		rows = append(rows, row)

		if strings.TrimSpace(row.Sito) == "" {
			continue
		}

		domain, err := ExtractDomain(row.Sito)
		if err != nil {
			row.NSLookup, row.Provider = ErrorValue, ErrorValue
			continue
		}

		row.NSLookup = e.lookupIP(ctx, domain)
		row.Provider = e.registrar(ctx, domain, log)
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, fmt.Errorf("errore durante la scrittura del CSV: %w", err)
	}

	return len(rows), nil
}

func (e *Enricher) lookupIP(ctx context.Context, domain string) string {
	if e.Resolver == nil {
		return NotAvailable
	}
	return e.Resolver.LookupIP(ctx, domain)
}

func (e *Enricher) registrar(ctx context.Context, domain string, log logrus.FieldLogger) string {
	if e.Limiter != nil {
		if err := e.Limiter.Wait(ctx); err != nil {
			return ErrorValue
		}
	}

	registrar, err := WhoisRegistrar(ctx, e.Whois, domain)
	if err != nil {
		log.WithError(err).WithField("dominio", domain).Warn("whois non riuscito")
		return ErrorValue
	}
	return registrar
}
