package wiki

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/gosom/scrapemate"
	"github.com/gosom/scrapemate/scrapemateapp"
	"github.com/sirupsen/logrus"
)

// Collector è un scrapemate.ResultWriter che accumula i comuni estratti.
type Collector struct {
	mu     sync.Mutex
	comuni map[string]struct{}
	log    logrus.FieldLogger
}

// NewCollector crea un Collector vuoto.
func NewCollector(log logrus.FieldLogger) *Collector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Collector{comuni: make(map[string]struct{}), log: log}
}

// Run consuma i risultati finché il canale non viene chiuso o il contesto scade.
func (c *Collector) Run(ctx context.Context, results <-chan scrapemate.Result) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case result, ok := <-results:
			if !ok {
				return nil
			}
			if err := c.WriteResult(result); err != nil {
				return err
			}
		}
	}
}

// WriteResult aggiunge i comuni di un singolo risultato.
func (c *Collector) WriteResult(result scrapemate.Result) error {
	comuni, ok := result.Data.([]string)
	if !ok {
		return fmt.Errorf("tipo di dato non valido per il risultato: %T", result.Data)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, comune := range comuni {
		c.comuni[comune] = struct{}{}
	}
	c.log.WithField("trovati", len(comuni)).Debug("pagina elaborata")

	return nil
}

// Comuni restituisce i comuni raccolti senza duplicati, in ordine alfabetico.
func (c *Collector) Comuni() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := make([]string, 0, len(c.comuni))
	for comune := range c.comuni {
		list = append(list, comune)
	}
	sort.Strings(list)
	return list
}

// ScrapeConfig configura l'app scrapemate.
type ScrapeConfig struct {
	Concurrency      int
	ExitOnInactivity time.Duration
	Logger           logrus.FieldLogger
}

// Scrape esegue i job e restituisce l'elenco ordinato dei comuni trovati.
func Scrape(ctx context.Context, cfg ScrapeConfig, jobs ...scrapemate.IJob) ([]string, error) {
	if len(jobs) == 0 {
		return nil, errors.New("nessun job di scraping")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	if cfg.ExitOnInactivity <= 0 {
		cfg.ExitOnInactivity = 30 * time.Second
	}

	collector := NewCollector(cfg.Logger)

	appCfg, err := scrapemateapp.NewConfig(
		[]scrapemate.ResultWriter{collector},
		scrapemateapp.WithConcurrency(cfg.Concurrency),
		scrapemateapp.WithExitOnInactivity(cfg.ExitOnInactivity),
	)
	if err != nil {
		return nil, fmt.Errorf("errore durante la configurazione dello scraping: %w", err)
	}

	app, err := scrapemateapp.NewScrapeMateApp(appCfg)
	if err != nil {
		return nil, fmt.Errorf("errore durante l'inizializzazione dello scraping: %w", err)
	}
	defer app.Close()

	// L'app termina con un errore anche quando si ferma per inattività:
	// conta solo se non è stato raccolto nulla.
	startErr := app.Start(ctx, jobs...)

	comuni := collector.Comuni()
	if len(comuni) == 0 && startErr != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("errore durante lo scraping: %w", startErr)
	}

	return comuni, nil
}

// WriteComuni scrive l'elenco nel formato "Comune;" atteso dal gestionale.
func WriteComuni(w io.Writer, comuni []string) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("Comune;\n"); err != nil {
		return err
	}
	for _, comune := range comuni {
		if _, err := bw.WriteString(comune + ";\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}
