package wiki

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/gosom/scrapemate"
)

// Pagine di default: comuni del Trentino-Alto Adige e della provincia di Taranto.
const (
	DefaultTableURL    = "https://it.wikipedia.org/wiki/Comuni_del_Trentino-Alto_Adige"
	DefaultCategoryURL = "https://it.wikipedia.org/wiki/Categoria:Comuni_della_provincia_di_Taranto"
)

// PageKind distingue il tipo di pagina da analizzare.
type PageKind int

const (
	TablePage PageKind = iota
	CategoryPage
)

// ComuniJob scarica una pagina di Wikipedia e ne estrae i comuni.
type ComuniJob struct {
	scrapemate.Job
	Kind PageKind
	// MaxPages limita le pagine di categoria seguite tramite "pagina successiva".
	MaxPages int
	page     int
}

// NewTableJob crea un job per una pagina con tabelle wikitable.
func NewTableJob(u string) *ComuniJob {
	return newComuniJob("", u, TablePage, 1, 1)
}

// NewCategoryJob crea un job per una pagina di categoria.
func NewCategoryJob(u string, maxPages int) *ComuniJob {
	if maxPages <= 0 {
		maxPages = 1
	}
	return newComuniJob("", u, CategoryPage, maxPages, 1)
}

func newComuniJob(parentID, u string, kind PageKind, maxPages, page int) *ComuniJob {
	const (
		defaultMaxRetries = 3
		defaultPrio       = scrapemate.PriorityMedium
	)

	return &ComuniJob{
		Job: scrapemate.Job{
			ID:         uuid.New().String(),
			ParentID:   parentID,
			Method:     http.MethodGet,
			URL:        u,
			MaxRetries: defaultMaxRetries,
			Priority:   defaultPrio,
		},
		Kind:     kind,
		MaxPages: maxPages,
		page:     page,
	}
}

// Process estrae i comuni dal documento. Per le categorie accoda la pagina
// successiva finché non si raggiunge MaxPages.
func (j *ComuniJob) Process(_ context.Context, resp *scrapemate.Response) (any, []scrapemate.IJob, error) {
	defer func() {
		resp.Document = nil
		resp.Body = nil
	}()

	if resp.Error != nil {
		return nil, nil, resp.Error
	}

	doc, ok := resp.Document.(*goquery.Document)
	if !ok {
		return nil, nil, fmt.Errorf("impossibile analizzare il documento di %s", j.URL)
	}

	switch j.Kind {
	case CategoryPage:
		comuni := ParseCategory(doc)

		var next []scrapemate.IJob
		if j.page < j.MaxPages {
			base := resp.URL
			if base == "" {
				base = j.URL
			}
			if nextURL := NextCategoryPage(doc, base); nextURL != "" {
				next = append(next, newComuniJob(j.ID, nextURL, CategoryPage, j.MaxPages, j.page+1))
			}
		}
		return comuni, next, nil
	default:
		return ParseWikitables(doc), nil, nil
	}
}

// UseInResults indica che l'elenco estratto va passato ai writer.
func (j *ComuniJob) UseInResults() bool {
	return true
}
