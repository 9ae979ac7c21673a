package sito

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const (
	defaultUserAgent = "Mozilla/5.0"
	maxBodySize      = 2 << 20
)

// SiteReport raccoglie l'esito di tutte le analisi su un sito.
// Le analisi fallite finiscono in Errors, indicizzate per nome.
type SiteReport struct {
	URL               string              `json:"url"`
	Protocol          string              `json:"protocol,omitempty"`
	Domain            string              `json:"domain"`
	IP                string              `json:"ip"`
	ISP               string              `json:"isp"`
	Hosting           string              `json:"hosting"`
	Registrar         string              `json:"registrar"`
	DNS               map[string][]string `json:"dns"`
	StatusCode        int                 `json:"status_code,omitempty"`
	Technologies      []string            `json:"technologies"`
	CookiePolicy      bool                `json:"cookie_policy"`
	Performance       PageSpeedScores     `json:"performance"`
	WordPress         *WordPressInfo      `json:"wordpress,omitempty"`
	PrestaShopModules []string            `json:"prestashop_modules,omitempty"`
	Emails            []string            `json:"emails,omitempty"`
	Errors            map[string]string   `json:"errors,omitempty"`
}

func (r *SiteReport) fail(probe string, err error) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[probe] = err.Error()
}

// Analyzer esegue le analisi di un sito. I campi nil disattivano la relativa analisi.
type Analyzer struct {
	HTTP          *http.Client
	UserAgent     string
	Resolver      *Resolver
	Whois         WhoisFetcher
	ISP           ISPLookup
	PageSpeed     *PageSpeedClient
	Fingerprinter *Fingerprinter
	// Dynamic attiva il rendering headless per le pagine generate via JavaScript.
	Dynamic bool
	Render  func(ctx context.Context, u string) (string, error)
	Logger  logrus.FieldLogger
}

// NewAnalyzer crea un Analyzer con resolver di sistema, WHOIS e wappalyzer.
func NewAnalyzer(timeout time.Duration, userAgent string, log logrus.FieldLogger) *Analyzer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Analyzer{
		HTTP:          &http.Client{Timeout: timeout},
		UserAgent:     userAgent,
		Resolver:      NewResolver(),
		Whois:         DefaultWhoisFetcher,
		Fingerprinter: &Fingerprinter{},
		Render:        RenderHTML,
		Logger:        log,
	}
}

// Analyze esegue tutte le analisi abilitate. Restituisce un errore solo se
// l'URL non contiene un dominio valido. Senza schema prova https e poi http.
func (a *Analyzer) Analyze(ctx context.Context, u string) (*SiteReport, error) {
	candidates := []string{u}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		candidates = []string{"https://" + u, "http://" + u}
		u = candidates[0]
	}

	domain, err := ExtractDomain(u)
	if err != nil {
		return nil, fmt.Errorf("url non valido %s: %w", u, err)
	}

	log := a.logger().WithField("dominio", domain)
	report := &SiteReport{
		URL:       u,
		Domain:    domain,
		IP:        NotAvailable,
		ISP:       NotAvailable,
		Hosting:   UnknownHosting,
		Registrar: NotAvailable,
	}

	a.analyzeNetwork(ctx, report)
	a.analyzePage(ctx, report, candidates)

	if a.PageSpeed != nil {
		scores, err := a.PageSpeed.Scores(ctx, report.URL)
		if err != nil {
			report.fail("pagespeed", err)
		}
		report.Performance = scores
	}

	for probe, msg := range report.Errors {
		log.WithField("analisi", probe).Warn(msg)
	}

	return report, nil
}

func (a *Analyzer) analyzeNetwork(ctx context.Context, report *SiteReport) {
	if a.Resolver != nil {
		report.DNS = a.Resolver.Records(ctx, report.Domain)
		report.IP = a.Resolver.LookupIP(ctx, report.Domain)

		hosting, err := a.Resolver.HostingProvider(ctx, report.Domain)
		if err != nil {
			report.fail("hosting", err)
		}
		report.Hosting = hosting
	}

	if a.ISP != nil && report.IP != NotAvailable {
		isp, err := a.ISP.ISP(ctx, report.IP)
		if err != nil {
			report.fail("isp", err)
		} else {
			report.ISP = isp
		}
	}

	if a.Whois != nil {
		registrar, err := WhoisRegistrar(ctx, a.Whois, report.Domain)
		if err != nil {
			report.fail("whois", err)
		} else {
			report.Registrar = registrar
		}
	}
}

func (a *Analyzer) analyzePage(ctx context.Context, report *SiteReport, candidates []string) {
	var (
		headers http.Header
		body    []byte
		status  int
		err     error
	)
	for _, candidate := range candidates {
		headers, body, status, err = a.fetch(ctx, candidate)
		if err == nil {
			report.URL = candidate
			break
		}
		a.logger().WithField("url", candidate).Debugf("pagina non raggiungibile: %v", err)
	}
	if err != nil {
		report.fail("pagina", err)
		return
	}
	report.StatusCode = status
	report.Protocol, _, _ = strings.Cut(report.URL, "://")

	if a.Dynamic && a.Render != nil {
		rendered, err := a.Render(ctx, report.URL)
		if err != nil {
			report.fail("dinamica", err)
		} else {
			body = []byte(rendered)
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		report.fail("pagina", fmt.Errorf("errore durante il parsing dell'HTML: %w", err))
		return
	}

	techs := make(map[string]struct{})
	for _, t := range DetectTechnologies(doc) {
		techs[t] = struct{}{}
	}
	if a.Fingerprinter != nil {
		fingerprints, err := a.Fingerprinter.Fingerprint(headers, body)
		if err != nil {
			report.fail("wappalyzer", err)
		}
		for _, t := range fingerprints {
			techs[t] = struct{}{}
		}
	}
	report.Technologies = sortedKeys(techs)

	if _, ok := techs["WordPress"]; ok {
		wp := WordPressDetails(doc)
		report.WordPress = &wp
	}
	report.PrestaShopModules = PrestaShopModules(doc)
	report.CookiePolicy = HasCookiePolicy(body)
	report.Emails = ExtractEmails(doc, body)
}

func (a *Analyzer) fetch(ctx context.Context, u string) (http.Header, []byte, int, error) {
	client := a.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, nil, 0, err
	}
	ua := a.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("errore durante il fetch dell'URL %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, nil, 0, fmt.Errorf("errore durante la lettura del contenuto HTML: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.Header, body, resp.StatusCode, errors.New(resp.Status)
	}

	return resp.Header, body, resp.StatusCode, nil
}

func (a *Analyzer) logger() logrus.FieldLogger {
	if a.Logger == nil {
		return logrus.StandardLogger()
	}
	return a.Logger
}
