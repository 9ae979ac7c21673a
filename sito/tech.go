package sito

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	wappalyzer "github.com/projectdiscovery/wappalyzergo"
)

// NoTechnologies è il messaggio mostrato quando non si rileva nulla.
const NoTechnologies = "Nessuna tecnologia rilevata"

// Percorsi degli script che identificano i CMS più diffusi.
var cmsScriptMarkers = []struct {
	name    string
	markers []string
}{
	{"WordPress", []string{"/wp-includes/", "/wp-content/"}},
	{"Joomla", []string{"/media/system/js/"}},
	{"Drupal", []string{"/sites/all/modules/"}},
}

// Librerie JavaScript riconosciute dal nome del file.
var jsLibraryMarkers = []struct {
	name   string
	marker string
}{
	{"jQuery", "jquery"},
	{"AngularJS", "angular"},
	{"ReactJS", "react"},
	{"Vue.js", "vue"},
}

// DetectTechnologies applica le euristiche sul markup: meta generator, CMS e
// librerie JS dedotti dagli script caricati.
func DetectTechnologies(doc *goquery.Document) []string {
	found := make(map[string]struct{})

	if generator, ok := doc.Find(`meta[name="generator"]`).First().Attr("content"); ok {
		if generator = strings.TrimSpace(generator); generator != "" {
			found[generator] = struct{}{}
		}
	}

	scripts := scriptSources(doc)

	for _, cms := range cmsScriptMarkers {
		if anyContains(scripts, cms.markers...) {
			found[cms.name] = struct{}{}
		}
	}

	lowered := make([]string, len(scripts))
	for i, s := range scripts {
		lowered[i] = strings.ToLower(s)
	}
	for _, lib := range jsLibraryMarkers {
		if anyContains(lowered, lib.marker) {
			found[lib.name] = struct{}{}
		}
	}

	return sortedKeys(found)
}

// Fingerprinter applica le firme di wappalyzer a intestazioni e corpo della risposta.
type Fingerprinter struct {
	once sync.Once
	wa   *wappalyzer.Wappalyze
	err  error
}

// Fingerprint restituisce le tecnologie riconosciute da wappalyzer.
// Le firme vengono caricate al primo utilizzo.
func (f *Fingerprinter) Fingerprint(headers http.Header, body []byte) ([]string, error) {
	f.once.Do(func() {
		f.wa, f.err = wappalyzer.New()
	})
	if f.err != nil {
		return nil, fmt.Errorf("errore durante il caricamento delle firme wappalyzer: %w", f.err)
	}

	matches := f.wa.Fingerprint(headers, body)

	found := make(map[string]struct{}, len(matches))
	for name := range matches {
		// wappalyzer restituisce "Nome:versione" quando la versione è nota
		if base, _, ok := strings.Cut(name, ":"); ok {
			name = base
		}
		found[name] = struct{}{}
	}

	return sortedKeys(found), nil
}

// RenderHTML carica la pagina in un browser headless e restituisce l'HTML
// dopo l'esecuzione degli script.
func RenderHTML(ctx context.Context, u string) (string, error) {
	var html string

	err := rod.Try(func() {
		browser := rod.New().Context(ctx).MustConnect()
		defer browser.MustClose()

		page := browser.MustPage(u).MustWaitLoad()
		html = page.MustHTML()
	})
	if err != nil {
		return "", fmt.Errorf("errore durante l'analisi dinamica di %s: %w", u, err)
	}

	return html, nil
}

// WordPressInfo contiene tema e plugin di un sito WordPress.
type WordPressInfo struct {
	Theme   string   `json:"theme,omitempty"`
	Plugins []string `json:"plugins"`
}

// WordPressDetails ricava tema e plugin dai percorsi wp-content della pagina.
func WordPressDetails(doc *goquery.Document) WordPressInfo {
	var info WordPressInfo

	doc.Find("link[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if theme := pathSegmentAfter(href, "wp-content/themes/"); theme != "" {
			info.Theme = theme
			return false
		}
		return true
	})

	plugins := make(map[string]struct{})
	collect := func(attr string) func(int, *goquery.Selection) {
		return func(_ int, s *goquery.Selection) {
			v, _ := s.Attr(attr)
			if plugin := pathSegmentAfter(v, "wp-content/plugins/"); plugin != "" {
				plugins[plugin] = struct{}{}
			}
		}
	}
	doc.Find("script[src]").Each(collect("src"))
	doc.Find("link[href]").Each(collect("href"))

	info.Plugins = sortedKeys(plugins)

	return info
}

// PrestaShopModules restituisce gli script caricati da cartelle "modules".
func PrestaShopModules(doc *goquery.Document) []string {
	var modules []string
	for _, src := range scriptSources(doc) {
		if strings.Contains(src, "modules") {
			modules = append(modules, src)
		}
	}
	return modules
}

// HasCookiePolicy controlla se la pagina cita una cookie policy.
func HasCookiePolicy(body []byte) bool {
	return strings.Contains(strings.ToLower(string(body)), "cookie policy")
}

func scriptSources(doc *goquery.Document) []string {
	var scripts []string
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			scripts = append(scripts, src)
		}
	})
	return scripts
}

func pathSegmentAfter(s, marker string) string {
	_, rest, ok := strings.Cut(s, marker)
	if !ok {
		return ""
	}
	segment, _, _ := strings.Cut(rest, "/")
	segment, _, _ = strings.Cut(segment, "?")
	return segment
}

func anyContains(values []string, markers ...string) bool {
	for _, v := range values {
		for _, m := range markers {
			if strings.Contains(v, m) {
				return true
			}
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
