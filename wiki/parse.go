// Package wiki estrae elenchi di comuni italiani dalle pagine di Wikipedia:
// tabelle "wikitable" delle pagine regionali e pagine di categoria provinciali.
package wiki

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// ParseWikitables restituisce il testo della prima cella di ogni riga delle
// tabelle wikitable, saltando l'intestazione e i valori numerici.
func ParseWikitables(doc *goquery.Document) []string {
	var comuni []string

	doc.Find("table.wikitable").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}

			cells := row.Find("td")
			if cells.Length() == 0 {
				return
			}

			comune := strings.TrimSpace(cells.First().Text())
			if comune != "" && !isDigits(comune) {
				comuni = append(comuni, comune)
			}
		})
	})

	return comuni
}

// ParseCategory restituisce le voci elencate in una pagina di categoria.
func ParseCategory(doc *goquery.Document) []string {
	var comuni []string

	doc.Find("div.mw-category-group a").Each(func(_ int, link *goquery.Selection) {
		if comune := strings.TrimSpace(link.Text()); comune != "" {
			comuni = append(comuni, comune)
		}
	})

	return comuni
}

// nextPageLabels sono le etichette del link alla pagina successiva di una categoria.
var nextPageLabels = map[string]struct{}{
	"pagina successiva": {},
	"next page":         {},
}

// NextCategoryPage restituisce l'URL assoluto della pagina successiva della
// categoria, stringa vuota se è l'ultima.
func NextCategoryPage(doc *goquery.Document, baseURL string) string {
	var next string

	doc.Find("#mw-pages a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(link.Text()))
		if _, ok := nextPageLabels[label]; !ok {
			return true
		}
		if href, ok := link.Attr("href"); ok {
			next = absoluteURL(baseURL, href)
		}
		return false
	})

	return next
}

func absoluteURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return u.String()
	}
	return b.ResolveReference(u).String()
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
