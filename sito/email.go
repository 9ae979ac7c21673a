package sito

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mcnijman/go-emailaddress"
)

const maxEmailLength = 100

// ExtractEmails cerca gli indirizzi prima nei link mailto e poi, se non ne
// trova, nel corpo della pagina.
func ExtractEmails(doc *goquery.Document, body []byte) []string {
	var emails []string
	if doc != nil {
		emails = mailtoEmails(doc)
	}
	if len(emails) == 0 {
		emails = bodyEmails(body)
	}
	return emails
}

func mailtoEmails(doc *goquery.Document) []string {
	seen := map[string]bool{}
	var emails []string

	doc.Find("a[href^='mailto:']").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		value := strings.TrimPrefix(href, "mailto:")
		value, _, _ = strings.Cut(value, "?")
		value = sanitizeEmail(value)

		if isValidEmail(value) && !seen[value] {
			emails = append(emails, value)
			seen[value] = true
		}
	})

	return emails
}

func bodyEmails(body []byte) []string {
	seen := map[string]bool{}
	var emails []string

	for _, address := range emailaddress.Find(body, false) {
		email := sanitizeEmail(address.String())
		if isValidEmail(email) && !seen[email] {
			emails = append(emails, email)
			seen[email] = true
		}
	}

	return emails
}

func sanitizeEmail(email string) string {
	return strings.TrimSpace(strings.ReplaceAll(email, "%20", ""))
}

func isValidEmail(email string) bool {
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	_, err := emailaddress.Parse(email)
	return err == nil
}
