package sito

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/domainr/whois"
)

// WhoisFetcher restituisce la risposta WHOIS grezza di un dominio.
type WhoisFetcher func(ctx context.Context, domain string) ([]byte, error)

// DefaultWhoisFetcher interroga il server WHOIS del TLD con domainr/whois.
func DefaultWhoisFetcher(ctx context.Context, domain string) ([]byte, error) {
	req, err := whois.NewRequest(domain)
	if err != nil {
		return nil, fmt.Errorf("errore durante la creazione della richiesta whois per %s: %w", domain, err)
	}

	type result struct {
		body []byte
		err  error
	}
	done := make(chan result, 1)

	go func() {
		resp, err := whois.DefaultClient.Fetch(req)
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{body: resp.Body}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("errore whois per %s: %w", domain, r.err)
		}
		return r.body, nil
	}
}

// WhoisRegistrar restituisce il registrar del dominio, N/A se la risposta non lo riporta.
func WhoisRegistrar(ctx context.Context, fetch WhoisFetcher, domain string) (string, error) {
	if fetch == nil {
		fetch = DefaultWhoisFetcher
	}

	if registrable, err := RegistrableDomain(domain); err == nil {
		domain = registrable
	}

	body, err := fetch(ctx, domain)
	if err != nil {
		return "", err
	}

	return ParseRegistrar(body), nil
}

// ParseRegistrar legge il registrar da una risposta WHOIS. Gestisce sia il
// formato gTLD ("Registrar: Nome") sia quello del registro .it, dove il nome
// sta nella riga "Organization:" del blocco "Registrar".
func ParseRegistrar(body []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(body))

	inRegistrarBlock := false
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		key, value, hasColon := strings.Cut(trimmed, ":")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		// inizio di un blocco a sezioni (.it): intestazione senza rientro
		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			inRegistrarBlock = key == "registrar" && value == ""
		}

		switch {
		case !hasColon:
			continue
		case key == "registrar" && value != "":
			return value
		case inRegistrarBlock && key == "organization" && value != "":
			return value
		}
	}

	return NotAvailable
}
