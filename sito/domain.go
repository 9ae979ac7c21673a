// Package sito raccoglie informazioni tecniche su un sito web: DNS, hosting,
// registrar, tecnologie usate, punteggi PageSpeed ed email di contatto.
package sito

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// NotAvailable è il valore usato quando un dato non è disponibile.
const NotAvailable = "N/A"

// ExtractDomain ricava il dominio da un URL togliendo protocollo, percorso e "www.".
func ExtractDomain(u string) (string, error) {
	cleaned := strings.TrimSpace(u)
	cleaned = strings.TrimPrefix(strings.TrimPrefix(cleaned, "https://"), "http://")

	domain := strings.Split(cleaned, "/")[0]
	if i := strings.IndexAny(domain, "?#"); i >= 0 {
		domain = domain[:i]
	}
	if host, _, err := net.SplitHostPort(domain); err == nil {
		domain = host
	}
	domain = strings.TrimPrefix(strings.ToLower(domain), "www.")

	if domain == "" {
		return "", errors.New("dominio non valido")
	}

	return domain, nil
}

// RegistrableDomain restituisce il dominio registrabile (es. "shop.esempio.co.uk"
// diventa "esempio.co.uk"), quello da interrogare via WHOIS.
func RegistrableDomain(domain string) (string, error) {
	registrable, err := publicsuffix.EffectiveTLDPlusOne(strings.TrimSuffix(domain, "."))
	if err != nil {
		return "", fmt.Errorf("dominio registrabile non trovato per %s: %w", domain, err)
	}
	return registrable, nil
}

// DNSResolver è il sottoinsieme di net.Resolver usato dal pacchetto.
type DNSResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// Resolver interroga i record DNS di un dominio.
type Resolver struct {
	DNS DNSResolver
}

// NewResolver usa il resolver di sistema.
func NewResolver() *Resolver {
	return &Resolver{DNS: net.DefaultResolver}
}

// Records restituisce i record A, NS, MX e TXT. Gli errori dei singoli tipi
// finiscono nella chiave "error" senza interrompere gli altri.
func (r *Resolver) Records(ctx context.Context, domain string) map[string][]string {
	records := make(map[string][]string)

	var failures []string
	add := func(kind string, values []string, err error) {
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", kind, err))
			return
		}
		records[kind] = values
	}

	hosts, err := r.DNS.LookupHost(ctx, domain)
	add("A", ipv4Only(hosts), err)

	ns, err := r.DNS.LookupNS(ctx, domain)
	nsHosts := make([]string, 0, len(ns))
	for _, n := range ns {
		nsHosts = append(nsHosts, n.Host)
	}
	add("NS", nsHosts, err)

	mx, err := r.DNS.LookupMX(ctx, domain)
	mxHosts := make([]string, 0, len(mx))
	for _, m := range mx {
		mxHosts = append(mxHosts, fmt.Sprintf("%d %s", m.Pref, m.Host))
	}
	add("MX", mxHosts, err)

	txt, err := r.DNS.LookupTXT(ctx, domain)
	add("TXT", txt, err)

	if len(failures) > 0 {
		sort.Strings(failures)
		records["error"] = failures
	}

	return records
}

// LookupIP restituisce il primo indirizzo del dominio oppure N/A.
func (r *Resolver) LookupIP(ctx context.Context, domain string) string {
	hosts, err := r.DNS.LookupHost(ctx, domain)
	if err != nil || len(hosts) == 0 {
		return NotAvailable
	}
	if v4 := ipv4Only(hosts); len(v4) > 0 {
		return v4[0]
	}
	return hosts[0]
}

// Nameservers restituisce i nameserver del dominio.
func (r *Resolver) Nameservers(ctx context.Context, domain string) ([]string, error) {
	ns, err := r.DNS.LookupNS(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("errore durante la ricerca dei nameserver di %s: %w", domain, err)
	}

	hosts := make([]string, 0, len(ns))
	for _, n := range ns {
		hosts = append(hosts, n.Host)
	}
	return hosts, nil
}

func ipv4Only(hosts []string) []string {
	var out []string
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil && ip.To4() != nil {
			out = append(out, h)
		}
	}
	return out
}
