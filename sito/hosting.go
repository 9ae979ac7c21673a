package sito

import (
	"context"
	"sort"
	"strings"
)

// UnknownHosting è il provider restituito quando nessun nameserver è riconosciuto.
const UnknownHosting = "Sconosciuto"

type nsProvider struct {
	fragment string
	provider string
}

// Frammenti di nameserver noti, raggruppati per provider.
var knownNameservers = buildNameserverTable(map[string][]string{
	"Aruba-Hosting":           {"aruba.it", "arubadns.net", "arubadns.cz", "technorail.com", "tol.it"},
	"Aruba-Cloud":             {"aruba.cloud"},
	"Register.it-Hosting":     {"register.it", "registerit.cloud"},
	"Seeweb":                  {"seeweb.it", "serverdomus.com", "flamedns.host"},
	"Keliweb":                 {"keliweb.eu", "serverkeliweb.it"},
	"Netsons":                 {"netsons.net", "netsons.com", "host-anycast.com"},
	"ServerPlan":              {"serverplan.com", "cmshigh.com", "sphostserver.com", "dnshigh.com"},
	"Hostinger":               {"hostinger.com", "dnsparking.com", "dominiok.it"},
	"SiteGround":              {"siteground.net"},
	"SupportHost":             {"supporthost.com"},
	"Altervista":              {"altervista.org", "altervista.com"},
	"VHosting":                {"vhosting.it", "vhosting-it.com"},
	"ShellRent":               {"shellrent.it"},
	"TopHost":                 {"tophost.it"},
	"MVNet":                   {"mvnet.com", "mvnet.it", "mvnet-dns.eu"},
	"Interferenza Hosting":    {"interferenza.it", "interferenza.net"},
	"Qubus Hosting":           {"qubus.it"},
	"Pagine Sì":               {"paginesi.it"},
	"iWebLab-Hosting":         {"iweblab.it"},
	"WIDHost":                 {"widhost.net"},
	"Sideralia-Hosting":       {"sideralia.it"},
	"Hosting-Per-Te":          {"hostingperte.it"},
	"Mister Domain":           {"misterdomain.eu"},
	"Don-Dominio":             {"dondominio.com", "webempresa.eu"},
	"Italian-Server-Location": {"italianserverlocation.com"},
	"GoDaddy-DNS":             {"domaincontrol.com", "secureserver.net", "godaddy.net"},
	"1&1-IONOS":               {"ui-dns.com", "ui-dns.org", "ui-dns.de", "ui-dns.biz", "1and1.com", "ionos.com"},
	"OVH":                     {"ovh.net", "ovh.it", "ovhcloud.com", "omnibus.net"},
	"Hetzner":                 {"hetzner.com", "dnsitalia.net"},
	"Contabo":                 {"contabo.com", "contabo.net"},
	"InterNetX":               {"it-service.bz.it"},
	"Infomaniak":              {"infomaniak.com"},
	"STRATO-Hosting":          {"strato.de"},
	"One.com-Hosting":         {"one.com"},
	"Namecheap":               {"namecheap.com", "namecheaphosting.com"},
	"Tucows Domains":          {"mydnsdomains.com"},
	"OpenProvider-DNS":        {"openprovider.com"},
	"Cloudflare":              {"cloudflare.com", "cloudflare.net"},
	"Amazon Web Services":     {"awsdns"},
	"Google-Cloud":            {"googledomains.com", "google.com"},
	"Microsoft-Azure":         {"azure-dns.com", "azure-dns.net", "azure-dns.org", "azure-dns.info"},
	"DigitalOcean":            {"digitalocean.com"},
	"Linode":                  {"linode.com"},
	"Vultr":                   {"vultr.com"},
	"Wix":                     {"wixdns.net"},
	"Jimdo-Hosting":           {"jimdo.com"},
	"WordPress.com-DNS":       {"wordpress.com"},
	"Squarespace":             {"squarespace-dns.com"},
	"Netlify-Web-Hosting":     {"netlify.com", "nsone.net"},
	"Vercel-Cloud-Platform":   {"vercel-dns.com"},
	"Bluehost":                {"bluehost.com"},
	"HostGator":               {"hostgator.com"},
	"DreamHost":               {"dreamhost.com"},
	"Kinsta":                  {"kinsta.com"},
	"WP-Engine":               {"wpengine.com"},
	"CloudNS-DNS":             {"cloudns.net"},
})

func buildNameserverTable(groups map[string][]string) []nsProvider {
	var table []nsProvider
	for provider, fragments := range groups {
		for _, fragment := range fragments {
			table = append(table, nsProvider{fragment: fragment, provider: provider})
		}
	}

	// il frammento più lungo vince, così "ovh.it" non viene oscurato da ".it"
	sort.Slice(table, func(i, j int) bool {
		if len(table[i].fragment) != len(table[j].fragment) {
			return len(table[i].fragment) > len(table[j].fragment)
		}
		return table[i].fragment < table[j].fragment
	})

	return table
}

// HostingByNameserver riconosce il provider a partire dal nome di un nameserver.
func HostingByNameserver(nameserver string) string {
	ns := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(nameserver)), ".")
	if ns == "" {
		return UnknownHosting
	}

	for _, entry := range knownNameservers {
		if strings.Contains(ns, entry.fragment) {
			return entry.provider
		}
	}

	return UnknownHosting
}

// HostingProvider prova i nameserver del dominio finché uno non viene riconosciuto.
func (r *Resolver) HostingProvider(ctx context.Context, domain string) (string, error) {
	nameservers, err := r.Nameservers(ctx, domain)
	if err != nil {
		return UnknownHosting, err
	}

	for _, ns := range nameservers {
		if provider := HostingByNameserver(ns); provider != UnknownHosting {
			return provider, nil
		}
	}

	return UnknownHosting, nil
}
