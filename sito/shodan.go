package sito

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ns3777k/go-shodan/v4/shodan"
)

// ErrMissingShodanKey viene restituito quando manca la chiave API di Shodan.
var ErrMissingShodanKey = errors.New("chiave API shodan non configurata")

// ISPLookup restituisce l'ISP che annuncia un indirizzo IP.
type ISPLookup interface {
	ISP(ctx context.Context, ip string) (string, error)
}

// ShodanClient interroga l'endpoint host di Shodan.
type ShodanClient struct {
	client *shodan.Client
}

// NewShodanClient crea il client. Una chiave vuota produce ErrMissingShodanKey.
func NewShodanClient(httpClient *http.Client, apiKey string) (*ShodanClient, error) {
	if apiKey == "" {
		return nil, ErrMissingShodanKey
	}
	return &ShodanClient{client: shodan.NewClient(httpClient, apiKey)}, nil
}

// ISP implementa ISPLookup.
func (s *ShodanClient) ISP(ctx context.Context, ip string) (string, error) {
	host, err := s.client.GetServicesForHost(ctx, ip, &shodan.HostServicesOptions{Minify: true})
	if err != nil {
		return "", fmt.Errorf("errore shodan per %s: %w", ip, err)
	}
	if host == nil || host.ISP == "" {
		return NotAvailable, nil
	}
	return host.ISP, nil
}
