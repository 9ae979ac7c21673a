package sito

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// DefaultPageSpeedEndpoint è l'endpoint v5 di Google PageSpeed Insights.
const DefaultPageSpeedEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// Strategie supportate da PageSpeed.
const (
	StrategyDesktop = "desktop"
	StrategyMobile  = "mobile"
)

// ErrMissingPageSpeedKey viene restituito quando manca la chiave API di PageSpeed.
var ErrMissingPageSpeedKey = errors.New("chiave API pagespeed non configurata")

type pagespeedResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score *float64 `json:"score"`
			} `json:"performance"`
			SEO struct {
				Score *float64 `json:"score"`
			} `json:"seo"`
		} `json:"categories"`
	} `json:"lighthouseResult"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// PageSpeedScores contiene i punteggi (0-100), nil se assenti.
// SEO è quello della strategia desktop.
type PageSpeedScores struct {
	Desktop *int `json:"desktop"`
	Mobile  *int `json:"mobile"`
	SEO     *int `json:"seo"`
}

// PageSpeedClient interroga PageSpeed rispettando un limite di richieste al secondo.
type PageSpeedClient struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
	limiter  *rate.Limiter
}

// NewPageSpeedClient crea un client con al massimo rps richieste al secondo.
func NewPageSpeedClient(httpClient *http.Client, apiKey string, rps float64) *PageSpeedClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if rps <= 0 {
		rps = 1
	}

	return &PageSpeedClient{
		Endpoint: DefaultPageSpeedEndpoint,
		APIKey:   apiKey,
		HTTP:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Scores restituisce i punteggi desktop, mobile e SEO di u.
func (c *PageSpeedClient) Scores(ctx context.Context, u string) (PageSpeedScores, error) {
	var scores PageSpeedScores

	if c.APIKey == "" {
		return scores, ErrMissingPageSpeedKey
	}

	desktop, seo, err := c.score(ctx, u, StrategyDesktop)
	if err != nil {
		return scores, err
	}
	scores.Desktop = desktop
	scores.SEO = seo

	mobile, _, err := c.score(ctx, u, StrategyMobile)
	if err != nil {
		return scores, err
	}
	scores.Mobile = mobile

	return scores, nil
}

// score restituisce performance e SEO per una strategia.
func (c *PageSpeedClient) score(ctx context.Context, u, strategy string) (performance, seo *int, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}

	params := url.Values{}
	params.Set("url", u)
	params.Set("strategy", strategy)
	params.Add("category", "performance")
	params.Add("category", "seo")
	params.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("errore %s pagespeed: %w", strategy, err)
	}
	defer resp.Body.Close()

	var data pagespeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, nil, fmt.Errorf("errore nella decodifica della risposta %s pagespeed: %w", strategy, err)
	}

	if data.Error != nil {
		return nil, nil, fmt.Errorf("errore %s pagespeed (%d): %s", strategy, data.Error.Code, data.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("errore %s pagespeed: stato %d", strategy, resp.StatusCode)
	}

	cat := data.LighthouseResult.Categories
	return percent(cat.Performance.Score), percent(cat.SEO.Score), nil
}

func percent(raw *float64) *int {
	if raw == nil {
		return nil
	}
	score := int(*raw*100 + 0.5)
	return &score
}
