package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"resty.dev/v3"

	"socially/internal/config"
	"socially/internal/core"
)

const sessionsPath = "/v1/sessions/"

var providerLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "socially_provider_request_latency",
		Help:    "Histogram of identity provider request latency in seconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	},
	[]string{"method", "path", "status_code"},
)

// Provider is the boundary client for the external session provider. It only
// fetches the identity record a session token maps to; authentication itself
// happens entirely on the provider's side.
type Provider struct {
	Config *config.Config

	client *resty.Client
}

func (p *Provider) Init(_ context.Context) error {
	p.client = resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         1 * time.Second,
		DialerKeepAlive:       1 * time.Second,
		IdleConnTimeout:       1 * time.Second,
		TLSHandshakeTimeout:   1 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 1 * time.Second,
	})
	p.client.SetBaseURL(p.Config.ProviderURL)
	p.client.AddResponseMiddleware(metricMiddleware)

	return nil
}

func (p *Provider) Lookup(ctx context.Context, token string) (*core.ExternalIdentity, error) {
	if token == "" {
		return nil, core.ErrNoSession
	}

	res, err := p.client.R().
		WithContext(ctx).
		SetResult(&core.ExternalIdentity{}).
		Get(sessionsPath + url.PathEscape(token))
	if err != nil {
		return nil, err
	}

	switch res.StatusCode() {
	case http.StatusOK:
		return res.Result().(*core.ExternalIdentity), nil
	case http.StatusUnauthorized, http.StatusNotFound:
		return nil, core.ErrNoSession
	default:
		return nil, fmt.Errorf("identity provider returned %d", res.StatusCode())
	}
}

func (p *Provider) Shutdown(_ context.Context) error {
	return p.client.Close()
}

func metricMiddleware(_ *resty.Client, response *resty.Response) error {
	reqURL, err := url.Parse(response.Request.URL)
	if err != nil {
		return err
	}

	providerLatency.WithLabelValues(
		response.Request.Method,
		reqURL.Path,
		fmt.Sprintf("%d", response.StatusCode()),
	).Observe(response.Duration().Seconds())

	return nil
}
