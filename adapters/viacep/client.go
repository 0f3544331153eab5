package viacep

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cadastra/cepd/core"
	"github.com/cadastra/cepd/ports"
)

// Client queries the ViaCEP directory service over HTTP.
type Client struct {
	http *resty.Client
}

// New creates a ViaCEP client. Every request is bounded by timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

// payload is the upstream response body. ViaCEP signals an unknown code with
// a 200 response carrying {"erro": true}.
type payload struct {
	core.Address
	Erro bool `json:"erro"`
}

// Fetch resolves a normalized 8-digit CEP against ViaCEP
func (c *Client) Fetch(ctx context.Context, cep string) (*core.Address, error) {
	var body payload

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("/%s/json/", cep))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", core.ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
		if body.Erro {
			return nil, core.ErrCEPNotFound
		}
		addr := body.Address
		return &addr, nil
	case resp.StatusCode() == http.StatusBadRequest:
		return nil, core.ErrInvalidCEP
	default:
		return nil, fmt.Errorf("%w: unexpected status %d", core.ErrUpstreamUnavailable, resp.StatusCode())
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

var _ ports.AddressLookup = (*Client)(nil)
