package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"listfetch/internal/logging"
	"listfetch/internal/record"
)

type httpDriver struct {
	cfg    Config
	client *http.Client
}

func (d *httpDriver) Configure(cfg Config) error {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("http-source: url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("http-source: unsupported scheme %q", u.Scheme)
	}
	d.cfg = cfg
	d.client = &http.Client{Timeout: cfg.Timeout}
	return nil
}

func (d *httpDriver) Fetch(ctx context.Context) ([]record.Record, error) {
	if d.client == nil {
		return nil, errors.New("http-source: not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.URL, nil)
	if err != nil {
		return nil, &TransportError{Target: d.cfg.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", d.cfg.UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &TransportError{Target: d.cfg.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &TransportError{
			Target: d.cfg.URL,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected response: %q", snippet),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, &TransportError{Target: d.cfg.URL, Status: resp.StatusCode, Err: err}
	}
	if int64(len(body)) > d.cfg.MaxBodyBytes {
		return nil, &TransportError{
			Target: d.cfg.URL,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("body exceeds %d bytes", d.cfg.MaxBodyBytes),
		}
	}

	recs, err := record.DecodeList(body)
	if err != nil {
		return nil, &DecodeError{Target: d.cfg.URL, Err: err}
	}
	logging.L().Debug("http-source: fetched", "url", d.cfg.URL, "bytes", len(body), "records", len(recs))
	return recs, nil
}

func (d *httpDriver) Close() error {
	if d.client != nil {
		d.client.CloseIdleConnections()
	}
	return nil
}

func init() { Register("http", func() Adapter { return &httpDriver{} }) }
