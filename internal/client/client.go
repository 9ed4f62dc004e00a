// Package client holds the HTTP adapters for the checkout flow's external
// collaborators: the settings service, the coupon validator, the product
// catalog, and the confirmation mailer. Each adapter is a thin one-shot
// client without retries or caching.
package client

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-faster/errors"
)

// maxResponseBytes bounds collaborator response bodies.
const maxResponseBytes = 1 << 20

func get(ctx context.Context, httpc *http.Client, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, errors.Wrap(err, "build request")
	}
	return send(httpc, req)
}

func postJSON(ctx context.Context, httpc *http.Client, url string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return send(httpc, req)
}

func send(httpc *http.Client, req *http.Request) (int, []byte, error) {
	resp, err := httpc.Do(req)
	if err != nil {
		return 0, nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, errors.Wrap(err, "read response")
	}
	return resp.StatusCode, body, nil
}
