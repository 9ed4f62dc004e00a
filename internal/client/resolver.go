package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"golang.org/x/sync/errgroup"

	"github.com/glowmart/checkout-api/internal/domain/checkout"
)

// fanOutLimit bounds concurrent per-id lookups on the legacy fallback path.
const fanOutLimit = 8

var _ checkout.NameResolver = (*CatalogClient)(nil)

// CatalogClient resolves product display names from the catalog service.
// It prefers the batched endpoint and falls back to concurrent per-id
// lookups against catalogs that predate it. Either way the caller gets
// all-or-nothing semantics: every id answered, or an error.
type CatalogClient struct {
	httpc   *http.Client
	baseURL string
}

// NewCatalogClient creates a CatalogClient for the given base URL.
func NewCatalogClient(baseURL string, httpc *http.Client) *CatalogClient {
	return &CatalogClient{httpc: httpc, baseURL: baseURL}
}

// ResolveNames returns display names for the given ids. Ids unknown to the
// catalog are simply absent from the result; a transport failure fails the
// whole resolution.
func (c *CatalogClient) ResolveNames(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	names, err := c.resolveBatch(ctx, ids)
	if err == nil {
		return names, nil
	}
	if !errors.Is(err, errBatchUnsupported) {
		return nil, err
	}
	return c.resolveEach(ctx, ids)
}

// errBatchUnsupported marks a catalog without the batched endpoint.
var errBatchUnsupported = errors.New("batch endpoint unsupported")

func (c *CatalogClient) resolveBatch(ctx context.Context, ids []string) (map[string]string, error) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("ids")
	e.ArrStart()
	for _, id := range ids {
		e.Str(id)
	}
	e.ArrEnd()
	e.ObjEnd()

	status, body, err := postJSON(ctx, c.httpc, c.baseURL+"/products/productnames", e.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "resolve product names")
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return nil, errBatchUnsupported
	default:
		return nil, errors.Errorf("resolve product names: unexpected status %d", status)
	}

	names := make(map[string]string, len(ids))
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "names" {
			return d.Skip()
		}
		return d.Obj(func(d *jx.Decoder, id string) error {
			name, err := d.Str()
			if err != nil {
				return err
			}
			names[id] = name
			return nil
		})
	}); err != nil {
		return nil, errors.Wrap(err, "decode product names")
	}
	return names, nil
}

// resolveEach is the legacy N+1 path: one lookup per id, fanned out and
// joined. A per-id 404 degrades to a missing entry; any other failure aborts.
func (c *CatalogClient) resolveEach(ctx context.Context, ids []string) (map[string]string, error) {
	var (
		mu    sync.Mutex
		names = make(map[string]string, len(ids))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)

	for _, id := range ids {
		g.Go(func() error {
			status, body, err := get(ctx, c.httpc, c.baseURL+"/products/productname/"+id)
			if err != nil {
				return errors.Wrapf(err, "resolve product %s", id)
			}
			switch status {
			case http.StatusOK:
			case http.StatusNotFound:
				return nil
			default:
				return errors.Errorf("resolve product %s: unexpected status %d", id, status)
			}

			var name string
			d := jx.DecodeBytes(body)
			if err := d.Obj(func(d *jx.Decoder, key string) error {
				if key != "name" {
					return d.Skip()
				}
				v, err := d.Str()
				name = v
				return err
			}); err != nil {
				return errors.Wrapf(err, "decode product %s", id)
			}

			mu.Lock()
			names[id] = name
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return names, nil
}
