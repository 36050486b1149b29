package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/globeview/internal/core/domain"
	"github.com/samirrijal/globeview/internal/pkg/telemetry"
)

// Client talks to the organization/product backend and the country GeoJSON
// host. It implements ports.EntitySource, ports.CountrySource and
// ports.Authenticator.
type Client struct {
	http         *fasthttp.Client
	serverURL    string
	countriesURL string
	timeout      time.Duration
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
}

// New creates a Client. timeout bounds every request that carries no earlier
// context deadline.
func New(serverURL, countriesURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http: &fasthttp.Client{
			Name:                "globeview",
			MaxConnsPerHost:     32,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		serverURL:    strings.TrimRight(serverURL, "/"),
		countriesURL: countriesURL,
		timeout:      timeout,
	}
}

// ListOrganizations fetches GET {server}/companies.
func (c *Client) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	if err := c.getJSON(ctx, c.serverURL+"/companies", "", &orgs); err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	if orgs == nil {
		orgs = []domain.Organization{}
	}
	return orgs, nil
}

// ListProducts fetches GET {server}/swag-products, which wraps the list in
// a "products" field.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var body struct {
		Products []domain.Product `json:"products"`
	}
	if err := c.getJSON(ctx, c.serverURL+"/swag-products", "", &body); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if body.Products == nil {
		body.Products = []domain.Product{}
	}
	return body.Products, nil
}

// FetchCountries downloads the country FeatureCollection.
func (c *Client) FetchCountries(ctx context.Context) ([]domain.CountryPolygon, error) {
	var fc domain.FeatureCollection
	if err := c.getJSON(ctx, c.countriesURL, "", &fc); err != nil {
		return nil, fmt.Errorf("fetch countries: %w", err)
	}
	return fc.Features, nil
}

// Verify reports whether token is accepted by GET {server}/auth/me. A 401 or
// 403 is a clean "no"; any other failure is an error.
func (c *Client) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	var me map[string]any
	err := c.getJSON(ctx, c.serverURL+"/auth/me", token, &me)
	if err == nil {
		return true, nil
	}
	var se *StatusError
	if errors.As(err, &se) && (se.Status == fasthttp.StatusUnauthorized || se.Status == fasthttp.StatusForbidden) {
		return false, nil
	}
	return false, fmt.Errorf("verify token: %w", err)
}

func (c *Client) getJSON(ctx context.Context, url, token string, out any) error {
	_, span := telemetry.Tracer().Start(ctx, "backend.get")
	defer span.End()
	span.SetAttributes(attribute.String("http.url", url))

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	status := resp.StatusCode()
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status < 200 || status > 299 {
		err := &StatusError{URL: url, Status: status}
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		span.RecordError(err)
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
