package swapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"swapi-gateway/internal/metrics"
)

const (
	opGetPerson    = "get_person"
	opGetPlanet    = "get_planet"
	opSearchPeople = "search_people"
	opListPeople   = "list_people"

	maxErrorBody = 200
	maxBodyBytes = 4 << 20
)

// GetPerson fetches the primary record of one character.
func (c *Client) GetPerson(ctx context.Context, uid string) (*Person, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, &Error{Op: opGetPerson, Err: errors.New("uid is required")}
	}
	if strings.ContainsAny(uid, "/?#") || uid == ".." {
		return nil, &Error{Op: opGetPerson, Err: fmt.Errorf("invalid uid %q", uid)}
	}

	u := c.resolve("people/" + uid)

	var env propertiesEnvelope[Person]
	if err := c.getJSON(ctx, opGetPerson, u, &env); err != nil {
		return nil, err
	}
	if env.Result == nil || env.Result.Properties == nil {
		return nil, &Error{Op: opGetPerson, Err: ErrUnexpectedShape}
	}
	return env.Result.Properties, nil
}

// GetPlanet fetches the related record behind a homeworld reference.
// Absolute references are used as-is; relative ones resolve against BaseURL.
func (c *Client) GetPlanet(ctx context.Context, ref string) (*Planet, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &Error{Op: opGetPlanet, Err: errors.New("reference is required")}
	}

	target, err := url.Parse(ref)
	if err != nil {
		return nil, &Error{Op: opGetPlanet, Err: fmt.Errorf("parse reference: %w", err)}
	}
	if !target.IsAbs() {
		target = c.baseURL.ResolveReference(&url.URL{Path: strings.TrimLeft(target.Path, "/"), RawQuery: target.RawQuery})
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, &Error{Op: opGetPlanet, Err: fmt.Errorf("unsupported reference scheme %q", target.Scheme)}
	}

	var env propertiesEnvelope[Planet]
	if err := c.getJSON(ctx, opGetPlanet, target.String(), &env); err != nil {
		return nil, err
	}
	if env.Result == nil || env.Result.Properties == nil {
		return nil, &Error{Op: opGetPlanet, Err: ErrUnexpectedShape}
	}
	return env.Result.Properties, nil
}

// SearchPeople returns the characters whose name contains name, in upstream order.
func (c *Client) SearchPeople(ctx context.Context, name string) ([]PersonRef, error) {
	q := url.Values{}
	q.Set("name", name)
	u := c.resolve("people/") + "?" + q.Encode()

	var env searchEnvelope
	if err := c.getJSON(ctx, opSearchPeople, u, &env); err != nil {
		return nil, err
	}

	refs, err := decodeRefs(env.Result)
	if err != nil {
		return nil, &Error{Op: opSearchPeople, Err: err}
	}
	return refs, nil
}

// ListPeople returns one page of the people listing.
func (c *Client) ListPeople(ctx context.Context, page, limit int) (*PeoplePage, error) {
	if page < 1 {
		return nil, &Error{Op: opListPeople, Err: fmt.Errorf("invalid page %d", page)}
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u := c.resolve("people") + "?" + q.Encode()

	var env pageEnvelope
	if err := c.getJSON(ctx, opListPeople, u, &env); err != nil {
		return nil, err
	}

	refs, err := decodeRefs(env.Results)
	if err != nil {
		return nil, &Error{Op: opListPeople, Err: err}
	}
	return &PeoplePage{Results: refs, TotalPages: env.TotalPages}, nil
}

func (c *Client) resolve(path string) string {
	return c.baseURL.ResolveReference(&url.URL{Path: path}).String()
}

// getJSON issues a GET to u and decodes a 2xx body into out. Every failure
// comes back as *Error.
func (c *Client) getJSON(parentCtx context.Context, op, u string, out any) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(parentCtx, c.cfg.Timeout)
	defer cancel()

	doOnce := func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("build HTTP request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		return c.httpClient.Do(req)
	}

	resp, err := c.doWithRetry(ctx, op, doOnce)
	if err != nil {
		metrics.ObserveUpstream(op, 0, time.Since(start))
		c.logger.Error("swapi request failed",
			zap.String("op", op),
			zap.String("url", u),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	metrics.ObserveUpstream(op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody*4))
		c.logger.Error("swapi upstream error",
			zap.String("op", op),
			zap.String("url", u),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), maxErrorBody)),
		)
		msg := truncate(strings.TrimSpace(string(body)), maxErrorBody)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Op: op, Status: resp.StatusCode, Err: errors.New(msg)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode upstream response: %w", err)}
	}

	c.logger.Debug("swapi request completed",
		zap.String("op", op),
		zap.String("url", u),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// truncate limits string length for logging
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
