package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
)

const (
	userAgent = "foodservice-bot/1.0"

	PathLogin    = "/api/user/login"
	PathUserType = "/api/user/getusertype"
	PathRegister = "/api/user/register"
	PathLogout   = "/api/user/logout"
	PathGetInfo  = "/api/user/getinfo"
)

// Poster issues a single form POST and delivers its result exactly once.
type Poster interface {
	PostForm(ctx context.Context, path string, fields map[string]string, token string) <-chan HttpResult
}

// API is a client for the food-service HTTP API.
type API struct {
	baseURL        string
	client         *http.Client
	requestCounter atomic.Uint64
}

func NewAPI(baseURL string) (*API, error) {
	cookies, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &API{
		baseURL: baseURL,
		client:  &http.Client{Jar: cookies},
	}, nil
}

// Requests returns the number of requests issued so far.
func (api *API) Requests() uint64 {
	return api.requestCounter.Load()
}

func (api *API) Close() {
	api.client.CloseIdleConnections()
}

func (api *API) onRequest(req *http.Request) uint64 {
	n := api.requestCounter.Add(1)
	log.WithFields(log.Fields{"request": n}).Debugf("%s %s", req.Method, req.URL.String())
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Trace(DebugRequest(req))
	}
	return n
}

func (api *API) onResponse(n uint64, res *http.Response) {
	log.WithFields(log.Fields{"request": n}).Debugf("%s %d %s", res.Status, res.ContentLength, res.Header["Content-Type"])
}

// PostForm runs one form-encoded POST in the background. The returned channel
// receives exactly one HttpResult once the call has completed and is then closed.
func (api *API) PostForm(ctx context.Context, path string, fields map[string]string, token string) <-chan HttpResult {
	results := make(chan HttpResult, 1)

	go func() {
		defer close(results)
		results <- api.post(ctx, path, fields, token)
	}()

	return results
}

func (api *API) post(ctx context.Context, path string, fields map[string]string, token string) HttpResult {
	req, err := BuildRequestWithBody(ctx, http.MethodPost, api.baseURL, path, bytes.NewBufferString(EncodeForm(fields)))
	if err != nil {
		return HttpResult{Err: fmt.Errorf("build request: %w", err)}
	}
	SetTypicalHeaders(req, nil, token)

	n := api.onRequest(req)
	res, err := api.client.Do(req)
	if err != nil {
		log.WithFields(log.Fields{"request": n, "path": path}).WithError(err).Warn("Request failed")
		return HttpResult{Err: fmt.Errorf("%w: %v", ErrTransport, err)}
	}
	defer res.Body.Close()
	api.onResponse(n, res)

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return HttpResult{StatusCode: res.StatusCode, Err: fmt.Errorf("%w: read body: %v", ErrTransport, err)}
	}

	body, err := ParseDocument(raw)
	if err != nil {
		summary := DescribeErrorPage(res.Header.Get("Content-Type"), raw)
		log.WithFields(log.Fields{"request": n, "status": res.StatusCode, "page": summary}).Debug("Response body is not a JSON document")
		return HttpResult{StatusCode: res.StatusCode, Err: errors.Join(ErrMalformedPayload, err)}
	}

	if log.IsLevelEnabled(log.TraceLevel) {
		log.WithFields(log.Fields{"request": n, "dump": spew.Sdump(RedactDocument(body))}).Trace("Parsed response")
	}

	return HttpResult{StatusCode: res.StatusCode, Body: body}
}
