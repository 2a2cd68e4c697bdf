package httpclient

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/torosent/sweepfire/internal/runner"
)

const maxErrorBodyBytes = 1024

// Requester issues the built request and drains the response.
type Requester struct {
	client  *http.Client
	builder *RequestBuilder
}

func NewRequester(client *http.Client, builder *RequestBuilder) *Requester {
	return &Requester{client: client, builder: builder}
}

// Do returns a *runner.HTTPError for 4xx/5xx responses. Callers only log it.
func (r *Requester) Do(ctx context.Context) error {
	req, err := r.builder.Build(ctx)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		_, _ = io.Copy(io.Discard, resp.Body)
		if readErr != nil {
			return readErr
		}
		return &runner.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	_, err = io.Copy(io.Discard, resp.Body)
	return err
}
