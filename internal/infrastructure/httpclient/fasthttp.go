package httpclient

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

// JSON is the codec shared by the outbound provider clients.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Do executes req honoring the ctx deadline when there is one and defaultTimeout otherwise.
func Do(ctx context.Context, client *fasthttp.Client, req *fasthttp.Request, resp *fasthttp.Response, defaultTimeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := client.DoDeadline(req, resp, deadline); err != nil {
			return fmt.Errorf("request to %s: %w", req.URI().Host(), err)
		}
		return nil
	}

	if err := client.DoTimeout(req, resp, defaultTimeout); err != nil {
		return fmt.Errorf("request to %s: %w", req.URI().Host(), err)
	}
	return nil
}

// PostJSON encodes payload as the request body and executes a POST to url.
// The caller owns resp and must release it.
func PostJSON(
	ctx context.Context,
	client *fasthttp.Client,
	url string,
	payload any,
	resp *fasthttp.Response,
	defaultTimeout time.Duration,
) error {
	body, err := JSON.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	return Do(ctx, client, req, resp, defaultTimeout)
}
