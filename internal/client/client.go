package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/yakoovad/flowcraft/internal/model"
	"github.com/yakoovad/flowcraft/pkg/logger"
	"go.uber.org/zap"
)

// StatusError is returned for non-2xx responses of the team API.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the team API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client talks to the FlowCraft team API with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

func (c *Client) FetchWorkspace(ctx context.Context, workspaceID string) (*model.Workspace, error) {
	ws := &model.Workspace{}
	if err := c.do(ctx, http.MethodGet, "/api/workspaces/"+url.PathEscape(workspaceID), ws); err != nil {
		return nil, errors.Wrapf(err, "fetch workspace %s", workspaceID)
	}
	return ws, nil
}

func (c *Client) RemoveMember(ctx context.Context, memberID string) error {
	return errors.Wrapf(
		c.do(ctx, http.MethodDelete, "/api/team/members/"+url.PathEscape(memberID), nil),
		"remove member %s", memberID)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	l := logger.FromContext(ctx).With(zap.String("method", method), zap.String("path", path))

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	l.Debug("api response", zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

func decodeStatusError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode}

	var body struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil && body.Error != nil {
		se.Code = body.Error.Code
		se.Message = body.Error.Message
	}

	return se
}
