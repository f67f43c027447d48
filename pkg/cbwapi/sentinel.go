package cbwapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

// The resource operations never return errors. Failures are logged here and
// turned into false or nil.

func (c *Client) absorb(op, path string, err error) {
	fields := map[string]any{
		"operation": op,
		"path":      path,
		"error":     err.Error(),
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		fields["status"] = apiErr.StatusCode
	}
	c.log.WarnObj("cbw api operation failed", "cbw_api_failure", fields)
}

func (c *Client) missingID(op string) {
	c.absorb(op, "", ErrMissingID)
}

// check runs a call whose only result is success.
func (c *Client) check(ctx context.Context, op, method, path string, query Params, body any) bool {
	if _, err := c.Do(ctx, method, path, query, body); err != nil {
		c.absorb(op, path, err)
		return false
	}
	return true
}

// record runs a call that answers with a single object.
func (c *Client) record(ctx context.Context, op, method, path string, query Params, body any) *cbwobject.Object {
	value, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		c.absorb(op, path, err)
		return nil
	}
	obj, ok := value.Object()
	if !ok {
		c.absorb(op, path, fmt.Errorf("%w: expected an object, got %s", ErrUnexpectedBody, value.Kind()))
		return nil
	}
	return obj
}

// collection runs a list call.
func (c *Client) collection(ctx context.Context, op, path string, params Params) []*cbwobject.Object {
	items, err := c.List(ctx, path, params)
	if err != nil {
		c.absorb(op, path, err)
		return nil
	}
	return items
}
