package cbwapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

const maxPages = 10000

// resourcePaths lists the collections the exporter and CLI can walk by name.
var resourcePaths = map[string]string{
	"servers":           APIPrefix + "/servers",
	"agents":            APIPrefix + "/agents",
	"remote_accesses":   APIPrefix + "/remote_accesses",
	"cve_announcements": APIPrefix + "/cve_announcements",
	"groups":            APIPrefix + "/groups",
	"users":             APIPrefix + "/users",
	"nodes":             APIPrefix + "/nodes",
	"hosts":             APIPrefix + "/hosts",
	"security_issues":   APIPrefix + "/security_issues",
	"importer_scripts":  importerScriptsPath,
}

// Resources returns the names accepted by ListResource, sorted.
func Resources() []string {
	names := make([]string, 0, len(resourcePaths))
	for name := range resourcePaths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListResource lists a collection by name.
func (c *Client) ListResource(ctx context.Context, name string, params Params) ([]*cbwobject.Object, error) {
	path, ok := resourcePaths[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return c.List(ctx, path, params)
}

// List fetches a collection. When params carries "page" only that page is
// fetched; otherwise pages are walked with per_page until a short or empty
// page comes back. Elements that are not objects are skipped.
func (c *Client) List(ctx context.Context, path string, params Params) ([]*cbwobject.Object, error) {
	if params.Has("page") {
		items, _, err := c.listPage(ctx, path, params)
		return items, err
	}

	perPage := c.pageSize
	if params.Has("per_page") {
		if n, err := strconv.Atoi(scalarString(params["per_page"])); err == nil && n > 0 {
			perPage = n
		}
	}
	base := params.With("per_page", perPage)

	out := make([]*cbwobject.Object, 0)
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, n, err := c.listPage(ctx, path, base.With("page", page))
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if n < perPage {
			break
		}
	}
	return out, nil
}

// listPage returns the objects of one page and the raw element count.
func (c *Client) listPage(ctx context.Context, path string, params Params) ([]*cbwobject.Object, int, error) {
	value, err := c.Do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, 0, err
	}
	items, ok := value.List()
	if !ok {
		return nil, 0, fmt.Errorf("%w: GET %s returned %s, expected a list", ErrUnexpectedBody, path, value.Kind())
	}

	out := make([]*cbwobject.Object, 0, len(items))
	for i, item := range items {
		obj, ok := item.Object()
		if !ok {
			c.log.WarnObj("skipping non-object collection element", "cbw_api_list_skip", map[string]any{
				"path":  path,
				"index": i,
				"kind":  item.Kind().String(),
			})
			continue
		}
		out = append(out, obj)
	}
	return out, len(items), nil
}
