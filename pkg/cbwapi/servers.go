package cbwapi

import (
	"context"
	"net/http"

	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

const (
	serversPath = APIPrefix + "/servers"
	agentsPath  = APIPrefix + "/agents"
)

// Ping checks that the API answers and accepts the credentials.
func (c *Client) Ping(ctx context.Context) bool {
	return c.check(ctx, "ping", http.MethodGet, APIPrefix+"/ping", nil, nil)
}

// Servers lists servers. Without a "page" param every page is fetched.
func (c *Client) Servers(ctx context.Context, params Params) []*cbwobject.Object {
	return c.collection(ctx, "servers", serversPath, params)
}

func (c *Client) Server(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(serversPath, id)
	if !ok {
		c.missingID("server")
		return nil
	}
	return c.record(ctx, "server", http.MethodGet, path, nil, nil)
}

// UpdateServer changes a server's groups, description or other attributes.
func (c *Client) UpdateServer(ctx context.Context, id string, info any) bool {
	path, ok := itemPath(serversPath, id)
	if !ok {
		c.missingID("update_server")
		return false
	}
	return c.check(ctx, "update_server", http.MethodPatch, path, nil, info)
}

func (c *Client) DeleteServer(ctx context.Context, id string) bool {
	path, ok := itemPath(serversPath, id)
	if !ok {
		c.missingID("delete_server")
		return false
	}
	return c.check(ctx, "delete_server", http.MethodDelete, path, nil, nil)
}

// UpdateServerCVE sets per-server attributes of one CVE, such as a comment or
// the ignored flag. The server record is returned.
func (c *Client) UpdateServerCVE(ctx context.Context, id, cveCode string, info any) *cbwobject.Object {
	path, ok := itemPath(serversPath, id, "cve_announcements", cveCode)
	if !ok {
		c.missingID("update_server_cve")
		return nil
	}
	return c.record(ctx, "update_server_cve", http.MethodPut, path, nil, info)
}

func (c *Client) Agents(ctx context.Context, params Params) []*cbwobject.Object {
	return c.collection(ctx, "agents", agentsPath, params)
}

func (c *Client) Agent(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(agentsPath, id)
	if !ok {
		c.missingID("agent")
		return nil
	}
	return c.record(ctx, "agent", http.MethodGet, path, nil, nil)
}

func (c *Client) DeleteAgent(ctx context.Context, id string) bool {
	path, ok := itemPath(agentsPath, id)
	if !ok {
		c.missingID("delete_agent")
		return false
	}
	return c.check(ctx, "delete_agent", http.MethodDelete, path, nil, nil)
}
