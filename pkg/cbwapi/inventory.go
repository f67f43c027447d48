package cbwapi

import (
	"context"
	"net/http"

	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

const (
	groupsPath = APIPrefix + "/groups"
	usersPath  = APIPrefix + "/users"
	nodesPath  = APIPrefix + "/nodes"
	hostsPath  = APIPrefix + "/hosts"
)

func (c *Client) Groups(ctx context.Context, params Params) []*cbwobject.Object {
	return c.collection(ctx, "groups", groupsPath, params)
}

func (c *Client) Group(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(groupsPath, id)
	if !ok {
		c.missingID("group")
		return nil
	}
	return c.record(ctx, "group", http.MethodGet, path, nil, nil)
}

func (c *Client) CreateGroup(ctx context.Context, info any) *cbwobject.Object {
	return c.record(ctx, "create_group", http.MethodPost, groupsPath, nil, info)
}

func (c *Client) UpdateGroup(ctx context.Context, id string, info any) *cbwobject.Object {
	path, ok := itemPath(groupsPath, id)
	if !ok {
		c.missingID("update_group")
		return nil
	}
	return c.record(ctx, "update_group", http.MethodPut, path, nil, info)
}

// DeleteGroup removes a group and returns the deleted record.
func (c *Client) DeleteGroup(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(groupsPath, id)
	if !ok {
		c.missingID("delete_group")
		return nil
	}
	return c.record(ctx, "delete_group", http.MethodDelete, path, nil, nil)
}

// Users lists users, optionally filtered, e.g. by auth_provider.
func (c *Client) Users(ctx context.Context, params Params) []*cbwobject.Object {
	return c.collection(ctx, "users", usersPath, params)
}

func (c *Client) User(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(usersPath, id)
	if !ok {
		c.missingID("user")
		return nil
	}
	return c.record(ctx, "user", http.MethodGet, path, nil, nil)
}

func (c *Client) Nodes(ctx context.Context, params Params) []*cbwobject.Object {
	return c.collection(ctx, "nodes", nodesPath, params)
}

func (c *Client) Node(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(nodesPath, id)
	if !ok {
		c.missingID("node")
		return nil
	}
	return c.record(ctx, "node", http.MethodGet, path, nil, nil)
}

// DeleteNode removes a node. params must name the node that takes over its
// assets with new_id.
func (c *Client) DeleteNode(ctx context.Context, id string, params Params) *cbwobject.Object {
	path, ok := itemPath(nodesPath, id)
	if !ok {
		c.missingID("delete_node")
		return nil
	}
	return c.record(ctx, "delete_node", http.MethodDelete, path, params, nil)
}

func (c *Client) Hosts(ctx context.Context, params Params) []*cbwobject.Object {
	return c.collection(ctx, "hosts", hostsPath, params)
}

func (c *Client) Host(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(hostsPath, id)
	if !ok {
		c.missingID("host")
		return nil
	}
	return c.record(ctx, "host", http.MethodGet, path, nil, nil)
}

func (c *Client) CreateHost(ctx context.Context, info any) *cbwobject.Object {
	return c.record(ctx, "create_host", http.MethodPost, hostsPath, nil, info)
}

func (c *Client) UpdateHost(ctx context.Context, id string, info any) *cbwobject.Object {
	path, ok := itemPath(hostsPath, id)
	if !ok {
		c.missingID("update_host")
		return nil
	}
	return c.record(ctx, "update_host", http.MethodPatch, path, nil, info)
}

func (c *Client) DeleteHost(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(hostsPath, id)
	if !ok {
		c.missingID("delete_host")
		return nil
	}
	return c.record(ctx, "delete_host", http.MethodDelete, path, nil, nil)
}
