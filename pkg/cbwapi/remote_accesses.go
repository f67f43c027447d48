package cbwapi

import (
	"context"
	"net/http"

	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

const remoteAccessesPath = APIPrefix + "/remote_accesses"

func (c *Client) RemoteAccesses(ctx context.Context, params Params) []*cbwobject.Object {
	return c.collection(ctx, "remote_accesses", remoteAccessesPath, params)
}

func (c *Client) RemoteAccess(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(remoteAccessesPath, id)
	if !ok {
		c.missingID("remote_access")
		return nil
	}
	return c.record(ctx, "remote_access", http.MethodGet, path, nil, nil)
}

// CreateRemoteAccess registers credentials for agentless scanning. info
// carries type, address, port, login, password, key, node_id and
// server_groups.
func (c *Client) CreateRemoteAccess(ctx context.Context, info any) *cbwobject.Object {
	return c.record(ctx, "create_remote_access", http.MethodPost, remoteAccessesPath, nil, info)
}

func (c *Client) UpdateRemoteAccess(ctx context.Context, id string, info any) *cbwobject.Object {
	path, ok := itemPath(remoteAccessesPath, id)
	if !ok {
		c.missingID("update_remote_access")
		return nil
	}
	return c.record(ctx, "update_remote_access", http.MethodPatch, path, nil, info)
}

func (c *Client) DeleteRemoteAccess(ctx context.Context, id string) bool {
	path, ok := itemPath(remoteAccessesPath, id)
	if !ok {
		c.missingID("delete_remote_access")
		return false
	}
	return c.check(ctx, "delete_remote_access", http.MethodDelete, path, nil, nil)
}

// TestDeployRemoteAccess asks the node to try the connection right away.
func (c *Client) TestDeployRemoteAccess(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(remoteAccessesPath, id, "test_deploy")
	if !ok {
		c.missingID("test_deploy_remote_access")
		return nil
	}
	return c.record(ctx, "test_deploy_remote_access", http.MethodPost, path, nil, nil)
}
