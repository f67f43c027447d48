package cbwapi

import (
	"context"
	"net/http"

	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

const (
	securityIssuesPath  = APIPrefix + "/security_issues"
	importerScriptsPath = "/api/v2/cbw_scans/scripts"
)

func (c *Client) SecurityIssues(ctx context.Context, params Params) []*cbwobject.Object {
	return c.collection(ctx, "security_issues", securityIssuesPath, params)
}

func (c *Client) SecurityIssue(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(securityIssuesPath, id)
	if !ok {
		c.missingID("security_issue")
		return nil
	}
	return c.record(ctx, "security_issue", http.MethodGet, path, nil, nil)
}

// CreateSecurityIssue declares a custom issue. The server validates level
// against its enumeration and rejects unknown values.
func (c *Client) CreateSecurityIssue(ctx context.Context, info any) *cbwobject.Object {
	return c.record(ctx, "create_security_issue", http.MethodPost, securityIssuesPath, nil, info)
}

func (c *Client) UpdateSecurityIssue(ctx context.Context, id string, info any) *cbwobject.Object {
	path, ok := itemPath(securityIssuesPath, id)
	if !ok {
		c.missingID("update_security_issue")
		return nil
	}
	return c.record(ctx, "update_security_issue", http.MethodPut, path, nil, info)
}

func (c *Client) DeleteSecurityIssue(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(securityIssuesPath, id)
	if !ok {
		c.missingID("delete_security_issue")
		return nil
	}
	return c.record(ctx, "delete_security_issue", http.MethodDelete, path, nil, nil)
}

// FetchImporterScripts lists the scan scripts offered to offline importers.
// These live under the v2 API.
func (c *Client) FetchImporterScripts(ctx context.Context, params Params) []*cbwobject.Object {
	return c.collection(ctx, "fetch_importer_scripts", importerScriptsPath, params)
}

// FetchImporterScript fetches one script with its version digest and body.
func (c *Client) FetchImporterScript(ctx context.Context, id string) *cbwobject.Object {
	path, ok := itemPath(importerScriptsPath, id)
	if !ok {
		c.missingID("fetch_importer_script")
		return nil
	}
	return c.record(ctx, "fetch_importer_script", http.MethodGet, path, nil, nil)
}

// SendImporterInfo uploads the output of importer scripts run on a host.
func (c *Client) SendImporterInfo(ctx context.Context, info any) *cbwobject.Object {
	return c.record(ctx, "send_importer_info", http.MethodPost, importerScriptsPath, nil, info)
}
