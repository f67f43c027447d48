package cbwapi

import (
	"context"
	"net/http"

	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

const cveAnnouncementsPath = APIPrefix + "/cve_announcements"

func (c *Client) CVEAnnouncements(ctx context.Context, params Params) []*cbwobject.Object {
	return c.collection(ctx, "cve_announcements", cveAnnouncementsPath, params)
}

// CVEAnnouncement fetches one CVE by its code, e.g. CVE-2017-0146.
func (c *Client) CVEAnnouncement(ctx context.Context, code string) *cbwobject.Object {
	path, ok := itemPath(cveAnnouncementsPath, code)
	if !ok {
		c.missingID("cve_announcement")
		return nil
	}
	return c.record(ctx, "cve_announcement", http.MethodGet, path, nil, nil)
}

// UpdateCVEAnnouncement sets a custom score or CVSS vector on a CVE.
func (c *Client) UpdateCVEAnnouncement(ctx context.Context, code string, info any) *cbwobject.Object {
	path, ok := itemPath(cveAnnouncementsPath, code)
	if !ok {
		c.missingID("update_cve_announcement")
		return nil
	}
	return c.record(ctx, "update_cve_announcement", http.MethodPut, path, nil, info)
}

// DeleteCVEAnnouncement drops the custom attributes of a CVE and returns it.
func (c *Client) DeleteCVEAnnouncement(ctx context.Context, code string) *cbwobject.Object {
	path, ok := itemPath(cveAnnouncementsPath, code)
	if !ok {
		c.missingID("delete_cve_announcement")
		return nil
	}
	return c.record(ctx, "delete_cve_announcement", http.MethodDelete, path, nil, nil)
}
