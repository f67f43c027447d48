package main

import (
	"context"

	"github.com/cyberwatch/cbw-go/pkg/cbwapi"
	"github.com/cyberwatch/cbw-go/pkg/cbwobject"
)

// input carries the parsed positional ids, --param pairs and --data body.
type input struct {
	args   []string
	params cbwapi.Params
	data   any
}

// result is what an operation produced. ok is false when the client
// returned its failure sentinel.
type result struct {
	ok    bool
	value cbwobject.Value
}

type operation struct {
	name   string
	args   []string // positional argument names
	short  string
	params bool
	data   bool
	run    func(ctx context.Context, c *cbwapi.Client, in input) result
}

func boolResult(ok bool) result {
	return result{ok: ok, value: cbwobject.NewBool(ok)}
}

func objectResult(o *cbwobject.Object) result {
	return result{ok: o != nil, value: o.Value()}
}

func listResult(items []*cbwobject.Object) result {
	if items == nil {
		return result{}
	}
	values := make([]cbwobject.Value, len(items))
	for i, item := range items {
		values[i] = item.Value()
	}
	return result{ok: true, value: cbwobject.NewList(values...)}
}

func list(name, short string, fn func(*cbwapi.Client, context.Context, cbwapi.Params) []*cbwobject.Object) operation {
	return operation{name: name, short: short, params: true, run: func(ctx context.Context, c *cbwapi.Client, in input) result {
		return listResult(fn(c, ctx, in.params))
	}}
}

func get(name, arg, short string, fn func(*cbwapi.Client, context.Context, string) *cbwobject.Object) operation {
	return operation{name: name, args: []string{arg}, short: short, run: func(ctx context.Context, c *cbwapi.Client, in input) result {
		return objectResult(fn(c, ctx, in.args[0]))
	}}
}

func create(name, short string, fn func(*cbwapi.Client, context.Context, any) *cbwobject.Object) operation {
	return operation{name: name, short: short, data: true, run: func(ctx context.Context, c *cbwapi.Client, in input) result {
		return objectResult(fn(c, ctx, in.data))
	}}
}

func update(name, arg, short string, fn func(*cbwapi.Client, context.Context, string, any) *cbwobject.Object) operation {
	return operation{name: name, args: []string{arg}, short: short, data: true, run: func(ctx context.Context, c *cbwapi.Client, in input) result {
		return objectResult(fn(c, ctx, in.args[0], in.data))
	}}
}

func check(name, arg, short string, fn func(*cbwapi.Client, context.Context, string) bool) operation {
	return operation{name: name, args: []string{arg}, short: short, run: func(ctx context.Context, c *cbwapi.Client, in input) result {
		return boolResult(fn(c, ctx, in.args[0]))
	}}
}

// operations lists one subcommand per client operation.
func operations() []operation {
	return []operation{
		{name: "ping", short: "Check connectivity and credentials", run: func(ctx context.Context, c *cbwapi.Client, _ input) result {
			return boolResult(c.Ping(ctx))
		}},

		list("servers", "List servers", (*cbwapi.Client).Servers),
		get("server", "ID", "Show a server with its vulnerabilities", (*cbwapi.Client).Server),
		{name: "update-server", args: []string{"ID"}, short: "Update a server (groups, compliance_groups)", data: true,
			run: func(ctx context.Context, c *cbwapi.Client, in input) result {
				return boolResult(c.UpdateServer(ctx, in.args[0], in.data))
			}},
		check("delete-server", "ID", "Delete a server", (*cbwapi.Client).DeleteServer),
		{name: "update-server-cve", args: []string{"ID", "CVE"}, short: "Update a CVE on one server", data: true,
			run: func(ctx context.Context, c *cbwapi.Client, in input) result {
				return objectResult(c.UpdateServerCVE(ctx, in.args[0], in.args[1], in.data))
			}},

		list("agents", "List agents", (*cbwapi.Client).Agents),
		get("agent", "ID", "Show an agent", (*cbwapi.Client).Agent),
		check("delete-agent", "ID", "Delete an agent", (*cbwapi.Client).DeleteAgent),

		list("remote-accesses", "List remote accesses", (*cbwapi.Client).RemoteAccesses),
		get("remote-access", "ID", "Show a remote access", (*cbwapi.Client).RemoteAccess),
		create("create-remote-access", "Create a remote access", (*cbwapi.Client).CreateRemoteAccess),
		update("update-remote-access", "ID", "Update a remote access", (*cbwapi.Client).UpdateRemoteAccess),
		check("delete-remote-access", "ID", "Delete a remote access", (*cbwapi.Client).DeleteRemoteAccess),
		get("test-deploy-remote-access", "ID", "Test a remote access connection", (*cbwapi.Client).TestDeployRemoteAccess),

		list("cve-announcements", "List CVE announcements", (*cbwapi.Client).CVEAnnouncements),
		get("cve-announcement", "CVE", "Show a CVE announcement", (*cbwapi.Client).CVEAnnouncement),
		update("update-cve-announcement", "CVE", "Update the custom score of a CVE announcement", (*cbwapi.Client).UpdateCVEAnnouncement),
		get("delete-cve-announcement", "CVE", "Reset the custom score of a CVE announcement", (*cbwapi.Client).DeleteCVEAnnouncement),

		list("groups", "List groups", (*cbwapi.Client).Groups),
		get("group", "ID", "Show a group", (*cbwapi.Client).Group),
		create("create-group", "Create a group", (*cbwapi.Client).CreateGroup),
		update("update-group", "ID", "Update a group", (*cbwapi.Client).UpdateGroup),
		get("delete-group", "ID", "Delete a group", (*cbwapi.Client).DeleteGroup),

		list("users", "List users", (*cbwapi.Client).Users),
		get("user", "ID", "Show a user", (*cbwapi.Client).User),

		list("nodes", "List nodes", (*cbwapi.Client).Nodes),
		get("node", "ID", "Show a node", (*cbwapi.Client).Node),
		{name: "delete-node", args: []string{"ID"}, short: "Delete a node (--param new_id=N moves its assets)", params: true,
			run: func(ctx context.Context, c *cbwapi.Client, in input) result {
				return objectResult(c.DeleteNode(ctx, in.args[0], in.params))
			}},

		list("hosts", "List hosts", (*cbwapi.Client).Hosts),
		get("host", "ID", "Show a host", (*cbwapi.Client).Host),
		create("create-host", "Create a host", (*cbwapi.Client).CreateHost),
		update("update-host", "ID", "Update a host", (*cbwapi.Client).UpdateHost),
		get("delete-host", "ID", "Delete a host", (*cbwapi.Client).DeleteHost),

		list("security-issues", "List security issues", (*cbwapi.Client).SecurityIssues),
		get("security-issue", "ID", "Show a security issue", (*cbwapi.Client).SecurityIssue),
		create("create-security-issue", "Create a security issue", (*cbwapi.Client).CreateSecurityIssue),
		update("update-security-issue", "ID", "Update a security issue", (*cbwapi.Client).UpdateSecurityIssue),
		get("delete-security-issue", "ID", "Delete a security issue", (*cbwapi.Client).DeleteSecurityIssue),

		list("importer-scripts", "List importer scripts", (*cbwapi.Client).FetchImporterScripts),
		get("importer-script", "ID", "Show an importer script with its contents", (*cbwapi.Client).FetchImporterScript),
		create("send-importer-info", "Upload the output of an importer script", (*cbwapi.Client).SendImporterInfo),
	}
}
