package cbwapi

// Response bodies recorded from a test instance.

const serversPage = `[{"id":2,"hostname":"cyberwatch-esxi.localdomain","description":null,
"last_communication":"2020-07-28T15:02:08.000+02:00","reboot_required":null,"updates_count":0,
"boot_at":null,"category":"hypervisor","created_at":"2020-07-28T15:02:05.000+02:00",
"cve_announcements_count":0,"prioritized_cve_announcements_count":0,"status":"server_update_comm_fail",
"os":{"key":"vmware_esxi_7_0","name":"VMware ESXi 7.0","arch":"x86_64","eol":"2025-04-02T02:00:00.000+02:00",
"short_name":"ESXi 7.0","type":"Os::Vmware"},"environment":{"id":2,"name":"Medium",
"confidentiality_requirement":"confidentiality_requirement_medium","integrity_requirement":"integrity_requirement_medium",
"availability_requirement":"availability_requirement_medium"},"groups":[],"compliance_groups":[]}]`

const serverCanonical = "cbw_object(id=2, hostname='cyberwatch-esxi.localdomain', description=None, " +
	"last_communication='2020-07-28T15:02:08.000+02:00', reboot_required=None, updates_count=0, boot_at=None, category='hypervisor', " +
	"created_at='2020-07-28T15:02:05.000+02:00', cve_announcements_count=0, prioritized_cve_announcements_count=0, " +
	"status='server_update_comm_fail', os=cbw_object(key='vmware_esxi_7_0', name='VMware ESXi 7.0', arch='x86_64', " +
	"eol='2025-04-02T02:00:00.000+02:00', short_name='ESXi 7.0', type='Os::Vmware'), environment=cbw_object(id=2, name='Medium', " +
	"confidentiality_requirement='confidentiality_requirement_medium', integrity_requirement='integrity_requirement_medium', " +
	"availability_requirement='availability_requirement_medium'), groups=[], compliance_groups=[])"

const serverDetail = `{"id":3,"hostname":"debian-10","category":"server","status":"server_update_init",
"cve_announcements":[{"cve_code":"CVE-2019-14869","score":9.3,"active":true,"ignored":false},
{"cve_code":"CVE-2019-10216","score":7.8,"active":true,"ignored":false}]}`

const agentsPage = `[
{"id":4,"server_id":3,"node_id":1,"version":null,"remote_ip":null,"last_communication":null},
{"id":5,"server_id":10,"node_id":2,"version":"9","remote_ip":"12.34.56.78","last_communication":null},
{"id":6,"server_id":30,"node_id":2,"version":"9","remote_ip":"12.34.56.78","last_communication":null},
{"id":7,"server_id":3,"node_id":2,"version":"7","remote_ip":"12.34.56.78","last_communication":null}]`

var agentsCanonical = []string{
	"cbw_object(id=4, server_id=3, node_id=1, version=None, remote_ip=None, last_communication=None)",
	"cbw_object(id=5, server_id=10, node_id=2, version='9', remote_ip='12.34.56.78', last_communication=None)",
	"cbw_object(id=6, server_id=30, node_id=2, version='9', remote_ip='12.34.56.78', last_communication=None)",
	"cbw_object(id=7, server_id=3, node_id=2, version='7', remote_ip='12.34.56.78', last_communication=None)",
}

const agentDetail = `{"id":4,"server_id":3,"node_id":1,"version":null,"remote_ip":null,"last_communication":null}`

const remoteAccessesPage = `[
{"id":22,"type":"CbwRam::RemoteAccess::Ssh::WithPassword","address":"10.0.2.15","port":22,"is_valid":false,
"last_error":"Connection refused - connect(2) for 10.0.2.15:22","server_id":null,"node_id":1},
{"id":23,"type":"CbwRam::RemoteAccess::Ssh::WithPassword","address":"server02.example.com","port":22,"is_valid":false,
"last_error":"getaddrinfo: Name or service not known","server_id":null,"node_id":1},
{"id":25,"type":"CbwRam::RemoteAccess::Ssh::WithPassword","address":"10.0.2.16","port":22,"is_valid":false,
"last_error":"No route to host - connect(2) for 10.0.2.16:22","server_id":null,"node_id":1}]`

const remoteAccessFirstCanonical = "cbw_object(id=22, type='CbwRam::RemoteAccess::Ssh::WithPassword', address='10.0.2.15', " +
	"port=22, is_valid=False, last_error='Connection refused - connect(2) for 10.0.2.15:22', server_id=None, node_id=1)"

const remoteAccessCreated = `{"id":15,"type":"CbwRam::RemoteAccess::Ssh::WithPassword","address":"X.X.X.X","port":22,
"login":"loginssh","is_valid":null,"last_error":null,"server_id":null,"node_id":1,"server_groups":["test","production"]}`

const remoteAccessUpdated = `{"id":15,"type":"CbwRam::RemoteAccess::Ssh::WithPassword","address":"10.10.10.228","port":22,
"login":"loginssh","is_valid":null,"last_error":null,"server_id":null,"node_id":1}`

const testDeployResult = `{"id":15,"type":"CbwRam::RemoteAccess::Ssh::WithPassword","address":"10.10.11.228","port":22,
"is_valid":null,"last_error":"Net::SSH::ConnectionTimeout","server_id":null,"node_id":1}`

const testDeployCanonical = "cbw_object(id=15, type='CbwRam::RemoteAccess::Ssh::WithPassword', " +
	"address='10.10.11.228', port=22, is_valid=None, last_error='Net::SSH::ConnectionTimeout', server_id=None, node_id=1)"

const cveAnnouncementDetail = `{"cve_code":"CVE-2017-0146","score":8.1,"published":"2017-03-17T01:59:00.000+01:00",
"exploitable":true,"content":"The SMBv1 server in Microsoft Windows allows remote attackers to execute arbitrary code."}`

const cveAnnouncementsPage = `[{"cve_code":"CVE-2015-8158","score":5.0},{"cve_code":"CVE-2015-8139","score":4.3}]`

const cveAnnouncementUpdated = `{"cve_code":"CVE-2019-16768","score":4.3,"score_custom":7.0,
"cvss_custom":{"access_vector":"access_vector_adjacent_network","scope":"scope_changed"}}`

const groupsPage = `[{"id":12,"name":"production","description":null,"color":"#12AFCB"},
{"id":13,"name":"Development","description":null,"color":"#12AFCB"}]`

const groupCanonical = "cbw_object(id=12, name='production', description=None, color='#12AFCB')"

const usersPage = `[{"id":1,"login":"daniel@cyberwatch.fr","email":"daniel@cyberwatch.fr","name":"","firstname":"",
"locale":"fr","auth_provider":"local_password","description":"","server_groups":[]}]`

const userCanonical = "cbw_object(id=1, login='daniel@cyberwatch.fr', email='daniel@cyberwatch.fr', " +
	"name='', firstname='', locale='fr', auth_provider='local_password', description='', server_groups=[])"

const nodesPage = `[{"id":1,"name":"master","created_at":"2019-11-08T15:06:11.000+01:00","updated_at":"2019-12-18T14:34:09.000+01:00"}]`

const nodeCanonical = "cbw_object(id=1, name='master', created_at='2019-11-08T15:06:11.000+01:00', " +
	"updated_at='2019-12-18T14:34:09.000+01:00')"

const hostsPage = `[
{"id":8,"target":"172.18.0.13","category":"linux","hostname":"bb79e64ccd6e.dev_default","cve_announcements_count":0,
"created_at":"2019-11-14T11:58:50.000+01:00","updated_at":"2019-12-16T16:45:42.000+01:00","node_id":1,"server_id":5,
"status":"server_update_init","technologies":[],"security_issues":[],"cve_announcements":[],"scans":[]},
{"id":12,"target":"5.5.5.5","category":"linux","hostname":null,"cve_announcements_count":0,
"created_at":"2019-12-17T14:28:00.000+01:00","updated_at":"2019-12-17T14:28:00.000+01:00","node_id":1,"server_id":7,
"status":"server_update_init","technologies":[],"security_issues":[],"cve_announcements":[],"scans":[]}]`

const hostCanonical = "cbw_object(id=12, target='5.5.5.5', category='linux', hostname=None, cve_announcements_count=0, " +
	"created_at='2019-12-17T14:28:00.000+01:00', updated_at='2019-12-17T14:28:00.000+01:00', node_id=1, " +
	"server_id=7, status='server_update_init', technologies=[], security_issues=[], cve_announcements=[], scans=[])"

const securityIssuesPage = `[
{"id":1,"type":null,"sid":"","level":"level_info","title":null,"description":null},
{"id":2,"type":null,"sid":"","level":"level_info","title":null,"description":null},
{"id":3,"type":null,"sid":"","level":"level_info","title":null,"description":null}]`

const securityIssueDeleted = `{"id":1,"type":null,"sid":"","level":"level_info","title":null,"description":null,
"servers":[],"cve_announcements":[]}`

const securityIssueDeletedCanonical = "cbw_object(id=1, type=None, sid='', level='level_info', " +
	"title=None, description=None, servers=[], cve_announcements=[])"

const importerScript = `{"id":1,"type":"CbwRam::Importer::Script","filename":"get_packages.sh",
"version":"47c8367e1c92d50fad8894362f5c09e9bfe65e712aab2d23ffbb61e354e270dd","contents":"#!/bin/sh\ndpkg -l\n"}`
