/*
	Project: Masomo Dashboard - https://masomo.cd
	Session storage of the dashboard: values cached per browser profile,
	and the school the signed-in user belongs to.

	apps/api: HTTP API (echo)
	apps/admin: CLI to inspect & edit the volatile store
*/
package masomo

/*
TODO: redis backend: expire idle client scopes (SCAN + TTL refresh on read) instead of a fixed TTL on write
*/
