// Package workerskv stores finished records in a Cloudflare Workers KV
// namespace keyed by document UID.
package workerskv
