// Package koin implements the Exchange interface for the Koin REST API.
//
// Every endpoint is an entry in a declarative table (operation to verb, path
// template, signing flag and parameter renames) consumed by a single
// dispatcher. Parameters always travel in the query string, for POST as well
// as GET, and signed calls carry an HMAC-SHA256 signature over the base64 of
// "path/nonce/canonicalQuery".
//
// Example usage:
//
//	client, err := koin.New(core.DefaultConfig().WithCredentials(creds))
//	env, err := client.GetBalance(ctx, "btc")
package koin
