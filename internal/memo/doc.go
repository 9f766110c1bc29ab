// Package memo caches analysis results keyed by operation, parameters and a
// content fingerprint of the input series. A changed input always hashes to a
// new key, so stale results are never served.
package memo
