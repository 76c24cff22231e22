// Package igdb is a minimal client for the IGDB game catalog.
//
// Lookups authenticate with a Twitch client-credentials bearer token that
// the client caches until shortly before expiry. Search results are
// re-ranked locally by popularity (the catalog's own ordering is text
// relevance), throttled responses are retried with exponential backoff,
// and cover image URLs are built from the CDN template
// <image-base>/<size>/<image-id>.jpg; no image bytes are fetched.
//
// Every failure surfaces as an error; callers treat any error as "no
// result" and decide their own messaging.
package igdb
