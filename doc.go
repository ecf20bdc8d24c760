// Package testbed provides the building blocks of a small HTTP server used for
// manual and exploratory testing of HTTP clients.
//
// The server exposes a fixed set of endpoints: a basic-auth protected greeting,
// a rate-limited ping, a plain POST target, static file serving, a rendered HTML
// page, and endpoints that fail on demand with a chosen status code.
//
// # Key Components
//
//   - FailureRequest: parsed form of the /fail query parameters
//   - HitLog: timestamped console lines for endpoints that announce each hit
//   - Asset: metadata for a file served from the static root
//   - CleanAssetPath: resolves a relative path and keeps it below the static root
//
// See the http package for the route table and middleware, keybackend for the
// credential store, ratelimit for request limiting, and filesystem for the
// static asset root.
package testbed
