// Package google handles Google sign-in for calgrid.
//
// It builds the OAuth2 configuration, runs the loopback authorization flow
// used by the CLI, stores tokens in the OS keyring and fetches the signed-in
// user's profile.
//
// The TokenProvider interface lets the CLI (keyring) and the web server
// (per-session token) hand credentials to the calendar client the same way.
package google
