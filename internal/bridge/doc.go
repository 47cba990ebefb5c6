// Package bridge is the client for the authoritative record store service.
//
// The bridge owns normalization and alias expansion; this package only
// carries queries and classifies transport failures. Every request sends the
// caller's trace identifier in X-Trace-Id and optional bearer credentials.
// State reports the capability payload the linker gates on before issuing
// any search; Search executes one query for one derived key and is safe to
// call concurrently.
package bridge
