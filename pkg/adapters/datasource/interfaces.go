package datasource

import "context"

// ConnectionTester probes one external database named by a DatabaseConfig.
// A tester holds an open connection from the moment its Factory returns, so
// callers close it even when the probe fails.
type ConnectionTester interface {
	// TestConnection round-trips a trivial query. A nil error means the
	// URL, credentials and network path all work.
	TestConnection(ctx context.Context) error
	Close() error
}

// Factory opens a ConnectionTester for a connection URL. Factories are
// registered per URL scheme.
type Factory func(ctx context.Context, connectionURL string) (ConnectionTester, error)
