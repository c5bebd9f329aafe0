package datasource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConnectionTester struct {
	url    string
	closed bool
}

func (m *mockConnectionTester) TestConnection(ctx context.Context) error {
	return nil
}

func (m *mockConnectionTester) Close() error {
	m.closed = true
	return nil
}

func registerMock(t *testing.T, typ string, schemes ...string) {
	t.Helper()
	Register(AdapterRegistration{
		Info: AdapterInfo{Type: typ, DisplayName: typ, Schemes: schemes},
		Factory: func(ctx context.Context, connectionURL string) (ConnectionTester, error) {
			return &mockConnectionTester{url: connectionURL}, nil
		},
	})
	t.Cleanup(func() {
		registryMu.Lock()
		defer registryMu.Unlock()
		for _, s := range schemes {
			delete(registry, s)
		}
	})
}

func TestRegistry_OpenBySchemeCaseInsensitive(t *testing.T) {
	registerMock(t, "mockdb", "mockdb", "mock")

	tester, err := Open(context.Background(), "MOCK://user@host/db")
	require.NoError(t, err)

	mock, ok := tester.(*mockConnectionTester)
	require.True(t, ok)
	assert.Equal(t, "MOCK://user@host/db", mock.url)
	assert.True(t, IsRegistered("mockdb"))
}

func TestRegistry_OpenUnsupportedScheme(t *testing.T) {
	_, err := Open(context.Background(), "oracle://host/db")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedScheme))

	_, err = Open(context.Background(), "no-scheme-here")
	assert.True(t, errors.Is(err, ErrUnsupportedScheme))
}

func TestRegistry_RegisteredAdaptersDeduplicatesSchemes(t *testing.T) {
	registerMock(t, "zz-mock", "zz1", "zz2")

	var count int
	for _, info := range RegisteredAdapters() {
		if info.Type == "zz-mock" {
			count++
			assert.ElementsMatch(t, []string{"zz1", "zz2"}, info.Schemes)
		}
	}
	assert.Equal(t, 1, count)
}
