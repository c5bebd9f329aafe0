package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveHost(t *testing.T) {
	tests := []struct {
		host   string
		docker bool
		want   string
	}{
		{"localhost", true, "host.docker.internal"},
		{"127.0.0.1", true, "host.docker.internal"},
		{"localhost", false, "localhost"},
		{"db.example.com", true, "db.example.com"},
		{"host.docker.internal", true, "host.docker.internal"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveHost(tt.host, tt.docker), "host=%s docker=%v", tt.host, tt.docker)
	}
}

func TestResolveHostForDocker_NonLoopbackUnchanged(t *testing.T) {
	assert.Equal(t, "db.internal", ResolveHostForDocker("db.internal"))
}
