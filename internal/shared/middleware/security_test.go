package middleware

import "testing"

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		allowedHosts []string
		want         bool
	}{
		{
			name:         "empty allowed hosts permits everything",
			host:         "horizon.example.com",
			allowedHosts: []string{},
			want:         true,
		},
		{
			name:         "exact match with port",
			host:         "horizon.example.com:8080",
			allowedHosts: []string{"horizon.example.com:8080"},
			want:         true,
		},
		{
			name:         "host without port matches allowed with port",
			host:         "horizon.example.com",
			allowedHosts: []string{"horizon.example.com:8080"},
			want:         true,
		},
		{
			name:         "host with port matches allowed without port",
			host:         "horizon.example.com:8080",
			allowedHosts: []string{"horizon.example.com"},
			want:         true,
		},
		{
			name:         "localhost with dev port",
			host:         "localhost:3000",
			allowedHosts: []string{"localhost"},
			want:         true,
		},
		{
			name:         "IPv6 loopback with port",
			host:         "[::1]:8080",
			allowedHosts: []string{"[::1]:8080"},
			want:         true,
		},
		{
			name:         "IPv6 without port matches allowed with port",
			host:         "::1",
			allowedHosts: []string{"[::1]:8080"},
			want:         true,
		},
		{
			name:         "IPv6 with port matches allowed without port",
			host:         "[::1]:8080",
			allowedHosts: []string{"::1"},
			want:         true,
		},
		{
			name:         "IPv6 bare host matches bracketed allowed without port",
			host:         "::1",
			allowedHosts: []string{"[::1]"},
			want:         true,
		},
		{
			name:         "IPv6 bracketed host matches bare allowed",
			host:         "[::1]",
			allowedHosts: []string{"::1"},
			want:         true,
		},
		{
			name:         "IPv6 full address with port",
			host:         "[2001:db8::8a2e:370:7334]:443",
			allowedHosts: []string{"2001:db8::8a2e:370:7334"},
			want:         true,
		},
		{
			name:         "IPv6 link-local with zone",
			host:         "[fe80::1%lo0]:8080",
			allowedHosts: []string{"fe80::1%lo0"},
			want:         true,
		},
		{
			name:         "case insensitive match",
			host:         "Horizon.Example.COM:8080",
			allowedHosts: []string{"horizon.example.com"},
			want:         true,
		},
		{
			name:         "host with whitespace",
			host:         "  horizon.example.com:8080  ",
			allowedHosts: []string{"horizon.example.com"},
			want:         true,
		},
		{
			name:         "allowed host with whitespace",
			host:         "horizon.example.com:8080",
			allowedHosts: []string{"  horizon.example.com  "},
			want:         true,
		},
		{
			name:         "match later entry in list",
			host:         "app.example.com",
			allowedHosts: []string{"example.com", "app.example.com", "api.example.com"},
			want:         true,
		},
		{
			name:         "unknown host rejected",
			host:         "evil.com",
			allowedHosts: []string{"example.com", "app.example.com"},
			want:         false,
		},
		{
			name:         "subdomain does not match parent",
			host:         "sub.example.com",
			allowedHosts: []string{"example.com"},
			want:         false,
		},
		{
			name:         "different IPv6 address rejected",
			host:         "[::2]:8080",
			allowedHosts: []string{"[::1]:8080"},
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsHostAllowed(tt.host, tt.allowedHosts)
			if got != tt.want {
				t.Errorf("IsHostAllowed(%q, %v) = %v, want %v",
					tt.host, tt.allowedHosts, got, tt.want)
			}
		})
	}
}
