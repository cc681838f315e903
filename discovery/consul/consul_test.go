package consul

import (
	"testing"

	"github.com/hashicorp/consul/api"
)

func TestSplitAdvertise(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		protocol string
		wantHost string
		wantPort int
	}{
		{"bare host http", "freightway.example.com", "http", "freightway.example.com", 80},
		{"bare host https", "freightway.example.com", "https", "freightway.example.com", 443},
		{"host with port", "freightway.example.com:8080", "http", "freightway.example.com", 8080},
		{"full url", "https://freightway.example.com:9443/base", "https", "freightway.example.com", 9443},
		{"full url default port", "http://freightway.example.com", "http", "freightway.example.com", 80},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			host, port := splitAdvertise(tc.url, tc.protocol)
			if host != tc.wantHost {
				t.Errorf("expected host %q, got %q", tc.wantHost, host)
			}
			if port != tc.wantPort {
				t.Errorf("expected port %d, got %d", tc.wantPort, port)
			}
		})
	}
}

func TestStatusToTTL(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"UP", api.HealthPassing},
		{"up", api.HealthPassing},
		{"PASSING", api.HealthPassing},
		{"WARNING", api.HealthWarning},
		{"DOWN", api.HealthCritical},
		{"", api.HealthCritical},
	}
	for _, tc := range tests {
		if got := statusToTTL(tc.status); got != tc.want {
			t.Errorf("statusToTTL(%q) = %q, want %q", tc.status, got, tc.want)
		}
	}
}
