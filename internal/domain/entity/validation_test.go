package entity

import (
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid https", "https://example.com/article", false},
		{"valid http", "http://example.com/article", false},
		{"empty", "", true},
		{"ftp scheme", "ftp://example.com/file", true},
		{"file scheme", "file:///etc/passwd", true},
		{"no host", "https://", true},
		{"loopback", "http://127.0.0.1/admin", true},
		{"private 10/8", "http://10.0.0.5/", true},
		{"private 192.168/16", "http://192.168.1.1/", true},
		{"cloud metadata", "http://169.254.169.254/latest/meta-data", true},
		{"too long", "https://example.com/" + strings.Repeat("a", 2048), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	assert.True(t, isPrivateIP(net.ParseIP("127.0.0.1")))
	assert.True(t, isPrivateIP(net.ParseIP("10.1.2.3")))
	assert.True(t, isPrivateIP(net.ParseIP("172.16.0.1")))
	assert.True(t, isPrivateIP(net.ParseIP("192.168.0.1")))
	assert.True(t, isPrivateIP(net.ParseIP("169.254.169.254")))
	assert.True(t, isPrivateIP(net.ParseIP("::1")))
	assert.True(t, isPrivateIP(net.ParseIP("fe80::1")))

	assert.False(t, isPrivateIP(net.ParseIP("8.8.8.8")))
	assert.False(t, isPrivateIP(net.ParseIP("142.250.72.14")))
}
