package util

import (
	"net/http"
	"testing"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://plain-proxy:3128", "http://tls-proxy:3128", "internal.example")

	tests := []struct {
		url  string
		want string
	}{
		{"http://news.example/a", "http://plain-proxy:3128"},
		{"https://news.example/a", "http://tls-proxy:3128"},
		{"https://internal.example/a", ""},
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("proxy(%s) error: %v", tt.url, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Errorf("proxy(%s) = %q, expected %q", tt.url, gotStr, tt.want)
		}
	}
}
