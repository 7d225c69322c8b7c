package cmd

import "testing"

func TestResolveServeAddrEnvOverrides(t *testing.T) {
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("WEB_HOST", "127.0.0.1")

	port, host := resolveServeAddr(8080, "0.0.0.0")
	if port != 9090 {
		t.Errorf("Expected port 9090, got %d", port)
	}
	if host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", host)
	}
}

func TestResolveServeAddrInvalidPortKeepsFlag(t *testing.T) {
	t.Setenv("WEB_PORT", "nonsense")

	port, _ := resolveServeAddr(8080, "0.0.0.0")
	if port != 8080 {
		t.Errorf("Expected flag port 8080 on invalid WEB_PORT, got %d", port)
	}
}

func TestResolveServeAddrDefaults(t *testing.T) {
	t.Setenv("WEB_PORT", "")
	t.Setenv("WEB_HOST", "")

	port, host := resolveServeAddr(8080, "0.0.0.0")
	if port != 8080 || host != "0.0.0.0" {
		t.Errorf("Expected flag values untouched, got %s:%d", host, port)
	}
}
