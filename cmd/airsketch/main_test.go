package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{in: "~", want: home},
		{in: "~/.airsketch", want: filepath.Join(home, ".airsketch")},
		{in: "/var/lib/airsketch", want: "/var/lib/airsketch"},
		{in: "~other/dir", want: "~other/dir"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := expandHome(tt.in); got != tt.want {
				t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestListenPort(t *testing.T) {
	tests := []struct {
		addr    string
		want    int
		wantErr bool
	}{
		{addr: ":8080", want: 8080},
		{addr: "127.0.0.1:9000", want: 9000},
		{addr: "localhost", wantErr: true},
		{addr: ":http", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := listenPort(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("listenPort(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("listenPort(%q) = %d, want %d", tt.addr, got, tt.want)
			}
		})
	}
}

func TestBrowserURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"0.0.0.0:8080":   "http://localhost:8080",
		"10.0.0.5:8080":  "http://10.0.0.5:8080",
		"localhost:9000": "http://localhost:9000",
	}
	for addr, want := range tests {
		if got := browserURL(addr); got != want {
			t.Errorf("browserURL(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestFindWebDir(t *testing.T) {
	dir := t.TempDir()

	if got := findWebDir(dir, ""); got != dir {
		t.Errorf("findWebDir() = %q, want configured %q", got, dir)
	}

	dataDir := t.TempDir()
	web := filepath.Join(dataDir, "web")
	if err := os.Mkdir(web, 0755); err != nil {
		t.Fatal(err)
	}
	if got := findWebDir(filepath.Join(dir, "missing"), dataDir); got != web {
		t.Errorf("findWebDir() = %q, want data dir fallback %q", got, web)
	}
}
