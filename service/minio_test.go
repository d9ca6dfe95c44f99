package service

import (
	"testing"
	"time"

	"github.com/gael-paolo/st-parts-track/config"
)

func TestNewMinioService(t *testing.T) {
	cfg := &config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "pedidos",
		UseSSL:    false,
	}

	svc, err := NewMinioService(cfg)
	// The client is constructed lazily; the connection is only exercised on
	// the first operation.
	if err != nil {
		t.Fatalf("NewMinioService: %v", err)
	}
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
}

func TestMinioServiceTimeout(t *testing.T) {
	tests := []struct {
		name      string
		timeoutMs int
		want      time.Duration
	}{
		{"configured", 15000, 15 * time.Second},
		{"zero falls back", 0, 30 * time.Second},
		{"negative falls back", -5, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MinioService{config: &config.MinioConfig{TimeoutMs: tt.timeoutMs}}
			if got := svc.timeout(); got != tt.want {
				t.Errorf("timeout() = %v, want %v", got, tt.want)
			}
		})
	}
}
