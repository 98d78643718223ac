package observability

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Merctxt/contrl-financeiro/internal/config"
)

func TestInitTracingDisabledBranch(t *testing.T) {
	cfg := &config.Config{OTELTracingEnabled: false}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tp, err := InitTracing(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("init tracing disabled: %v", err)
	}
	if tp == nil {
		t.Fatal("expected tracer provider")
	}
	_ = tp.Shutdown(context.Background())
}

func TestClampRatio(t *testing.T) {
	if clampRatio(-1) != 0 {
		t.Fatal("expected lower clamp to 0")
	}
	if clampRatio(2) != 1 {
		t.Fatal("expected upper clamp to 1")
	}
	if clampRatio(0.25) != 0.25 {
		t.Fatal("expected in-range ratio unchanged")
	}
}

func TestRecordCountersAreSafeWithoutProvider(t *testing.T) {
	ctx := context.Background()
	RecordAuthEvent(ctx, "login", "success")
	RecordSessionManagementEvent(ctx, "list", "success")
	RecordSessionRevokedCount(ctx, "revoke_others", 3)
	RecordSessionRevokedCount(ctx, "revoke_others", 0)
	RecordSessionsSwept(ctx, 2)
	RecordPasswordResetEvent(ctx, "request", "success")
}
