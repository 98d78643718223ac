package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce         sync.Once
	authEvents          metric.Int64Counter
	sessionEvents       metric.Int64Counter
	sessionsRevoked     metric.Int64Counter
	sessionsSweptTotal  metric.Int64Counter
	resetFlowEventCount metric.Int64Counter
)

func initMetrics() {
	meter := otel.Meter("contrl-financeiro/identity")
	authEvents, _ = meter.Int64Counter("auth_events_total",
		metric.WithDescription("Login, register and credential verification outcomes"))
	sessionEvents, _ = meter.Int64Counter("session_management_events_total",
		metric.WithDescription("Session list/revoke operations by outcome"))
	sessionsRevoked, _ = meter.Int64Counter("sessions_revoked_total",
		metric.WithDescription("Sessions revoked, by trigger"))
	sessionsSweptTotal, _ = meter.Int64Counter("sessions_swept_total",
		metric.WithDescription("Sessions deactivated by the inactivity sweeper"))
	resetFlowEventCount, _ = meter.Int64Counter("password_reset_events_total",
		metric.WithDescription("Password reset flow outcomes"))
}

func RecordAuthEvent(ctx context.Context, operation, outcome string) {
	metricsOnce.Do(initMetrics)
	authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordSessionManagementEvent(ctx context.Context, operation, outcome string) {
	metricsOnce.Do(initMetrics)
	sessionEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordSessionRevokedCount(ctx context.Context, trigger string, count int64) {
	metricsOnce.Do(initMetrics)
	if count <= 0 {
		return
	}
	sessionsRevoked.Add(ctx, count, metric.WithAttributes(attribute.String("trigger", trigger)))
}

func RecordSessionsSwept(ctx context.Context, count int64) {
	metricsOnce.Do(initMetrics)
	if count <= 0 {
		return
	}
	sessionsSweptTotal.Add(ctx, count)
}

func RecordPasswordResetEvent(ctx context.Context, stage, outcome string) {
	metricsOnce.Do(initMetrics)
	resetFlowEventCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("outcome", outcome),
	))
}
