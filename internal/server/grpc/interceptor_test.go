package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophledger/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recordingLogger struct {
	logging.Nop
	levels []string
}

func (r *recordingLogger) Debug(context.Context, string, ...any) { r.levels = append(r.levels, "debug") }
func (r *recordingLogger) Warn(context.Context, string, ...any)  { r.levels = append(r.levels, "warn") }
func (r *recordingLogger) Error(context.Context, string, ...any) { r.levels = append(r.levels, "error") }
func (r *recordingLogger) With(...any) logging.Logger            { return r }

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"ok", nil, "debug"},
		{"not found", status.Error(codes.NotFound, "x"), "warn"},
		{"internal", status.Error(codes.Internal, "x"), "error"},
		{"plain error", context.Canceled, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			s := &GRPCServer{logger: log}
			info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

			called := false
			resp, err := s.loggingInterceptor(context.Background(), "req", info, func(ctx context.Context, req any) (any, error) {
				called = true
				return "resp", tt.err
			})

			if !called {
				t.Fatal("handler was not called")
			}
			if err != tt.err {
				t.Fatalf("error not passed through: %v", err)
			}
			if resp != "resp" {
				t.Fatalf("unexpected resp: %v", resp)
			}
			if len(log.levels) != 1 || log.levels[0] != tt.level {
				t.Fatalf("levels: got %v want [%s]", log.levels, tt.level)
			}
		})
	}
}
