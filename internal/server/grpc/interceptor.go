package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// loggingInterceptor logs each unary call with its status code and
// duration. Health probes are logged at debug level.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration_ms", time.Since(start).Milliseconds()}

	switch {
	case code == codes.OK:
		s.logger.Debug(ctx, "grpc call", args...)
	case code == codes.Internal || code == codes.Unknown:
		s.logger.Error(ctx, "grpc call failed", append(args, "error", err)...)
	default:
		s.logger.Warn(ctx, "grpc call failed", append(args, "error", err)...)
	}
	return resp, err
}
