package interceptors

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/mochi-storefront/internal/pkg/interceptors/constants"
)

// TraceServerInterceptor copies the request id and idempotency key from the
// incoming gRPC metadata into the context and logs the call.
func TraceServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		requestID := firstValue(ctx, constants.HeaderXRequestId)
		idempotencyKey := firstValue(ctx, constants.HeaderXIdempotencyKey)

		newCtx := context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		newCtx = context.WithValue(newCtx, constants.ContextKeyIdempotencyKey, idempotencyKey)

		slog.InfoContext(newCtx, "grpc call",
			"method", info.FullMethod,
			"request_id", requestID,
			"idempotency_key", idempotencyKey,
		)

		return handler(newCtx, req)
	}
}

// PropagateClientInterceptor forwards the correlation ids carried in the
// context as outgoing gRPC metadata, unless the caller already attached them.
func PropagateClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(WithOutgoingMetadata(ctx), method, req, reply, cc, opts...)
	}
}

// WithOutgoingMetadata appends the context's request id, idempotency key and
// session id to the outgoing metadata if they are not there yet.
func WithOutgoingMetadata(ctx context.Context) context.Context {
	out, _ := metadata.FromOutgoingContext(ctx)
	for _, pair := range []struct {
		header string
		key    interface{}
	}{
		{constants.HeaderXRequestId, constants.ContextKeyRequestID},
		{constants.HeaderXIdempotencyKey, constants.ContextKeyIdempotencyKey},
		{constants.HeaderXSessionId, constants.ContextKeySessionID},
	} {
		if len(out.Get(pair.header)) > 0 {
			continue
		}
		if v, ok := ctx.Value(pair.key).(string); ok && v != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, pair.header, v)
		}
	}
	return ctx
}

func firstValue(ctx context.Context, header string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if ids := md.Get(header); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// GetMetadataValue looks up header in the context values first, then in the
// incoming and outgoing metadata.
func GetMetadataValue(ctx context.Context, header string) string {
	if v, ok := ctx.Value(contextKeyFor(header)).(string); ok && v != "" {
		return v
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(header); len(ids) > 0 {
			return ids[0]
		}
	}

	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if ids := md.Get(header); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}

func contextKeyFor(header string) interface{} {
	switch header {
	case constants.HeaderXRequestId:
		return constants.ContextKeyRequestID
	case constants.HeaderXIdempotencyKey:
		return constants.ContextKeyIdempotencyKey
	case constants.HeaderXSessionId:
		return constants.ContextKeySessionID
	default:
		return header
	}
}
