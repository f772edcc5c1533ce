package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// fasthttpHeader is satisfied by both fasthttp request and response headers.
type fasthttpHeader interface {
	Peek(key string) []byte
	Set(key, value string)
	VisitAll(f func(key, value []byte))
}

type headerCarrier struct{ h fasthttpHeader }

func (c headerCarrier) Get(key string) string { return string(c.h.Peek(key)) }
func (c headerCarrier) Set(key, val string)   { c.h.Set(key, val) }
func (c headerCarrier) Keys() []string {
	var keys []string
	c.h.VisitAll(func(k, _ []byte) { keys = append(keys, string(k)) })
	return keys
}

var (
	_ fasthttpHeader = (*fasthttp.RequestHeader)(nil)
	_ fasthttpHeader = (*fasthttp.ResponseHeader)(nil)
)

// OTelFiberMiddleware opens a server span per request, continues any incoming
// trace context and writes the span's context back on the response.
func OTelFiberMiddleware(serviceName string) fiber.Handler {
	tr := otel.Tracer(serviceName)

	return func(c *fiber.Ctx) error {
		propagator := otel.GetTextMapPropagator()
		ctx := propagator.Extract(c.UserContext(), headerCarrier{h: &c.Context().Request.Header})

		spanName := spanNameFormatterFiber(c)
		ctx, span := tr.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindServer))
		start := time.Now()
		defer span.End()

		c.SetUserContext(ctx)
		propagator.Inject(ctx, headerCarrier{h: &c.Context().Response.Header})

		span.SetAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("http.method", c.Method()),
			attribute.String("http.route", spanRoute(c)),
			attribute.String("http.target", c.OriginalURL()),
			attribute.String("http.scheme", c.Protocol()),
			attribute.String("net.peer.ip", c.IP()),
			attribute.String("user_agent", c.Get(fiber.HeaderUserAgent)),
			attribute.String("request.id", c.Get(HeaderRequestID)),
		)

		err := c.Next()

		status := c.Response().StatusCode()
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Int64("http.duration_ms", time.Since(start).Milliseconds()),
		)

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case status >= 500:
			span.SetStatus(codes.Error, "server_error")
		case status >= 400:
			span.SetStatus(codes.Error, "client_error")
		default:
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}

func spanNameFormatterFiber(c *fiber.Ctx) string {
	return strings.ToUpper(c.Method()) + " " + spanRoute(c)
}

func spanRoute(c *fiber.Ctx) string {
	if path := c.Route().Path; path != "" && path != "/" {
		return path
	}
	return c.Path()
}
