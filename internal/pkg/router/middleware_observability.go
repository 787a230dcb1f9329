package router

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/greenvista/internal/pkg/config"
	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const maxLoggedBodyBytes = 32 * 1024

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// statusRecorder captures the status, size and a capped copy of the body.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	body   bytes.Buffer
	capped bool
	err    error
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if room := maxLoggedBodyBytes - w.body.Len(); room > 0 {
		w.body.Write(p[:min(room, len(p))])
		w.capped = w.capped || len(p) > room
	} else if len(p) > 0 {
		w.capped = true
	}

	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *statusRecorder) SetError(err error) { w.err = err }

func (w *statusRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

func (w *statusRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

type masker map[string]struct{}

func newMasker(cfg config.Config) masker {
	m := masker{}
	if cfg == nil {
		return m
	}
	for _, f := range cfg.GetArray("instrument.log_mask_fields") {
		m[strings.ToLower(f)] = struct{}{}
	}
	return m
}

func (m masker) hit(key string) bool {
	_, ok := m[strings.ToLower(key)]
	return ok
}

func (m masker) headers(h http.Header) http.Header {
	out := h.Clone()
	for k := range out {
		if m.hit(k) {
			out.Set(k, "***")
		}
	}
	return out
}

func (m masker) data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.hit(k) {
				out[k] = "***"
				continue
			}
			out[k] = m.data(v2)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v2 := range val {
			out[i] = m.data(v2)
		}
		return out
	default:
		return v
	}
}

// body renders a captured payload for logs: masked JSON when it parses,
// the raw text when it is valid UTF-8, a placeholder otherwise.
func (m masker) body(b []byte, capped bool) any {
	if len(b) == 0 {
		return nil
	}

	var out any
	var parsed any
	switch {
	case json.Unmarshal(b, &parsed) == nil:
		out = m.data(parsed)
	case utf8.Valid(b):
		out = string(b)
	default:
		out = "<binary body omitted>"
	}

	if capped {
		return map[string]any{"body": out, "truncated": true}
	}
	return out
}

func peekRequestBody(r *http.Request) ([]byte, bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}

	//nolint:errcheck // best effort for logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes+1))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(head), r.Body))

	if len(head) > maxLoggedBodyBytes {
		return head[:maxLoggedBodyBytes], true
	}
	return head, false
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	mask := newMasker(cfg)
	tracer := ins.Tracer("http.server")
	meter := ins.Meter("http.server")

	requests, err := meter.Int64Counter("http.server.requests", metric.WithDescription("Number of HTTP requests received"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}

	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"), metric.WithUnit("ms"))
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			start := time.Now()

			ctx, span := tracer.Start(r.Context(), r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
				),
			)
			defer span.End()

			reqBody, reqCapped := peekRequestBody(r)
			slog.InfoContext(ctx, "request received",
				"method", r.Method,
				"path", route,
				"uri", r.RequestURI,
				"headers", mask.headers(r.Header),
				"body", mask.body(reqBody, reqCapped),
			)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.statusCode()
			elapsed := time.Since(start)
			attrs := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			}

			if rec.err != nil {
				span.RecordError(rec.err)
			}
			switch {
			case status >= http.StatusInternalServerError && rec.err != nil:
				span.SetStatus(codes.Error, rec.err.Error())
			case status >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(status))
			default:
				span.SetStatus(codes.Ok, "")
			}
			span.SetAttributes(attrs...)
			span.SetAttributes(
				semconv.ServerAddressKey.String(r.Host),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.Int("http.response_content_length", rec.bytes),
			)

			if requests != nil {
				requests.Add(ctx, 1, metric.WithAttributes(attrs...))
			}
			if duration != nil {
				duration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(attrs...))
			}

			slog.InfoContext(ctx, "response sent",
				"method", r.Method,
				"path", route,
				"status", status,
				"bytes", rec.bytes,
				"latency_ms", elapsed.Milliseconds(),
				"body", mask.body(rec.body.Bytes(), rec.capped),
			)
		})
	}
}
