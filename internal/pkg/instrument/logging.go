package instrument

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const masked = "***"

func initLogging(serviceName, level string, lp *sdklog.LoggerProvider, maskFields []string) {
	slog.SetDefault(slog.New(newHandler(os.Stdout, serviceName, level, lp, maskFields)))
}

// newHandler builds the JSON stdout handler, fans out to the OTLP log bridge
// when lp is set, redacts maskFields and stamps service and correlation id.
func newHandler(w io.Writer, serviceName, level string, lp *sdklog.LoggerProvider, maskFields []string) slog.Handler {
	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(level),
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})

	if lp != nil {
		handler = &multiHandler{handlers: []slog.Handler{
			handler,
			otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(lp)),
		}}
	}

	return &contextHandler{
		Handler:     &maskHandler{handler: handler, keys: buildMaskKeys(maskFields)},
		serviceName: serviceName,
	}
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		_, rel, found := strings.Cut(src.File, "/internal/")
		if !found {
			return slog.Attr{}
		}
		return slog.String("file", "internal/"+rel+":"+strconv.Itoa(src.Line))
	}
	return a
}

type contextHandler struct {
	slog.Handler
	serviceName string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if cID := GetCorrelationID(ctx); cID != "" {
		r.AddAttrs(slog.String("_cID", cID))
	}
	if h.serviceName != "" {
		r.AddAttrs(slog.String("service", h.serviceName))
	}

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), serviceName: h.serviceName}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), serviceName: h.serviceName}
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: hs}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: hs}
}

// maskHandler redacts attributes whose key (case-insensitive) is in keys.
// It also walks groups, string maps and JSON-looking strings.
type maskHandler struct {
	handler slog.Handler
	keys    map[string]struct{}
}

func (h *maskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *maskHandler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.keys) == 0 {
		return h.handler.Handle(ctx, record)
	}

	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.mask(a))
		return true
	})

	return h.handler.Handle(ctx, out)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cleaned := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cleaned[i] = h.mask(a)
	}
	return &maskHandler{handler: h.handler.WithAttrs(cleaned), keys: h.keys}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{handler: h.handler.WithGroup(name), keys: h.keys}
}

func (h *maskHandler) sensitive(key string) bool {
	_, ok := h.keys[strings.ToLower(key)]
	return ok
}

func (h *maskHandler) mask(a slog.Attr) slog.Attr {
	if h.sensitive(a.Key) {
		return slog.String(a.Key, masked)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, len(group))
		for i, ga := range group {
			out[i] = h.mask(ga)
		}
		a.Value = slog.GroupValue(out...)
	case slog.KindString:
		if s, ok := h.maskJSON([]byte(a.Value.String())); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any:
			a.Value = slog.AnyValue(h.maskData(v))
		case map[string]string:
			m := make(map[string]any, len(v))
			for k, s := range v {
				m[k] = s
			}
			a.Value = slog.AnyValue(h.maskData(m))
		case []any:
			a.Value = slog.AnyValue(h.maskData(v))
		case []byte:
			if s, ok := h.maskJSON(v); ok {
				a.Value = slog.StringValue(s)
			}
		}
	}

	return a
}

func (h *maskHandler) maskJSON(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}

	b, err := json.Marshal(h.maskData(body))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (h *maskHandler) maskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if h.sensitive(k) {
				out[k] = masked
				continue
			}
			out[k] = h.maskData(v2)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v2 := range val {
			out[i] = h.maskData(v2)
		}
		return out
	default:
		return v
	}
}

func buildMaskKeys(fields []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			keys[f] = struct{}{}
		}
	}
	return keys
}
