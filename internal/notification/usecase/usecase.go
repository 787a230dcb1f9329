package usecase

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/shandysiswandi/greenvista/internal/pkg/instrument"
	"github.com/shandysiswandi/greenvista/internal/pkg/mail"
	"go.opentelemetry.io/otel/trace"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"minutes": func(d time.Duration) string {
		m := int(d.Round(time.Minute) / time.Minute)
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	},
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoMail repoMail
	ins      instrument.Instrumentation
	tpl      *template.Template
}

type Dependency struct {
	RepoMail   repoMail
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) (*Usecase, error) {
	tpl, err := template.New("mail").Option("missingkey=zero").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Usecase{repoMail: dep.RepoMail, ins: ins, tpl: tpl}, nil
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
