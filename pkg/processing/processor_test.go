package processing

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"mdnav-hq/mdnav/pkg/config"
	"mdnav-hq/mdnav/pkg/history"
	"mdnav-hq/mdnav/pkg/history/storage"
	"mdnav-hq/mdnav/pkg/telemetry/metrics"
	"mdnav-hq/mdnav/pkg/tql/ast"
	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
	"mdnav-hq/mdnav/pkg/tql/value"
)

const sample = `# Guide

Intro text.

## Install

` + "```bash\nmake install\n```" + `

## Usage

See [docs](https://example.com).
`

func newTestProcessor(t *testing.T, opts ...Option) *Processor {
	t.Helper()
	cfg := config.Default()
	return NewProcessor(&cfg.Query, opts...)
}

func TestProcessor_Process(t *testing.T) {
	p := newTestProcessor(t)

	tests := []struct {
		name    string
		query   string
		want    []string
		wantErr error
	}{
		{name: "headings text", query: ".h2 | .text", want: []string{"Install", "Usage"}},
		{name: "code language", query: ".code | .lang", want: []string{"bash"}},
		{name: "no match is empty", query: ".h6", want: []string{}},
		{name: "parse error", query: ".h[", wantErr: tqlerrors.ErrParse},
		{name: "unknown function", query: ".h2 | lenght", wantErr: tqlerrors.ErrUnknownFunction},
		{name: "blank query", query: "   ", wantErr: ErrEmptyQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Process(context.Background(), &Request{
				Content: []byte(sample),
				Path:    "guide.md",
				Query:   tt.query,
				Source:  SourceCLI,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Process() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if res.Values == nil {
				t.Fatal("Values is nil, want empty slice")
			}
			if len(res.Values) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(res.Values), len(tt.want))
			}
			for i, v := range res.Values {
				if got := value.ToText(v); got != tt.want[i] {
					t.Errorf("result[%d] = %q, want %q", i, got, tt.want[i])
				}
			}
			if res.Document == nil || res.Document.Path != "guide.md" {
				t.Errorf("Document = %+v, want path guide.md", res.Document)
			}
		})
	}
}

func TestProcessor_QueryTooLong(t *testing.T) {
	cfg := config.Default()
	cfg.Query.MaxQueryLength = 5
	p := NewProcessor(&cfg.Query)

	_, err := p.Process(context.Background(), &Request{Content: []byte(sample), Query: ".h2 | .text"})
	if !errors.Is(err, ErrQueryTooLong) {
		t.Fatalf("Process() error = %v, want ErrQueryTooLong", err)
	}
}

func TestProcessor_PrepareOnceRunMany(t *testing.T) {
	p := newTestProcessor(t)
	ctx := context.Background()

	prep, err := p.Prepare(ctx, []byte(sample), "guide.md")
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if got := len(prep.Document.Headings); got != 3 {
		t.Errorf("headings = %d, want 3", got)
	}

	for _, q := range []string{".h1", ".link | .url", ".h2 | .level"} {
		values, err := p.Run(ctx, prep, &Request{Query: q})
		if err != nil {
			t.Errorf("Run(%q) error = %v", q, err)
		}
		if len(values) == 0 {
			t.Errorf("Run(%q) returned no results", q)
		}
	}
}

func TestProcessor_RecordsHistory(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	p := newTestProcessor(t, WithHistory(store))
	ctx := context.Background()

	for _, q := range []string{".h2", ".h[", ".code"} {
		_, _ = p.Process(ctx, &Request{Content: []byte(sample), Query: q, Source: SourceAPI})
	}

	entries, err := store.List(ctx, &history.Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// Newest first.
	tests := []struct {
		query   string
		status  string
		results int
		kind    string
	}{
		{".code", history.StatusSuccess, 1, ""},
		{".h[", history.StatusError, 0, string(tqlerrors.KindParse)},
		{".h2", history.StatusSuccess, 2, ""},
	}
	for i, tt := range tests {
		e := entries[i]
		if e.Query != tt.query || e.Status != tt.status || e.ResultCount != tt.results || e.ErrorKind != tt.kind {
			t.Errorf("entry[%d] = {%q %s %d %q}, want {%q %s %d %q}",
				i, e.Query, e.Status, e.ResultCount, e.ErrorKind,
				tt.query, tt.status, tt.results, tt.kind)
		}
		if e.Source != SourceAPI {
			t.Errorf("entry[%d].Source = %q, want %q", i, e.Source, SourceAPI)
		}
	}
}

func TestProcessor_HistoryFailureDoesNotFailQuery(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Close()

	p := newTestProcessor(t, WithHistory(store))
	res, err := p.Process(context.Background(), &Request{Content: []byte(sample), Query: ".h1"})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(res.Values) != 1 {
		t.Errorf("got %d results, want 1", len(res.Values))
	}
}

func TestProcessor_RecordsMetrics(t *testing.T) {
	cfg := config.Default()
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, registry)

	p := NewProcessor(&cfg.Query, WithMetrics(collector))
	ctx := context.Background()

	_, _ = p.Process(ctx, &Request{Content: []byte(sample), Query: ".h2"})
	_, _ = p.Process(ctx, &Request{Content: []byte(sample), Query: ".h2 | nope"})

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	tests := []struct {
		metric string
		label  string
		value  string
		want   float64
	}{
		{"mdnav_query_executions_total", "status", metrics.StatusSuccess, 1},
		{"mdnav_query_executions_total", "status", metrics.StatusError, 1},
		{"mdnav_query_errors_total", "kind", string(tqlerrors.KindUnknownFunction), 1},
		{"mdnav_documents_parsed_total", "", "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.metric+"/"+tt.value, func(t *testing.T) {
			if got := counterValue(families, tt.metric, tt.label, tt.value); got != tt.want {
				t.Errorf("%s{%s=%q} = %v, want %v", tt.metric, tt.label, tt.value, got, tt.want)
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"query error", tqlerrors.DivisionByZero(ast.NoSpan), string(tqlerrors.KindDivisionByZero)},
		{"wrapped query error", errors.Join(errors.New("context"), tqlerrors.ErrInvalidRegex), string(tqlerrors.KindInvalidRegex)},
		{"plain error", ErrQueryTooLong, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func counterValue(families []*dto.MetricFamily, name, label, labelValue string) float64 {
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if label == "" {
				return m.GetCounter().GetValue()
			}
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == labelValue {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
