package cli

import (
	"errors"
	"strings"
	"testing"

	"mdnav-hq/mdnav/pkg/tql/ast"
	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("server.listen_address", "missing required field")

	expected := "config error in server.listen_address: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("query", underlyingErr)

	expected := "query: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestDescribeError(t *testing.T) {
	query := ".h | cunt"
	qerr := tqlerrors.UnknownFunction("cunt", ast.Span{Start: 5, End: 9}, []string{"count"})

	tests := []struct {
		name  string
		err   error
		query string
		want  []string
	}{
		{
			name:  "query error gets caret",
			err:   NewCommandError("query", qerr),
			query: query,
			want:  []string{"[unknown_function]", "1 | .h | cunt", "^^^^", "did you mean 'count'?"},
		},
		{
			name:  "plain error",
			err:   errors.New("open README.md: no such file"),
			query: query,
			want:  []string{"error: open README.md: no such file"},
		},
		{
			name: "query error without query",
			err:  qerr,
			want: []string{"error: unknown function"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DescribeError(tt.err, tt.query)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("DescribeError() = %q, missing %q", got, w)
				}
			}
		})
	}
}
