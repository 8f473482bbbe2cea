package cli

import (
	"testing"

	"mdnav-hq/mdnav/pkg/tql/value"
)

func TestTreeFormatter(t *testing.T) {
	tests := []struct {
		name    string
		results []value.Value
		want    string
	}{
		{
			name: "headings nest by level",
			results: []value.Value{
				&value.Heading{Level: 1, Text: "A"},
				&value.Heading{Level: 2, Text: "B"},
				&value.Heading{Level: 3, Text: "C"},
				&value.Heading{Level: 2, Text: "D"},
				&value.Code{Lang: "go", StartLine: 1, EndLine: 3},
			},
			want: "h1 A\n" +
				"├── h2 B\n" +
				"│   └── h3 C\n" +
				"└── h2 D\n" +
				"code go (lines 1-3)\n",
		},
		{
			name: "object expands",
			results: []value.Value{
				value.NewObject().
					Set("title", value.String("A")).
					Set("subs", value.Array{value.String("x"), value.String("y")}),
			},
			want: "{}\n" +
				"├── title: \"A\"\n" +
				"└── subs: [2]\n" +
				"    ├── 0: \"x\"\n" +
				"    └── 1: \"y\"\n",
		},
		{
			name: "leaves",
			results: []value.Value{
				&value.Link{Text: "Go", URL: "https://go.dev", LinkType: "external"},
				&value.List{Ordered: true, Items: []value.ListItem{{Text: "a"}}},
				&value.Table{Headers: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}},
				value.Number(7),
			},
			want: "link Go -> https://go.dev [external]\n" +
				"ordered list 1 item\n" +
				"table 2 cols x 1 rows\n" +
				"7\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := (&TreeFormatter{}).Format(tt.results)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Format() =\n%s\nwant\n%s", out, tt.want)
			}
		})
	}
}
