package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupElement(t *testing.T) {
	tests := []struct {
		name    string
		want    ElementKind
		ok      bool
		wantErr bool
	}{
		{"h", ElementKind{Type: ElementHeading}, true, false},
		{"h3", ElementKind{Type: ElementHeading, Level: 3}, true, false},
		{"h7", ElementKind{}, true, true},
		{"h0", ElementKind{}, true, true},
		{"links", ElementKind{Type: ElementLink}, true, false},
		{"img", ElementKind{Type: ElementImage}, true, false},
		{"fm", ElementKind{Type: ElementFrontMatter}, true, false},
		{"hello", ElementKind{}, false, false},
		{"text", ElementKind{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := LookupElement(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestElementKindString(t *testing.T) {
	assert.Equal(t, "h", ElementKind{Type: ElementHeading}.String())
	assert.Equal(t, "h2", ElementKind{Type: ElementHeading, Level: 2}.String())
	assert.Equal(t, "img", ElementKind{Type: ElementImage}.String())
	assert.Equal(t, "para", ElementKind{Type: ElementParagraph}.String())
	assert.Equal(t, "code", ElementKind{Type: ElementCode}.String())
}

func intPtr(i int) *int { return &i }

func TestSliceResolve(t *testing.T) {
	tests := []struct {
		name   string
		slice  SliceIndex
		n      int
		lo, hi int
	}{
		{"full", SliceIndex{}, 5, 0, 5},
		{"head", SliceIndex{End: intPtr(2)}, 5, 0, 2},
		{"negative start", SliceIndex{Start: intPtr(-2)}, 5, 3, 5},
		{"negative end", SliceIndex{Start: intPtr(1), End: intPtr(-1)}, 5, 1, 4},
		{"clamped", SliceIndex{Start: intPtr(-10), End: intPtr(10)}, 5, 0, 5},
		{"inverted", SliceIndex{Start: intPtr(4), End: intPtr(2)}, 5, 4, 4},
		{"empty input", SliceIndex{Start: intPtr(1)}, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tt.slice.Resolve(tt.n)
			assert.Equal(t, tt.lo, lo, "lo")
			assert.Equal(t, tt.hi, hi, "hi")
		})
	}

	assert.Equal(t, "[1:]", (&SliceIndex{Start: intPtr(1)}).String())
	assert.Equal(t, "[:-1]", (&SliceIndex{End: intPtr(-1)}).String())
}

func TestSingleResolve(t *testing.T) {
	pos, ok := (&SingleIndex{Index: -1}).Resolve(3)
	assert.True(t, ok)
	assert.Equal(t, 2, pos)

	_, ok = (&SingleIndex{Index: 3}).Resolve(3)
	assert.False(t, ok)

	_, ok = (&SingleIndex{Index: -4}).Resolve(3)
	assert.False(t, ok)
}

func TestSpan(t *testing.T) {
	assert.False(t, NoSpan.IsValid())
	assert.Equal(t, "<unknown>", NoSpan.String())
	assert.Equal(t, "2..5", Span{Start: 2, End: 5}.String())

	assert.Equal(t, Span{Start: 1, End: 9}, Span{Start: 4, End: 9}.Join(Span{Start: 1, End: 3}))
	assert.Equal(t, Span{Start: 1, End: 3}, NoSpan.Join(Span{Start: 1, End: 3}))

	line, col := Span{Start: 6, End: 7}.LineColumn(".h1 |\n.h2")
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)
}
