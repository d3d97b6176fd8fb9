package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		size       int
		raw        string
		wantNumber int
		wantPages  int
		wantOffset int
	}{
		{"First page by default", 13, 10, "", 1, 2, 0},
		{"Explicit first page", 13, 10, "1", 1, 2, 0},
		{"Second page holds the remainder", 13, 10, "2", 2, 2, 10},
		{"Past the end clamps to last page", 13, 10, "99", 2, 2, 10},
		{"Zero clamps to last page", 13, 10, "0", 2, 2, 10},
		{"Negative clamps to last page", 13, 10, "-3", 2, 2, 10},
		{"Non-numeric resolves to first page", 13, 10, "abc", 1, 2, 0},
		{"Empty collection has one empty page", 0, 10, "5", 1, 1, 0},
		{"Exact multiple of page size", 20, 10, "2", 2, 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := New(tt.total, tt.size, tt.raw)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Equal(t, tt.wantPages, page.NumPages)
			assert.Equal(t, tt.wantOffset, page.Offset)
		})
	}
}

func TestNew_Navigation(t *testing.T) {
	first := New(25, 10, "1")
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)
	assert.Equal(t, 2, first.Next)

	middle := New(25, 10, "2")
	assert.True(t, middle.HasPrev)
	assert.True(t, middle.HasNext)
	assert.Equal(t, 1, middle.Prev)
	assert.Equal(t, 3, middle.Next)

	last := New(25, 10, "3")
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)
}
