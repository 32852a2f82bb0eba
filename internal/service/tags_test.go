package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "trim strip dedupe lowercase",
			raw:  "#Cats, dog , , #Cats",
			want: []string{"cats", "dog"},
		},
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only",
			raw:  "  ,  , ",
			want: []string{},
		},
		{
			name: "order preserved",
			raw:  "zebra, apple, Zebra, mango",
			want: []string{"zebra", "apple", "mango"},
		},
		{
			name: "hash only segment dropped",
			raw:  "#, ##, #ok",
			want: []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTags(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTags_CapAtTwenty(t *testing.T) {
	parts := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		parts = append(parts, fmt.Sprintf("tag%02d", i))
	}
	got := ParseTags(strings.Join(parts, ", "))

	assert.Len(t, got, 20)
	assert.Equal(t, "tag00", got[0])
	assert.Equal(t, "tag19", got[19])
}
