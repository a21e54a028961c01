package utterance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       []string
	}{
		{
			name:       "mixed punctuation",
			transcript: "buy milk, call mom.; pick up dry cleaning",
			want:       []string{"buy milk", "call mom", "pick up dry cleaning"},
		},
		{
			name:       "empty",
			transcript: "",
			want:       []string{},
		},
		{
			name:       "single characters dropped",
			transcript: "a, b",
			want:       []string{},
		},
		{
			name:       "newlines act as commas",
			transcript: "water plants\nfeed the cat",
			want:       []string{"water plants", "feed the cat"},
		},
		{
			name:       "dashes and periods trimmed",
			transcript: "- book flights. , --renew passport--",
			want:       []string{"book flights", "renew passport"},
		},
		{
			name:       "inner punctuation kept",
			transcript: "e-mail Bob. Then call Ann",
			want:       []string{"e-mail Bob. Then call Ann"},
		},
		{
			name:       "semicolons act as commas",
			transcript: "laundry; dishes;vacuum",
			want:       []string{"laundry", "dishes", "vacuum"},
		},
		{
			name:       "duplicates kept in order",
			transcript: "gym, laundry, gym",
			want:       []string{"gym", "laundry", "gym"},
		},
		{
			name:       "only separators",
			transcript: " , ; . - ,\n,",
			want:       []string{},
		},
		{
			name:       "two characters survive",
			transcript: "go, x",
			want:       []string{"go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.transcript))
		})
	}
}

func TestSplit_Invariants(t *testing.T) {
	inputs := []string{
		"buy milk, call mom.; pick up dry cleaning",
		"one\ntwo\n\nthree,,,four",
		"  ;;; ..--,a,bb,ccc\n",
		"Okay so first thing, um, email the landlord. And then, taxes",
	}
	for _, in := range inputs {
		for _, item := range Split(in) {
			assert.Greater(t, len([]rune(item)), 1, "item %q from %q", item, in)
			assert.NotContains(t, item, ",")
			assert.NotContains(t, item, "\n")
			assert.NotContains(t, item, ";")
			assert.Equal(t, strings.Trim(item, " .;-"), item)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	in := "laundry, dishes\nvacuum"
	assert.Equal(t, Split(in), Split(in))
}
