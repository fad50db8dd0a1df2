package loader

import (
	"errors"
	"testing"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    string
		wantErr error
	}{
		{
			name:  "plain utf8",
			input: []byte("id,first_name\np1,Taro\n"),
			want:  "id,first_name\np1,Taro\n",
		},
		{
			name:  "leading bom is stripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("id\np1\n")...),
			want:  "id\np1\n",
		},
		{
			name:  "japanese text",
			input: []byte("id,family_name\np1,山田\n"),
			want:  "id,family_name\np1,山田\n",
		},
		{
			name:  "empty input",
			input: []byte{},
			want:  "",
		},
		{
			name:    "invalid utf8",
			input:   []byte{'i', 'd', 0xff, '\n'},
			wantErr: ErrInvalidEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("unexpected output:\nexpected: %q\nreceived: %q", tt.want, got)
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	file := NewCSVTableFile(NewTableFileParams{ID: "sample", FilePath: "data/example_family.csv"})
	if got := CacheKey(file); got != "sample:data/example_family.csv" {
		t.Fatalf("unexpected cache key %q", got)
	}
}
