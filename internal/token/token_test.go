package token

import (
	"bytes"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{40}$`)

func TestIssue_Format(t *testing.T) {
	tok, err := NewIssuer().Issue()
	require.NoError(t, err)
	assert.Regexp(t, hexToken, tok)
}

func TestIssue_DeterministicSource(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte{0xab}, Size))
	tok, err := NewIssuerWithSource(src).Issue()
	require.NoError(t, err)
	assert.Equal(t, "abababababababababababababababababababab", tok)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestIssue_SourceFailure(t *testing.T) {
	_, err := NewIssuerWithSource(failingReader{}).Issue()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")

	_, err = NewIssuerWithSource(bytes.NewReader([]byte{1, 2, 3})).Issue()
	assert.Error(t, err)
}

func TestIssue_Unique(t *testing.T) {
	issuer := NewIssuer()
	const n = 1000

	var mu sync.Mutex
	seen := make(map[string]struct{}, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := issuer.Issue()
			assert.NoError(t, err)
			mu.Lock()
			seen[tok] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
}

func TestVerify(t *testing.T) {
	stored := "0123456789abcdef0123456789abcdef01234567"

	tests := []struct {
		name      string
		candidate string
		stored    string
		want      bool
	}{
		{"match", stored, stored, true},
		{"last char differs", stored[:39] + "8", stored, false},
		{"first char differs", "1" + stored[1:], stored, false},
		{"prefix", stored[:20], stored, false},
		{"longer", stored + "0", stored, false},
		{"empty candidate", "", stored, false},
		{"empty stored", "", "", false},
		{"case differs", "0123456789ABCDEF0123456789abcdef01234567", stored, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.candidate, tt.stored))
		})
	}
}
