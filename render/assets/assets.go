// Package assets loads optional branding assets (the cover logo) for the
// renderer. A failed load never fails a render; the document simply goes
// out without the asset.
package assets

import (
	"context"
	"errors"
)

// Source supplies raw asset bytes.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// TestSource is a simple in-memory implementation for testing.
type TestSource struct {
	data []byte
	err  error
}

func NewTestSource(data []byte) *TestSource {
	return &TestSource{data: data}
}

func NewTestSourceWithError() *TestSource {
	return &TestSource{err: errors.New("not found")}
}

func (t *TestSource) Load(ctx context.Context) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.data, nil
}
