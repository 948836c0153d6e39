package application

import (
	"context"

	"github.com/spongeengine/quantstrap"
	"github.com/spongeengine/quantstrap/internal/bootstrap"
)

// ClientMock provides a mock implementation of quantstrap.Client for
// command tests. Each method can be customized by setting the
// corresponding function field. If a function field is nil, the method
// returns a zero value.
type ClientMock struct {
	UpFunc      func(ctx context.Context) error
	DoctorFunc  func(ctx context.Context) []bootstrap.Check
	JournalFunc func() (*bootstrap.Journal, error)
	CleanFunc   func(ctx context.Context, repos bool) ([]string, error)
	DockerFunc  func(ctx context.Context, target, source string) error
}

// Up runs the bootstrap using the mock function or does nothing.
func (m *ClientMock) Up(ctx context.Context) error {
	if m.UpFunc != nil {
		return m.UpFunc(ctx)
	}
	return nil
}

// Doctor returns checks using the mock function or none.
func (m *ClientMock) Doctor(ctx context.Context) []bootstrap.Check {
	if m.DoctorFunc != nil {
		return m.DoctorFunc(ctx)
	}
	return nil
}

// Journal returns a journal using the mock function or nil.
func (m *ClientMock) Journal() (*bootstrap.Journal, error) {
	if m.JournalFunc != nil {
		return m.JournalFunc()
	}
	return nil, nil
}

// Clean removes installation state using the mock function or does nothing.
func (m *ClientMock) Clean(ctx context.Context, repos bool) ([]string, error) {
	if m.CleanFunc != nil {
		return m.CleanFunc(ctx, repos)
	}
	return nil, nil
}

// Docker launches a container using the mock function or does nothing.
func (m *ClientMock) Docker(ctx context.Context, target, source string) error {
	if m.DockerFunc != nil {
		return m.DockerFunc(ctx, target, source)
	}
	return nil
}

// Ensure ClientMock implements quantstrap.Client at compile time.
var _ quantstrap.Client = (*ClientMock)(nil)
