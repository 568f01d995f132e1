package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/angkasa-id/angkasa/internal/auth"
)

type stubProvider struct {
	name string
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Authenticate(ctx context.Context, email, password string) (auth.Principal, error) {
	return auth.Principal{}, nil
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry(stubProvider{name: "password"})

	p, err := r.Lookup("password")
	if err != nil {
		t.Fatalf("Lookup(password) error = %v", err)
	}
	if p.Name() != "password" {
		t.Fatalf("Name() = %q, want %q", p.Name(), "password")
	}

	_, err = r.Lookup("google")
	if !errors.Is(err, auth.ErrProviderNotAvailable) {
		t.Fatalf("Lookup(google) error = %v, want ErrProviderNotAvailable", err)
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(stubProvider{name: "password"})
	r.Register(nil)

	if _, err := r.Lookup("password"); err != nil {
		t.Fatalf("Lookup(password) error = %v", err)
	}
}
