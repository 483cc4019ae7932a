package factory

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/config"
	"github.com/workroom-hq/workroom-go/internal/model"
)

func TestUnconfiguredBackendFallsBackToMemory(t *testing.T) {
	cfg := &config.Config{LoadTimeoutSeconds: 5}
	s := NewStore(cfg, zerolog.Nop())

	ctx := context.Background()
	created, err := s.Clients().Create(ctx, model.CreateClientInput{Name: "Local Dev"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Clients().Get(ctx, created.ID)
	if err != nil || got == nil || got.Name != "Local Dev" {
		t.Fatalf("Get: got=%v err=%v", got, err)
	}
}

func TestConfiguredBackendSelectsREST(t *testing.T) {
	cfg := config.NewForTesting("https://api.example.test", "key")
	s := NewStore(cfg, zerolog.Nop())
	if s == nil {
		t.Fatal("nil store")
	}
	// Writes against an unreachable host must fail rather than silently land
	// in process memory.
	if _, err := s.Clients().Create(context.Background(), model.CreateClientInput{Name: "X"}); err == nil {
		t.Fatal("expected transport error against unreachable backend")
	}
}
