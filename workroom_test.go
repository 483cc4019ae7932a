package workroom

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestOpenWithUnconfiguredBackend(t *testing.T) {
	s := OpenWith(&Config{}, zerolog.Nop())
	ctx := context.Background()

	created, err := s.Clients().Create(ctx, CreateClientInput{Name: "Alias Check"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	lst, err := s.Clients().List(ctx, ClientFilter{Search: "alias"})
	if err != nil || len(lst) != 1 || lst[0].ID != created.ID {
		t.Fatalf("List: n=%d err=%v", len(lst), err)
	}
}
