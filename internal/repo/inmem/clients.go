package inmem

import (
	"context"
	"fmt"

	"github.com/workroom-hq/workroom-go/internal/model"
)

type clients struct{ s *memStore }

// snapshot returns a detached copy with derived children attached, the same
// shape a REST read with full embeds produces. Caller must hold the lock.
func (c *clients) snapshot(idx int) model.Client {
	out := c.s.clients[idx]
	out.Contacts = append([]model.Contact(nil), c.s.clients[idx].Contacts...)
	out.Documents = nil
	for i := range c.s.documents {
		d := c.s.documents[i]
		if d.ClientID != nil && *d.ClientID == out.ID {
			out.Documents = append(out.Documents, d)
		}
	}
	return out
}

func (c *clients) List(ctx context.Context, f model.ClientFilter) ([]model.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	out := make([]model.Client, 0, len(c.s.clients))
	for i := range c.s.clients {
		cl := c.s.clients[i]
		if f.Search != "" && !containsFold(cl.Name, f.Search) && !containsFold(derefOr(cl.Notes, ""), f.Search) {
			continue
		}
		out = append(out, c.snapshot(i))
	}
	sortNewestFirst(out, func(cl model.Client) string { return cl.UpdatedAt })
	return out, nil
}

func (c *clients) Get(ctx context.Context, id string) (*model.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for i := range c.s.clients {
		if c.s.clients[i].ID == id {
			out := c.snapshot(i)
			return &out, nil
		}
	}
	return nil, nil
}

func buildContacts(clientID string, ins []model.ContactInput, ts string) []model.Contact {
	out := make([]model.Contact, 0, len(ins))
	for _, in := range ins {
		if in.Name == "" {
			continue
		}
		out = append(out, model.Contact{
			ID:        newID(),
			ClientID:  clientID,
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			CreatedAt: ts,
			UpdatedAt: ts,
		})
	}
	return out
}

func (c *clients) Create(ctx context.Context, in model.CreateClientInput) (*model.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", model.ErrValidation)
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	ts := nowISO()
	cl := model.Client{
		ID:             newID(),
		Name:           in.Name,
		Notes:          in.Notes,
		TotalPrice:     in.TotalPrice,
		RemainingToPay: in.RemainingToPay,
		Contacts:       buildContacts("", in.Contacts, ts),
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	for i := range cl.Contacts {
		cl.Contacts[i].ClientID = cl.ID
	}
	c.s.clients = append(c.s.clients, cl)
	out := cl
	out.Contacts = append([]model.Contact(nil), cl.Contacts...)
	return &out, nil
}

func (c *clients) CreateWithAuthUser(ctx context.Context, in model.CreateClientInput, auth model.AuthUserInput) (*model.Client, error) {
	created, err := c.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	authID, err := c.s.provision(ctx, auth)
	if err != nil {
		// Same compensation policy as the REST driver: drop the client row,
		// surface the provisioning error.
		if derr := c.Delete(ctx, created.ID); derr != nil {
			c.s.log.Warn().Err(derr).Str("client_id", created.ID).
				Msg("rollback of client after failed auth provisioning also failed")
		}
		return nil, err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for i := range c.s.clients {
		if c.s.clients[i].ID == created.ID {
			c.s.clients[i].AuthUserID = &authID
			out := c.snapshot(i)
			return &out, nil
		}
	}
	created.AuthUserID = &authID
	return created, nil
}

func (c *clients) Update(ctx context.Context, id string, p model.ClientPatch) (*model.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for i := range c.s.clients {
		if c.s.clients[i].ID != id {
			continue
		}
		cl := &c.s.clients[i]
		if v, ok := p.Name.Get(); ok {
			cl.Name = v
		}
		applyOpt(&cl.Notes, p.Notes)
		applyOpt(&cl.TotalPrice, p.TotalPrice)
		applyOpt(&cl.RemainingToPay, p.RemainingToPay)
		if p.Contacts.Present() {
			ins, _ := p.Contacts.Get()
			cl.Contacts = buildContacts(id, ins, nowISO())
		}
		// The REST driver skips the parent PATCH when no client column is
		// in the patch, so a contacts-only update must not move updated_at
		// here either.
		if p.Name.Present() || p.Notes.Present() || p.TotalPrice.Present() || p.RemainingToPay.Present() {
			cl.UpdatedAt = nowISO()
		}
		out := c.snapshot(i)
		return &out, nil
	}
	return nil, notFound("client", id)
}

func (c *clients) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for i := range c.s.clients {
		if c.s.clients[i].ID == id {
			c.s.clients = append(c.s.clients[:i], c.s.clients[i+1:]...)
			return nil
		}
	}
	return notFound("client", id)
}

func (c *clients) AddDocument(ctx context.Context, clientID string, in model.CreateDocumentInput, content []byte) (*model.AppDocument, error) {
	in.ClientID = &clientID
	return (&documents{c.s}).Upload(ctx, in, content)
}

func (c *clients) RemoveDocument(ctx context.Context, clientID, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for i := range c.s.documents {
		d := c.s.documents[i]
		if d.ID == documentID && d.ClientID != nil && *d.ClientID == clientID {
			c.s.documents = append(c.s.documents[:i], c.s.documents[i+1:]...)
			return nil
		}
	}
	return notFound("document", documentID)
}
