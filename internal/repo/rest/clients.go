package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/postgrest"
)

const (
	clientsTable  = "clients"
	contactsTable = "client_contacts"
	clientSelect  = "*,client_contacts(*),documents(*)"
	clientOrder   = "updated_at.desc"
)

type clients struct{ s *restStore }

type clientRow struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Notes          *string        `json:"notes"`
	TotalPrice     numeric        `json:"total_price"`
	RemainingToPay numeric        `json:"remaining_to_pay"`
	AuthUserID     *string        `json:"auth_user_id"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
	Contacts       []*contactRow  `json:"client_contacts"`
	Documents      []*documentRow `json:"documents"`
}

type contactRow struct {
	ID        string  `json:"id"`
	ClientID  string  `json:"client_id"`
	Name      string  `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func (r *clientRow) toDomain() model.Client {
	c := model.Client{
		ID:             r.ID,
		Name:           r.Name,
		Notes:          r.Notes,
		TotalPrice:     r.TotalPrice.ptr(),
		RemainingToPay: r.RemainingToPay.ptr(),
		AuthUserID:     r.AuthUserID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	for _, cr := range r.Contacts {
		if cr == nil {
			continue
		}
		c.Contacts = append(c.Contacts, cr.toDomain())
	}
	for _, dr := range r.Documents {
		if dr == nil {
			continue
		}
		c.Documents = append(c.Documents, dr.toDomain())
	}
	return c
}

func (r *contactRow) toDomain() model.Contact {
	return model.Contact{
		ID:        r.ID,
		ClientID:  r.ClientID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func clientInsertBody(in model.CreateClientInput) map[string]any {
	body := map[string]any{"name": in.Name}
	putPtr(body, "notes", in.Notes)
	putPtr(body, "total_price", in.TotalPrice)
	putPtr(body, "remaining_to_pay", in.RemainingToPay)
	return body
}

func clientPatchBody(p model.ClientPatch) map[string]any {
	body := map[string]any{}
	putOpt(body, "name", p.Name)
	putOpt(body, "notes", p.Notes)
	putOpt(body, "total_price", p.TotalPrice)
	putOpt(body, "remaining_to_pay", p.RemainingToPay)
	return body
}

// contactInsertRows filters out entries with an empty name and keys the rest
// to the parent id.
func contactInsertRows(clientID string, ins []model.ContactInput) []map[string]any {
	rows := make([]map[string]any, 0, len(ins))
	for _, in := range ins {
		if in.Name == "" {
			continue
		}
		row := map[string]any{"client_id": clientID, "name": in.Name}
		putPtr(row, "email", in.Email)
		putPtr(row, "phone", in.Phone)
		rows = append(rows, row)
	}
	return rows
}

func (c *clients) List(ctx context.Context, f model.ClientFilter) ([]model.Client, error) {
	params := postgrest.Params{}.Select(clientSelect).Order(clientOrder)
	if f.Search != "" {
		params.OrILike(f.Search, "name", "notes")
	}
	var rows []clientRow
	if err := c.s.getRows(ctx, clientsTable, params, &rows); err != nil {
		return nil, err
	}
	out := make([]model.Client, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (c *clients) Get(ctx context.Context, id string) (*model.Client, error) {
	params := postgrest.Params{}.Select(clientSelect).Eq("id", id).Limit(1)
	var rows []clientRow
	if err := c.s.getRows(ctx, clientsTable, params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (c *clients) Create(ctx context.Context, in model.CreateClientInput) (*model.Client, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", model.ErrValidation)
	}
	var rows []clientRow
	if err := c.s.insert(ctx, clientsTable, clientInsertBody(in), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrEmptyCreateResult
	}
	parent := rows[0]

	// Child insert and re-fetch are separate round trips; a failure here
	// leaves the parent row persisted without its contacts.
	if crs := contactInsertRows(parent.ID, in.Contacts); len(crs) > 0 {
		if err := c.s.insert(ctx, contactsTable, crs, nil); err != nil {
			return nil, err
		}
	}
	full, err := c.Get(ctx, parent.ID)
	if err != nil {
		return nil, err
	}
	if full == nil {
		out := parent.toDomain()
		return &out, nil
	}
	return full, nil
}

func (c *clients) CreateWithAuthUser(ctx context.Context, in model.CreateClientInput, auth model.AuthUserInput) (*model.Client, error) {
	created, err := c.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	authID, err := c.s.createAuthUser(ctx, auth)
	if err != nil {
		// Compensate: the client row is ours to clean up. Best effort only;
		// the provisioning error is what the caller needs to see.
		if derr := c.Delete(ctx, created.ID); derr != nil {
			c.s.log.Warn().Err(derr).Str("client_id", created.ID).
				Msg("rollback of client after failed auth provisioning also failed")
		}
		return nil, err
	}

	// Link the identity to the client. Deliberately NOT rolled back on
	// failure: destroying a real login identity is worse than leaving it
	// temporarily unlinked.
	link := postgrest.Params{}.Eq("id", created.ID)
	if err := c.s.patchRows(ctx, clientsTable, link, map[string]any{"auth_user_id": authID}); err != nil {
		c.s.log.Warn().Err(err).Str("client_id", created.ID).Str("auth_user_id", authID).
			Msg("auth user created but linking to client failed; keeping both")
		return created, nil
	}

	full, err := c.Get(ctx, created.ID)
	if err != nil || full == nil {
		created.AuthUserID = &authID
		return created, nil
	}
	return full, nil
}

func (c *clients) Update(ctx context.Context, id string, p model.ClientPatch) (*model.Client, error) {
	if body := clientPatchBody(p); len(body) > 0 {
		if err := c.s.patchRows(ctx, clientsTable, postgrest.Params{}.Eq("id", id), body); err != nil {
			return nil, err
		}
	}

	// Contacts are replaced wholesale: delete the prior set, reinsert the
	// provided one. No partial contact patch exists.
	if p.Contacts.Present() {
		if err := c.s.deleteRows(ctx, contactsTable, postgrest.Params{}.Eq("client_id", id)); err != nil {
			return nil, err
		}
		ins, _ := p.Contacts.Get()
		if crs := contactInsertRows(id, ins); len(crs) > 0 {
			if err := c.s.insert(ctx, contactsTable, crs, nil); err != nil {
				return nil, err
			}
		}
	}

	full, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, notFoundErr("client", id)
	}
	return full, nil
}

func (c *clients) Delete(ctx context.Context, id string) error {
	return c.s.deleteRows(ctx, clientsTable, postgrest.Params{}.Eq("id", id))
}

func (c *clients) AddDocument(ctx context.Context, clientID string, in model.CreateDocumentInput, content []byte) (*model.AppDocument, error) {
	in.ClientID = &clientID
	return (&documents{c.s}).Upload(ctx, in, content)
}

func (c *clients) RemoveDocument(ctx context.Context, clientID, documentID string) error {
	doc, err := (&documents{c.s}).Get(ctx, documentID)
	if err != nil {
		return err
	}
	params := postgrest.Params{}.Eq("id", documentID).Eq("client_id", clientID)
	if err := c.s.deleteRows(ctx, documentsTable, params); err != nil {
		return err
	}
	if doc != nil && doc.StoragePath != "" {
		if err := c.s.objects.Remove(ctx, doc.StoragePath); err != nil {
			c.s.log.Warn().Err(err).Str("path", doc.StoragePath).Msg("stored object removal failed; row already deleted")
		}
	}
	return nil
}

// createAuthUser provisions a login identity via the auth admin endpoint and
// returns its id.
func (s *restStore) createAuthUser(ctx context.Context, auth model.AuthUserInput) (string, error) {
	body := map[string]any{
		"email":         auth.Email,
		"password":      auth.Password,
		"email_confirm": true,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := s.doPath(ctx, http.MethodPost, "/auth/v1/admin/users", nil, body, &out, nil); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("auth user provisioning returned no id")
	}
	return out.ID, nil
}
