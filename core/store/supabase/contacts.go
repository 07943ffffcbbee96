package supabase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/voxtask/voice-core/core/store"
)

const contactsTable = "contacts"

var _ store.ContactStore = (*Client)(nil)

func (c *Client) ListContacts(ctx context.Context, query store.ContactQuery) ([]store.Contact, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("order", "first_name.asc")
	if query.RelationshipType != "" {
		params.Set("relationship_type", "eq."+string(query.RelationshipType))
	}

	var contacts []store.Contact
	if err := c.do(ctx, http.MethodGet, contactsTable, params, nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *Client) CreateContact(ctx context.Context, contact store.Contact) (*store.Contact, error) {
	var rows []store.Contact
	if err := c.do(ctx, http.MethodPost, contactsTable, nil, contact, &rows); err != nil {
		return nil, err
	}
	return firstRow(rows, "contact")
}
