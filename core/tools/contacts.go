package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/voxtask/voice-core/core/store"
)

type getContactsArgs struct {
	RelationshipType string `json:"relationship_type,omitempty" jsonschema:"description=Filter by relationship,enum=family,enum=friend,enum=colleague,enum=other"`
	IncludeBirthdays bool   `json:"include_birthdays,omitempty" jsonschema:"description=Include birthdays in the listing"`
}

func (b *Bridge) getContacts(ctx context.Context, arguments string) string {
	var args getContactsArgs
	if err := decodeArgs(arguments, &args); err != nil {
		return fmt.Sprintf("I couldn't read the contact query: %v.", err)
	}
	if args.RelationshipType != "" && !store.Relationship(args.RelationshipType).IsValid() {
		return fmt.Sprintf("Relationship %q is not valid, use family, friend, colleague or other.", args.RelationshipType)
	}

	contacts, err := b.contacts.ListContacts(ctx, store.ContactQuery{
		RelationshipType: store.Relationship(args.RelationshipType),
	})
	if err != nil {
		return fmt.Sprintf("Fetching contacts failed: %v.", err)
	}
	if len(contacts) == 0 {
		return "No contacts found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d contact(s):\n", len(contacts))
	for _, contact := range contacts {
		line := fmt.Sprintf("- %s (%s)", contact.DisplayName(), contact.RelationshipType)
		if args.IncludeBirthdays && contact.Birthday != "" {
			line += ", birthday " + contact.Birthday
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

type createContactArgs struct {
	FirstName          string `json:"first_name" jsonschema:"description=Contact first name"`
	RelationshipType   string `json:"relationship_type" jsonschema:"description=Kind of relationship,enum=family,enum=friend,enum=colleague,enum=other"`
	LastName           string `json:"last_name,omitempty" jsonschema:"description=Contact last name"`
	Nickname           string `json:"nickname,omitempty" jsonschema:"description=What the user usually calls them"`
	RelationshipDetail string `json:"relationship_detail,omitempty" jsonschema:"description=Detail such as sister or manager"`
	Phone              string `json:"phone,omitempty" jsonschema:"description=Phone number"`
	Email              string `json:"email,omitempty" jsonschema:"description=Email address"`
	Birthday           string `json:"birthday,omitempty" jsonschema:"description=Birthday, formatted YYYY-MM-DD"`
	Notes              string `json:"notes,omitempty" jsonschema:"description=Free-form notes"`
}

func (b *Bridge) createContact(ctx context.Context, arguments string) string {
	if _, message := b.requireUser(); message != "" {
		return message
	}

	var args createContactArgs
	if err := decodeArgs(arguments, &args); err != nil {
		return fmt.Sprintf("I couldn't read the contact details: %v.", err)
	}
	if args.FirstName == "" {
		return "A contact needs at least a first name."
	}
	if args.RelationshipType == "" {
		return "Please tell me what kind of relationship this contact is: family, friend, colleague or other."
	}
	if !store.Relationship(args.RelationshipType).IsValid() {
		return fmt.Sprintf("Relationship %q is not valid, use family, friend, colleague or other.", args.RelationshipType)
	}
	if message := checkDate(args.Birthday); message != "" {
		return message
	}

	created, err := b.contacts.CreateContact(ctx, store.Contact{
		FirstName:          args.FirstName,
		LastName:           args.LastName,
		Nickname:           args.Nickname,
		RelationshipType:   store.Relationship(args.RelationshipType),
		RelationshipDetail: args.RelationshipDetail,
		Phone:              args.Phone,
		Email:              args.Email,
		Birthday:           args.Birthday,
		Notes:              args.Notes,
	})
	if err != nil {
		return fmt.Sprintf("Creating the contact failed: %v.", err)
	}

	b.cache.RefreshAsync(context.WithoutCancel(ctx))
	return fmt.Sprintf("Added %s as a %s contact.", created.DisplayName(), created.RelationshipType)
}
