package domain

import "fmt"

// SourceKind identifies one searchable record type.
type SourceKind string

const (
	SourceLeads         SourceKind = "leads"
	SourceContacts      SourceKind = "contacts"
	SourceAccounts      SourceKind = "accounts"
	SourceOpportunities SourceKind = "opportunities"
	SourceDocuments     SourceKind = "documents"
	SourceNotes         SourceKind = "notes"
	SourceConversations SourceKind = "conversations"
	SourceMessages      SourceKind = "messages"
	SourceTickets       SourceKind = "tickets"
)

// AllSources is the default source set when a query names none.
var AllSources = []SourceKind{
	SourceLeads, SourceContacts, SourceAccounts, SourceOpportunities,
	SourceDocuments, SourceNotes, SourceConversations, SourceMessages,
	SourceTickets,
}

// ParseSource validates a source kind string.
func ParseSource(s string) (SourceKind, error) {
	k := SourceKind(s)
	for _, known := range AllSources {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Resource returns the access-control resource kind for this source.
func (k SourceKind) Resource() Resource {
	// Source kinds are plural, resources singular.
	switch k {
	case SourceLeads:
		return ResourceLead
	case SourceContacts:
		return ResourceContact
	case SourceAccounts:
		return ResourceAccount
	case SourceOpportunities:
		return ResourceOpportunity
	case SourceDocuments:
		return ResourceDocument
	case SourceNotes:
		return ResourceNote
	case SourceConversations:
		return ResourceConversation
	case SourceMessages:
		return ResourceMessage
	case SourceTickets:
		return ResourceTicket
	default:
		return Resource(k)
	}
}
