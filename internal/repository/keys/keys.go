// Package keys centralizes storage key layout and hash field names so the
// repositories and the index bootstrap agree on one schema.
package keys

import "github.com/caseflow/searchd/internal/domain"

// Prefix namespaces every key written by this service.
const Prefix = "searchd:"

// Record keys: searchd:rec:{source}:{tenant}:{id}. The per-source key prefix
// is what each FT record index is declared on.
func Record(source domain.SourceKind, tenantID, id string) string {
	return RecordPrefix(source) + tenantID + ":" + id
}

// RecordPrefix returns the FT index key prefix for one source.
func RecordPrefix(source domain.SourceKind) string {
	return Prefix + "rec:" + string(source) + ":"
}

// RecordIndex returns the FT index name for one source.
func RecordIndex(source domain.SourceKind) string {
	return Prefix + "idx:rec:" + string(source)
}

// Document keys: searchd:doc:{tenant}:{id}.
func Document(tenantID, id string) string {
	return DocumentPrefix + tenantID + ":" + id
}

// DocumentPrefix is the FT index key prefix for documents.
const DocumentPrefix = Prefix + "doc:"

// DocumentIndex is the FT index name for documents.
const DocumentIndex = Prefix + "idx:doc"

// RBAC keys.
func UserRoles(tenantID, userID string) string {
	return Prefix + "rbac:" + tenantID + ":user:" + userID + ":roles"
}

func UserGrants(tenantID, userID string) string {
	return Prefix + "rbac:" + tenantID + ":user:" + userID + ":grants"
}

func RolePermissions(tenantID, role string) string {
	return Prefix + "rbac:" + tenantID + ":role:" + role
}

// AuditStream is the per-tenant audit trail stream.
func AuditStream(tenantID string) string {
	return Prefix + "audit:" + tenantID
}

// Hash field names shared by record and document hashes.
const (
	FieldID             = "id"
	FieldTenant         = "tenant"
	FieldOwner          = "owner"
	FieldTitle          = "title"
	FieldContent        = "content"
	FieldStatus         = "status"
	FieldTags           = "tags"
	FieldMetadata       = "metadata"
	FieldCreatedAt      = "created_at"
	FieldUpdatedAt      = "updated_at"
	FieldCase           = "case"
	FieldCreator        = "creator"
	FieldDescription    = "description"
	FieldText           = "text"
	FieldDocType        = "doc_type"
	FieldClassification = "classification"
	FieldACL            = "acl"
	FieldLatest         = "latest"
	FieldDeleted        = "deleted"
	FieldEmbedded       = "embedded"
	FieldVector         = "vector"
	FieldEmbeddingModel = "embedding_model"
)

// TagSeparator joins multi-valued tag fields inside one hash field.
const TagSeparator = ","
