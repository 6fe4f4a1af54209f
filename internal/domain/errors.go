package domain

import "errors"

var (
	// ErrValidation signals a malformed search query or request.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document or note.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrAccessDenied signals that the caller lacks permission for a resource.
	ErrAccessDenied = errors.New("access denied")
	// ErrStorageUnavailable signals that the storage engine cannot be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrRateLimited signals a rate limit hit at the embedding provider.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrUnknownSource signals a source kind outside the known set.
	ErrUnknownSource = errors.New("unknown source")
)
