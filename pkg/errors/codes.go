// Package errors provides centralized error code definitions for the
// layered contract analyzer. All error codes are grouped by domain and
// mapped to HTTP status codes for the CLI's JSON error output.
package errors

import "net/http"

// ErrorCode represents a typed error code used throughout the analyzer
// and its collaborators. Codes are partitioned by domain to avoid
// conflicts and simplify maintenance.
type ErrorCode int

// ─────────────────────────────────────────────────────────────────────────────
// General / cross-cutting error codes  (1xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeOK indicates no error.
	CodeOK ErrorCode = 0

	// CodeUnknown is a catch-all for errors that have not been categorised.
	CodeUnknown ErrorCode = 10000

	// CodeInvalidParam is returned when a caller-supplied parameter fails
	// validation (missing required fields, type mismatch, out-of-range values, etc.).
	CodeInvalidParam ErrorCode = 10001

	// CodeNotFound is returned when a requested resource does not exist.
	CodeNotFound ErrorCode = 10004

	// CodeConflict is returned when an operation violates a uniqueness or
	// state constraint.
	CodeConflict ErrorCode = 10005

	// CodeInternal is returned for unexpected failures not attributable to
	// the caller.
	CodeInternal ErrorCode = 10007

	// CodeNotImplemented is returned when a requested feature is not yet
	// implemented.
	CodeNotImplemented ErrorCode = 10008
)

// ─────────────────────────────────────────────────────────────────────────────
// Substrate error codes (2xxxx) — spec.md §7 core taxonomy
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeInvalidSpan is returned when a Span's offsets fall outside the
	// bounds of the line(s) it claims to cover, or end precedes start.
	// This is the one fatal core error: it indicates a resolver broke the
	// substrate contract and the document must not be analyzed further.
	CodeInvalidSpan ErrorCode = 20001

	// CodeEmptyInput is returned when the document being analyzed has no
	// lines, or a line resolvers expect content on is blank. Non-fatal:
	// the pipeline produces an empty attribute store rather than failing.
	CodeEmptyInput ErrorCode = 20002

	// CodeUnresolvedReference marks a pronoun, section, or term reference
	// that could not be linked to an antecedent. Never fatal; the
	// resolver emits an Implicit value with LowConfidence review kind
	// instead of returning this as a hard error.
	CodeUnresolvedReference ErrorCode = 20003

	// CodeConflictUnresolved marks a detected conflict whose precedence
	// could not be settled (tie in section hierarchy, no notwithstanding/
	// subject-to clause). Not a failure condition; it is recorded as an
	// attribute with Resolution == Unresolved.
	CodeConflictUnresolved ErrorCode = 20004
)

// ─────────────────────────────────────────────────────────────────────────────
// Collaborator error codes (3xxxx) — spec-runner style taxonomy
// (original_source/layered-nlp-specs/src/errors.rs), used by the CLI and
// the batch collaborators outside the core.
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeParseFailure is returned when a collaborator (CLI, spec runner)
	// fails to parse an input document or a configuration fixture.
	CodeParseFailure ErrorCode = 30001

	// CodeLoadFailure is returned when a collaborator cannot load a file,
	// directory, or remote resource it was asked to process.
	CodeLoadFailure ErrorCode = 30002

	// CodeAssertionFailure is returned when a collaborator's expectation
	// about pipeline output does not hold (used by test fixtures and the
	// CLI's --verify mode).
	CodeAssertionFailure ErrorCode = 30003
)

// ─────────────────────────────────────────────────────────────────────────────
// Infrastructure error codes  (7xxxx)
// ─────────────────────────────────────────────────────────────────────────────
const (
	// CodeDBConnectionError is returned when the application cannot
	// establish or re-use a connection to PostgreSQL or Neo4j.
	CodeDBConnectionError ErrorCode = 70001

	// CodeCacheError is returned when a Redis operation fails.
	CodeCacheError ErrorCode = 70002

	// CodeSearchError is returned when an OpenSearch or Milvus query or
	// indexing operation fails.
	CodeSearchError ErrorCode = 70003

	// CodeMessageQueueError is returned when producing to or consuming
	// from a Kafka topic fails.
	CodeMessageQueueError ErrorCode = 70004

	// CodeStorageError is returned when a MinIO object storage operation
	// fails.
	CodeStorageError ErrorCode = 70005

	// CodeDatabaseError is a general error for database-related failures
	// that are not specifically connection issues.
	CodeDatabaseError ErrorCode = 70006

	// CodeDBQueryError is returned when a database query fails due to
	// syntax errors, constraint violations, or other execution failures.
	CodeDBQueryError ErrorCode = 70007
)

// ─────────────────────────────────────────────────────────────────────────────
// String — human-readable name of the error code
// ─────────────────────────────────────────────────────────────────────────────

// String returns the human-readable name associated with an ErrorCode.
// It is safe to call on any value, including unknown codes.
func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeUnknown:
		return "UNKNOWN"
	case CodeInvalidParam:
		return "INVALID_PARAM"
	case CodeNotFound:
		return "NOT_FOUND"
	case CodeConflict:
		return "CONFLICT"
	case CodeInternal:
		return "INTERNAL_ERROR"
	case CodeNotImplemented:
		return "NOT_IMPLEMENTED"

	case CodeInvalidSpan:
		return "INVALID_SPAN"
	case CodeEmptyInput:
		return "EMPTY_INPUT"
	case CodeUnresolvedReference:
		return "UNRESOLVED_REFERENCE"
	case CodeConflictUnresolved:
		return "CONFLICT_UNRESOLVED"

	case CodeParseFailure:
		return "PARSE_FAILURE"
	case CodeLoadFailure:
		return "LOAD_FAILURE"
	case CodeAssertionFailure:
		return "ASSERTION_FAILURE"

	case CodeDBConnectionError:
		return "DB_CONNECTION_ERROR"
	case CodeCacheError:
		return "CACHE_ERROR"
	case CodeSearchError:
		return "SEARCH_ERROR"
	case CodeMessageQueueError:
		return "MESSAGE_QUEUE_ERROR"
	case CodeStorageError:
		return "STORAGE_ERROR"
	case CodeDatabaseError:
		return "DATABASE_ERROR"
	case CodeDBQueryError:
		return "DB_QUERY_ERROR"

	default:
		return "UNKNOWN_CODE"
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// HTTPStatus — mapping from domain error codes to HTTP status codes
// ─────────────────────────────────────────────────────────────────────────────

// HTTPStatus returns the most appropriate HTTP status code for the given
// ErrorCode, used when the CLI's --json error output embeds a status for
// tooling that expects one.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK

	case CodeInvalidParam, CodeInvalidSpan, CodeEmptyInput, CodeParseFailure:
		return http.StatusBadRequest

	case CodeNotFound:
		return http.StatusNotFound

	case CodeConflict, CodeConflictUnresolved:
		return http.StatusConflict

	case CodeNotImplemented:
		return http.StatusNotImplemented

	case CodeDBConnectionError, CodeMessageQueueError, CodeStorageError:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
