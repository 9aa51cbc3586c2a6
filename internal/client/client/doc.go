// Package client is the finctl side of the GophLedger HTTP API.
//
// # Overview
//
// APIClient talks JSON to the /api/v1 endpoints. It attaches the bearer
// token given with WithToken and decodes the server's error body
// ({"error": ..., "detail": ...}) into *APIError.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable when the server cannot be reached and
// ErrUnauthorized for a 401 answer. Other non-2xx answers are returned as
// *APIError.
package client
