// Package auth implements the request-authentication core: path
// exclusion matching, Basic-auth credential decoding, password hashing,
// session registries, and the strategies that compose them.
//
// A Strategy is selected once at startup (AUTH_TYPE) and answers two
// questions per request: does this path require authentication, and who
// is the current user. The HTTP layer translates the answers into
// 401/403 responses; the core never writes a response body itself.
//
// # Components
//
//   - RequiresAuth: pure path/exclusion matching (exact, trailing-slash
//     normalized, and "*" prefix rules)
//   - ExtractBasicToken / DecodeToken / SplitCredentials: the Basic
//     Authorization header pipeline, each step independently failable
//   - HashPassword / CheckPassword: bcrypt password storage
//   - SessionRegistry: session-id -> user-id mapping, with in-memory,
//     expiring, and SQLite-persisted implementations
//   - Strategy: NoAuth, BasicAuth, and SessionAuth over a registry
//   - Middleware: the gin gate enforcing the strategy's verdict
package auth
