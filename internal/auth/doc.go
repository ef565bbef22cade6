// Package auth protects the HTTP API.
//
// Write requests (POST, PUT, DELETE) can be guarded by a single API key. Only
// a bcrypt hash of the key is configured:
//
//	books-api hash-key my-secret-key     # prints the hash
//	AUTH_API_KEY_HASH='$2a$10$...'       # enables the check
//
// Clients then send:
//
//	Authorization: Bearer my-secret-key
//
// Read requests are always public. The package also provides per-client rate
// limiting and security response headers.
package auth
