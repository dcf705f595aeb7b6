// Package sqlite provides a SQLite-based implementation of the chatbot
// registry and answer analytics stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Both stores share a single
// database connection:
//
//   - ChatbotStore: chatbot registry persistence
//   - AnswerStore: question/answer records
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.botly/data/botly.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
