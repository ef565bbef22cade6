// Package interfaces documents the core abstractions used throughout the application.
//
// Controllers in internal/http declare the narrow interfaces they consume;
// concrete types live in the storage, schema, audit and task packages. The
// entrypoint wires one to the other.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: CRUD over the catalogue (internal/http/stores.go)
//   - BookCounter: Catalogue size for health checks (internal/http/stores.go)
//   - Pinger: Database connectivity (internal/http/stores.go)
//   - BookCreator: Insert-only store used by the seed command (internal/cli/seed.go)
//
// ## Validation Interfaces
//
//   - BookValidator: Payload checks against the book schema (internal/http/stores.go)
//   - PayloadValidator: Create-only subset used by seeding (internal/cli/seed.go)
//
// ## Audit Interfaces
//
//   - ChangeRecorder: Receives successful writes (internal/http/stores.go)
//   - HistoryReader: Paginated change history per ISBN (internal/http/stores.go)
//   - AuditEventCleaner: Retention purge run by the task queue (internal/tasks/cleanup_audit.go)
//
// ## Background Work Interfaces
//
//   - TaskQueue: Task status lookups (internal/http/tasks.go)
//   - CleanupTrigger: On-demand retention run (internal/http/tasks.go)
//   - Enqueuer: Queue the scheduler submits to (internal/scheduler/audit_cleanup.go)
//
// # Adding a Field to the Book Resource
//
//  1. Add the column to entities.Book and the pointer to entities.BookPatch,
//     both with a mapstructure tag matching the JSON name.
//
//  2. Describe the field in internal/schema/book.yaml:
//
//     - name: edition
//       type: integer
//       rules: "min=1"
//
//  3. Repository.Update copies every non-nil BookPatch field; nothing else changes.
//
// # Adding a Background Task
//
//  1. Define the task and its processor in internal/tasks/:
//
//     type ReindexTask struct{}
//
//     func (t ReindexTask) Config() backlite.QueueConfig { ... }
//
//     func NewReindexQueue(store Reindexer) backlite.Queue {
//         return backlite.NewQueue(ReindexProcessor(store))
//     }
//
//  2. Register the queue in entrypoint.Build next to the audit cleanup queue.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
