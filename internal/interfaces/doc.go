// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage
//
//   - provider.Store: the storage engine behind the facade (internal/provider/provider.go)
//   - scheduler.Optimizer: periodic housekeeping (internal/scheduler/maintenance.go)
//   - http.Pinger: health checks (internal/http/health.go)
//
// ## Background Work
//
//   - scheduler.Enqueuer: hands scheduled maintenance to the task queue (internal/scheduler/maintenance.go)
//   - tasks.Maintainer: what the optimize_store queue runs (internal/tasks/optimize_store.go)
//
// ## Facade
//
//   - services.BookProvider: query/insert/update/delete by identifier (internal/services/interfaces.go)
//   - http.ResourceKinder: list or item kind of an identifier (internal/http/books.go)
//
// ## Notification
//
//   - provider.ChangeNotifier: receives the identifier after every committed mutation
//     (internal/provider/provider.go)
//
// # Adding a New Change Listener
//
// Anything that needs to react to data changes implements ChangeNotifier and is
// handed to the provider:
//
//	type auditLog struct{ w io.Writer }
//
//	func (a *auditLog) NotifyChange(identifier string) {
//	    fmt.Fprintf(a.w, "%s changed\n", identifier)
//	}
//
//	p := provider.New(router.Default(), db, provider.WithNotifier(&auditLog{os.Stdout}))
//
// NotifyChange is called synchronously after the statement commits, so it
// must not block. notify.Hub fans out through buffered channels for that reason.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
