// Package services implements the business logic layer of HR Pulse.
// Handlers and the CLI talk to services; services talk to the analytics
// engine in dataprocessing and never to HTTP types.
//
// # Workbook lifecycle
//
// An upload is parsed once and held in a WorkbookStore under a random ID:
//
//	store := services.NewWorkbookStore(cfg.Upload, metrics, logger)
//	store.Start(ctx)
//	defer store.Close()
//
// Entries expire after a sliding TTL; every read pushes the deadline back.
// When the store is full the least recently used workbook is dropped.
// The scoped table of a sheet is computed on first use and shared by all
// later analyses of that sheet.
//
// # Available Services
//
//	- AnalysisService: uploads, dashboard, views, missing-value audit, row
//	  paging and qualification gap reports
//	- HealthService: liveness, readiness and runtime statistics
//
// # Error Handling
//
// Services return sentinel errors (ErrWorkbookNotFound, ErrUnknownView, ...)
// or the engine's typed errors (dataprocessing.LoadError,
// dataprocessing.MissingColumnError). The transport layer maps them to
// problem responses with errors.Is and errors.As.
//
// # Testing
//
// Tests build real xlsx files in memory with excelize and swap the store's
// clock to drive expiry without sleeping.
package services
