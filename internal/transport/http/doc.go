// Package http implements the HTTP handlers of the HR Pulse API. Handlers are
// a thin layer: they decode path and query parameters, call a service, and
// render JSON or CSV. All analytics live in the services and dataprocessing
// packages.
//
// # Routes
//
//	POST   /api/workbooks                                  upload (multipart field "file")
//	GET    /api/workbooks/{id}                             workbook info and sheet list
//	DELETE /api/workbooks/{id}
//	GET    /api/workbooks/{id}/sheets/{sheet}/dashboard
//	GET    /api/workbooks/{id}/sheets/{sheet}/views/{view}
//	GET    /api/workbooks/{id}/sheets/{sheet}/missing?column=
//	GET    /api/workbooks/{id}/sheets/{sheet}/rows?offset=&limit=
//	GET    /api/workbooks/{id}/sheets/{sheet}/gaps/{cohort}
//	GET    /api/workbooks/{id}/sheets/{sheet}/gaps/{cohort}/export?filename=
//
// Health, version and Prometheus routes are served by HealthHandler and
// MetricsHandler.
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/view/unavailable",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "View nationality is not available for this sheet",
//	    "instance": "/api/workbooks/.../views/nationality",
//	    "trace_id": "..."
//	}
//
// Service sentinel errors are translated in WorkbookHandler.handleError;
// engine errors (LoadError, MissingColumnError, MaxBytesError) are mapped by
// errors.ErrorHandler.
//
// # Testing
//
// Handlers are tested with httptest against the real services and workbooks
// built in memory with excelize.
package http
