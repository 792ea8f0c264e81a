package middleware

import (
	"net/http"

	"github.com/go-chi/render"

	apierrors "hrpulse/internal/errors"
)

// ProblemFromStatus creates a problem for middleware-level failures that
// never reach a handler.
func ProblemFromStatus(status int, detail string, traceID string) *apierrors.ProblemDetails {
	var title, problemType string

	switch status {
	case http.StatusBadRequest:
		title = "Bad Request"
		problemType = apierrors.TypeValidation
	case http.StatusNotFound:
		title = "Not Found"
		problemType = apierrors.TypeNotFound
	case http.StatusMethodNotAllowed:
		title = "Method Not Allowed"
		problemType = apierrors.TypeMethodNotAllowed
	case http.StatusRequestEntityTooLarge:
		title = "Payload Too Large"
		problemType = apierrors.TypePayloadTooLarge
	case http.StatusUnsupportedMediaType:
		title = "Unsupported Media Type"
		problemType = apierrors.TypeUnsupportedFileType
	case http.StatusTooManyRequests:
		title = "Too Many Requests"
		problemType = apierrors.TypeRateLimit
	case http.StatusServiceUnavailable:
		title = "Service Unavailable"
		problemType = apierrors.TypeServiceDown
	case http.StatusGatewayTimeout:
		title = "Request Timeout"
		problemType = apierrors.TypeTimeout
	case http.StatusInternalServerError:
		title = "Internal Server Error"
		problemType = apierrors.TypeInternal
	default:
		title = http.StatusText(status)
		problemType = "/errors/unknown"
	}

	problem := apierrors.NewProblemDetails(status, problemType, title, detail, "")
	if traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	return problem
}

func writeProblem(w http.ResponseWriter, r *http.Request, problem *apierrors.ProblemDetails) {
	problem.Instance = r.URL.Path
	render.Render(w, r, problem)
}
