package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Response is the value returned by handlers. A nil Body writes only the
// status code; anything else is serialized as JSON.
type Response struct {
	Status int
	Body   any
	Header http.Header // optional extra headers, e.g. cookies
}

func (r Response) write(w http.ResponseWriter) {
	for key, vals := range r.Header {
		for _, val := range vals {
			w.Header().Add(key, val)
		}
	}
	if r.Body == nil {
		w.WriteHeader(r.Status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.Status)
	json.NewEncoder(w).Encode(r.Body)
}

func JSON(body any) Response { return Response{Status: http.StatusOK, Body: body} }

func JSONStatus(status int, body any) Response { return Response{Status: status, Body: body} }

func Empty() Response { return Response{Status: http.StatusNoContent} }

// Error logs the given error while returning a generic 500 to the client.
func Error(err error) Response {
	slog.Error("error while handling http request", "error", err)
	return Response{Status: http.StatusInternalServerError, Body: map[string]string{"error": "internal server error"}}
}

func ClientErrorf(format string, args ...any) Response {
	return Response{Status: http.StatusBadRequest, Body: map[string]string{"error": fmt.Sprintf(format, args...)}}
}

func NotFoundf(format string, args ...any) Response {
	return Response{Status: http.StatusNotFound, Body: map[string]string{"error": fmt.Sprintf(format, args...)}}
}

func Unauthorized(err error) Response {
	slog.Debug("unauthorized request", "error", err)
	return Response{Status: http.StatusUnauthorized, Body: map[string]string{"error": "unauthorized"}}
}
