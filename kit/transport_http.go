package kit

import (
	"encoding/json"
	"net/http"
)

// HTTPDecoder turns a request into the value an Endpoint expects.
type HTTPDecoder func(*http.Request) (any, error)

// HTTPStatus maps an endpoint or decode error to a status code.
type HTTPStatus func(error) int

// HTTPHandler adapts an Endpoint to net/http. The response is written as
// JSON; errors are written as {"error": "..."} with the code from status
// (500 when status is nil). requestID, when set, supplies the id logged by
// the middleware chain.
func HTTPHandler(name string, endpoint Endpoint, decode HTTPDecoder, status HTTPStatus, requestID func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := WithTool(WithTransport(r.Context(), "http"), name)
		if requestID != nil {
			if id := requestID(r); id != "" {
				ctx = WithRequestID(ctx, id)
			}
		}

		fail := func(err error) {
			code := http.StatusInternalServerError
			if status != nil {
				code = status(err)
			}
			WriteJSON(w, code, map[string]string{"error": err.Error()})
		}

		req, err := decode(r.WithContext(ctx))
		if err != nil {
			fail(err)
			return
		}
		resp, err := endpoint(ctx, req)
		if err != nil {
			fail(err)
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
