package connect

import (
	"encoding/json"
	"net/http"

	"example.com/opconnect/onepassword"
)

// normalizeError shapes a non-2xx response into the uniform error. A
// body that already carries {status, message} passes through verbatim;
// anything else falls back to the response's status code and status
// line. Invoked on every failing call so callers never see a second
// error shape.
func normalizeError(resp *http.Response) *onepassword.Error {
	apiErr := &onepassword.Error{StatusCode: resp.StatusCode, Message: resp.Status}
	var payload onepassword.Error
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.StatusCode != 0 {
			apiErr.StatusCode = payload.StatusCode
		}
		if payload.Message != "" {
			apiErr.Message = payload.Message
		}
	}
	return apiErr
}
