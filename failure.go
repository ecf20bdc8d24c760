package testbed

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MissingMessage is the body used when /fail is called without a msg parameter.
const MissingMessage = "None"

// ParseFailureRequest reads the "error" and "msg" query parameters.
//
// "error" must be an integer final status code in the range 200-599. Anything
// else, including a missing parameter, yields ErrInvalidFailureRequest and the
// caller is expected to fall back to a plain 500.
func ParseFailureRequest(q url.Values) (FailureRequest, error) {
	raw, ok := q["error"]
	if !ok || len(raw) == 0 {
		return FailureRequest{}, fmt.Errorf("missing error parameter: %w", ErrInvalidFailureRequest)
	}

	status, err := strconv.Atoi(strings.TrimSpace(raw[0]))
	if err != nil {
		return FailureRequest{}, fmt.Errorf("parse error parameter %q: %w", raw[0], ErrInvalidFailureRequest)
	}

	// 1xx cannot be sent as a final response by net/http.
	if status < 200 || status > 599 {
		return FailureRequest{}, fmt.Errorf("status %d out of range: %w", status, ErrInvalidFailureRequest)
	}

	msg := MissingMessage
	if v, ok := q["msg"]; ok && len(v) > 0 {
		msg = v[0]
	}

	return FailureRequest{Status: status, Message: msg}, nil
}
