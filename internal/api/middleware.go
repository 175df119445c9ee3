package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the wire version of the response envelope.
const EnvelopeVersion = 1

// APIEnvelope wraps every response body. Successful responses carry Data,
// simple failures carry an error string.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Error description"`
}

// APIErrorEnvelope wraps failures that carry a machine-readable code.
type APIErrorEnvelope struct { //nolint:revive
	Version int          `json:"v" doc:"Envelope version"`
	Success bool         `json:"success" doc:"Always false"`
	Error   APIErrorBody `json:"error" doc:"Structured error"`
}

// APIErrorBody is the structured error payload inside APIErrorEnvelope.
type APIErrorBody struct { //nolint:revive
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps all API responses in the versioned envelope.
// Registered as a huma transformer so handlers only ever return raw payloads.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code != "" {
			return APIErrorEnvelope{
				Version: EnvelopeVersion,
				Error: APIErrorBody{
					Code:    apiErr.Code,
					Message: apiErr.Message,
					Details: apiErr.Details,
				},
			}, nil
		}
		return APIEnvelope{Version: EnvelopeVersion, Error: apiErr.Message}, nil
	}
	if err, ok := v.(error); ok {
		return APIEnvelope{Version: EnvelopeVersion, Error: err.Error()}, nil
	}

	code, convErr := strconv.Atoi(status)
	if convErr == nil && code >= 400 {
		return APIEnvelope{Version: EnvelopeVersion, Error: "request failed"}, nil
	}
	return APIEnvelope{Version: EnvelopeVersion, Success: true, Data: v}, nil
}
