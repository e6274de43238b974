package net

import (
	"net/http"

	perr "fieldnote/internal/platform/errors"
)

// Wire is the envelope every JSON response uses
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func envelope(status int, reqID string, data any) (int, Wire) {
	return status, Wire{StatusCode: status, Status: http.StatusText(status), RequestID: reqID, Data: data}
}

// OK builds a 200 envelope
func OK(data any, reqID string) (int, Wire) { return envelope(http.StatusOK, reqID, data) }

// Created builds a 201 envelope
func Created(data any, reqID string) (int, Wire) { return envelope(http.StatusCreated, reqID, data) }

// NoContent builds a 204 envelope
func NoContent(reqID string) (int, Wire) { return envelope(http.StatusNoContent, reqID, nil) }

// Error builds the envelope for err; the message is the user facing one,
// wrapped causes are left for the logs
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status, w := envelope(perr.HTTPStatus(err), reqID, nil)
	pw := perr.WireFrom(err)
	w.Code, w.Error, w.Field = pw.Code, pw.Message, pw.Field
	return status, w
}
