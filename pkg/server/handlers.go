package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mdnav-hq/mdnav/pkg/cli"
	"mdnav-hq/mdnav/pkg/processing"
	"mdnav-hq/mdnav/pkg/server/types"
	"mdnav-hq/mdnav/pkg/telemetry/logging"
	"mdnav-hq/mdnav/pkg/telemetry/tracing"
)

// defaultDocumentPath names documents posted without a path.
const defaultDocumentPath = "request.md"

// handleQuery serves POST /v1/query.
//
//	POST /v1/query
//	{"document": "# Title\n## A\n", "query": ".h2 | .text", "format": "json"}
//
//	200 {"results": ["A"], "count": 1}
//	400 {"error": {"kind": "unknown_function", "message": "...", "span": {"start": 6, "end": 12}, "suggestions": ["count"]}}
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := logging.GetRequestID(ctx)

	var req types.QueryRequest
	if errResp := s.decodeQuery(w, r, &req); errResp != nil {
		types.WriteError(w, errResp)
		return
	}

	format := cli.FormatJSON
	if req.Format != "" {
		f, err := cli.ParseFormat(req.Format)
		if err != nil {
			types.WriteError(w, types.NewInvalidRequestError(err.Error()))
			return
		}
		format = f
	}

	path := req.Path
	if path == "" {
		path = defaultDocumentPath
	}

	span := tracing.SpanFromContext(ctx)
	tracing.SetRequestID(span, requestID)

	res, err := s.processor.Process(ctx, &processing.Request{
		RequestID: requestID,
		Content:   []byte(req.Document),
		Path:      path,
		Query:     req.Query,
		Source:    processing.SourceAPI,
	})
	if err != nil {
		types.WriteError(w, s.queryError(err, req.Query))
		return
	}

	resp := types.QueryResponse{
		Results: res.Values,
		Count:   len(res.Values),
	}
	if !isJSONFormat(format) {
		out, err := cli.NewFormatter(format).Format(res.Values)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to render results", "format", format, "error", err)
			types.WriteError(w, types.NewServerError("failed to render results"))
			return
		}
		resp.Output = string(out)
	}
	tracing.SetResultAttributes(span, string(format), resp.Count)

	types.WriteJSON(w, http.StatusOK, resp)
}

// decodeQuery reads and validates the request body, bounded by
// server.max_body_bytes.
func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request, req *types.QueryRequest) *types.ErrorResponse {
	body := r.Body
	if s.config.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return types.NewErrorResponse(types.KindRequestTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		}
		return types.NewInvalidRequestError(fmt.Sprintf("invalid JSON body: %v", err))
	}
	if dec.More() {
		return types.NewInvalidRequestError("request body must contain a single JSON object")
	}

	if err := req.Validate(); err != nil {
		return types.NewInvalidRequestError(err.Error())
	}
	return nil
}

// queryError maps a processing failure to an error response.
func (s *Server) queryError(err error, query string) *types.ErrorResponse {
	if resp := types.NewQueryError(err, query); resp != nil {
		return resp
	}
	switch {
	case errors.Is(err, processing.ErrQueryTooLong), errors.Is(err, processing.ErrEmptyQuery):
		return types.NewInvalidRequestError(err.Error())
	default:
		return types.NewErrorResponse(types.KindInvalidDocument, err.Error())
	}
}

func isJSONFormat(f cli.OutputFormat) bool {
	switch f {
	case cli.FormatJSON, cli.FormatJSONPretty, cli.FormatJSONL:
		return true
	}
	return false
}

