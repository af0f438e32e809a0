package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-game-portal/apimodel"
)

// backendResponse is a fully read backend reply.
type backendResponse struct {
	status      int
	contentType string
	body        []byte
}

func (b *backendResponse) ok() bool {
	return b.status >= 200 && b.status <= 299
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorBody(msg string) apimodel.ErrorResponse {
	return apimodel.ErrorResponse{Error: msg}
}

// call sends one request to the backend. path may contain chi {params} which are filled
// from the incoming request.
func (s *Server) call(r *http.Request, method, path string, query url.Values, body []byte) (*backendResponse, error) {
	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	target := s.backendURL + fillParams(r, path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth := r.Header.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if id := requestID(r.Context()); id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &backendResponse{status: resp.StatusCode, contentType: resp.Header.Get("Content-Type"), body: raw}, nil
}

// relay writes a backend reply unchanged: JSON bodies as JSON, anything else as text with
// the backend's content type.
func relay(w http.ResponseWriter, resp *backendResponse) {
	if len(resp.body) == 0 {
		w.WriteHeader(resp.status)
		return
	}
	if json.Valid(resp.body) {
		w.Header().Set("Content-Type", "application/json")
	} else {
		contentType := resp.contentType
		if contentType == "" || strings.Contains(contentType, "json") {
			contentType = "text/plain; charset=utf-8"
		}
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write(resp.body)
}

func (s *Server) badGateway(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Err(err).
		Str("path", r.URL.Path).
		Str("request_id", requestID(r.Context())).
		Msg("backend request failed")
	writeJSON(w, http.StatusBadGateway, errorBody("Backend unavailable"))
}

func fillParams(r *http.Request, path string) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return path
	}
	for i, key := range rctx.URLParams.Keys {
		path = strings.ReplaceAll(path, "{"+key+"}", url.PathEscape(rctx.URLParams.Values[i]))
	}
	return path
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		return nil, err
	}
	return body, nil
}
