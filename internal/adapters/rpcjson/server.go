// Package rpcjson serves a line-delimited JSON-RPC 2.0 API over a unix
// socket for local operators and the CLI client.
package rpcjson

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/logging"
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602

	codeApplication  = 40000
	codeUnauthorized = 40100
	codeForbidden    = 40300
	codeNotFound     = 40400
	codeConflict     = 40900
	codeInternal     = 50000
)

type Server struct {
	service  *application.Service
	version  string
	listener net.Listener
	path     string
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      any             `json:"id"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Start listens on path, replacing a stale socket file, and restricts the
// socket to the owning user.
func Start(path, version string, service *application.Service) (*Server, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("rpc socket path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		_ = os.Remove(path)
		return nil, err
	}

	s := &Server{service: service, version: version, listener: ln, path: path}
	go s.serve()
	return s, nil
}

func (s *Server) serve() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) Close() error {
	err := s.listener.Close()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) handleConn(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			_ = enc.Encode(response{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: "parse error"}})
			return
		}

		ctx := logging.ContextWithRequestID(context.Background(), logging.GenerateRequestID())
		resp := s.dispatch(ctx, req)
		if err := enc.Encode(resp); err != nil {
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req request) response {
	if req.JSONRPC != "2.0" || strings.TrimSpace(req.Method) == "" {
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeInvalidRequest, Message: "invalid request"}, ID: req.ID}
	}

	switch req.Method {
	case "system.health":
		return result(req.ID, map[string]any{"status": "healthy", "version": s.version})
	case "auth.login":
		var p application.LoginInput
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		tok, err := s.service.Login(ctx, p)
		if err != nil {
			return errorResponse(ctx, req.ID, err)
		}
		return result(req.ID, tok)
	case "auth.whoami":
		u, resp, ok := s.authenticate(ctx, req)
		if !ok {
			return resp
		}
		return result(req.ID, u)
	case "landmarks.list":
		var p struct {
			City     string `json:"city"`
			Country  string `json:"country"`
			Category string `json:"category"`
			Search   string `json:"search"`
			Skip     int    `json:"skip"`
			Limit    int    `json:"limit"`
		}
		if !decodeOptionalParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		page, err := s.service.ListLandmarks(ctx, domain.LandmarkFilter{
			City:     p.City,
			Country:  p.Country,
			Category: p.Category,
			Search:   p.Search,
			Skip:     p.Skip,
			Limit:    p.Limit,
		})
		if err != nil {
			return errorResponse(ctx, req.ID, err)
		}
		return result(req.ID, page)
	case "landmarks.nearby":
		var p application.NearbyQuery
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		items, err := s.service.NearbyLandmarks(ctx, p)
		if err != nil {
			return errorResponse(ctx, req.ID, err)
		}
		return result(req.ID, items)
	case "landmarks.get":
		var p struct {
			ID uint `json:"id"`
		}
		if !decodeParams(req.Params, &p) || p.ID == 0 {
			return invalidParams(req.ID)
		}
		l, err := s.service.GetLandmark(ctx, p.ID)
		if err != nil {
			return errorResponse(ctx, req.ID, err)
		}
		return result(req.ID, l)
	case "cities.popular":
		var p struct {
			Limit int `json:"limit"`
		}
		if !decodeOptionalParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		cities, err := s.service.PopularCities(ctx, p.Limit)
		if err != nil {
			return errorResponse(ctx, req.ID, err)
		}
		return result(req.ID, cities)
	case "cities.profile":
		var p struct {
			City string `json:"city"`
		}
		if !decodeParams(req.Params, &p) || strings.TrimSpace(p.City) == "" {
			return invalidParams(req.ID)
		}
		profile, err := s.service.CityProfile(ctx, p.City)
		if err != nil {
			return errorResponse(ctx, req.ID, err)
		}
		return result(req.ID, profile)
	case "cities.recompute":
		if _, resp, ok := s.authenticate(ctx, req); !ok {
			return resp
		}
		res, err := s.service.RecomputeCityStats(ctx)
		if err != nil {
			return errorResponse(ctx, req.ID, err)
		}
		return result(req.ID, map[string]any{
			"cities":      res.Cities,
			"categories":  res.Categories,
			"reconciled":  res.Reconciled,
			"duration_ms": res.Duration.Milliseconds(),
		})
	case "notifications.list":
		u, resp, ok := s.authenticate(ctx, req)
		if !ok {
			return resp
		}
		var p struct {
			OnlyUnread      bool `json:"only_unread"`
			IncludeArchived bool `json:"include_archived"`
			Skip            int  `json:"skip"`
			Limit           int  `json:"limit"`
		}
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		list, err := s.service.ListNotifications(ctx, domain.NotificationFilter{
			UserID:          u.ID,
			OnlyUnread:      p.OnlyUnread,
			IncludeArchived: p.IncludeArchived,
			Skip:            p.Skip,
			Limit:           p.Limit,
		})
		if err != nil {
			return errorResponse(ctx, req.ID, err)
		}
		return result(req.ID, list)
	case "notifications.stats":
		u, resp, ok := s.authenticate(ctx, req)
		if !ok {
			return resp
		}
		stats, err := s.service.NotificationStats(ctx, u.ID)
		if err != nil {
			return errorResponse(ctx, req.ID, err)
		}
		return result(req.ID, stats)
	case "notifications.mark_read":
		u, resp, ok := s.authenticate(ctx, req)
		if !ok {
			return resp
		}
		var p application.MarkReadInput
		if !decodeParams(req.Params, &p) {
			return invalidParams(req.ID)
		}
		n, err := s.service.MarkRead(ctx, u.ID, p)
		if err != nil {
			return errorResponse(ctx, req.ID, err)
		}
		return result(req.ID, map[string]any{"updated_count": n})
	default:
		return response{JSONRPC: "2.0", Error: &rpcError{Code: codeMethodNotFound, Message: "method not found"}, ID: req.ID}
	}
}

// authenticate resolves the token param of a user-scoped method.
func (s *Server) authenticate(ctx context.Context, req request) (domain.User, response, bool) {
	var p struct {
		Token string `json:"token"`
	}
	if !decodeParams(req.Params, &p) {
		return domain.User{}, invalidParams(req.ID), false
	}
	u, err := s.service.Authenticate(ctx, p.Token)
	if err != nil {
		return domain.User{}, response{JSONRPC: "2.0", Error: &rpcError{Code: codeUnauthorized, Message: "unauthorized"}, ID: req.ID}, false
	}
	return u, response{}, true
}

func decodeParams(raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func decodeOptionalParams(raw json.RawMessage, out any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return true
	}
	return json.Unmarshal(raw, out) == nil
}

func result(id, payload any) response {
	return response{JSONRPC: "2.0", Result: payload, ID: id}
}

func invalidParams(id any) response {
	return response{JSONRPC: "2.0", Error: &rpcError{Code: codeInvalidParams, Message: "invalid params"}, ID: id}
}

func errorResponse(ctx context.Context, id any, err error) response {
	code := codeInternal
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = codeNotFound
	case errors.Is(err, domain.ErrValidation):
		code = codeApplication
	case errors.Is(err, domain.ErrUnauthorized):
		code = codeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		code = codeForbidden
	case errors.Is(err, domain.ErrConflict):
		code = codeConflict
	}
	if code == codeInternal {
		logging.Ctx(ctx).Error().Err(err).Msg("rpc call failed")
		return response{JSONRPC: "2.0", Error: &rpcError{Code: code, Message: "internal error"}, ID: id}
	}
	return response{JSONRPC: "2.0", Error: &rpcError{Code: code, Message: err.Error()}, ID: id}
}
