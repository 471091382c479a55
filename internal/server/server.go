package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/object-measure/internal/imaging"
	"github.com/ironsheep/object-measure/internal/logging"
)

// Name and Version are reported in the initialize handshake.
const (
	Name    = "object-measure"
	Version = "0.1.0"

	// ProtocolVersion is the MCP revision the server speaks.
	ProtocolVersion = "2024-11-05"
)

// JSON-RPC error codes used in responses.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeToolFailure    = -32000
)

// maxLine bounds a single request; inline polygon sets can be large.
const maxLine = 16 * 1024 * 1024

// Server answers MCP requests against a shared image cache.
type Server struct {
	cache   *imaging.ImageCache
	log     logrus.FieldLogger
	methods map[string]func(*MCPRequest) *MCPResponse
}

// MCPRequest is one JSON-RPC request or notification. Notifications carry
// no ID.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse carries either Result or Error.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is the error member of a response. Data holds the Go error text.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New returns a server with an empty image cache. A nil logger discards
// output. The logger must not write to stdout, which carries the protocol.
func New(log logrus.FieldLogger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	s := &Server{
		cache: imaging.NewImageCache(),
		log:   log,
	}
	s.methods = map[string]func(*MCPRequest) *MCPResponse{
		"initialize": s.handleInitialize,
		"tools/list": s.handleToolsList,
		"tools/call": s.handleToolsCall,
		"ping": func(req *MCPRequest) *MCPResponse {
			return result(req.ID, map[string]interface{}{})
		},
		// Client acknowledgment, no response
		"notifications/initialized": func(*MCPRequest) *MCPResponse { return nil },
	}
	return s
}

// Run serves stdin to stdout until stdin closes or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve answers newline-delimited requests from r on w. It returns when r
// is exhausted or ctx is done; a request already being handled finishes
// first.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.handleLine(line)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}

func (s *Server) handleLine(line []byte) *MCPResponse {
	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.WithError(err).Warn("Failed to parse request")
		return errorResponse(nil, CodeParseError, "Parse error", err.Error())
	}
	return s.handleRequest(&req)
}

// handleRequest routes req to its method handler.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	start := time.Now()
	log := s.log.WithField("method", req.Method)

	handler, ok := s.methods[req.Method]
	if !ok {
		log.Debug("Unknown method")
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}

	resp := handler(req)
	log.WithField("elapsed", time.Since(start).String()).Debug("Request")
	return resp
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return result(req.ID, map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    Name,
			"version": Version,
		},
	})
}

func result(id, v interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: v}
}

// errorResponse builds an error reply. An empty data is omitted.
func errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}
