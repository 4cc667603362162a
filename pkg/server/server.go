package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/wordmap/internal/logger"
	"github.com/bastiangx/wordmap/internal/utils"
	"github.com/bastiangx/wordmap/pkg/config"
	"github.com/bastiangx/wordmap/pkg/mapping"
	"github.com/bastiangx/wordmap/pkg/registry"
	"github.com/bastiangx/wordmap/pkg/transform"
)

// Server handles the IPC for mapping lookups
type Server struct {
	registry   *registry.Registry
	transforms *transform.Registry
	config     *config.Config
	reader     *msgpack.Decoder
	writer     *bufio.Writer
	encoder    *msgpack.Encoder
	cache      *HotCache
	logger     *log.Logger
	handled    int
}

// NewServer creates a lookup server using stdin/stdout for IPC
func NewServer(reg *registry.Registry, transforms *transform.Registry, cfg *config.Config) *Server {
	return NewServerWithIO(reg, transforms, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a lookup server on the given streams
func NewServerWithIO(reg *registry.Registry, transforms *transform.Registry, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if transforms == nil {
		transforms = transform.NewRegistry()
	}
	writer := bufio.NewWriter(w)
	encoder := msgpack.NewEncoder(writer)
	encoder.SetOmitEmpty(false)
	return &Server{
		registry:   reg,
		transforms: transforms,
		config:     cfg,
		reader:     msgpack.NewDecoder(bufio.NewReader(r)),
		writer:     writer,
		encoder:    encoder,
		cache:      NewHotCache(cfg.Server.CacheSize),
		logger:     logger.New("server"),
	}
}

// Serve announces readiness and handles requests until the input ends or ctx
// is cancelled. It returns nil on end of input.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Debug("Starting Server.")

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	type message struct {
		raw msgpack.RawMessage
		err error
	}

	messages := make(chan message)
	go func() {
		defer close(messages)
		for {
			raw, err := s.reader.DecodeRaw()
			select {
			case messages <- message{raw: raw, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			if msg.err != nil {
				if errors.Is(msg.err, io.EOF) {
					s.logger.Debugf("Input closed after %d requests", s.handled)
					return nil
				}
				s.logger.Errorf("Reading request: %v", msg.err)
				return msg.err
			}
			if err := s.handleRaw(msg.raw); err != nil {
				return err
			}
		}
	}
}

// Handled returns the number of requests processed so far.
func (s *Server) Handled() int {
	return s.handled
}

func (s *Server) handleRaw(raw msgpack.RawMessage) error {
	s.handled++

	var request Request
	if err := msgpack.Unmarshal(raw, &request); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "invalid msgpack request", CodeBadRequest)
	}

	switch request.Action {
	case "", ActionLookup:
		return s.handleLookup(request)
	case ActionTables:
		return s.send(TablesResponse{ID: request.ID, Tables: s.registry.Names(request.Query)})
	case ActionHealth:
		return s.send(StatusResponse{ID: request.ID, Status: "ok"})
	case ActionStats:
		return s.send(StatsResponse{ID: request.ID, Handled: s.handled, Tables: s.registry.Len(), Cache: s.cache.Stats()})
	default:
		return s.sendError(request.ID, fmt.Sprintf("unknown action: %s", request.Action), CodeBadRequest)
	}
}

func (s *Server) handleLookup(request Request) error {
	tableName := request.Table
	if tableName == "" {
		tableName = s.config.Server.DefaultTable
	}

	table, ok := s.registry.Get(tableName)
	if !ok {
		s.logger.Debugf("Unknown table %q in request %s", tableName, request.ID)
		return s.sendError(request.ID, fmt.Sprintf("unknown table: %s", tableName), CodeNotFound)
	}

	if err := utils.ValidateQuery(request.Query, s.config.Server.MaxQuery); err != nil {
		return s.sendError(request.ID, err.Error(), CodeBadRequest)
	}

	if s.config.Server.RejectMarker && utils.ContainsMarker(request.Query, table.Marker()) {
		return s.sendError(request.ID, "query contains the wildcard marker", CodeBadRequest)
	}

	direction, lookup, err := directionFunc(table, request.Direction)
	if err != nil {
		return s.sendError(request.ID, err.Error(), CodeBadRequest)
	}

	start := time.Now()
	result, matched, cached := s.cache.Get(tableName, direction, request.Query)
	if !cached {
		result, matched = lookup(request.Query)
		s.cache.Put(tableName, direction, request.Query, result, matched)
	}
	if matched {
		result = s.transforms.Apply(request.Transform, result)
	}
	elapsed := time.Since(start)

	s.logger.Debug("Lookup", "table", tableName, "query", request.Query, "result", result, "matched", matched, "cached", cached)

	return s.send(LookupResponse{
		ID:        request.ID,
		Result:    result,
		Matched:   matched,
		TimeTaken: elapsed.Microseconds(),
	})
}

// directionFunc resolves a request direction to its short form and lookup.
func directionFunc(table *mapping.Mapping, direction string) (string, func(string) (string, bool), error) {
	switch direction {
	case "", "v", "value":
		return "v", table.ValueFor, nil
	case "k", "key":
		return "k", table.KeyFor, nil
	default:
		return "", nil, fmt.Errorf("unknown direction: %s", direction)
	}
}

// send encodes a response and flushes it to the client
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return err
	}
	return s.writer.Flush()
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
