package server

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	anetserver "github.com/andrei-cloud/anet/server"
	"github.com/andrei-cloud/go_pool/internal/errorcodes"
	"github.com/andrei-cloud/go_pool/internal/frame"
	"github.com/andrei-cloud/go_pool/internal/manager"
	"github.com/andrei-cloud/go_pool/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// requestTimeout bounds how long a request waits for the frame loop.
const requestTimeout = 5 * time.Second

// logAdapter implements anet.Logger using zerolog.
type logAdapter struct{}

type commandFunc func(ctx context.Context, payload []byte) ([]byte, error)

// Server wraps the anet TCP server and exposes the pool manager as an admin console.
type Server struct {
	address     string
	srv         *anetserver.Server
	loop        *frame.Loop
	trimKeep    int
	commands    map[string]commandFunc
	activeConns int32
}

func (l logAdapter) Print(v ...any) {
	log.Info().Msg(fmt.Sprint(v...))
}

func (l logAdapter) Printf(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (l logAdapter) Infof(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (l logAdapter) Warnf(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}

func (l logAdapter) Errorf(format string, v ...any) {
	log.Error().Msgf(format, v...)
}

// NewServer configures the admin console. TR trims every free list down to trimKeep.
func NewServer(address string, loop *frame.Loop, trimKeep int) (*Server, error) {
	cfg := &anetserver.ServerConfig{
		MaxConns:        16,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     0 * time.Second, // disable idle connection closure.
		ShutdownTimeout: 5 * time.Second,
		Logger:          logAdapter{},
	}

	s := &Server{
		address:  address,
		loop:     loop,
		trimKeep: trimKeep,
	}
	s.commands = map[string]commandFunc{
		"LS": s.listKeys,
		"ST": s.stats,
		"SP": s.spawn,
		"RT": s.ret,
		"TR": s.trim,
	}

	srv, err := anetserver.NewServer(address, anetserver.HandlerFunc(s.handle), cfg)
	if err != nil {
		return nil, fmt.Errorf("server setup failed: %w", err)
	}
	s.srv = srv

	return s, nil
}

// Start begins listening for connections.
func (s *Server) Start() error {
	log.Info().Str("address", s.address).Msg("admin console started")
	return s.srv.Start()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	return s.srv.Stop()
}

// formatData returns ascii string if all bytes are printable, else hex string.
func formatData(data []byte) string {
	for _, b := range data {
		if (b < 32 || b > 126) && b != '\n' {
			return hex.EncodeToString(data)
		}
	}
	return string(data)
}

// incrementCode returns the response code by incrementing the second character.
func incrementCode(cmd string) string {
	b := []byte(cmd)
	if len(b) < 2 {
		return cmd
	}
	if b[1] == 'Z' {
		b[1] = 'A'
	} else {
		b[1]++
	}

	return string(b)
}

// statusCode maps an error to its two-character console status.
func statusCode(err error) string {
	if err == nil {
		return errorcodes.Err00.CodeOnly()
	}
	var pe errorcodes.PoolError
	if errors.As(err, &pe) {
		return pe.CodeOnly()
	}

	return errorcodes.ErrUnavailable.CodeOnly()
}

func (s *Server) handle(conn *anetserver.ServerConn, data []byte) ([]byte, error) {
	client := conn.Conn.RemoteAddr().String()
	atomic.AddInt32(&s.activeConns, 1)
	defer atomic.AddInt32(&s.activeConns, -1)

	start := time.Now()

	if len(data) < 2 {
		log.Error().Str("client_ip", client).Msg("malformed request")
		return nil, errors.New("malformed request")
	}

	cmd := string(data[:2])
	payload := data[2:]
	log.Info().
		Str("event", "request_received").
		Str("client_ip", client).
		Str("command", cmd).
		Str("request", formatData(data)).
		Int("active_connections", int(atomic.LoadInt32(&s.activeConns))).
		Msg("received command")

	var body []byte
	var execErr error

	fn, ok := s.commands[cmd]
	if !ok {
		execErr = errorcodes.ErrUnknownCommand
		log.Warn().
			Str("event", "unknown_command").
			Str("client_ip", client).
			Str("command", cmd).
			Msg("command not recognized, responding with error code")
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		body, execErr = fn(ctx, payload)
		cancel()
		if execErr != nil {
			log.Warn().
				Str("event", "command_failed").
				Str("client_ip", client).
				Str("command", cmd).
				Err(execErr).
				Msg("command failed")
		}
	}

	resp := []byte(incrementCode(cmd) + statusCode(execErr))
	if execErr == nil {
		resp = append(resp, body...)
	}

	log.Info().
		Str("event", "response_sent").
		Str("client_ip", client).
		Str("response", formatData(resp)).
		Str("duration", time.Since(start).String()).
		Msg("sent response")

	return resp, nil
}

func (s *Server) listKeys(ctx context.Context, _ []byte) ([]byte, error) {
	var keys []string
	err := s.loop.Do(ctx, func(m *manager.Manager) error {
		keys = m.Registry().Keys()
		return nil
	})

	return []byte(strings.Join(keys, "\n")), err
}

func (s *Server) stats(ctx context.Context, _ []byte) ([]byte, error) {
	var lines []string
	err := s.loop.Do(ctx, func(m *manager.Manager) error {
		for _, st := range m.Stats() {
			lines = append(lines, fmt.Sprintf("%s %s %d %d %d %d %d",
				st.Key, st.Category, st.Active, st.Free, st.Created, st.Reused, st.Destroyed))
		}
		return nil
	})

	return []byte(strings.Join(lines, "\n")), err
}

// parseSpawn reads "key" or "key x y z".
func parseSpawn(payload []byte) (string, scene.Placement, error) {
	fields := strings.Fields(string(payload))
	switch len(fields) {
	case 1:
		return fields[0], scene.Origin(), nil
	case 4:
		var pos mgl32.Vec3
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return "", scene.Placement{}, fmt.Errorf("%w: coordinate %q", errorcodes.ErrMalformedRequest, f)
			}
			pos[i] = float32(v)
		}
		return fields[0], scene.At(pos, mgl32.QuatIdent()), nil
	default:
		return "", scene.Placement{}, fmt.Errorf("%w: want key or key x y z", errorcodes.ErrMalformedRequest)
	}
}

func (s *Server) spawn(ctx context.Context, payload []byte) ([]byte, error) {
	key, at, err := parseSpawn(payload)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	doErr := s.loop.Do(ctx, func(m *manager.Manager) error {
		o, err := m.SpawnKey(key, at)
		if err != nil {
			return err
		}
		id = o.ID()
		return nil
	})
	if doErr != nil {
		return nil, doErr
	}

	return []byte(id.String()), nil
}

func (s *Server) ret(ctx context.Context, payload []byte) ([]byte, error) {
	id, err := uuid.Parse(strings.TrimSpace(string(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorcodes.ErrMalformedRequest, err)
	}

	return nil, s.loop.Do(ctx, func(m *manager.Manager) error {
		o, ok := m.Instance(id)
		if !ok {
			return fmt.Errorf("%w: %s", errorcodes.ErrUnownedReturn, id)
		}
		return m.Return(o)
	})
}

func (s *Server) trim(ctx context.Context, _ []byte) ([]byte, error) {
	var n int
	err := s.loop.Do(ctx, func(m *manager.Manager) error {
		n = m.Trim(s.trimKeep)
		return nil
	})

	return []byte(strconv.Itoa(n)), err
}
