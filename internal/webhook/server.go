// Package webhook serves the HTTP command interface of the strip.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/dokzlo13/stripd/internal/command"
	"github.com/dokzlo13/stripd/internal/device"
)

// ErrRateLimited is reported when a state-changing command arrives faster
// than the configured rate.
var ErrRateLimited = errors.New("rate limited")

// Submitter hands a command to the loop and waits for its result.
type Submitter interface {
	Submit(ctx context.Context, req command.Request) (command.Result, error)
}

// Options configures the server.
type Options struct {
	Host           string
	Port           int
	RateLimitRPS   float64
	RequestTimeout time.Duration
}

// Server is an HTTP server that turns requests like
// "/ledOn?r=255&g=0&b=0" into commands.
type Server struct {
	addr       string
	submitter  Submitter
	names      map[string]string
	limiter    *rate.Limiter
	timeout    time.Duration
	httpServer *http.Server
}

// NewServer creates a new server. names are the registered command names;
// paths match them case-insensitively.
func NewServer(opts Options, submitter Submitter, names []string) *Server {
	byLower := make(map[string]string, len(names))
	for _, n := range names {
		byLower[strings.ToLower(n)] = n
	}

	var limiter *rate.Limiter
	if opts.RateLimitRPS > 0 {
		burst := int(opts.RateLimitRPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), burst)
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return &Server{
		addr:      fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		submitter: submitter,
		names:     byLower,
		limiter:   limiter,
		timeout:   timeout,
	}
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleCommand)
	return mux
}

// Run starts the server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	log.Info().Str("addr", s.addr).Msg("Starting command server")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Command server shutdown error")
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	name := s.resolve(strings.Trim(r.URL.Path, "/"))

	if !command.ReadOnly(name) && s.limiter != nil && !s.limiter.Allow() {
		writeError(w, "", fmt.Errorf("%w: %s", ErrRateLimited, name))
		return
	}

	args := command.Args{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			args[key] = values[0]
		}
	}
	req := command.NewRequest(name, args, "http")

	log.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", req.ID).
		Msg("Received command request")

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	res, err := s.submitter.Submit(ctx, req)
	if err == nil {
		err = res.Err
	}
	if err != nil {
		writeError(w, req.ID, err)
		return
	}

	switch v := res.Data.(type) {
	case int:
		// The desktop client reads /num as a bare integer.
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strconv.Itoa(v)))
	case string:
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(v))
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "ok",
			"request_id": req.ID,
			"command":    res.Command,
			"result":     v,
		})
	}
}

// resolve maps a request path to a command name. The root path reports status.
func (s *Server) resolve(path string) string {
	if path == "" {
		return command.Status
	}
	if name, ok := s.names[strings.ToLower(path)]; ok {
		return name
	}
	return path
}

// StatusCode maps a command error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, command.ErrMissingArgument),
		errors.Is(err, command.ErrOutOfRange),
		errors.Is(err, device.ErrUnknownAnimation),
		errors.Is(err, device.ErrInvalidInterval):
		return http.StatusBadRequest
	case errors.Is(err, command.ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, command.ErrQueueFull), errors.Is(err, command.ErrQueueClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, requestID string, err error) {
	body := map[string]any{
		"status": "error",
		"error":  err.Error(),
	}
	if requestID != "" {
		body["request_id"] = requestID
	}
	writeJSON(w, StatusCode(err), body)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}
