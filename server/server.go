package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeremiapane/coffeeshop-server/config"
	"github.com/yeremiapane/coffeeshop-server/middlewares"
	"github.com/yeremiapane/coffeeshop-server/utils"
)

var (
	// ErrRouteNotFound means no handler is bound to the request path.
	ErrRouteNotFound = errors.New("route not found")
	// ErrServerClosed is returned by Serve after Shutdown.
	ErrServerClosed = errors.New("server closed")

	errRequestTooLarge = errors.New("request exceeds size limit")
)

// Server accepts one request per TCP connection, runs it through the router
// and closes the connection after writing the response.
type Server struct {
	cfg     config.ServerConfig
	handler http.Handler
	tracer  trace.Tracer

	mu       sync.Mutex
	listener net.Listener
	closing  bool
	wg       sync.WaitGroup
}

func New(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
		tracer:  otel.Tracer("github.com/yeremiapane/coffeeshop-server/server"),
	}
}

// ListenAndServe listens on the configured address and serves until Shutdown.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve accepts connections on l, each handled on its own goroutine.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		l.Close()
		return ErrServerClosed
	}
	s.listener = l
	s.mu.Unlock()

	utils.InfoLogger.Printf("Listening on %s", l.Addr())

	var backoff time.Duration
	for {
		conn, err := l.Accept()
		if err != nil {
			if s.isClosing() {
				return ErrServerClosed
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if backoff == 0 {
					backoff = 5 * time.Millisecond
				} else if backoff *= 2; backoff > time.Second {
					backoff = time.Second
				}
				utils.ErrorLogger.Errorf("accept error: %v; retrying in %v", err, backoff)
				time.Sleep(backoff)
				continue
			}
			return err
		}
		backoff = 0

		s.mu.Lock()
		if s.closing {
			s.mu.Unlock()
			conn.Close()
			return ErrServerClosed
		}
		s.wg.Add(1)
		s.mu.Unlock()

		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting and waits for in-flight connections or ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	requestID := uuid.NewString()
	logger := utils.InfoLogger.WithFields(logrus.Fields{
		"request_id": requestID,
		"remote":     conn.RemoteAddr().String(),
	})

	if s.cfg.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}

	raw, err := readRequest(conn, s.cfg.MaxRequestBytes)
	if err != nil {
		logger.Warnf("read failed: %v", err)
		return
	}

	body, err := s.Dispatch(context.Background(), raw, requestID, conn.RemoteAddr().String())
	if err != nil {
		// malformed and unrouted requests are dropped without a response
		logger.Warnf("dropping request: %v", err)
		return
	}

	if err := EncodeResponse(conn, body); err != nil {
		logger.Errorf("write failed: %v", err)
	}
}

// Dispatch decodes raw, routes it and returns the JSON body to send.
// ErrMalformedRequest and ErrRouteNotFound mean nothing should be sent.
func (s *Server) Dispatch(ctx context.Context, raw []byte, requestID, remoteAddr string) ([]byte, error) {
	req, err := DecodeRequest(raw)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "coffeeshop.request", trace.WithAttributes(
		attribute.String("request.method", req.Method),
		attribute.String("request.path", req.Path),
	))
	defer span.End()

	body := req.Body()
	httpReq := &http.Request{
		Method:        req.Method,
		URL:           &url.URL{Path: req.Path},
		RequestURI:    req.Path,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		RemoteAddr:    remoteAddr,
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(middlewares.RequestIDHeader, requestID)
	httpReq = httpReq.WithContext(ctx)

	w := newResponseBuffer()
	s.handler.ServeHTTP(w, httpReq)
	if w.status != http.StatusOK {
		span.SetAttributes(attribute.Bool("request.routed", false))
		return nil, ErrRouteNotFound
	}
	return w.body.Bytes(), nil
}

// readRequest reads until the header block and any Content-Length body have
// arrived or the peer stops sending. Reaching limit bytes first is an error.
func readRequest(conn net.Conn, limit int) ([]byte, error) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := conn.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if requestComplete(buf) {
			if len(buf) > limit {
				return nil, errRequestTooLarge
			}
			return buf, nil
		}
		if len(buf) >= limit {
			return nil, errRequestTooLarge
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return buf, nil
			}
			return buf, err
		}
	}
}
