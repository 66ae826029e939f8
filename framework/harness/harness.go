package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Media-Manager/mediamanager-test-harness/framework"
)

const httpListenerTimeout = time.Second * 10

// Errors that the standard HTTP server logs whenever a client hangs up early. Clients under test
// do this all the time, so the messages are only noise.
var noisyServerErrors = []*regexp.Regexp{
	regexp.MustCompile(`broken pipe`),
	regexp.MustCompile(`connection reset by peer`),
}

// Harness hosts the mock API endpoints that a client under test is pointed at.
//
// It owns a single HTTP listener. Any number of endpoints can be mounted on it with
// NewMockEndpoint, each under its own base path, so that several mock services with different
// settings can run side by side.
//
// It contains no media manager logic; mockmm.Service is the usual handler for an endpoint.
type Harness struct {
	mockEndpoints *mockEndpointsManager
	server        *http.Server
	port          int
	logger        framework.Logger
}

// NewHarness starts an HTTP listener on the given port and waits until it is accepting
// requests. externalBaseURL is the base URL at which clients reach that listener, such as
// "http://localhost:8111"; endpoint URLs are built from it. If it is empty, it defaults to
// "http://localhost:" plus the bound port. Server errors, other than ones
// caused by clients disconnecting, are written to errorOutput if it is not nil.
func NewHarness(
	externalBaseURL string,
	port int,
	debugLogger framework.Logger,
	errorOutput io.Writer,
) (*Harness, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	if errorOutput == nil {
		errorOutput = io.Discard
	}

	h := &Harness{
		mockEndpoints: newMockEndpointsManager(strings.TrimSuffix(externalBaseURL, "/"), debugLogger),
		logger:        debugLogger,
	}
	server, boundPort, err := startServer(port, http.HandlerFunc(h.serveHTTP),
		log.New(newFilteredWriter(errorOutput, noisyServerErrors), "", log.LstdFlags))
	if err != nil {
		return nil, err
	}
	h.server = server
	h.port = boundPort
	if externalBaseURL == "" {
		h.mockEndpoints.externalBaseURL = "http://" + net.JoinHostPort("localhost", strconv.Itoa(boundPort))
	}
	return h, nil
}

// Port returns the port the listener is bound to. This is only interesting if NewHarness was
// given port 0, meaning any free port.
func (h *Harness) Port() int { return h.port }

// NewMockEndpoint adds a new endpoint that can receive requests.
//
// The specified handler will be called for all incoming requests to the endpoint's
// base URL or any subpath of it. For instance, if the generated base URL (as reported
// by MockEndpoint.BaseURL()) is http://localhost:8111/endpoints/3, then it can also
// receive requests to http://localhost:8111/endpoints/3/template/abc/videos.
//
// When the handler is called, the harness rewrites the request URL first so that
// the handler sees only the subpath. It also attaches a Context to the request whose
// Done channel will be closed if Close is called on the endpoint.
func (h *Harness) NewMockEndpoint(
	handler http.Handler,
	logger framework.Logger,
	options ...MockEndpointOption,
) *MockEndpoint {
	if logger == nil {
		logger = h.logger
	}
	return h.mockEndpoints.newMockEndpoint(handler, logger, options...)
}

// Close stops the listener, waiting up to timeout for active requests to finish.
func (h *Harness) Close(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return h.server.Shutdown(ctx)
}

func (h *Harness) serveHTTP(w http.ResponseWriter, r *http.Request) {
	h.mockEndpoints.serveHTTP(w, r)
}

func startServer(port int, handler http.Handler, errorLog *log.Logger) (*http.Server, int, error) {
	server := &http.Server{
		Addr: net.JoinHostPort("", strconv.Itoa(port)),
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead && r.URL.Path == "/" {
				w.WriteHeader(http.StatusOK) // we use this to test whether our own listener is active yet
				return
			}
			handler.ServeHTTP(w, r)
		}),
		ErrorLog:          errorLog,
		ReadHeaderTimeout: 10 * time.Second, // arbitrary but non-infinite timeout to avoid Slowloris Attack
	}
	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return nil, 0, fmt.Errorf("could not listen on port %d: %w", port, err)
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorLog.Printf("mock API listener stopped: %s", err)
		}
	}()

	// Wait till the server is definitely listening for requests before anyone is pointed at it
	deadline := time.NewTimer(httpListenerTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(time.Millisecond * 10)
	defer ticker.Stop()
	boundPort := listener.Addr().(*net.TCPAddr).Port
	probeURL := "http://" + net.JoinHostPort("localhost", strconv.Itoa(boundPort))
	for {
		select {
		case <-deadline.C:
			_ = server.Close()
			return nil, 0, fmt.Errorf("could not detect own listener at %s", server.Addr)
		case <-ticker.C:
			if probe(probeURL) == nil {
				return server, boundPort, nil
			}
		}
	}
}

func probe(url string) error {
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("listener probe returned status %d", resp.StatusCode)
	}
	return nil
}
