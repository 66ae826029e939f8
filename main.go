package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Media-Manager/mediamanager-test-harness/apitests"
	"github.com/Media-Manager/mediamanager-test-harness/framework"
	"github.com/Media-Manager/mediamanager-test-harness/framework/harness"
	"github.com/Media-Manager/mediamanager-test-harness/framework/helpers"
	"github.com/Media-Manager/mediamanager-test-harness/framework/testfilter"
	"github.com/Media-Manager/mediamanager-test-harness/mockmm"
	"github.com/Media-Manager/mediamanager-test-harness/query"
	"github.com/Media-Manager/mediamanager-test-harness/random"

	"github.com/fatih/color"
	"golang.org/x/exp/maps"
)

const (
	defaultPort      = 8111
	defaultShortname = "demo"
	shutdownTimeout  = time.Second * 5
)

var (
	headingColor = color.New(color.Bold)
	passColor    = color.New(color.FgGreen)
	failColor    = color.New(color.FgRed, color.Bold)
	skipColor    = color.New(color.FgYellow)
	debugColor   = color.New(color.FgHiBlack)
	urlColor     = color.New(color.FgCyan, color.Underline)
)

func main() {
	fmt.Println("mediamanager-mock")

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	ok, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		os.Exit(1)
	}
}

func run(params commandParams) (bool, error) {
	debugLogger := framework.NullLogger()
	if params.debug {
		debugLogger = framework.LoggerWithColor(log.New(os.Stdout, "", log.LstdFlags), debugColor)
	}

	generator := random.NewGenerator()
	if params.seed != 0 {
		generator = random.New(params.seed)
	}
	vars := mockmm.NewMockVars(generator)

	var serviceOptions []mockmm.ServiceOption
	if params.responsesFile != "" {
		responses, err := loadResponsesFile(params.responsesFile)
		if err != nil {
			return false, err
		}
		serviceOptions = append(serviceOptions, mockmm.WithResponses(responses))
	}

	externalBaseURL := "http://" + net.JoinHostPort(params.host, strconv.Itoa(params.port))
	h, err := harness.NewHarness(externalBaseURL, params.port, debugLogger, os.Stderr)
	if err != nil {
		return false, err
	}
	defer func() { _ = h.Close(shutdownTimeout) }()

	// The service has to know its own URL, which only exists once the endpoint does.
	var service *mockmm.Service
	endpoint := h.NewMockEndpoint(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { service.ServeHTTP(w, r) }),
		framework.LoggerWithPrefix(debugLogger, "[mock API] "),
		harness.MockEndpointDescription("media manager API for "+params.shortname),
	)
	defer endpoint.Close()
	serviceOptions = append(serviceOptions, mockmm.BaseURL(endpoint.BaseURL()))
	service, err = mockmm.NewService(params.shortname, vars,
		framework.LoggerWithPrefix(debugLogger, "[mock API] "), serviceOptions...)
	if err != nil {
		return false, err
	}

	printRouteTable(os.Stdout, service)

	if params.check {
		return runCheck(os.Stdout, service, params.filters), nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	helpers.MustFprintf(os.Stdout, "Route list:  %s\n", urlColor.Sprint(endpoint.BaseURL()+mockmm.RoutesListPath))
	helpers.MustFprintf(os.Stdout, "OpenAPI:     %s\n", urlColor.Sprint(endpoint.BaseURL()+mockmm.OpenAPIPath))
	helpers.MustFprintln(os.Stdout, "Serving until interrupted")
	<-ctx.Done()
	fmt.Println()
	helpers.MustFprintf(os.Stdout, "Shutting down after %d requests\n", endpoint.RequestCount())
	return true, nil
}

func loadResponsesFile(path string) (mockmm.Responses, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read responses file: %w", err)
	}
	responses, err := mockmm.LoadResponses(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return responses, nil
}

func printRouteTable(w io.Writer, service *mockmm.Service) {
	vars := service.Vars()
	helpers.MustFprintln(w, headingColor.Sprint("Mock identifiers"))
	pathVars := vars.PathVars()
	for _, name := range helpers.Sorted(maps.Keys(pathVars)) {
		helpers.MustFprintf(w, "  %-10s %s\n", name, pathVars[name])
	}
	helpers.MustFprintln(w, headingColor.Sprint("Filters added to every request"))
	for _, key := range vars.Filters.Keys() {
		value, _ := vars.Filters.Get(key)
		helpers.MustFprintf(w, "  %-10s %s\n", key, value)
	}
	helpers.MustFprintln(w, headingColor.Sprint("Routes"))
	for _, route := range service.Routes() {
		helpers.MustFprintf(w, "  %-28s %s\n", route.ID(),
			urlColor.Sprint(query.MergeParams(service.RouteURL(route), vars.Filters)))
		helpers.MustFprintf(w, "  %-28s %s\n", "", helpers.CanonicalizedJSONString(route.Response))
	}
	helpers.MustFprintln(w)
}

func runCheck(w io.Writer, service *mockmm.Service, filters testfilter.RegexFilters) bool {
	testfilter.PrintFilterDescription(w, filters)
	clientFn := func(kind mockmm.APIKind) apitests.APISet {
		return apitests.HTTPClient(service.BaseURL(), service.Vars().Filters, kind, nil)
	}
	results := apitests.CheckAll(clientFn, apitests.DefaultArgs(service.Vars()), filters)

	passed, skipped := 0, 0
	for _, r := range results {
		switch {
		case r.Skipped:
			skipped++
			helpers.MustFprintf(w, "%s %s\n", skipColor.Sprint("SKIP"), r.ID)
		case r.Err != nil:
			helpers.MustFprintf(w, "%s %s: %s\n", failColor.Sprint("FAIL"), r.ID, r.Err)
		default:
			passed++
			helpers.MustFprintf(w, "%s %s\n", passColor.Sprint("PASS"), r.ID)
		}
	}
	failed := apitests.Failed(results)
	helpers.MustFprintf(w, "\n%d passed, %d failed, %d skipped\n", passed, len(failed), skipped)
	return len(failed) == 0
}
