package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"

	"catalog/internal/corona/client"
	"catalog/internal/corona/handler/mocks"
	"catalog/internal/corona/models"
	"catalog/internal/validation"
	"catalog/pkg/testutil"
)

// =============================================================================
// Corona Handler Test Suite
// =============================================================================
// Justification for unit tests: the handler owns the mapping from client
// failures to gateway responses and the text summary. The fetcher is mocked
// so no network is involved.

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	fetcher *mocks.MockFetcher
	router  http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.fetcher = mocks.NewMockFetcher(s.ctrl)
	h := New(s.fetcher, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), "Denmark")
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func f64(v float64) *float64 { return &v }

func (s *HandlerSuite) denmark() *models.Corona {
	c, err := models.New(models.Snapshot{
		Country:            "Denmark",
		Updated:            1588291200000,
		Cases:              9311,
		TodayCases:         153,
		Deaths:             452,
		TodayDeaths:        9,
		Recovered:          6530,
		Active:             2329,
		Critical:           58,
		CasesPerOneMillion: f64(1607),
		Tests:              206576,
		Population:         f64(5792202),
		Continent:          "Europe",
	})
	s.Require().NoError(err)
	return c
}

func (s *HandlerSuite) TestGetCountry() {
	s.Run("snapshot as json", func() {
		s.fetcher.EXPECT().FetchByName(gomock.Any(), "Denmark").Return(s.denmark(), nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/corona/Denmark"))

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertContentType(s.T(), rr, "application/json")
		testutil.AssertJSONContains(s.T(), rr, "country", "Denmark")
	})

	s.Run("escaped names reach the fetcher decoded", func() {
		s.fetcher.EXPECT().FetchByName(gomock.Any(), "South Korea").Return(s.denmark(), nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/corona/South%20Korea"))

		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("blank name is rejected locally", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/corona/%20"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestDefaultCountry() {
	s.fetcher.EXPECT().FetchByName(gomock.Any(), "Denmark").Return(s.denmark(), nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/corona/default"))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertJSONContains(s.T(), rr, "continent", "Europe")
}

func (s *HandlerSuite) TestDefaultCountryUnset() {
	h := New(s.fetcher, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), "")
	r := chi.NewRouter()
	h.Register(r)

	rr := testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodGet, "/corona/default"))

	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestSummary() {
	c := s.denmark()
	s.fetcher.EXPECT().FetchByName(gomock.Any(), "Denmark").Return(c, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/corona/Denmark/summary"))

	testutil.AssertStatusOK(s.T(), rr)
	testutil.AssertContentType(s.T(), rr, "text/plain")
	s.Equal(c.Describe(), rr.Body.String())
}

func (s *HandlerSuite) TestListCountries() {
	s.fetcher.EXPECT().FetchAll(gomock.Any()).Return([]*models.Corona{s.denmark(), s.denmark()}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/corona"))

	testutil.AssertStatusOK(s.T(), rr)
	all := testutil.UnmarshalResponse[[]models.Snapshot](s.T(), rr)
	s.Len(*all, 2)
}

func (s *HandlerSuite) TestErrorMapping() {
	url := "https://example.test/v2/countries/Denmark"
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"non-2xx status", &client.TransportError{URL: url, StatusCode: http.StatusNotFound}, http.StatusBadGateway, "upstream_error"},
		{"connection refused", &client.TransportError{URL: url, Err: errors.New("connection refused")}, http.StatusBadGateway, "upstream_error"},
		{"timeout", &client.TransportError{URL: url, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout, "timeout"},
		{"malformed body", &client.DecodeError{URL: url, Err: errors.New("unexpected EOF")}, http.StatusBadGateway, "upstream_error"},
		{"rule violation", fmt.Errorf("Denmark: %w", &validation.Error{Field: "cases", Message: validation.MsgNumberNegative}), http.StatusBadGateway, "bad_upstream_data"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.fetcher.EXPECT().FetchByName(gomock.Any(), "Denmark").Return(nil, tt.err)

			rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/corona/Denmark"))

			testutil.AssertStatusAndError(s.T(), rr, tt.status, tt.code)
		})
	}
}

func (s *HandlerSuite) TestFetchErrorLogCarriesTraceContext() {
	var logs bytes.Buffer
	h := New(s.fetcher, slog.New(slog.NewTextHandler(&logs, nil)), "")
	r := chi.NewRouter()
	h.Register(r)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0a, 0x0b, 0x0c, 0x01},
		SpanID:     trace.SpanID{0x0d, 0x0e, 0x0f, 0x02},
		TraceFlags: trace.FlagsSampled,
	})
	s.fetcher.EXPECT().FetchByName(gomock.Any(), "Denmark").
		Return(nil, &client.TransportError{URL: "http://stats/countries/Denmark", Err: errors.New("refused")})

	req := testutil.NewRequest(s.T(), http.MethodGet, "/corona/Denmark")
	req = req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))
	rr := testutil.DoRequest(r, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadGateway)
	s.Contains(logs.String(), "trace_id="+sc.TraceID().String())
	s.Contains(logs.String(), "span_id="+sc.SpanID().String())
}
