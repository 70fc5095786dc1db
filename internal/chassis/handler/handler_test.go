package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"chassisd/internal/chassis/factory"
	"chassisd/internal/chassis/models"
	"chassisd/internal/chassis/store/sequence"
)

const testAdminToken = "test-admin-token"

// HandlerSuite drives the HTTP surface end to end against a real factory
// and in-memory sequence store.
type HandlerSuite struct {
	suite.Suite
	router chi.Router
}

func (s *HandlerSuite) SetupTest() {
	f, err := factory.New(sequence.NewMemory(), nil)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(f, logger)

	s.router = chi.NewRouter()
	h.Register(s.router)
	h.RegisterAdmin(s.router, testAdminToken)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) do(method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decodeIdentifiers(rec *httptest.ResponseRecorder) []models.Identifier {
	var resp IdentifiersResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Identifiers
}

func (s *HandlerSuite) TestCreateVIN() {
	s.Run("issues one VIN", func() {
		rec := s.do(http.MethodPost, "/v1/vins", map[string]any{
			"manufacturer_code": "WBA",
			"descriptor":        "12345",
			"year":              2024,
			"plant_code":        "A",
		}, nil)
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

		ids := s.decodeIdentifiers(rec)
		s.Require().Len(ids, 1)
		s.Len(ids[0].Value, 17)
		s.Equal(models.KindVIN, ids[0].Kind)
	})

	s.Run("omitted descriptor and plant take defaults", func() {
		rec := s.do(http.MethodPost, "/v1/vins", map[string]any{
			"manufacturer_code": "JHM",
			"year":              2020,
		}, nil)
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

		ids := s.decodeIdentifiers(rec)
		s.Equal("00000", ids[0].Value[3:8])
	})

	s.Run("invalid year maps to 400", func() {
		rec := s.do(http.MethodPost, "/v1/vins", map[string]any{
			"manufacturer_code": "WBA",
			"year":              1900,
		}, nil)
		s.Require().Equal(http.StatusBadRequest, rec.Code)

		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("year_out_of_range", body["error"])
		s.NotEmpty(body["error_description"])
	})

	s.Run("unknown body fields are rejected", func() {
		rec := s.do(http.MethodPost, "/v1/vins", map[string]any{
			"manufacturer_code": "WBA",
			"year":              2024,
			"surprise":          true,
		}, nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestCreateVINBatch() {
	rec := s.do(http.MethodPost, "/v1/vins/batch", map[string]any{
		"manufacturer_code": "WBA",
		"descriptor":        "12345",
		"year":              2024,
		"quantity":          4,
	}, nil)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.Len(s.decodeIdentifiers(rec), 4)
}

func (s *HandlerSuite) TestCreateVINFromPrefix() {
	s.Run("resolves manufacturer names", func() {
		rec := s.do(http.MethodPost, "/v1/vins/from-prefix", map[string]any{
			"query": "Honda",
			"year":  2023,
		}, nil)
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		s.Len(s.decodeIdentifiers(rec), 1)
	})

	s.Run("unknown query maps to 404", func() {
		rec := s.do(http.MethodPost, "/v1/vins/from-prefix", map[string]any{
			"query": "no such maker",
			"year":  2023,
		}, nil)
		s.Require().Equal(http.StatusNotFound, rec.Code)

		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("unknown_manufacturer", body["error"])
	})
}

func (s *HandlerSuite) TestCreateChassis() {
	s.Run("single", func() {
		rec := s.do(http.MethodPost, "/v1/chassis", map[string]any{
			"template": "GX71-{serial:8}",
		}, nil)
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

		ids := s.decodeIdentifiers(rec)
		s.Equal("GX71-00000001", ids[0].Value)
	})

	s.Run("batch continues the template counter", func() {
		first := s.do(http.MethodPost, "/v1/chassis", map[string]any{
			"template": "SR311-{serial:7}",
		}, nil)
		s.Require().Equal(http.StatusCreated, first.Code)

		rec := s.do(http.MethodPost, "/v1/chassis/batch", map[string]any{
			"template": "SR311-{serial:7}",
			"quantity": 2,
		}, nil)
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

		ids := s.decodeIdentifiers(rec)
		s.Require().Len(ids, 2)
		s.Equal("SR311-0000002", ids[0].Value)
		s.Equal("SR311-0000003", ids[1].Value)
	})
}

func (s *HandlerSuite) TestCreateRandom() {
	rec := s.do(http.MethodPost, "/v1/identifiers/random", map[string]any{
		"quantity": 3,
	}, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	ids := s.decodeIdentifiers(rec)
	s.Require().Len(ids, 3)
	for _, id := range ids {
		s.Equal(models.KindVIN, id.Kind, "kind defaults to vin")
	}
}

func (s *HandlerSuite) TestContinueSequence() {
	s.Run("extends the series", func() {
		rec := s.do(http.MethodPost, "/v1/sequences/continue", map[string]any{
			"existing": []string{"ABC0100", "ABC0101", "ABC0102"},
			"quantity": 5,
		}, nil)
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		var resp ContinuationResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal([]string{"ABC0103", "ABC0104", "ABC0105", "ABC0106", "ABC0107"}, resp.Values)
		s.Equal(int64(1), resp.Pattern.Increment)
	})

	s.Run("ambiguous inputs map to 400", func() {
		rec := s.do(http.MethodPost, "/v1/sequences/continue", map[string]any{
			"existing": []string{"ABC0100"},
			"quantity": 5,
		}, nil)
		s.Require().Equal(http.StatusBadRequest, rec.Code)

		var body map[string]string
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
		s.Equal("ambiguous_pattern", body["error"])
	})
}

func (s *HandlerSuite) TestValidate() {
	s.Run("valid VIN", func() {
		rec := s.do(http.MethodPost, "/v1/validations", map[string]any{
			"identifier": "1M8GDM9AXKP042788",
		}, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var res models.ValidationResult
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
		s.True(res.Valid)
		s.True(res.ChecksumValid)
	})

	s.Run("invalid input is a 200 with a verdict", func() {
		rec := s.do(http.MethodPost, "/v1/validations", map[string]any{
			"identifier": "1M8GDM9AXKP042789",
		}, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var res models.ValidationResult
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
		s.False(res.Valid)
		s.NotEmpty(res.Errors)
	})
}

func (s *HandlerSuite) TestPrefixes() {
	s.Run("lookup by code", func() {
		rec := s.do(http.MethodGet, "/v1/prefixes/1HG", nil, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "Honda")
	})

	s.Run("unknown code maps to 404", func() {
		rec := s.do(http.MethodGet, "/v1/prefixes/ZZZ", nil, nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("search by manufacturer", func() {
		rec := s.do(http.MethodGet, "/v1/prefixes?manufacturer=bmw", nil, nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp PrefixesResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.NotEmpty(resp.Records)
	})

	s.Run("search without a query is a 400", func() {
		rec := s.do(http.MethodGet, "/v1/prefixes", nil, nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("stats", func() {
		rec := s.do(http.MethodGet, "/v1/prefixes/stats", nil, nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "records")
	})
}

func (s *HandlerSuite) TestAdminResetSequence() {
	issue := func() string {
		rec := s.do(http.MethodPost, "/v1/vins", map[string]any{
			"manufacturer_code": "WBA",
			"descriptor":        "12345",
			"year":              2024,
		}, nil)
		s.Require().Equal(http.StatusCreated, rec.Code)
		return s.decodeIdentifiers(rec)[0].Value
	}

	s.Run("missing token is unauthorized", func() {
		rec := s.do(http.MethodPost, "/admin/sequences/reset", map[string]any{
			"key": "WBA|12345|R|A",
		}, nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("wrong token is unauthorized", func() {
		rec := s.do(http.MethodPost, "/admin/sequences/reset", map[string]any{
			"key": "WBA|12345|R|A",
		}, http.Header{"X-Admin-Token": []string{"wrong"}})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("valid token resets the counter", func() {
		first := issue()

		rec := s.do(http.MethodPost, "/admin/sequences/reset", map[string]any{
			"key": "WBA|12345|R|A",
		}, http.Header{"X-Admin-Token": []string{testAdminToken}})
		s.Require().Equal(http.StatusNoContent, rec.Code)

		s.Equal(first, issue(), "counter restarts after a reset")
	})

	s.Run("empty key is a 400", func() {
		rec := s.do(http.MethodPost, "/admin/sequences/reset", map[string]any{},
			http.Header{"X-Admin-Token": []string{testAdminToken}})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
