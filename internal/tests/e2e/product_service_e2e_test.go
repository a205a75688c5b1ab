// Package e2e provides end-to-end tests for the product service.
// The real application handler runs in an `httptest.Server` and each test starts from a freshly
// seeded store, so the cases can rely on the two seed products and on id assignment.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	producterrors "github.com/xiillii/MassRoverApi/internal/errors"
	"github.com/xiillii/MassRoverApi/internal/app"
	"github.com/xiillii/MassRoverApi/internal/service"
	"github.com/xiillii/MassRoverApi/pkg/messaging"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "PRODUCT_SKIP_E2E_TESTS"

// productURL is the base URL for the products API.
const productURL = "/api/products"

// recordingPublisher keeps the subjects of published events in order.
type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, event messaging.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, event.Subject())
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.subjects...)
}

// ProductServiceE2ESuite is a test suite for end-to-end tests of the product service.
type ProductServiceE2ESuite struct {
	suite.Suite
	server     *httptest.Server
	httpClient *http.Client
	publisher  *recordingPublisher
	logger     *slog.Logger
	ctx        context.Context
}

func (s *ProductServiceE2ESuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SetupTest starts a server on a new seeded store.
func (s *ProductServiceE2ESuite) SetupTest() {
	s.publisher = &recordingPublisher{}
	deps := app.SetupDependencies(s.publisher, s.logger)
	s.server = httptest.NewServer(app.SetupHttpHandler(deps))
	s.httpClient = s.server.Client()
}

func (s *ProductServiceE2ESuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
}

func TestProductServiceE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(ProductServiceE2ESuite))
}

func (s *ProductServiceE2ESuite) TestFindAll_ReturnsSeedInOrder() {
	// when
	list, status := s.findAll()

	// then
	s.Require().Equal(http.StatusOK, status)
	s.Require().Len(list, 2)
	s.Equal(1, list[0].ID)
	s.Equal("Lithium L2", list[0].Name)
	s.Equal(2, list[1].ID)
	s.Equal("SNU 61", list[1].Name)
	s.Require().NotNil(list[0].ModifiedDate)
	s.Require().NotNil(list[1].ModifiedDate)
	s.True(list[1].ModifiedDate.Before(*list[0].ModifiedDate))
}

func (s *ProductServiceE2ESuite) TestUnknownID_ReturnsNotFound() {
	testCases := []struct {
		name    string
		method  string
		payload any
	}{
		{name: "get", method: http.MethodGet},
		{name: "replace", method: http.MethodPut, payload: service.ProductDto{ID: 99, Name: "ghost"}},
		{name: "delete", method: http.MethodDelete},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// when
			body, status := s.doRequest(tc.method, s.productURL(99), tc.payload)

			// then
			s.Equal(http.StatusNotFound, status)
			msg := s.decodeErrorMessage(body)
			s.Equal("Product not found", msg.Title)
			s.Contains(msg.Detail, "product")
			s.Contains(msg.Detail, "99")
		})
	}
}

func (s *ProductServiceE2ESuite) TestCreate_AssignsNextID() {
	// given
	before, _ := s.findAll()

	// when
	body, status, location := s.doRequestWithLocation(http.MethodPost, s.server.URL+productURL, service.ProductDto{ID: 42, Name: "Lithium L3"})

	// then
	s.Require().Equal(http.StatusCreated, status)
	created := s.decodeProduct(body)
	s.Equal(len(before)+1, created.ID)
	s.Equal("Lithium L3", created.Name)
	s.Equal(productURL+"/"+strconv.Itoa(created.ID), location)

	found, status := s.findByID(created.ID)
	s.Require().Equal(http.StatusOK, status)
	s.Equal(created, found)
	s.Equal([]string{messaging.ProductCreatedSubject}, s.publisher.published())
}

func (s *ProductServiceE2ESuite) TestReplace_Mismatch() {
	testCases := []struct {
		name   string
		pathID int
		bodyID int
	}{
		{name: "both exist", pathID: 1, bodyID: 2},
		{name: "neither exists", pathID: 50, bodyID: 51},
		{name: "only path exists", pathID: 1, bodyID: 51},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// when
			body, status := s.doRequest(http.MethodPut, s.productURL(tc.pathID), service.ProductDto{ID: tc.bodyID, Name: "x"})

			// then
			s.Equal(http.StatusBadRequest, status)
			s.Equal(producterrors.RequestContentMismatchMessage(), s.decodeErrorMessage(body))
		})
	}

	list, _ := s.findAll()
	s.Equal("Lithium L2", list[0].Name)
	s.Equal("SNU 61", list[1].Name)
	s.Empty(s.publisher.published())
}

func (s *ProductServiceE2ESuite) TestReplace_OverwritesFields() {
	// given
	callTime := time.Now().UTC().Add(-time.Second)

	// when
	body, status := s.doRequest(http.MethodPut, s.productURL(2), service.ProductDto{ID: 2, Name: "SNU 62"})

	// then
	s.Require().Equal(http.StatusNoContent, status)
	s.Empty(body)
	found, status := s.findByID(2)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("SNU 62", found.Name)
	s.Require().NotNil(found.ModifiedDate)
	s.False(found.ModifiedDate.Before(callTime))
}

func (s *ProductServiceE2ESuite) TestDelete_RemovesProduct() {
	// when
	body, status := s.doRequest(http.MethodDelete, s.productURL(1), nil)

	// then
	s.Require().Equal(http.StatusNoContent, status)
	s.Empty(body)
	_, status = s.findByID(1)
	s.Equal(http.StatusNotFound, status)
	list, _ := s.findAll()
	s.Require().Len(list, 1)
	s.Equal(2, list[0].ID)
}

func (s *ProductServiceE2ESuite) TestInvalidID_ReturnsBadRequest() {
	body, status := s.doRequest(http.MethodGet, s.server.URL+productURL+"/abc", nil)

	s.Equal(http.StatusBadRequest, status)
	s.Equal("Invalid request", s.decodeErrorMessage(body).Title)
}

func (s *ProductServiceE2ESuite) TestProductLifecycle() {
	// create
	body, status := s.doRequest(http.MethodPost, s.server.URL+productURL, service.ProductDto{Name: "X"})
	s.Require().Equal(http.StatusCreated, status)
	created := s.decodeProduct(body)
	s.Require().Equal(3, created.ID)

	// get
	found, status := s.findByID(3)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("X", found.Name)

	// replace
	_, status = s.doRequest(http.MethodPut, s.productURL(3), service.ProductDto{ID: 3, Name: "Y"})
	s.Require().Equal(http.StatusNoContent, status)

	found, status = s.findByID(3)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("Y", found.Name)
	s.NotNil(found.ModifiedDate)

	// delete
	_, status = s.doRequest(http.MethodDelete, s.productURL(3), nil)
	s.Require().Equal(http.StatusNoContent, status)

	_, status = s.findByID(3)
	s.Equal(http.StatusNotFound, status)

	s.Equal([]string{
		messaging.ProductCreatedSubject,
		messaging.ProductReplacedSubject,
		messaging.ProductDeletedSubject,
	}, s.publisher.published())
}

// --------------------------------------------------------------------------
// ---------------------- Helper methods for E2E tests -----------------------
// --------------------------------------------------------------------------

func (s *ProductServiceE2ESuite) productURL(id int) string {
	return fmt.Sprintf("%s%s/%d", s.server.URL, productURL, id)
}

func (s *ProductServiceE2ESuite) findByID(id int) (service.ProductDto, int) {
	s.T().Helper()
	body, status := s.doRequest(http.MethodGet, s.productURL(id), nil)
	var product service.ProductDto
	if status == http.StatusOK {
		product = s.decodeProduct(body)
	}
	return product, status
}

func (s *ProductServiceE2ESuite) findAll() ([]service.ProductDto, int) {
	s.T().Helper()
	body, status := s.doRequest(http.MethodGet, s.server.URL+productURL, nil)
	var products []service.ProductDto
	if status == http.StatusOK {
		require.NoError(s.T(), json.Unmarshal(body, &products), "Failed to decode product list")
	}
	return products, status
}

func (s *ProductServiceE2ESuite) doRequest(method, url string, payload any) ([]byte, int) {
	s.T().Helper()
	body, status, _ := s.doRequestWithLocation(method, url, payload)
	return body, status
}

// doRequestWithLocation returns the response body, status code and Location header.
func (s *ProductServiceE2ESuite) doRequestWithLocation(method, url string, payload any) ([]byte, int, string) {
	s.T().Helper()
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		require.NoError(s.T(), err)
		body = bytes.NewBuffer(payloadBytes)
	}

	req, err := http.NewRequestWithContext(s.ctx, method, url, body)
	require.NoError(s.T(), err, "Failed to create HTTP request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err, "HTTP request failed")
	defer func() {
		err := resp.Body.Close()
		require.NoError(s.T(), err, "Failed to close response body")
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err, "Failed to read response body")

	return bodyBytes, resp.StatusCode, resp.Header.Get("Location")
}

func (s *ProductServiceE2ESuite) decodeProduct(bodyBytes []byte) service.ProductDto {
	s.T().Helper()
	var product service.ProductDto
	require.NoError(s.T(), json.Unmarshal(bodyBytes, &product), "Failed to decode product")
	return product
}

func (s *ProductServiceE2ESuite) decodeErrorMessage(bodyBytes []byte) producterrors.ErrorMessage {
	s.T().Helper()
	var msg producterrors.ErrorMessage
	require.NoError(s.T(), json.Unmarshal(bodyBytes, &msg), "Failed to decode error message")
	return msg
}
