package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"tablescout.dev/TableScout/configs"
	"tablescout.dev/TableScout/pkg/server"
)

// HandlerSuite wires the full router against mocked collaborators so tests
// exercise routing, binding and the error formatter together.
type HandlerSuite struct {
	suite.Suite
	restaurants  *mockRestaurantRepo
	foods        *mockFoodRepo
	averages     *mockAverageStore
	geo          *mockGeocoder
	config       *configs.Config
	router       *gin.Engine
	observedLogs *observer.ObservedLogs
}

type envelope struct {
	Success    bool               `json:"success"`
	Count      *int               `json:"count"`
	Pagination *server.Pagination `json:"pagination"`
	Data       json.RawMessage    `json:"data"`
	Message    string             `json:"message"`
}

func (suite *HandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.restaurants = &mockRestaurantRepo{}
	suite.foods = &mockFoodRepo{}
	suite.averages = &mockAverageStore{}
	suite.geo = &mockGeocoder{}

	observedZapCore, observedLogs := observer.New(zap.InfoLevel)
	suite.observedLogs = observedLogs
	logger := zap.New(observedZapCore)

	suite.config = &configs.Config{
		Uploads: configs.Uploads{Directory: suite.T().TempDir(), MaxFileSize: 1024},
	}

	restaurantServer := server.NewRestaurantServer(suite.restaurants, suite.geo, suite.config, logger)
	maintainer := server.NewAverageCostMaintainer(suite.averages, logger)
	foodServer := server.NewFoodServer(suite.foods, suite.restaurants, maintainer, logger)

	suite.router = server.NewRouter(restaurantServer, foodServer, logger)
}

func (suite *HandlerSuite) perform(method string, path string, body io.Reader) (*httptest.ResponseRecorder, envelope) {
	request := httptest.NewRequest(method, path, body)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	return suite.dispatch(request)
}

func (suite *HandlerSuite) dispatch(request *http.Request) (*httptest.ResponseRecorder, envelope) {
	recorder := httptest.NewRecorder()
	suite.router.ServeHTTP(recorder, request)

	var response envelope
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))

	return recorder, response
}

func (suite *HandlerSuite) multipartFile(fieldFilename string, contentType string, content []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fieldFilename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	suite.Require().NoError(err)

	_, err = part.Write(content)
	suite.Require().NoError(err)
	suite.Require().NoError(writer.Close())

	return body, writer.FormDataContentType()
}
