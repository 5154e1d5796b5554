package integration

import (
	"net/http"
	"testing"

	"github.com/akeren/landing-api/internal/models"
	"github.com/stretchr/testify/suite"
)

func validContact() map[string]string {
	return map[string]string{
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"email":       "ada@example.com",
		"countryName": "United Kingdom",
		"companyType": "Startup",
		"message":     "Hello there",
	}
}

func assertContactCORS(s *suite.Suite, header http.Header) {
	s.Equal("*", header.Get("Access-Control-Allow-Origin"))
	s.Equal("GET, POST, PUT, DELETE, OPTIONS", header.Get("Access-Control-Allow-Methods"))
	s.Equal("Content-Type, Authorization", header.Get("Access-Control-Allow-Headers"))
}

type ContactAPITestSuite struct {
	suite.Suite
	app *testApp
}

func (suite *ContactAPITestSuite) SetupSuite() {
	suite.app = startTestApp(&suite.Suite, defaultAppConfig())
}

func (suite *ContactAPITestSuite) TearDownSuite() {
	suite.app.close()
}

func (suite *ContactAPITestSuite) SetupTest() {
	suite.app.db.Exec("DELETE FROM contact_submissions")
}

func (suite *ContactAPITestSuite) TestSubmitContact() {
	payload := validContact()
	resp := suite.app.do(&suite.Suite, http.MethodPost, "/api/contact", payload)

	suite.Require().Equal(http.StatusOK, resp.status, resp.raw)
	suite.Equal(true, resp.body["success"])
	suite.Equal("Contact form submitted successfully!", resp.body["message"])
	assertContactCORS(&suite.Suite, resp.header)

	data := resp.body["data"].(map[string]any)
	for field, value := range payload {
		suite.Equal(value, data[field], field)
	}
	suite.Contains(data, "id")
	suite.Contains(data, "createdAt")

	var stored models.ContactSubmission
	suite.Require().NoError(suite.app.db.First(&stored).Error)
	suite.Equal("Hello there", stored.Message)
}

func (suite *ContactAPITestSuite) TestSubmitContact_MissingField() {
	payload := validContact()
	delete(payload, "companyType")

	resp := suite.app.do(&suite.Suite, http.MethodPost, "/api/contact", payload)

	suite.Equal(http.StatusBadRequest, resp.status)
	suite.JSONEq(`{"error":"All fields are required"}`, resp.raw)
	assertContactCORS(&suite.Suite, resp.header)

	var count int64
	suite.app.db.Model(&models.ContactSubmission{}).Count(&count)
	suite.Zero(count)
}

func (suite *ContactAPITestSuite) TestSubmitContact_InvalidEmail() {
	payload := validContact()
	payload["email"] = "not-an-email"

	resp := suite.app.do(&suite.Suite, http.MethodPost, "/api/contact", payload)

	suite.Equal(http.StatusBadRequest, resp.status)
	suite.JSONEq(`{"error":"Please provide a valid email address"}`, resp.raw)
}

func (suite *ContactAPITestSuite) TestSubmitContact_UnicodeWhitespaceInEmail() {
	for _, email := range []string{"a\vb@c.d", "a\u00a0b@c.d", "a@b\u2028c.d"} {
		payload := validContact()
		payload["email"] = email

		resp := suite.app.do(&suite.Suite, http.MethodPost, "/api/contact", payload)

		suite.Equal(http.StatusBadRequest, resp.status, "%q", email)
		suite.JSONEq(`{"error":"Please provide a valid email address"}`, resp.raw)
	}

	var count int64
	suite.app.db.Model(&models.ContactSubmission{}).Where("first_name = ?", validContact()["firstName"]).Count(&count)
	suite.Equal(int64(0), count)
}

func (suite *ContactAPITestSuite) TestSubmitContact_WrongFieldType() {
	resp := suite.app.do(&suite.Suite, http.MethodPost, "/api/contact", `{"firstName": 42}`)

	suite.Equal(http.StatusBadRequest, resp.status)
	suite.JSONEq(`{"error":"Invalid request body"}`, resp.raw)
}

func (suite *ContactAPITestSuite) TestSubmitContact_DuplicateEmailAllowed() {
	first := suite.app.do(&suite.Suite, http.MethodPost, "/api/contact", validContact())
	second := suite.app.do(&suite.Suite, http.MethodPost, "/api/contact", validContact())

	suite.Equal(http.StatusOK, first.status)
	suite.Equal(http.StatusOK, second.status)
}

func (suite *ContactAPITestSuite) TestPreflight() {
	resp := suite.app.do(&suite.Suite, http.MethodOptions, "/api/contact", nil)

	suite.Equal(http.StatusOK, resp.status)
	suite.Empty(resp.raw)
	assertContactCORS(&suite.Suite, resp.header)
}

func TestContactAPITestSuite(t *testing.T) {
	suite.Run(t, new(ContactAPITestSuite))
}

type PermissiveContactTestSuite struct {
	suite.Suite
	app *testApp
}

func (suite *PermissiveContactTestSuite) SetupSuite() {
	cfg := defaultAppConfig()
	cfg.ContactValidationMode = "permissive"
	cfg.ContactCORSEnabled = false
	suite.app = startTestApp(&suite.Suite, cfg)
}

func (suite *PermissiveContactTestSuite) TearDownSuite() {
	suite.app.close()
}

func (suite *PermissiveContactTestSuite) TestEmptySubmissionRejected() {
	resp := suite.app.do(&suite.Suite, http.MethodPost, "/api/contact", map[string]string{})

	suite.Equal(http.StatusBadRequest, resp.status)
	suite.JSONEq(`{"error":"At least one field must be provided"}`, resp.raw)
}

func (suite *PermissiveContactTestSuite) TestPartialSubmissionStoresEmptyFields() {
	resp := suite.app.do(&suite.Suite, http.MethodPost, "/api/contact", map[string]string{"message": "just saying hi"})

	suite.Require().Equal(http.StatusOK, resp.status, resp.raw)
	data := resp.body["data"].(map[string]any)
	suite.Equal("just saying hi", data["message"])
	suite.Equal("", data["firstName"])
	suite.Equal("", data["email"])
	suite.Empty(resp.header.Get("Access-Control-Allow-Origin"))
}

func (suite *PermissiveContactTestSuite) TestInvalidEmailStillRejected() {
	resp := suite.app.do(&suite.Suite, http.MethodPost, "/api/contact", map[string]string{"email": "nope"})

	suite.Equal(http.StatusBadRequest, resp.status)
	suite.JSONEq(`{"error":"Please provide a valid email address"}`, resp.raw)
}

func (suite *PermissiveContactTestSuite) TestPreflightNotRoutedWhenCORSDisabled() {
	resp := suite.app.do(&suite.Suite, http.MethodOptions, "/api/contact", nil)

	suite.Equal(http.StatusMethodNotAllowed, resp.status)
}

func TestPermissiveContactTestSuite(t *testing.T) {
	suite.Run(t, new(PermissiveContactTestSuite))
}
