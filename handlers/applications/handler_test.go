package applications

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"worknest-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

const (
	testUserID      = "user-uuid-2"
	testCandidateID = "candidate-uuid-1"
	testEmployerID  = "employer-uuid-1"
	testJobID       = "job-uuid-1"
)

func expectCandidateLookup(mock sqlmock.Sqlmock) {
	candidateRows := mock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).
		AddRow(testCandidateID, testUserID, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "candidates"`).WillReturnRows(candidateRows)

	userRows := mock.NewRows([]string{"id", "email", "full_name", "user_type"}).
		AddRow(testUserID, "candidate@example.com", "Jane Candidate", "candidate")
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows)
}

func expectOpenJob(mock sqlmock.Sqlmock) {
	jobRows := mock.NewRows([]string{"id", "employer_id", "title", "active", "apply_before", "posted_on"}).
		AddRow(testJobID, testEmployerID, "Backend Engineer", true, nil, time.Now())
	mock.ExpectQuery(`SELECT \* FROM "jobs"`).WillReturnRows(jobRows)
}

func applyRouter() *gin.Engine {
	r := testutils.SetupTestRouter()
	r.POST("/applications", func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Set("user_type", "candidate")
		Apply(c)
	})
	return r
}

func applyRequest(r *gin.Engine) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]interface{}{"job_id": testJobID})
	req, _ := http.NewRequest(http.MethodPost, "/applications", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestApply_DuplicateRefused(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectCandidateLookup(mock)
	expectOpenJob(mock)

	existingRows := mock.NewRows([]string{"id", "candidate_id", "job_id", "status", "applied_on"}).
		AddRow("applied-uuid-1", testCandidateID, testJobID, "Application Send", time.Now())
	mock.ExpectQuery(`SELECT \* FROM "applied_jobs"`).WillReturnRows(existingRows)

	resp := applyRequest(applyRouter())

	assert.Equal(t, http.StatusConflict, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "You have already applied to this job", respBody["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_ClosedJobRefused(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectCandidateLookup(mock)

	past := time.Now().AddDate(0, 0, -5)
	jobRows := mock.NewRows([]string{"id", "employer_id", "title", "active", "apply_before", "posted_on"}).
		AddRow(testJobID, testEmployerID, "Backend Engineer", true, past, time.Now().AddDate(0, -1, 0))
	mock.ExpectQuery(`SELECT \* FROM "jobs"`).WillReturnRows(jobRows)

	resp := applyRequest(applyRouter())

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_InvalidStatusRefused(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	employerRows := mock.NewRows([]string{"id", "user_id", "is_approved"}).
		AddRow(testEmployerID, "user-uuid-1", true)
	mock.ExpectQuery(`SELECT \* FROM "employers"`).WillReturnRows(employerRows)
	userRows := mock.NewRows([]string{"id", "full_name", "user_type"}).
		AddRow("user-uuid-1", "Acme Corp", "employer")
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows)

	r := testutils.SetupTestRouter()
	r.POST("/applications/:application_id/status", func(c *gin.Context) {
		c.Set("user_id", "user-uuid-1")
		c.Set("user_type", "employer")
		UpdateStatus(c)
	})

	body, _ := json.Marshal(map[string]string{"status": "Teleported"})
	req, _ := http.NewRequest(http.MethodPost, "/applications/applied-uuid-1/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Invalid status", respBody["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckApplication_NotApplied(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectCandidateLookup(mock)

	mock.ExpectQuery(`SELECT \* FROM "applied_jobs"`).
		WillReturnRows(mock.NewRows([]string{"id"}))

	r := testutils.SetupTestRouter()
	r.GET("/applications/check/:job_id", func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Set("user_type", "candidate")
		CheckApplication(c)
	})

	req, _ := http.NewRequest(http.MethodGet, "/applications/check/"+testJobID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, false, respBody["applied"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveJob_DuplicateRefused(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectCandidateLookup(mock)
	expectOpenJob(mock)

	savedRows := mock.NewRows([]string{"id", "candidate_id", "job_id", "created_at"}).
		AddRow("saved-uuid-1", testCandidateID, testJobID, time.Now())
	mock.ExpectQuery(`SELECT \* FROM "saved_jobs"`).WillReturnRows(savedRows)

	r := testutils.SetupTestRouter()
	r.POST("/jobs/:job_id/save", func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Set("user_type", "candidate")
		SaveJob(c)
	})

	req, _ := http.NewRequest(http.MethodPost, "/jobs/"+testJobID+"/save", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
