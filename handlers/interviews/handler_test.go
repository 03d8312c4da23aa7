package interviews

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

	"worknest-backend/models"
	"worknest-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

const (
	testUserID      = "user-uuid-1"
	testEmployerID  = "employer-uuid-1"
	testCandidateID = "candidate-uuid-1"
	testJobID       = "job-uuid-1"
)

func expectEmployerLookup(mock sqlmock.Sqlmock) {
	employerRows := mock.NewRows([]string{"id", "user_id", "is_approved", "created_at", "updated_at"}).
		AddRow(testEmployerID, testUserID, true, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "employers"`).WillReturnRows(employerRows)

	userRows := mock.NewRows([]string{"id", "email", "full_name", "user_type"}).
		AddRow(testUserID, "employer@example.com", "Acme Corp", "employer")
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows)
}

func expectJobAndCandidate(mock sqlmock.Sqlmock) {
	jobRows := mock.NewRows([]string{"id", "employer_id", "title", "active"}).
		AddRow(testJobID, testEmployerID, "Backend Engineer", true)
	mock.ExpectQuery(`SELECT \* FROM "jobs"`).WillReturnRows(jobRows)

	candidateRows := mock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).
		AddRow(testCandidateID, "user-uuid-2", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "candidates"`).WillReturnRows(candidateRows)

	userRows := mock.NewRows([]string{"id", "email", "full_name", "user_type"}).
		AddRow("user-uuid-2", "candidate@example.com", "Jane Candidate", "candidate")
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows)
}

func cancelRouter() *gin.Engine {
	r := testutils.SetupTestRouter()
	r.POST("/interviews/cancel", func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Set("user_type", "employer")
		CancelInterview(c)
	})
	return r
}

func cancelRequest(r *gin.Engine) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{
		"candidate_id": testCandidateID,
		"job_id":       testJobID,
	})
	req, _ := http.NewRequest(http.MethodPost, "/interviews/cancel", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func interviewRows(mock sqlmock.Sqlmock, status string, attended bool) *sqlmock.Rows {
	return mock.NewRows([]string{"id", "candidate_id", "employer_id", "job_id", "date", "status", "selected", "active", "attended", "created_at"}).
		AddRow("interview-uuid-1", testCandidateID, testEmployerID, testJobID, time.Now().Add(24*time.Hour), status, false, true, attended, time.Now())
}

func TestCancelInterview_AttendedRefused(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock)
	expectJobAndCandidate(mock)

	mock.ExpectQuery(`SELECT \* FROM "interview_schedules"`).
		WillReturnRows(interviewRows(mock, models.InterviewUpcoming, true))

	resp := cancelRequest(cancelRouter())

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["error"], "already been attended")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelInterview_TerminalStatusRefused(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock)
	expectJobAndCandidate(mock)

	mock.ExpectQuery(`SELECT \* FROM "interview_schedules"`).
		WillReturnRows(interviewRows(mock, models.InterviewCompleted, false))

	resp := cancelRequest(cancelRouter())

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Contains(t, respBody["error"], "Completed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelInterview_NoActiveInterview(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock)
	expectJobAndCandidate(mock)

	mock.ExpectQuery(`SELECT \* FROM "interview_schedules"`).
		WillReturnRows(mock.NewRows([]string{"id"}))

	resp := cancelRequest(cancelRouter())

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelInterview_CommitsBothWritesTogether(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock)
	expectJobAndCandidate(mock)

	mock.ExpectQuery(`SELECT \* FROM "interview_schedules"`).
		WillReturnRows(interviewRows(mock, models.InterviewUpcoming, false))

	appRows := mock.NewRows([]string{"id", "candidate_id", "job_id", "status", "created_at", "updated_at"}).
		AddRow("application-uuid-1", testCandidateID, testJobID, models.InterviewScheduled, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "applied_jobs"`).WillReturnRows(appRows)

	// one transaction carries both the application status and the schedule row
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "applied_jobs" SET "status"=`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "interview_schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("notification-uuid-1"))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications"`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))

	resp := cancelRequest(cancelRouter())

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Interview cancelled successfully", respBody["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelInterview_FirstWriteFailureRollsBack(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock)
	expectJobAndCandidate(mock)

	mock.ExpectQuery(`SELECT \* FROM "interview_schedules"`).
		WillReturnRows(interviewRows(mock, models.InterviewUpcoming, false))

	appRows := mock.NewRows([]string{"id", "candidate_id", "job_id", "status", "created_at", "updated_at"}).
		AddRow("application-uuid-1", testCandidateID, testJobID, models.InterviewScheduled, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "applied_jobs"`).WillReturnRows(appRows)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "applied_jobs" SET "status"=`).
		WillReturnError(gorm.ErrInvalidTransaction)
	mock.ExpectRollback()

	resp := cancelRequest(cancelRouter())

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	// the schedule row was never touched
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinStatus_MarksAttended(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT \* FROM "interview_schedules"`).
		WillReturnRows(interviewRows(mock, models.InterviewUpcoming, false))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "interview_schedules"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/interviews/:interview_id/join", func(c *gin.Context) {
		c.Set("user_id", "user-uuid-2")
		c.Set("user_type", "candidate")
		JoinStatus(c)
	})

	req, _ := http.NewRequest(http.MethodPost, "/interviews/interview-uuid-1/join", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendLink_RejectsInvalidURL(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	r := testutils.SetupTestRouter()
	r.POST("/interviews/:interview_id/link", func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Set("user_type", "employer")
		SendLink(c)
	})

	body, _ := json.Marshal(map[string]string{"link": "not a url"})
	req, _ := http.NewRequest(http.MethodPost, "/interviews/interview-uuid-1/link", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
