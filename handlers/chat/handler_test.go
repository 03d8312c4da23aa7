package chat

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
	testCandidateUserID = "user-uuid-2"
	testCandidateID     = "candidate-uuid-1"
	testEmployerUserID  = "user-uuid-1"
	testEmployerID      = "employer-uuid-1"
)

func expectCandidateCallerPair(mock sqlmock.Sqlmock) {
	candidateRows := mock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).
		AddRow(testCandidateID, testCandidateUserID, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "candidates"`).WillReturnRows(candidateRows)
	candidateUserRows := mock.NewRows([]string{"id", "full_name", "user_type"}).
		AddRow(testCandidateUserID, "Jane Candidate", "candidate")
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(candidateUserRows)

	employerRows := mock.NewRows([]string{"id", "user_id", "created_at", "updated_at"}).
		AddRow(testEmployerID, testEmployerUserID, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "employers"`).WillReturnRows(employerRows)
	employerUserRows := mock.NewRows([]string{"id", "full_name", "user_type"}).
		AddRow(testEmployerUserID, "Acme Corp", "employer")
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(employerUserRows)
}

func candidateChatRouter(handler gin.HandlerFunc, method, path string) *gin.Engine {
	r := testutils.SetupTestRouter()
	r.Handle(method, path, func(c *gin.Context) {
		c.Set("user_id", testCandidateUserID)
		c.Set("user_type", "candidate")
		handler(c)
	})
	return r
}

func TestGetMessages_UnapprovedPairRefused(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectCandidateCallerPair(mock)

	// no approved approval row for the pair
	mock.ExpectQuery(`SELECT \* FROM "approvals"`).
		WillReturnRows(mock.NewRows([]string{"id"}))

	r := candidateChatRouter(GetMessages, http.MethodGet, "/chat/:other_id/messages")
	req, _ := http.NewRequest(http.MethodGet, "/chat/"+testEmployerID+"/messages", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusForbidden, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Chat has not been approved", respBody["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendMessage_EmptyBodyRefused(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectCandidateCallerPair(mock)

	r := candidateChatRouter(SendMessage, http.MethodPost, "/chat/:other_id/messages")

	body, _ := json.Marshal(map[string]string{"message": "", "file_url": ""})
	req, _ := http.NewRequest(http.MethodPost, "/chat/"+testEmployerID+"/messages", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
