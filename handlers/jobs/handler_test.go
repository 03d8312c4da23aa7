package jobs

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
	testUserID     = "user-uuid-1"
	testEmployerID = "employer-uuid-1"
)

func expectEmployerLookup(mock sqlmock.Sqlmock, approved bool) {
	employerRows := mock.NewRows([]string{"id", "user_id", "phone", "headquarters", "about", "website_link", "industry", "profile_picture", "is_approved", "created_at", "updated_at"}).
		AddRow(testEmployerID, testUserID, "", "", "", "", "", "", approved, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "employers"`).WillReturnRows(employerRows)

	userRows := mock.NewRows([]string{"id", "email", "password", "full_name", "user_type", "is_active", "is_verified", "created_at", "updated_at"}).
		AddRow(testUserID, "employer@example.com", "hashed", "Acme Corp", "employer", true, true, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows)
}

func subscriptionRows(mock sqlmock.Sqlmock, jobLimit, subscribedJob int) *sqlmock.Rows {
	end := time.Now().AddDate(0, 0, 15)
	return mock.NewRows([]string{"id", "employer_id", "plan_id", "reference_id", "payment_id", "status", "start_date", "end_date", "job_limit", "subscribed_job", "created_at", "updated_at"}).
		AddRow("sub-uuid-1", testEmployerID, "plan-uuid-1", "sub_abc123", nil, "active", time.Now().AddDate(0, 0, -15), end, jobLimit, subscribedJob, time.Now(), time.Now())
}

func postJobRouter() *gin.Engine {
	r := testutils.SetupTestRouter()
	r.POST("/employer/jobs", func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Set("user_type", "employer")
		PostJob(c)
	})
	return r
}

func postJob(r *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, "/employer/jobs", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestPostJob_WithinQuota_IncrementsCounter(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "employer_subscriptions" (.+) FOR UPDATE`).
		WillReturnRows(subscriptionRows(mock, 5, 2))
	mock.ExpectQuery(`INSERT INTO "jobs" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("job-uuid-1"))
	mock.ExpectExec(`UPDATE "employer_subscriptions" SET "subscribed_job"=subscribed_job \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp := postJob(postJobRouter(), map[string]interface{}{"title": "Backend Engineer"})

	assert.Equal(t, http.StatusCreated, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Job posted successfully", respBody["message"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostJob_UnlimitedPlan_NeverBlocks(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "employer_subscriptions" (.+) FOR UPDATE`).
		WillReturnRows(subscriptionRows(mock, models.UnlimitedJobLimit, 500))
	mock.ExpectQuery(`INSERT INTO "jobs" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("job-uuid-2"))
	mock.ExpectExec(`UPDATE "employer_subscriptions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp := postJob(postJobRouter(), map[string]interface{}{"title": "Platform Engineer"})

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostJob_NoActiveSubscription(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "employer_subscriptions" (.+) FOR UPDATE`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	resp := postJob(postJobRouter(), map[string]interface{}{"title": "Backend Engineer"})

	assert.Equal(t, http.StatusPaymentRequired, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, true, respBody["subscription_required"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostJob_OverQuota_UnverifiedPayment(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "employer_subscriptions" (.+) FOR UPDATE`).
		WillReturnRows(subscriptionRows(mock, 1, 1))
	mock.ExpectQuery(`INSERT INTO "jobs" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("job-uuid-4"))
	mock.ExpectExec(`UPDATE "payments" SET "job_id"=(.+)job_id IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	resp := postJob(postJobRouter(), map[string]interface{}{
		"title":               "Backend Engineer",
		"razorpay_payment_id": "pay_unknown",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, "Invalid or unverified payment", respBody["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostJob_SupplementalSlotSkipsCounter(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "employer_subscriptions" (.+) FOR UPDATE`).
		WillReturnRows(subscriptionRows(mock, 1, 1))
	mock.ExpectQuery(`INSERT INTO "jobs" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("job-uuid-3"))
	// no counter update expected: the paid slot is outside the base quota
	mock.ExpectExec(`UPDATE "payments" SET "job_id"=(.+)job_id IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp := postJob(postJobRouter(), map[string]interface{}{
		"title":               "Backend Engineer",
		"razorpay_payment_id": "pay_verified",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostJob_OverQuota_NoPayment_CreatesOrder(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	orig := createOrder
	createOrder = func(amount float64, receipt string, notes map[string]interface{}) (string, error) {
		assert.Equal(t, float64(SupplementalJobFee), amount)
		return "order_supp_1", nil
	}
	defer func() { createOrder = orig }()

	expectEmployerLookup(mock, true)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "employer_subscriptions" (.+) FOR UPDATE`).
		WillReturnRows(subscriptionRows(mock, 1, 1))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payments" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("payment-uuid-1"))
	mock.ExpectCommit()

	resp := postJob(postJobRouter(), map[string]interface{}{"title": "Backend Engineer"})

	assert.Equal(t, http.StatusPaymentRequired, resp.Code)

	var respBody map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, true, respBody["payment_required"])
	assert.Equal(t, "order_supp_1", respBody["order_id"])
	assert.Equal(t, float64(SupplementalJobFee*100), respBody["amount"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostJob_UnapprovedEmployer(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	expectEmployerLookup(mock, false)

	resp := postJob(postJobRouter(), map[string]interface{}{"title": "Backend Engineer"})

	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllJobs_OnlyOpenJobs(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	rows := mock.NewRows([]string{"id", "employer_id", "title", "location", "active", "posted_on"}).
		AddRow("job-uuid-1", testEmployerID, "Backend Engineer", "Kochi", true, time.Now()).
		AddRow("job-uuid-2", testEmployerID, "Data Engineer", "Remote", true, time.Now().Add(-time.Hour))

	mock.ExpectQuery(`SELECT \* FROM "jobs"`).WillReturnRows(rows)
	employerRows := mock.NewRows([]string{"id", "user_id"}).AddRow(testEmployerID, testUserID)
	mock.ExpectQuery(`SELECT \* FROM "employers"`).WillReturnRows(employerRows)
	userRows := mock.NewRows([]string{"id", "full_name"}).AddRow(testUserID, "Acme Corp")
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows)

	r := testutils.SetupTestRouter()
	r.GET("/jobs", GetAllJobs)

	req, _ := http.NewRequest(http.MethodGet, "/jobs", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var jobs []models.Job
	json.Unmarshal(resp.Body.Bytes(), &jobs)
	assert.Len(t, jobs, 2)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
}
