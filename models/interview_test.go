package models_test

import (
	"testing"
	"time"

	"worknest-backend/models"
	"worknest-backend/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestInterviewCreate_DeactivatesPriorActiveRows(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	// the create hook retires the previous active interview for the pair
	mock.ExpectExec(`UPDATE "interview_schedules" SET "active"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "interview_schedules" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("interview-uuid-2"))
	mock.ExpectCommit()

	interview := models.InterviewSchedule{
		CandidateID: "candidate-uuid-1",
		EmployerID:  "employer-uuid-1",
		JobID:       "job-uuid-1",
		Date:        time.Now().Add(48 * time.Hour),
		Active:      true,
		Status:      models.InterviewUpcoming,
	}

	err := gormDB.Create(&interview).Error

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterviewCreate_InactiveRowSkipsHook(t *testing.T) {
	gormDB, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "interview_schedules" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("interview-uuid-3"))
	mock.ExpectCommit()

	interview := models.InterviewSchedule{
		CandidateID: "candidate-uuid-1",
		EmployerID:  "employer-uuid-1",
		JobID:       "job-uuid-1",
		Date:        time.Now().Add(48 * time.Hour),
		Active:      false,
		Status:      models.InterviewCanceled,
	}

	err := gormDB.Create(&interview).Error

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCanPostJob(t *testing.T) {
	within := models.EmployerSubscription{Status: models.SubscriptionActive, JobLimit: 5, SubscribedJob: 4}
	assert.True(t, within.CanPostJob())

	exhausted := models.EmployerSubscription{Status: models.SubscriptionActive, JobLimit: 5, SubscribedJob: 5}
	assert.False(t, exhausted.CanPostJob())

	unlimited := models.EmployerSubscription{Status: models.SubscriptionActive, JobLimit: models.UnlimitedJobLimit, SubscribedJob: 100000}
	assert.True(t, unlimited.CanPostJob())

	pending := models.EmployerSubscription{Status: models.SubscriptionPending, JobLimit: 5, SubscribedJob: 0}
	assert.False(t, pending.CanPostJob())
}

func TestIsValidApplicationStatus(t *testing.T) {
	assert.True(t, models.IsValidApplicationStatus("Application Send"))
	assert.True(t, models.IsValidApplicationStatus("Interview Cancelled"))
	assert.False(t, models.IsValidApplicationStatus("Teleported"))
	assert.False(t, models.IsValidApplicationStatus(""))
}

func TestJobIsClosed(t *testing.T) {
	open := models.Job{}
	assert.False(t, open.IsClosed())

	future := time.Now().AddDate(0, 0, 7)
	assert.False(t, models.Job{ApplyBefore: &future}.IsClosed())

	past := time.Now().AddDate(0, 0, -7)
	assert.True(t, models.Job{ApplyBefore: &past}.IsClosed())
}
