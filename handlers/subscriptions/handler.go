package subscriptions

import (
	"database/sql"
	"net/http"
	"strings"
	"time"
	"worknest-backend/db"
	"worknest-backend/models"
	"worknest-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newReferenceID() string {
	return "sub_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:14]
}

// createOrder indirects the gateway call so tests can stub it.
var createOrder = utils.CreateRazorpayOrder

func employerForUser(c *gin.Context) (*models.Employer, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	var employer models.Employer
	if err := db.DB.Preload("User").Where("user_id = ?", userID).First(&employer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employer profile not found"})
		return nil, false
	}
	return &employer, true
}

// @Summary List subscription plans
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SubscriptionPlan
// @Router /plans [get]
func GetPlans(c *gin.Context) {
	var plans []models.SubscriptionPlan
	if err := db.DB.Order("price ASC").Find(&plans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching plans"})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// @Summary Create a subscription plan
// @Description Admin only. Plan definitions are immutable for running subscriptions: each ledger row keeps its own snapshot of the limit.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param plan body models.SubscriptionPlan true "Plan"
// @Security BearerAuth
// @Success 201 {object} models.SubscriptionPlan
// @Failure 409 {object} map[string]string "error: Plan already exists"
// @Router /plans [post]
func CreatePlan(c *gin.Context) {
	var plan models.SubscriptionPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data: " + err.Error()})
		return
	}

	var existing models.SubscriptionPlan
	if err := db.DB.Where("LOWER(name) = LOWER(?)", string(plan.Name)).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A plan with this name already exists"})
		return
	}

	if plan.DurationDays == 0 {
		plan.DurationDays = 30
	}
	if err := db.DB.Create(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the plan"})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

type createSubscriptionInput struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// @Summary Start a subscription checkout
// @Description Creates a gateway order, a pending payment and a pending subscription. A previously active subscription is set inactive so the employer never has two live rows.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body createSubscriptionInput true "Plan id"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "order_id, amount, key_id, subscription_id"
// @Failure 400 {object} map[string]string "error: Invalid plan ID"
// @Router /subscriptions [post]
func CreateSubscription(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	var input createSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plan ID is required"})
		return
	}

	var plan models.SubscriptionPlan
	if err := db.DB.Where("id = ?", input.PlanID).First(&plan).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan ID"})
		return
	}

	// one live ledger row per employer
	var activeSub models.EmployerSubscription
	if err := db.DB.Where("employer_id = ? AND status = ? AND end_date > ?",
		employer.ID, models.SubscriptionActive, time.Now()).
		First(&activeSub).Error; err == nil {
		utils.LogInfo("Deactivating existing subscription " + activeSub.ReferenceID)
		db.DB.Model(&activeSub).Update("status", models.SubscriptionInactive)
	}

	orderID, err := createOrder(plan.Price,
		"order_rcpt_"+employer.ID+"_"+plan.ID,
		map[string]interface{}{"plan_id": plan.ID, "employer_id": employer.ID})
	if err != nil {
		utils.LogErrorWithUser(employer.UserID, err, "Error creating gateway order in CreateSubscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the payment order"})
		return
	}

	payment := models.Payment{
		UserID:        employer.UserID,
		EmployerID:    employer.ID,
		Amount:        plan.Price,
		Method:        "Razorpay",
		TransactionID: orderID,
		Status:        models.PaymentPending,
	}
	if err := db.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error recording the payment"})
		return
	}

	now := time.Now()
	end := now.AddDate(0, 0, plan.DurationDays)
	subscription := models.EmployerSubscription{
		EmployerID:  employer.ID,
		PlanID:      plan.ID,
		ReferenceID: newReferenceID(),
		PaymentID:   &payment.ID,
		Status:      models.SubscriptionPending,
		StartDate:   &now,
		EndDate:     &end,
		JobLimit:    plan.JobLimit,
	}
	if err := db.DB.Create(&subscription).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the subscription"})
		return
	}

	utils.LogSuccessWithUser(employer.UserID, "Subscription order created in CreateSubscription")
	c.JSON(http.StatusCreated, gin.H{
		"message":           "Order created. Please complete payment.",
		"order_id":          orderID,
		"amount":            int64(plan.Price * 100),
		"key_id":            utils.RazorpayKeyID(),
		"subscription_id":   subscription.ReferenceID,
		"subscription_type": "new",
	})
}

type verifyPaymentInput struct {
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// @Summary Verify a subscription payment
// @Description Checks the gateway signature; on success the payment is marked success and the subscription activated. An invalid signature leaves both rows untouched.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body verifyPaymentInput true "Gateway verification triple"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message: Payment successful"
// @Failure 400 {object} map[string]string "error: Invalid signature"
// @Router /subscriptions/verify [post]
func VerifyPayment(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	var input verifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required payment parameters"})
		return
	}

	var payment models.Payment
	if err := db.DB.Where("transaction_id = ? AND employer_id = ? AND status = ?",
		input.RazorpayOrderID, employer.ID, models.PaymentPending).
		First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment record not found"})
		return
	}

	var subscription models.EmployerSubscription
	if err := db.DB.Where("payment_id = ? AND employer_id = ?", payment.ID, employer.ID).
		First(&subscription).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription record not found"})
		return
	}

	if !utils.VerifyRazorpaySignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature) {
		utils.LogErrorWithUser(employer.UserID, nil, "Invalid signature in VerifyPayment")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed - invalid signature"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&payment).Updates(map[string]interface{}{
			"status":             models.PaymentSuccess,
			"gateway_payment_id": input.RazorpayPaymentID,
			"completed_at":       sql.NullTime{Time: time.Now(), Valid: true},
		}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"status": models.SubscriptionActive}
		if subscription.Status != models.SubscriptionActive {
			updates["start_date"] = time.Now()
		}
		return tx.Model(&subscription).Updates(updates).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error activating the subscription"})
		return
	}

	utils.LogSuccessWithUser(employer.UserID, "Payment verified, subscription activated")
	c.JSON(http.StatusOK, gin.H{"message": "Payment successful. Subscription activated."})
}

// @Summary Verify a supplemental job payment
// @Description Marks the one-off over-quota payment success; the payment id becomes the proof presented back to the job posting endpoint.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body verifyPaymentInput true "Gateway verification triple"
// @Security BearerAuth
// @Success 200 {object} map[string]string "message, payment_id"
// @Failure 400 {object} map[string]string "error: Invalid signature"
// @Router /subscriptions/verify-job-payment [post]
func VerifyJobPayment(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	var input verifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required payment parameters"})
		return
	}

	var payment models.Payment
	if err := db.DB.Where("transaction_id = ? AND employer_id = ? AND status = ?",
		input.RazorpayOrderID, employer.ID, models.PaymentPending).
		First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment record not found"})
		return
	}

	if !utils.VerifyRazorpaySignature(input.RazorpayOrderID, input.RazorpayPaymentID, input.RazorpaySignature) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed - invalid signature"})
		return
	}

	// The transaction handle becomes the gateway payment id: that is the
	// value the client sends along with the job post as proof.
	if err := db.DB.Model(&payment).Updates(map[string]interface{}{
		"status":             models.PaymentSuccess,
		"transaction_id":     input.RazorpayPaymentID,
		"gateway_payment_id": input.RazorpayPaymentID,
		"completed_at":       sql.NullTime{Time: time.Now(), Valid: true},
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Payment successful. You can now post the additional job.",
		"payment_id": input.RazorpayPaymentID,
	})
}

type renewSubscriptionInput struct {
	SubID     string `json:"sub_id" binding:"required"`
	ResetJobs bool   `json:"reset_jobs"`
}

// @Summary Renew a subscription
// @Description Active and unexpired: the row is extended in place, counter kept unless reset_jobs is set. Expired or inactive: a fresh ledger row is created. Restricted subscriptions cannot be renewed.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body renewSubscriptionInput true "Subscription reference and reset flag"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "order_id, amount, key_id, subscription_id"
// @Failure 403 {object} map[string]string "error: Subscription is restricted"
// @Router /subscriptions/renew [post]
func RenewSubscription(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	var input renewSubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subscription ID required"})
		return
	}

	var subscription models.EmployerSubscription
	if err := db.DB.Preload("Plan").
		Where("reference_id = ? AND employer_id = ?", input.SubID, employer.ID).
		First(&subscription).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription ID"})
		return
	}
	plan := subscription.Plan

	if subscription.Status == models.SubscriptionRestricted {
		utils.LogErrorWithUser(employer.UserID, nil, "Renewal attempt on restricted subscription "+input.SubID)
		c.JSON(http.StatusForbidden, gin.H{"error": "Subscription is restricted due to exceeding job limit. Resolve before renewing."})
		return
	}

	subscriptionType := "new"
	var payment models.Payment
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if subscription.Status == models.SubscriptionActive &&
			subscription.EndDate != nil && subscription.EndDate.After(time.Now()) {
			// extend in place, payment pending again until verified
			newEnd := subscription.EndDate.AddDate(0, 0, plan.DurationDays)
			updates := map[string]interface{}{
				"end_date":  newEnd,
				"status":    models.SubscriptionPending,
				"job_limit": plan.JobLimit,
			}
			if input.ResetJobs {
				updates["subscribed_job"] = 0
			}
			if err := tx.Model(&subscription).Updates(updates).Error; err != nil {
				return err
			}
			subscriptionType = "extension"
		} else {
			now := time.Now()
			end := now.AddDate(0, 0, plan.DurationDays)
			subscription = models.EmployerSubscription{
				EmployerID:  employer.ID,
				PlanID:      plan.ID,
				ReferenceID: newReferenceID(),
				Status:      models.SubscriptionPending,
				StartDate:   &now,
				EndDate:     &end,
				JobLimit:    plan.JobLimit,
			}
			if err := tx.Create(&subscription).Error; err != nil {
				return err
			}
		}

		orderID, err := createOrder(plan.Price,
			"order_rcpt_"+employer.ID+"_"+plan.ID,
			map[string]interface{}{"plan_id": plan.ID, "employer_id": employer.ID})
		if err != nil {
			return err
		}

		payment = models.Payment{
			UserID:        employer.UserID,
			EmployerID:    employer.ID,
			Amount:        plan.Price,
			Method:        "Razorpay",
			TransactionID: orderID,
			Status:        models.PaymentPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&subscription).Update("payment_id", payment.ID).Error
	})
	if err != nil {
		utils.LogErrorWithUser(employer.UserID, err, "Error renewing subscription")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error renewing the subscription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":           "Order created. Please complete payment.",
		"order_id":          payment.TransactionID,
		"amount":            int64(plan.Price * 100),
		"key_id":            utils.RazorpayKeyID(),
		"planId":            plan.ID,
		"subscription_id":   subscription.ReferenceID,
		"subscription_type": subscriptionType,
	})
}

// @Summary Subscription history for the authenticated employer
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.EmployerSubscription
// @Router /subscriptions [get]
func GetMySubscriptions(c *gin.Context) {
	employer, ok := employerForUser(c)
	if !ok {
		return
	}

	var subs []models.EmployerSubscription
	if err := db.DB.Preload("Plan").
		Where("employer_id = ?", employer.ID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}
