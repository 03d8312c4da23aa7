package auth

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"
	"worknest-backend/db"
	"worknest-backend/models"
	"worknest-backend/utils"
	mailsmodels "worknest-backend/utils/mails-models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func generateOtp() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}

func validateRegisterInput(c *gin.Context, input *models.RegisterInput) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return false
	}

	if !utils.ValidateEmail(input.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return false
	}

	hasLower := strings.ContainsAny(input.Password, "abcdefghijklmnopqrstuvwxyz")
	hasUpper := strings.ContainsAny(input.Password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	hasDigit := strings.ContainsAny(input.Password, "0123456789")

	if !hasLower || !hasUpper || !hasDigit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The password must contain at least one lowercase, one uppercase and one digit"})
		return false
	}

	return true
}

// register creates the account row plus its typed profile in one transaction
// so a half-created account can never log in.
func register(c *gin.Context, userType models.UserType) {
	var input models.RegisterInput
	if !validateRegisterInput(c, &input) {
		return
	}

	var existingUser models.User
	if err := db.DB.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "This email is already used"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error when checking the email existence"})
		return
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error hashing the password"})
		return
	}

	otp := generateOtp()
	user := models.User{
		Email:     input.Email,
		Password:  passwordHash,
		FullName:  input.FullName,
		UserType:  userType,
		IsActive:  true,
		Otp:       otp,
		OtpExpiry: sql.NullTime{Time: time.Now().Add(10 * time.Minute), Valid: true},
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		switch userType {
		case models.CandidateType:
			return tx.Create(&models.Candidate{UserID: user.ID}).Error
		case models.EmployerType:
			return tx.Create(&models.Employer{UserID: user.ID}).Error
		}
		return nil
	})
	if err != nil {
		utils.LogError(err, "Error creating user in register")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating the account"})
		return
	}

	go mailsmodels.OtpVerification(user.Email, otp)

	utils.LogSuccessWithUser(user.ID, "Account created in register")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created. A verification code has been sent by email.",
		"email":   user.Email,
	})
}

// @Summary Register a candidate account
// @Description Create a candidate account and send an OTP verification code by email
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.RegisterInput true "Account information"
// @Success 201 {object} map[string]interface{} "message, email"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 409 {object} map[string]string "error: Email already used"
// @Router /register/candidate [post]
func RegisterCandidate(c *gin.Context) {
	register(c, models.CandidateType)
}

// @Summary Register an employer account
// @Description Create an employer account and send an OTP verification code by email
// @Tags auth
// @Accept json
// @Produce json
// @Param user body models.RegisterInput true "Account information"
// @Success 201 {object} map[string]interface{} "message, email"
// @Failure 400 {object} map[string]string "error: Invalid input"
// @Failure 409 {object} map[string]string "error: Email already used"
// @Router /register/employer [post]
func RegisterEmployer(c *gin.Context) {
	register(c, models.EmployerType)
}

type otpInput struct {
	Email string `json:"email" binding:"required,email"`
	Otp   string `json:"otp" binding:"required"`
}

// @Summary Verify the OTP code
// @Description Activate an account with the code received by email
// @Tags auth
// @Accept json
// @Produce json
// @Param body body otpInput true "Email and code"
// @Success 200 {object} map[string]string "message: Account verified"
// @Failure 400 {object} map[string]string "error: Invalid or expired code"
// @Router /verify-otp [post]
func VerifyOtp(c *gin.Context) {
	var input otpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.Otp == "" || user.Otp != input.Otp {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code"})
		return
	}
	if !user.OtpExpiry.Valid || user.OtpExpiry.Time.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification code expired"})
		return
	}

	updates := map[string]interface{}{
		"is_verified": true,
		"otp":         "",
		"otp_expiry":  sql.NullTime{Valid: false},
	}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error verifying the account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account verified successfully"})
}

type resendOtpInput struct {
	Email string `json:"email" binding:"required,email"`
}

// @Summary Resend the OTP code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body resendOtpInput true "Email"
// @Success 200 {object} map[string]string "message: Code sent"
// @Router /resend-otp [post]
func ResendOtp(c *gin.Context) {
	var input resendOtpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	otp := generateOtp()
	updates := map[string]interface{}{
		"otp":        otp,
		"otp_expiry": sql.NullTime{Time: time.Now().Add(10 * time.Minute), Valid: true},
	}
	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error renewing the code"})
		return
	}

	go mailsmodels.OtpVerification(user.Email, otp)
	c.JSON(http.StatusOK, gin.H{"message": "A new verification code has been sent"})
}

func login(c *gin.Context, userType models.UserType) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if user.UserType != userType {
		c.JSON(http.StatusForbidden, gin.H{"error": "This account is not a " + string(userType) + " account"})
		return
	}

	if !checkPassword(user.Password, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "This account has been disabled"})
		return
	}

	if !user.IsVerified && userType != models.AdminType {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account not verified, check your email for the code"})
		return
	}

	token, err := utils.GenerateJWT(user, 72)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating the token"})
		return
	}

	utils.LogSuccessWithUser(user.ID, "Login successful")
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"user_type": user.UserType,
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"fullName": user.FullName,
		},
	})
}

// @Summary Candidate login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{} "token, user_type, user"
// @Failure 401 {object} map[string]string "error: Invalid email or password"
// @Router /login/candidate [post]
func CandidateLogin(c *gin.Context) {
	login(c, models.CandidateType)
}

// @Summary Employer login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{} "token, user_type, user"
// @Failure 401 {object} map[string]string "error: Invalid email or password"
// @Router /login/employer [post]
func EmployerLogin(c *gin.Context) {
	login(c, models.EmployerType)
}

// @Summary Admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{} "token, user_type, user"
// @Failure 401 {object} map[string]string "error: Invalid email or password"
// @Router /login/admin [post]
func AdminLogin(c *gin.Context) {
	login(c, models.AdminType)
}

// @Summary Current user profile
// @Description Return the profile matching the account type resolved at login
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "user_type, data"
// @Failure 404 {object} map[string]string "error: Profile not found"
// @Router /me [get]
func CurrentUser(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userType, _ := c.Get("user_type")

	switch userType {
	case "candidate":
		var candidate models.Candidate
		if err := db.DB.Preload("User").Where("user_id = ?", userID).First(&candidate).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate profile not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_type": "candidate", "data": candidate})
	case "employer":
		var employer models.Employer
		if err := db.DB.Preload("User").Where("user_id = ?", userID).First(&employer).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Employer profile not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_type": "employer", "data": employer})
	default:
		var user models.User
		if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_type": user.UserType, "data": user})
	}
}

// @Summary Update the candidate profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Candidate
// @Router /me/candidate [put]
func UpdateCandidateProfile(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var candidate models.Candidate
	if err := db.DB.Where("user_id = ?", userID).First(&candidate).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate profile not found"})
		return
	}

	var updates models.Candidate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	// only profile fields may change through this endpoint
	updates.ID = candidate.ID
	updates.UserID = candidate.UserID
	if err := db.DB.Model(&candidate).Omit("User").Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the profile"})
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// @Summary Update the employer profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Employer
// @Router /me/employer [put]
func UpdateEmployerProfile(c *gin.Context) {
	userID, _ := c.Get("user_id")

	var employer models.Employer
	if err := db.DB.Where("user_id = ?", userID).First(&employer).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employer profile not found"})
		return
	}

	var updates models.Employer
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	updates.ID = employer.ID
	updates.UserID = employer.UserID
	updates.IsApproved = employer.IsApproved
	if err := db.DB.Model(&employer).Omit("User").Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the profile"})
		return
	}

	c.JSON(http.StatusOK, employer)
}

type forgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// @Summary Request a password reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body forgotPasswordInput true "Email"
// @Success 200 {object} map[string]string "message: Code sent"
// @Router /forgot-password [post]
func ForgotPassword(c *gin.Context) {
	var input forgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		// same answer whether the account exists or not
		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset code has been sent"})
		return
	}

	otp := generateOtp()
	db.DB.Model(&user).Updates(map[string]interface{}{
		"otp":        otp,
		"otp_expiry": sql.NullTime{Time: time.Now().Add(10 * time.Minute), Valid: true},
	})

	go mailsmodels.OtpVerification(user.Email, otp)
	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset code has been sent"})
}

type resetPasswordInput struct {
	Email    string `json:"email" binding:"required,email"`
	Otp      string `json:"otp" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// @Summary Reset the password with a code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body resetPasswordInput true "Email, code, new password"
// @Success 200 {object} map[string]string "message: Password updated"
// @Failure 400 {object} map[string]string "error: Invalid or expired code"
// @Router /reset-password [post]
func ResetPassword(c *gin.Context) {
	var input resetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.Otp == "" || user.Otp != input.Otp {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reset code"})
		return
	}
	if !user.OtpExpiry.Valid || user.OtpExpiry.Time.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset code expired"})
		return
	}

	passwordHash, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error hashing the password"})
		return
	}

	if err := db.DB.Model(&user).Updates(map[string]interface{}{
		"password":   passwordHash,
		"otp":        "",
		"otp_expiry": sql.NullTime{Valid: false},
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
