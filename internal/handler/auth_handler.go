package handler

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"healthtrack/backend/internal/database"
	"healthtrack/backend/internal/mail"
	"healthtrack/backend/internal/models"
	"healthtrack/backend/pkg/jwt"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
	Account  string `json:"account" example:"testuser"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// VerifyInput defines the structure for email verification.
type VerifyInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// ResetPasswordInput defines the structure for password reset.
type ResetPasswordInput struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// endregion

const verificationTTL = 15 * time.Minute

func newVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

func sendVerificationMail(email, code string) {
	body := fmt.Sprintf("Your verification code is: %s. It is valid for 15 minutes.", code)
	if err := mail.Send(email, "Account verification", body); err != nil {
		logrus.WithField("email", email).WithError(err).Warn("verification mail failed")
	}
}

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a user, their default friend groups, and mails a verification code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]string "{"message": "registration successful"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := database.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		if existing.IsVerified {
			c.JSON(http.StatusConflict, gin.H{"error": "This email is already registered and verified"})
			return
		}
		// Unverified re-registration refreshes the password and code.
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		code := newVerificationCode()
		expires := time.Now().Add(verificationTTL)
		updates := map[string]interface{}{
			"password_hash":             string(hashed),
			"verification_code":         code,
			"verification_code_expires": expires,
		}
		if input.Account != "" {
			updates["account"] = input.Account
		}
		if err := database.DB.Model(&existing).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		sendVerificationMail(input.Email, code)
		c.JSON(http.StatusOK, gin.H{"message": "registration successful, verification code sent"})
		return
	}

	if input.Account != "" {
		var taken models.User
		if err := database.DB.Where("account = ?", input.Account).First(&taken).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "This account is already in use"})
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	code := newVerificationCode()
	expires := time.Now().Add(verificationTTL)
	user := models.User{
		Email:                   input.Email,
		Account:                 input.Account,
		PasswordHash:            string(hashed),
		VerificationCode:        code,
		VerificationCodeExpires: &expires,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Every account starts with the three category groups.
	if err := database.DB.Create(models.DefaultFriendGroups(user.ID)).Error; err != nil {
		logrus.WithField("user", user.ID).WithError(err).Error("failed to create default friend groups")
	}

	sendVerificationMail(input.Email, code)
	c.JSON(http.StatusCreated, gin.H{"message": "registration successful, verification code sent"})
}

// VerifyEmail godoc
// @Summary      Verify email
// @Description  Confirms a registration with the mailed verification code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body VerifyInput true "Verification Info"
// @Success      200  {object}  map[string]string "{"message": "email verified"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/verify [post]
func VerifyEmail(c *gin.Context) {
	var input VerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.VerificationCode == "" || user.VerificationCode != input.Code {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code"})
		return
	}
	if user.VerificationCodeExpires == nil || time.Now().After(*user.VerificationCodeExpires) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification code expired"})
		return
	}

	err := database.DB.Model(&user).Updates(map[string]interface{}{
		"is_verified":               true,
		"verification_code":         "",
		"verification_code_expires": nil,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a verified user and returns a JWT.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.IsVerified {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email not verified"})
		return
	}

	token, err := jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ForgotPassword godoc
// @Summary      Request a password reset
// @Description  Mails a reset code to the account's email. Always answers 200 so addresses cannot be probed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body map[string]string true "{"email": "..."}"
// @Success      200  {object}  map[string]string "{"message": "if the email exists, a reset code was sent"}"
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/forgot-password [post]
func ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err == nil {
		code := newVerificationCode()
		expires := time.Now().Add(verificationTTL)
		database.DB.Model(&user).Updates(map[string]interface{}{
			"verification_code":         code,
			"verification_code_expires": expires,
		})
		body := fmt.Sprintf("Your password reset code is: %s. It is valid for 15 minutes.", code)
		if err := mail.Send(user.Email, "Password reset", body); err != nil {
			logrus.WithField("email", user.Email).WithError(err).Warn("reset mail failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "if the email exists, a reset code was sent"})
}

// ResetPassword godoc
// @Summary      Reset password
// @Description  Sets a new password given a valid reset code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body ResetPasswordInput true "Reset Info"
// @Success      200  {object}  map[string]string "{"message": "password updated"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/reset-password [post]
func ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.VerificationCode == "" || user.VerificationCode != input.Code {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reset code"})
		return
	}
	if user.VerificationCodeExpires == nil || time.Now().After(*user.VerificationCodeExpires) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset code expired"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	err = database.DB.Model(&user).Updates(map[string]interface{}{
		"password_hash":             string(hashed),
		"verification_code":         "",
		"verification_code_expires": nil,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
