package controllers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kymani/dukahub-api/config"
	"github.com/kymani/dukahub-api/models"
	"github.com/kymani/dukahub-api/utils"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = time.Hour

	// Password reset tokens share the verification-token table with signup
	// tokens; the identifier prefix keeps the two populations apart.
	resetIdentifierPrefix = "reset:"

	msgUserAlreadyExists     = "user already exists"
	msgFailedToHashPassword  = "failed to hash password"
	msgInvalidCredentials    = "invalid email or password"
	msgAccountNotVerified    = "Account not verified, check your email to verify your account."
	msgFailedToGenerateToken = "failed to generate token"
	msgInvalidVerifyLink     = "Invalid or expired verification link"
	msgVerifySuccess         = "account has been verified successfully."
	msgResetLinkSent         = "Check your email for a password reset link."
	msgUserCreated           = "User created successfully. Check your email to verify your account."
	msgUserNotFound          = "user with this email does not exist"
	msgResetTokenError       = "There was an error trying to generate password reset link. Try again later."
	msgUnableToResetPassword = "unable to reset password"
)

type AuthController struct {
	db     *gorm.DB
	mailer utils.Mailer
	cfg    *config.Config
}

func NewAuthController(db *gorm.DB, mailer utils.Mailer, cfg *config.Config) *AuthController {
	return &AuthController{db: db, mailer: mailer, cfg: cfg}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (c *AuthController) generateJWT(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	})
	return token.SignedString([]byte(c.cfg.JWTSecret))
}

// issueToken stores a fresh single-use token for the identifier, replacing any
// outstanding one.
func (c *AuthController) issueToken(identifier string, ttl time.Duration) (string, error) {
	code, err := utils.GenerateCode(32)
	if err != nil {
		return "", err
	}

	if err := c.db.Where("identifier = ?", identifier).
		Delete(&models.VerificationToken{}).Error; err != nil {
		return "", err
	}

	token := models.VerificationToken{
		Identifier: identifier,
		Token:      code,
		ExpiresAt:  time.Now().Add(ttl),
	}
	if err := c.db.Create(&token).Error; err != nil {
		return "", err
	}
	return code, nil
}

// consumeToken deletes and returns the token row if it matches and has not
// expired. Expired rows discovered here are deleted as well.
func (c *AuthController) consumeToken(identifier, code string) (bool, error) {
	var token models.VerificationToken
	err := c.db.Where("identifier = ? AND token = ?", identifier, code).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := c.db.Where("identifier = ? AND token = ?", identifier, code).
		Delete(&models.VerificationToken{}).Error; err != nil {
		return false, err
	}

	return time.Now().Before(token.ExpiresAt), nil
}

func (c *AuthController) sendVerificationEmail(user models.User, token string) error {
	emailData := utils.EmailData{
		Name:      user.Fullname,
		Message:   "Thank you for signing up! Click the button below to verify your account.",
		ActionURL: c.cfg.FrontendURL + "/auth/verify-email?email=" + url.QueryEscape(user.Email) + "&token=" + url.QueryEscape(token),
	}
	templatePath := filepath.Join("templates", "verify_email.html")
	return c.mailer.Send(user.Email, "Account Verification", emailData, templatePath)
}

func (c *AuthController) sendPasswordResetEmail(user models.User, token string) error {
	emailData := utils.EmailData{
		Name:      user.Fullname,
		Message:   "You requested a password reset. Click the button below to reset your password.",
		ActionURL: c.cfg.FrontendURL + "/auth/reset-password?email=" + url.QueryEscape(user.Email) + "&token=" + url.QueryEscape(token),
	}
	templatePath := filepath.Join("templates", "reset_password.html")
	return c.mailer.Send(user.Email, "Account Password Reset", emailData, templatePath)
}

// Signup handles user registration
func (c *AuthController) Signup(ctx *gin.Context) {
	var signUpData models.SignupData
	if err := ctx.ShouldBindJSON(&signUpData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var existing models.User
	result := c.db.Where("email = ?", signUpData.Email).Find(&existing)
	if result.Error != nil {
		log.Println("Database error during user check:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if result.RowsAffected > 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
		return
	}

	hashedPassword, err := hashPassword(signUpData.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	user := models.User{
		Fullname: signUpData.Fullname,
		Email:    signUpData.Email,
		Password: hashedPassword,
		Role:     models.RoleUser,
	}
	if result := c.db.Create(&user); result.Error != nil {
		log.Println("User creation error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	verifyToken, err := c.issueToken(user.Email, verifyTokenTTL)
	if err != nil {
		log.Println("Token generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := c.sendVerificationEmail(user, verifyToken); err != nil {
		log.Println("Error sending verification email:", err)
		// Continue despite email error, but log it
	} else {
		log.Println("Verification email sent successfully to:", user.Email)
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated})
}

// Login handles user authentication
func (c *AuthController) Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	if err := c.db.Where("email = ?", loginData.Email).First(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	if !user.EmailVerified {
		sendErrorResponse(ctx, http.StatusBadRequest, msgAccountNotVerified)
		return
	}

	tokenString, err := c.generateJWT(user)
	if err != nil {
		log.Println("JWT generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"token": tokenString})
}

// VerifyEmail consumes a signup verification token and activates the account.
func (c *AuthController) VerifyEmail(ctx *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
		Token string `json:"token" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	ok, err := c.consumeToken(body.Email, body.Token)
	if err != nil {
		log.Println("Account verification error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidVerifyLink)
		return
	}

	result := c.db.Model(&models.User{}).
		Where("email = ?", body.Email).
		Update("email_verified", true)
	if result.Error != nil {
		log.Println("Account verification error:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidVerifyLink)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgVerifySuccess})
}

// ForgotPassword sends a password reset link to the user's email
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	if err := c.db.Where("email = ?", body.Email).First(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}

	resetToken, err := c.issueToken(resetIdentifierPrefix+user.Email, resetTokenTTL)
	if err != nil {
		log.Println("Reset token generation error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgResetTokenError)
		return
	}

	if err := c.sendPasswordResetEmail(user, resetToken); err != nil {
		log.Println("Error sending password reset email:", err)
	} else {
		log.Println("Password reset email sent successfully to:", user.Email)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetLinkSent})
}

// ResetPassword resets a user's password using a reset token
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Println("Invalid reset password data:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	ok, err := c.consumeToken(resetIdentifierPrefix+body.Email, body.Token)
	if err != nil {
		log.Println("Error resetting password:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgUnableToResetPassword)
		return
	}
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidVerifyLink)
		return
	}

	hashedPassword, err := hashPassword(body.Password)
	if err != nil {
		log.Println("Password hashing error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	result := c.db.Model(&models.User{}).
		Where("email = ?", body.Email).
		Update("password", hashedPassword)
	if result.Error != nil {
		log.Println("Error resetting password:", result.Error)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgUnableToResetPassword)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotFound)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Password reset successful"})
}
