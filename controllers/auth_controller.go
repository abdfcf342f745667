package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"gorm.io/gorm"

	"github.com/clwei/goblog/config"
	"github.com/clwei/goblog/models"
	"github.com/clwei/goblog/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController handles registration, login, and the GitHub OAuth flow.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a local account and issues a JWT.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=2,max=255"`
		Email    string `json:"email" binding:"required,email,max=255"`
		Password string `json:"password" binding:"required,min=8"`
		Confirm  string `json:"password_confirmation" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	if req.Password != req.Confirm {
		utils.Error(ctx, http.StatusBadRequest, 40002, "password confirmation does not match")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.User
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		Name:         utils.StripTags(strings.TrimSpace(req.Name)),
		Email:        email,
		PasswordHash: hash,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Name, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": publicUser(user)})
}

// Login authenticates by email and password.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := a.db.Where("email = ?", email).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Name, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": publicUser(user)})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenLifetime)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "user not found")
		return
	}

	utils.Success(ctx, publicUser(user))
}

// UpdateProfile allows the authenticated user to change name and email.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "user not found")
		return
	}

	if name := utils.StripTags(strings.TrimSpace(req.Name)); name != "" {
		user.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != user.Email {
		var count int64
		if err := a.db.Model(&models.User{}).
			Where("email = ? AND id <> ?", email, user.ID).
			Count(&count).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to check email")
			return
		}
		if count > 0 {
			utils.Error(ctx, http.StatusConflict, 40902, "email already registered")
			return
		}
		user.Email = email
	}

	if err := a.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to update profile")
		return
	}

	utils.Success(ctx, publicUser(user))
}

// OAuthRedirect generates the GitHub authorization URL.
func (a *AuthController) OAuthRedirect(ctx *gin.Context) {
	cfg, err := a.oauthConfig()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, err.Error())
		return
	}

	state := uuid.NewString()
	utils.SaveState(state, 10*time.Minute)

	url := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	utils.Success(ctx, gin.H{"authorization_url": url, "state": state})
}

// OAuthCallback exchanges the authorization code for a user identity and
// issues a JWT.
func (a *AuthController) OAuthCallback(ctx *gin.Context) {
	code := ctx.Query("code")
	state := ctx.Query("state")
	if code == "" || state == "" {
		utils.Error(ctx, http.StatusBadRequest, 40006, "missing code or state")
		return
	}
	if !utils.ConsumeState(state) {
		utils.Error(ctx, http.StatusBadRequest, 40007, "invalid or expired state")
		return
	}

	cfg, err := a.oauthConfig()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, err.Error())
		return
	}

	token, err := cfg.Exchange(context.Background(), code)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40008, "failed to exchange code")
		return
	}

	info, err := fetchGitHubUser(token)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, err.Error())
		return
	}

	user, err := a.findOrCreateOAuthUser(info)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50008, "failed to persist user")
		return
	}

	jwtToken, err := utils.GenerateToken(user.ID, user.Name, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": jwtToken, "user": publicUser(*user)})
}

func (a *AuthController) oauthConfig() (*oauth2.Config, error) {
	cfg := config.Get()
	if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
		return nil, fmt.Errorf("github oauth not configured")
	}
	return &oauth2.Config{
		ClientID:     cfg.GitHubClientID,
		ClientSecret: cfg.GitHubClientSecret,
		RedirectURL:  fmt.Sprintf("%s/api/v1/auth/oauth/github/callback", cfg.OAuthRedirectBase),
		Scopes:       []string{"read:user", "user:email"},
		Endpoint:     github.Endpoint,
	}, nil
}

type oauthUser struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
}

func fetchGitHubUser(token *oauth2.Token) (*oauthUser, error) {
	req, _ := http.NewRequest("GET", "https://api.github.com/user", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch github user: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode github user: %w", err)
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		name = payload.Login
	}
	return &oauthUser{
		ID:        strconv.FormatInt(payload.ID, 10),
		Name:      name,
		Email:     strings.TrimSpace(payload.Email),
		AvatarURL: payload.AvatarURL,
	}, nil
}

func (a *AuthController) findOrCreateOAuthUser(data *oauthUser) (*models.User, error) {
	const provider = "github"

	var user models.User
	err := a.db.Where("provider = ? AND provider_id = ?", provider, data.ID).First(&user).Error
	if err == nil {
		updates := map[string]interface{}{"avatar_url": data.AvatarURL}
		if data.Email != "" {
			updates["email"] = strings.ToLower(data.Email)
		}
		_ = a.db.Model(&user).Updates(updates)
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(data.Email))
	if email == "" {
		email = fmt.Sprintf("%s@users.noreply.github.com", data.ID)
	}
	user = models.User{
		Name:       data.Name,
		Email:      email,
		Provider:   provider,
		ProviderID: data.ID,
		AvatarURL:  data.AvatarURL,
	}
	if err := a.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
