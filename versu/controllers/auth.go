package controllers

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"versu/versu/config"
	"versu/versu/services/metrics"
	"versu/versu/sources/psql/dao"
	"versu/versu/sources/psql/models"
	"versu/versu/utils/logging"
	"versu/versu/utils/types"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmail    = "demo@versu.ai"
	DemoPassword = "demo123"
	DemoName     = "Usuario Demo"
	DemoAvatar   = "https://avatar.vercel.sh/demo"

	MaxAvatarBytes = 5 << 20
)

// AvatarStore persists profile images and returns a URL the browser can load.
type AvatarStore interface {
	UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (string, error)
}

type AuthController struct {
	userDAO *dao.UserDAO
	avatars AvatarStore
	cfg     config.Config
	now     func() time.Time
}

// NewAuthController accepts a nil AvatarStore when object storage is not configured.
func NewAuthController(userDAO *dao.UserDAO, avatars AvatarStore, cfg config.Config) *AuthController {
	return &AuthController{
		userDAO: userDAO,
		avatars: avatars,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (c *AuthController) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResult, error) {
	email := normalizeEmail(req.Email)
	existing, err := c.userDAO.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		metrics.RecordAuth("register", "conflict")
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), c.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := c.userDAO.CreateUser(ctx, req.Name, email, string(hash), nil)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.RecordAuth("register", "success")
	return c.issue(user)
}

func (c *AuthController) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResult, error) {
	user, err := c.userDAO.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		metrics.RecordAuth("login", "invalid")
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.RecordAuth("login", "invalid")
		return nil, ErrInvalidCredentials
	}
	metrics.RecordAuth("login", "success")
	return c.issue(user)
}

// Demo returns a token for the shared demo account, creating it on first use.
func (c *AuthController) Demo(ctx context.Context) (*types.AuthResult, error) {
	if c.cfg.IsProduction() {
		return nil, ErrDemoDisabled
	}
	user, err := c.EnsureDemoUser(ctx)
	if err != nil {
		return nil, err
	}
	metrics.RecordAuth("demo", "success")
	return c.issue(user)
}

func (c *AuthController) EnsureDemoUser(ctx context.Context) (*models.User, error) {
	user, err := c.userDAO.GetUserByEmail(ctx, DemoEmail)
	if err != nil {
		return nil, fmt.Errorf("lookup demo user: %w", err)
	}
	if user != nil {
		return user, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), c.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	avatar := DemoAvatar
	user, err = c.userDAO.CreateUser(ctx, DemoName, DemoEmail, string(hash), &avatar)
	if err != nil {
		return nil, fmt.Errorf("create demo user: %w", err)
	}
	logging.AppLogger.Info("demo user created", zap.String("user_id", user.ID))
	return user, nil
}

func (c *AuthController) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := c.userDAO.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (c *AuthController) UpdateProfile(ctx context.Context, userID string, req types.UpdateProfileRequest) (*models.User, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if len(updates) == 0 {
		return c.GetProfile(ctx, userID)
	}
	user, err := c.userDAO.UpdateUser(ctx, userID, updates)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UploadAvatar stores an image in object storage and points the profile at it.
func (c *AuthController) UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (*models.User, error) {
	if c.avatars == nil {
		return nil, ErrStorageDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrInvalidAvatar
	}
	if size > MaxAvatarBytes {
		return nil, ErrAvatarTooLarge
	}
	url, err := c.avatars.UploadAvatar(ctx, userID, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	return c.UpdateProfile(ctx, userID, types.UpdateProfileRequest{Avatar: &url})
}

type claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (c *AuthController) IssueToken(userID string) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.JWTExpiresIn)),
		},
	})
	return token.SignedString([]byte(c.cfg.JWTSecret))
}

// VerifyToken checks the signature and expiry, then loads the user the token names.
func (c *AuthController) VerifyToken(ctx context.Context, tokenStr string) (*models.User, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(tokenStr, &cl, func(token *jwt.Token) (interface{}, error) {
		return []byte(c.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || cl.UserID == "" {
		return nil, ErrInvalidToken
	}
	user, err := c.userDAO.GetUserByID(ctx, cl.UserID)
	if err != nil {
		return nil, fmt.Errorf("load token user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (c *AuthController) issue(user *models.User) (*types.AuthResult, error) {
	token, err := c.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &types.AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
