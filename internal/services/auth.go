package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	caregiverrepo "github.com/hearthside/carepath-backend/internal/data/repos/caregiver"
	types "github.com/hearthside/carepath-backend/internal/domain"
	"github.com/hearthside/carepath-backend/internal/pkg/apperr"
	"github.com/hearthside/carepath-backend/internal/pkg/dbctx"
	"github.com/hearthside/carepath-backend/internal/pkg/logger"
	"github.com/hearthside/carepath-backend/internal/requestdata"
)

type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Language  string `json:"language"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.Caregiver, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context) (*TokenPair, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*types.Caregiver, error)
	// SetContextFromToken verifies the bearer token and attaches the
	// caregiver identity to the context for downstream services.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	caregivers   caregiverrepo.CaregiverRepo
	tokens       caregiverrepo.CaregiverTokenRepo
	jwtSecretKey string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	caregivers caregiverrepo.CaregiverRepo,
	tokens caregiverrepo.CaregiverTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		caregivers:   caregivers,
		tokens:       tokens,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*types.Caregiver, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password required", apperr.ErrInvalidArgument)
	}
	language := strings.TrimSpace(input.Language)
	if language == "" {
		language = "en"
	}

	exists, err := s.caregivers.EmailExists(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", apperr.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	cg := &types.Caregiver{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Language:  language,
	}
	created, err := s.caregivers.Create(dbctx.Context{Ctx: ctx}, cg)
	if err != nil {
		return nil, fmt.Errorf("create caregiver: %w", err)
	}
	s.log.Info("caregiver registered", "caregiver_id", created.ID)
	return created, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	cg, err := s.caregivers.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, fmt.Errorf("lookup caregiver: %w", err)
	}
	if cg == nil {
		return nil, apperr.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cg.Password), []byte(password)); err != nil {
		return nil, apperr.ErrUnauthorized
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.tokens.DeleteByCaregiverID(dbc, cg.ID); err != nil {
			return fmt.Errorf("clear prior tokens: %w", err)
		}
		p, err := s.issueTokens(dbc, cg)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) Refresh(ctx context.Context) (*TokenPair, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return nil, apperr.ErrUnauthorized
	}

	var pair *TokenPair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		stored, err := s.tokens.GetByRefreshToken(dbc, rd.RefreshToken)
		if err != nil {
			return fmt.Errorf("lookup refresh token: %w", err)
		}
		if stored == nil || stored.ExpiresAt.Before(time.Now()) {
			return apperr.ErrUnauthorized
		}
		cg, err := s.caregivers.GetByID(dbc, stored.CaregiverID)
		if err != nil {
			return fmt.Errorf("lookup caregiver: %w", err)
		}
		if cg == nil {
			return apperr.ErrUnauthorized
		}
		if err := s.tokens.DeleteByCaregiverID(dbc, cg.ID); err != nil {
			return fmt.Errorf("rotate tokens: %w", err)
		}
		p, err := s.issueTokens(dbc, cg)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.CaregiverID == uuid.Nil {
		return apperr.ErrUnauthorized
	}
	return s.tokens.DeleteByCaregiverID(dbctx.Context{Ctx: ctx}, rd.CaregiverID)
}

func (s *authService) Me(ctx context.Context) (*types.Caregiver, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.CaregiverID == uuid.Nil {
		return nil, apperr.ErrUnauthorized
	}
	cg, err := s.caregivers.GetByID(dbctx.Context{Ctx: ctx}, rd.CaregiverID)
	if err != nil {
		return nil, err
	}
	if cg == nil {
		return nil, apperr.ErrNotFound
	}
	return cg, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, apperr.ErrUnauthorized
	}
	sub, ok := claims["caregiver_id"].(string)
	if !ok {
		return ctx, apperr.ErrUnauthorized
	}
	caregiverID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apperr.ErrUnauthorized
	}

	stored, err := s.tokens.GetByAccessToken(dbctx.Context{Ctx: ctx}, tokenString)
	if err != nil {
		return ctx, fmt.Errorf("lookup access token: %w", err)
	}
	if stored == nil || stored.CaregiverID != caregiverID {
		return ctx, apperr.ErrUnauthorized
	}
	cg, err := s.caregivers.GetByID(dbctx.Context{Ctx: ctx}, caregiverID)
	if err != nil {
		return ctx, fmt.Errorf("lookup caregiver: %w", err)
	}
	if cg == nil {
		return ctx, apperr.ErrUnauthorized
	}

	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		rd = &requestdata.RequestData{}
		ctx = requestdata.WithRequestData(ctx, rd)
	}
	rd.TokenString = tokenString
	rd.RefreshToken = stored.RefreshToken
	rd.CaregiverID = caregiverID
	rd.Language = cg.Language
	return ctx, nil
}

func (s *authService) issueTokens(dbc dbctx.Context, cg *types.Caregiver) (*TokenPair, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"caregiver_id": cg.ID.String(),
		"iat":          now.Unix(),
		"exp":          now.Add(s.accessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken := uuid.New().String()

	if _, err := s.tokens.Create(dbc, &types.CaregiverToken{
		ID:           uuid.New(),
		CaregiverID:  cg.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.refreshTTL),
	}); err != nil {
		return nil, fmt.Errorf("store token pair: %w", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
