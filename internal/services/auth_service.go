package services

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"shop_backend/internal/models"
	redisclient "shop_backend/internal/redis"
	"shop_backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// phoneRegex matches Uzbek numbers, e.g. +998901234567.
var phoneRegex = regexp.MustCompile(`^\+998\d{9}$`)

// CodeStore keeps one confirmation code per phone with a TTL.
type CodeStore interface {
	SetCode(phone, code string, ttl time.Duration) error
	GetCode(phone string) (string, error)
	DeleteCode(phone string) error
}

type SMSSender interface {
	Send(phone, message string) error
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthService interface {
	SignUp(phone, firstName, lastName, password string) (*models.User, error)
	VerifyCode(phone, code string) (*TokenPair, error)
	ResendCode(phone string) error
	Login(phone, password string) (*TokenPair, error)
	Refresh(refreshToken string) (*TokenPair, error)
	GetUser(id uint) (*models.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	codes      CodeStore
	sms        SMSSender
	jwtSecret  []byte
	codeTTL    time.Duration
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes CodeStore,
	sms SMSSender,
	jwtSecret string,
	codeTTL, accessTTL, refreshTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		codes:      codes,
		sms:        sms,
		jwtSecret:  []byte(jwtSecret),
		codeTTL:    codeTTL,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *authService) SignUp(phone, firstName, lastName, password string) (*models.User, error) {
	if !phoneRegex.MatchString(phone) {
		return nil, ErrInvalidPhone
	}

	existing, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Phone:        phone,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
		AuthStatus:   string(models.AuthNew),
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if err := s.sendCode(phone); err != nil {
		return nil, err
	}
	return user, nil
}

// sendCode generates a fresh 4-digit code, overwriting any previous one.
func (s *authService) sendCode(phone string) error {
	code := fmt.Sprintf("%04d", rand.Intn(10000))
	if err := s.codes.SetCode(phone, code, s.codeTTL); err != nil {
		return err
	}
	return s.sms.Send(phone, "Your confirmation code: "+code)
}

func (s *authService) VerifyCode(phone, code string) (*TokenPair, error) {
	user, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	stored, err := s.codes.GetCode(phone)
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	if stored != code {
		return nil, ErrInvalidCode
	}

	// Codes are one-shot.
	if err := s.codes.DeleteCode(phone); err != nil {
		return nil, err
	}

	if user.AuthStatus != string(models.AuthCodeVerified) {
		if err := s.userRepo.UpdateAuthStatus(user.ID, models.AuthCodeVerified); err != nil {
			return nil, err
		}
		user.AuthStatus = string(models.AuthCodeVerified)
	}

	return s.generateTokens(user)
}

func (s *authService) ResendCode(phone string) error {
	user, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.sendCode(phone)
}

func (s *authService) Login(phone, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.AuthStatus != string(models.AuthCodeVerified) {
		return nil, ErrPhoneNotVerified
	}

	return s.generateTokens(user)
}

func (s *authService) Refresh(refreshToken string) (*TokenPair, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != "refresh" {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(uint(userID))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return s.generateTokens(user)
}

func (s *authService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *authService) generateTokens(user *models.User) (*TokenPair, error) {
	access, err := s.signToken(user, "access", s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, "refresh", s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *authService) signToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"phone":    user.Phone,
		"is_staff": user.IsStaff,
		"type":     tokenType,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
