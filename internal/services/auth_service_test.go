package services

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shop_backend/internal/models"
	redisclient "shop_backend/internal/redis"
)

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByPhone(phone string) (*models.User, error) {
	for _, user := range r.users {
		if user.Phone == phone {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateAuthStatus(id uint, status models.AuthStatus) error {
	if user, ok := r.users[id]; ok {
		user.AuthStatus = string(status)
	}
	return nil
}

func (r *fakeUserRepo) GetAll() ([]models.User, error) { return nil, nil }
func (r *fakeUserRepo) Delete(id uint) error           { return nil }

// fakeCodeStore mirrors the one-code-per-phone behavior of the Redis store,
// minus expiry.
type fakeCodeStore struct {
	codes map[string]string
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{codes: make(map[string]string)}
}

func (s *fakeCodeStore) SetCode(phone, code string, ttl time.Duration) error {
	s.codes[phone] = code
	return nil
}

func (s *fakeCodeStore) GetCode(phone string) (string, error) {
	code, ok := s.codes[phone]
	if !ok {
		return "", redisclient.ErrNotFound
	}
	return code, nil
}

func (s *fakeCodeStore) DeleteCode(phone string) error {
	delete(s.codes, phone)
	return nil
}

type fakeSMS struct {
	sent []string
}

func (s *fakeSMS) Send(phone, message string) error {
	s.sent = append(s.sent, phone+": "+message)
	return nil
}

func newAuthServiceForTest() (AuthService, *fakeUserRepo, *fakeCodeStore, *fakeSMS) {
	users := newFakeUserRepo()
	codes := newFakeCodeStore()
	sms := &fakeSMS{}
	svc := NewAuthService(users, codes, sms, "test-secret", 2*time.Minute, time.Hour, 24*time.Hour)
	return svc, users, codes, sms
}

const testPhone = "+998901234567"

func TestSignUpSendsConfirmationCode(t *testing.T) {
	svc, users, codes, sms := newAuthServiceForTest()

	user, err := svc.SignUp(testPhone, "Ali", "Valiyev", "secret123")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if user.AuthStatus != string(models.AuthNew) {
		t.Errorf("auth status = %s, want %s", user.AuthStatus, models.AuthNew)
	}
	if len(sms.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sms.sent))
	}
	if _, ok := codes.codes[testPhone]; !ok {
		t.Error("no confirmation code stored")
	}

	stored, _ := users.GetByPhone(testPhone)
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")); err != nil {
		t.Error("stored password hash does not match")
	}
}

func TestSignUpRejectsBadPhone(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest()

	for _, phone := range []string{"", "901234567", "+99890123456", "+7998901234567"} {
		if _, err := svc.SignUp(phone, "A", "B", "x"); !errors.Is(err, ErrInvalidPhone) {
			t.Errorf("phone %q: err = %v, want ErrInvalidPhone", phone, err)
		}
	}
}

func TestSignUpRejectsDuplicatePhone(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest()

	if _, err := svc.SignUp(testPhone, "A", "B", "x"); err != nil {
		t.Fatalf("first SignUp failed: %v", err)
	}
	if _, err := svc.SignUp(testPhone, "A", "B", "x"); !errors.Is(err, ErrPhoneTaken) {
		t.Fatalf("err = %v, want ErrPhoneTaken", err)
	}
}

func TestVerifyCodePromotesUser(t *testing.T) {
	svc, users, codes, _ := newAuthServiceForTest()

	if _, err := svc.SignUp(testPhone, "A", "B", "x"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	tokens, err := svc.VerifyCode(testPhone, codes.codes[testPhone])
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		t.Error("empty token pair")
	}

	user, _ := users.GetByPhone(testPhone)
	if user.AuthStatus != string(models.AuthCodeVerified) {
		t.Errorf("auth status = %s, want %s", user.AuthStatus, models.AuthCodeVerified)
	}
}

func TestVerifyCodeIsOneShot(t *testing.T) {
	svc, _, codes, _ := newAuthServiceForTest()

	if _, err := svc.SignUp(testPhone, "A", "B", "x"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	code := codes.codes[testPhone]

	if _, err := svc.VerifyCode(testPhone, code); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	if _, err := svc.VerifyCode(testPhone, code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
}

func TestVerifyCodeRejectsWrongCode(t *testing.T) {
	svc, _, codes, _ := newAuthServiceForTest()

	if _, err := svc.SignUp(testPhone, "A", "B", "x"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	if _, err := svc.VerifyCode(testPhone, "0000-wrong"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("err = %v, want ErrInvalidCode", err)
	}
	// Wrong attempts do not consume the code.
	if _, ok := codes.codes[testPhone]; !ok {
		t.Error("code was consumed by a failed attempt")
	}
}

func TestResendCodeOverwrites(t *testing.T) {
	svc, _, codes, sms := newAuthServiceForTest()

	if _, err := svc.SignUp(testPhone, "A", "B", "x"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if err := svc.ResendCode(testPhone); err != nil {
		t.Fatalf("ResendCode failed: %v", err)
	}
	if len(sms.sent) != 2 {
		t.Errorf("sent %d messages, want 2", len(sms.sent))
	}
	if err := svc.ResendCode("+998900000000"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
	if _, ok := codes.codes[testPhone]; !ok {
		t.Error("no code stored after resend")
	}
}

func TestLogin(t *testing.T) {
	svc, _, codes, _ := newAuthServiceForTest()

	if _, err := svc.SignUp(testPhone, "A", "B", "secret123"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	// Unverified users cannot log in even with the right password.
	if _, err := svc.Login(testPhone, "secret123"); !errors.Is(err, ErrPhoneNotVerified) {
		t.Fatalf("err = %v, want ErrPhoneNotVerified", err)
	}

	if _, err := svc.VerifyCode(testPhone, codes.codes[testPhone]); err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}

	if _, err := svc.Login(testPhone, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login("+998900000000", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	tokens, err := svc.Login(testPhone, "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if tokens.Access == "" || tokens.Refresh == "" {
		t.Error("empty token pair")
	}
}

func TestRefresh(t *testing.T) {
	svc, _, codes, _ := newAuthServiceForTest()

	if _, err := svc.SignUp(testPhone, "A", "B", "x"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	tokens, err := svc.VerifyCode(testPhone, codes.codes[testPhone])
	if err != nil {
		t.Fatalf("VerifyCode failed: %v", err)
	}

	fresh, err := svc.Refresh(tokens.Refresh)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if fresh.Access == "" || fresh.Refresh == "" {
		t.Error("empty token pair")
	}

	// Access tokens are not accepted as refresh tokens.
	if _, err := svc.Refresh(tokens.Access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.Refresh("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
