package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/payhere/user-service/internal/cqrs"
	"github.com/payhere/user-service/internal/models"
	"github.com/payhere/user-service/internal/token"
)

// ---- mock implementations ----

type mockAuthCommander struct {
	signUpFn func(cqrs.SignUpCommand) (*models.UserView, token.Pair, error)
	logoutFn func(cqrs.LogoutCommand) error
}

func (m *mockAuthCommander) SignUp(cmd cqrs.SignUpCommand) (*models.UserView, token.Pair, error) {
	if m.signUpFn != nil {
		return m.signUpFn(cmd)
	}
	return nil, token.Pair{}, fmt.Errorf("not configured")
}
func (m *mockAuthCommander) Logout(cmd cqrs.LogoutCommand) error {
	if m.logoutFn != nil {
		return m.logoutFn(cmd)
	}
	return fmt.Errorf("not configured")
}

type mockAuthQuerier struct {
	loginFn  func(cqrs.LoginCommand) (*models.UserView, token.Pair, error)
	resignFn func(cqrs.ResignTokenCommand) (token.Decision, error)
}

func (m *mockAuthQuerier) Login(cmd cqrs.LoginCommand) (*models.UserView, token.Pair, error) {
	if m.loginFn != nil {
		return m.loginFn(cmd)
	}
	return nil, token.Pair{}, fmt.Errorf("not configured")
}
func (m *mockAuthQuerier) ResignToken(cmd cqrs.ResignTokenCommand) (token.Decision, error) {
	if m.resignFn != nil {
		return m.resignFn(cmd)
	}
	return token.Decision{}, fmt.Errorf("not configured")
}

// ---- helpers ----

func newAuthTestRouter(cmds AuthCommander, qrys AuthQuerier, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuthUser(authUserID))
	h := NewAuthHandler(cmds, qrys)
	v1 := r.Group("/v1/auth")
	v1.POST("/signup", h.SignUp)
	v1.POST("/login", h.Login)
	v1.POST("/refresh", h.ResignToken)
	v1.POST("/logout", h.Logout)
	return r
}

func authDoRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var aTestView = &models.UserView{
	ID: "usr-001", Email: "alice@example.com", Nickname: "alice", MBTI: "INFP",
	CreatedAt: time.Now(), UpdatedAt: time.Now(),
}

var aTestPair = token.Pair{AccessToken: "access-token", RefreshToken: "refresh-token"}

func aValidSignUpBody() map[string]interface{} {
	return map[string]interface{}{
		"email": "alice@example.com", "password": "securepass123",
		"nickname": "alice", "mbti": "INFP",
	}
}

// ---- tests ----

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		signUpFn       func(cqrs.SignUpCommand) (*models.UserView, token.Pair, error)
		expectedStatus int
	}{
		{
			name: "success - creates user and returns tokens",
			body: aValidSignUpBody(),
			signUpFn: func(cmd cqrs.SignUpCommand) (*models.UserView, token.Pair, error) {
				return aTestView, aTestPair, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "bad request - email already exists",
			body: aValidSignUpBody(),
			signUpFn: func(cmd cqrs.SignUpCommand) (*models.UserView, token.Pair, error) {
				return nil, token.Pair{}, models.ErrEmailTaken
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - nickname already exists",
			body: aValidSignUpBody(),
			signUpFn: func(cmd cqrs.SignUpCommand) (*models.UserView, token.Pair, error) {
				return nil, token.Pair{}, models.ErrNicknameTaken
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing required fields",
			body:           map[string]interface{}{"email": "alice@example.com"},
			signUpFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - invalid mbti code",
			body: map[string]interface{}{
				"email": "alice@example.com", "password": "securepass123",
				"nickname": "alice", "mbti": "ABCD",
			},
			signUpFn:       nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "internal error - store failure",
			body: aValidSignUpBody(),
			signUpFn: func(cmd cqrs.SignUpCommand) (*models.UserView, token.Pair, error) {
				return nil, token.Pair{}, fmt.Errorf("db down")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := &mockAuthCommander{signUpFn: tt.signUpFn}
			router := newAuthTestRouter(cmds, &mockAuthQuerier{}, "")
			w := authDoRequest(router, http.MethodPost, "/v1/auth/signup", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		loginFn        func(cqrs.LoginCommand) (*models.UserView, token.Pair, error)
		expectedStatus int
	}{
		{
			name: "success - returns token pair",
			body: map[string]interface{}{"email": "alice@example.com", "password": "securepass123"},
			loginFn: func(cmd cqrs.LoginCommand) (*models.UserView, token.Pair, error) {
				return aTestView, aTestPair, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "bad request - wrong password",
			body: map[string]interface{}{"email": "alice@example.com", "password": "wrong-password"},
			loginFn: func(cmd cqrs.LoginCommand) (*models.UserView, token.Pair, error) {
				return nil, token.Pair{}, models.ErrInvalidCredentials
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "bad request - unknown email",
			body: map[string]interface{}{"email": "ghost@example.com", "password": "securepass123"},
			loginFn: func(cmd cqrs.LoginCommand) (*models.UserView, token.Pair, error) {
				return nil, token.Pair{}, models.ErrInvalidCredentials
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - malformed email",
			body:           map[string]interface{}{"email": "not-valid", "password": "securepass123"},
			loginFn:        nil,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAuthTestRouter(&mockAuthCommander{}, &mockAuthQuerier{loginFn: tt.loginFn}, "")
			w := authDoRequest(router, http.MethodPost, "/v1/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	t.Run("success body carries both tokens", func(t *testing.T) {
		qrys := &mockAuthQuerier{loginFn: func(cmd cqrs.LoginCommand) (*models.UserView, token.Pair, error) {
			return aTestView, aTestPair, nil
		}}
		router := newAuthTestRouter(&mockAuthCommander{}, qrys, "")
		w := authDoRequest(router, http.MethodPost, "/v1/auth/login",
			map[string]interface{}{"email": "alice@example.com", "password": "securepass123"})

		var resp LoginResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if resp.AccessToken != "access-token" || resp.RefreshToken != "refresh-token" {
			t.Errorf("unexpected tokens: %+v", resp)
		}
		if resp.User == nil || resp.User.ID != "usr-001" {
			t.Errorf("unexpected user payload: %+v", resp.User)
		}
	})
}

func TestResignTokenHandler(t *testing.T) {
	body := map[string]interface{}{"accessToken": "old-access", "refreshToken": "refresh-token"}

	tests := []struct {
		name           string
		decision       token.Decision
		expectedStatus int
	}{
		{
			name:           "reissue - 200 with new access token",
			decision:       token.Decision{Outcome: token.Reissue, AccessToken: "new-access"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorized - 401",
			decision:       token.Decision{Outcome: token.Unauthorized},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unnecessary - 400",
			decision:       token.Decision{Outcome: token.Unnecessary},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qrys := &mockAuthQuerier{resignFn: func(cmd cqrs.ResignTokenCommand) (token.Decision, error) {
				return tt.decision, nil
			}}
			router := newAuthTestRouter(&mockAuthCommander{}, qrys, "")
			w := authDoRequest(router, http.MethodPost, "/v1/auth/refresh", body)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.decision.Outcome == token.Reissue {
				var resp ResignTokenResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid response body: %v", err)
				}
				if resp.AccessToken != "new-access" {
					t.Errorf("AccessToken = %q, want new-access", resp.AccessToken)
				}
				if resp.RefreshToken != "refresh-token" {
					t.Errorf("RefreshToken = %q, want the original refresh token", resp.RefreshToken)
				}
			}
		})
	}

	t.Run("bad request - missing tokens", func(t *testing.T) {
		router := newAuthTestRouter(&mockAuthCommander{}, &mockAuthQuerier{}, "")
		w := authDoRequest(router, http.MethodPost, "/v1/auth/refresh", map[string]interface{}{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d; body: %s", w.Code, w.Body.String())
		}
	})
}

func TestLogoutHandler(t *testing.T) {
	cmds := &mockAuthCommander{logoutFn: func(cmd cqrs.LogoutCommand) error { return nil }}
	router := newAuthTestRouter(cmds, &mockAuthQuerier{}, "usr-001")

	// Logout is idempotent: repeating it returns 200 both times.
	for i := 0; i < 2; i++ {
		w := authDoRequest(router, http.MethodPost, "/v1/auth/logout", nil)
		if w.Code != http.StatusOK {
			t.Errorf("call %d: expected status 200, got %d; body: %s", i+1, w.Code, w.Body.String())
		}
	}
}
