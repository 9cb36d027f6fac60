package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// The integration suite runs against a live server:
//
//	INTEGRATION_BASE_URL=http://127.0.0.1:8080 go test ./tests/integration/
//
// Admin-only flows additionally need INTEGRATION_ADMIN_EMAIL and
// INTEGRATION_ADMIN_PASSWORD pointing at a seeded admin account.

var client = &http.Client{Timeout: 5 * time.Second}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
	Count   int             `json:"count"`
}

func baseURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("INTEGRATION_BASE_URL")
	if url == "" {
		t.Skip("INTEGRATION_BASE_URL not set; skipping integration test")
	}
	return strings.TrimRight(url, "/")
}

func uniqueSuffix() int64 { return time.Now().UnixNano() % 1_000_000_000 }

func registerForm(email, phone string) map[string]string {
	return map[string]string{
		"name":     "Integration Tester",
		"email":    email,
		"phone":    phone,
		"password": "Passw0rd",
		"state":    "Nevada",
		"city":     "Reno",
		"country":  "USA",
		"pincode":  "89501",
	}
}

func postMultipart(t *testing.T, url string, fields map[string]string) (int, envelope) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	_ = w.Close()

	req, _ := http.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return do(t, req)
}

func postJSON(t *testing.T, url string, payload interface{}, token string) (int, envelope) {
	t.Helper()
	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, req)
}

func request(t *testing.T, method, url, token string) (int, envelope) {
	t.Helper()
	req, _ := http.NewRequest(method, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

type tokenUser struct {
	User struct {
		ID    uint64 `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func decodeTokens(t *testing.T, env envelope) tokenUser {
	t.Helper()
	var tu tokenUser
	if err := json.Unmarshal(env.Data, &tu); err != nil {
		t.Fatalf("decode token payload: %v (%s)", err, string(env.Data))
	}
	return tu
}

func TestRegistrationAndDuplicateEmail(t *testing.T) {
	base := baseURL(t)
	n := uniqueSuffix()
	email := fmt.Sprintf("it%d@example.com", n)
	phone := fmt.Sprintf("9%09d", n)

	status, env := postMultipart(t, base+"/api/auth/register", registerForm(email, phone))
	if status != http.StatusCreated {
		t.Fatalf("register: got %d (%s)", status, env.Message)
	}
	tu := decodeTokens(t, env)
	if tu.User.Role != "user" {
		t.Errorf("self-registration must force role user, got %q", tu.User.Role)
	}
	if tu.AccessToken == "" || tu.RefreshToken == "" {
		t.Error("registration should return a token pair")
	}

	// Same email, different phone: conflict.
	otherPhone := fmt.Sprintf("8%09d", n)
	status, _ = postMultipart(t, base+"/api/auth/register", registerForm(email, otherPhone))
	if status != http.StatusConflict {
		t.Errorf("duplicate email: got %d, want 409", status)
	}
}

func TestLoginEnumerationResistance(t *testing.T) {
	base := baseURL(t)
	n := uniqueSuffix()
	email := fmt.Sprintf("it%d@example.com", n)
	phone := fmt.Sprintf("9%09d", n)

	if status, env := postMultipart(t, base+"/api/auth/register", registerForm(email, phone)); status != http.StatusCreated {
		t.Fatalf("register: got %d (%s)", status, env.Message)
	}

	wrongPassStatus, wrongPassEnv := postJSON(t, base+"/api/auth/login",
		map[string]string{"identifier": email, "password": "WrongPass1"}, "")
	noUserStatus, noUserEnv := postJSON(t, base+"/api/auth/login",
		map[string]string{"identifier": "nobody@example.com", "password": "WrongPass1"}, "")

	if wrongPassStatus != http.StatusUnauthorized || noUserStatus != http.StatusUnauthorized {
		t.Fatalf("got %d/%d, want 401/401", wrongPassStatus, noUserStatus)
	}
	if wrongPassEnv.Message != noUserEnv.Message {
		t.Errorf("messages differ: %q vs %q", wrongPassEnv.Message, noUserEnv.Message)
	}

	// Phone works as identifier too.
	if status, _ := postJSON(t, base+"/api/auth/login",
		map[string]string{"identifier": phone, "password": "Passw0rd"}, ""); status != http.StatusOK {
		t.Errorf("login by phone: got %d, want 200", status)
	}
}

func TestRefreshFlow(t *testing.T) {
	base := baseURL(t)
	n := uniqueSuffix()
	email := fmt.Sprintf("it%d@example.com", n)
	phone := fmt.Sprintf("9%09d", n)

	status, env := postMultipart(t, base+"/api/auth/register", registerForm(email, phone))
	if status != http.StatusCreated {
		t.Fatalf("register: got %d (%s)", status, env.Message)
	}
	tu := decodeTokens(t, env)

	if status, _ := postJSON(t, base+"/api/auth/refresh",
		map[string]string{"refreshToken": tu.RefreshToken}, ""); status != http.StatusOK {
		t.Errorf("valid refresh: got %d, want 200", status)
	}
	if status, _ := postJSON(t, base+"/api/auth/refresh",
		map[string]string{"refreshToken": "tampered.token.value"}, ""); status != http.StatusForbidden {
		t.Errorf("invalid refresh: got %d, want 403", status)
	}
	if status, _ := postJSON(t, base+"/api/auth/refresh",
		map[string]string{}, ""); status != http.StatusUnauthorized {
		t.Errorf("missing refresh: got %d, want 401", status)
	}

	// Access tokens must not open admin routes for a plain user.
	if status, _ := request(t, http.MethodGet, base+"/api/users", tu.AccessToken); status != http.StatusForbidden {
		t.Errorf("user role on admin route: got %d, want 403", status)
	}
}

func TestAdminLifecycle(t *testing.T) {
	base := baseURL(t)
	adminEmail := os.Getenv("INTEGRATION_ADMIN_EMAIL")
	adminPassword := os.Getenv("INTEGRATION_ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		t.Skip("INTEGRATION_ADMIN_EMAIL/PASSWORD not set; skipping admin flows")
	}

	status, env := postJSON(t, base+"/api/auth/login",
		map[string]string{"identifier": adminEmail, "password": adminPassword}, "")
	if status != http.StatusOK {
		t.Fatalf("admin login: got %d (%s)", status, env.Message)
	}
	admin := decodeTokens(t, env)

	// Create a victim account.
	n := uniqueSuffix()
	email := fmt.Sprintf("victim%d@example.com", n)
	phone := fmt.Sprintf("7%09d", n)
	form := registerForm(email, phone)
	form["city"] = fmt.Sprintf("Zzyzx%d", n)
	status, env = postMultipart(t, base+"/api/auth/register", form)
	if status != http.StatusCreated {
		t.Fatalf("register victim: got %d (%s)", status, env.Message)
	}
	victim := decodeTokens(t, env)

	// Search by a substring only present in the city.
	status, env = request(t, http.MethodGet,
		fmt.Sprintf("%s/api/users?search=zzyzx%d", base, n), admin.AccessToken)
	if status != http.StatusOK {
		t.Fatalf("search: got %d", status)
	}
	if env.Count != 1 {
		t.Errorf("search by city substring: got count %d, want 1", env.Count)
	}

	// Partial update: only the city changes.
	updateBody := &bytes.Buffer{}
	w := multipart.NewWriter(updateBody)
	_ = w.WriteField("city", "Reno")
	_ = w.Close()
	req, _ := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/api/users/%d", base, victim.User.ID), updateBody)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin.AccessToken)
	status, env = do(t, req)
	if status != http.StatusOK {
		t.Fatalf("update: got %d (%s)", status, env.Message)
	}
	var updated struct {
		Email string `json:"email"`
		City  string `json:"city"`
		State string `json:"state"`
	}
	_ = json.Unmarshal(env.Data, &updated)
	if updated.City != "Reno" || updated.Email != email || updated.State != "Nevada" {
		t.Errorf("partial update touched unrelated fields: %+v", updated)
	}

	// Self-delete is blocked; deleting the victim succeeds.
	if status, _ = request(t, http.MethodDelete,
		fmt.Sprintf("%s/api/users/%d", base, admin.User.ID), admin.AccessToken); status != http.StatusForbidden {
		t.Errorf("self-delete: got %d, want 403", status)
	}
	if status, _ = request(t, http.MethodDelete,
		fmt.Sprintf("%s/api/users/%d", base, victim.User.ID), admin.AccessToken); status != http.StatusOK {
		t.Errorf("delete: got %d, want 200", status)
	}
	if status, _ = request(t, http.MethodGet,
		fmt.Sprintf("%s/api/users/%d", base, victim.User.ID), admin.AccessToken); status != http.StatusNotFound {
		t.Errorf("deleted user still readable: got %d, want 404", status)
	}
}
