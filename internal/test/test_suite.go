// Command-line smoke test that exercises register / login / refresh and the
// admin listing against a running server, simulates concurrent logins and
// writes a CSV report.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"sync"
	"time"
)

var baseURL = "http://127.0.0.1:8080/api"

var client = &http.Client{Timeout: 10 * time.Second}

type tokenPair struct {
	Access  string
	Refresh string
}

type loginResult struct {
	Worker     int
	Status     int
	ErrMessage string
	Elapsed    time.Duration
}

// ======================= HTTP helpers =======================

func doPostJSON(url string, body any, token string) (int, []byte, error) {
	var buf []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = b
	}
	req, _ := http.NewRequest("POST", url, bytes.NewBuffer(buf))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

func registerRaw(email, phone string) (int, []byte, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range map[string]string{
		"name":     "Smoke Tester",
		"email":    email,
		"phone":    phone,
		"password": "SmokePwd1",
		"state":    "Nevada",
		"city":     "Reno",
		"country":  "USA",
		"pincode":  "89501",
	} {
		_ = w.WriteField(k, v)
	}
	_ = w.Close()
	req, _ := http.NewRequest("POST", baseURL+"/auth/register", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

func loginRaw(identifier, password string) (int, []byte, error) {
	return doPostJSON(baseURL+"/auth/login", map[string]string{
		"identifier": identifier,
		"password":   password,
	}, "")
}

func loginUser(identifier, password string) (tokenPair, error) {
	status, data, err := loginRaw(identifier, password)
	if err != nil {
		return tokenPair{}, err
	}
	if status != 200 {
		return tokenPair{}, fmt.Errorf("login status %d body=%s", status, string(data))
	}
	var env struct {
		Data struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return tokenPair{}, err
	}
	return tokenPair{Access: env.Data.AccessToken, Refresh: env.Data.RefreshToken}, nil
}

func refreshRaw(refreshToken string) (int, []byte, error) {
	return doPostJSON(baseURL+"/auth/refresh", map[string]string{
		"refreshToken": refreshToken,
	}, "")
}

// ======================= smoke scenarios =======================

func endpointSmokeTests() error {
	n := time.Now().UnixNano() % 1_000_000_000
	email := fmt.Sprintf("smoke%d@example.com", n)
	phone := fmt.Sprintf("9%09d", n)

	// Fresh registration should succeed.
	if status, data, err := registerRaw(email, phone); err != nil || status != http.StatusCreated {
		return fmt.Errorf("register (new) failed: status=%d err=%v body=%s", status, err, string(data))
	}

	// Duplicate email should conflict.
	if status, _, err := registerRaw(email, fmt.Sprintf("8%09d", n)); err != nil || status != http.StatusConflict {
		return fmt.Errorf("register (duplicate) expected 409, got %d err=%v", status, err)
	}

	// Login success path.
	tokens, err := loginUser(email, "SmokePwd1")
	if err != nil {
		return fmt.Errorf("login (valid) failed: %w", err)
	}

	// Wrong password should be unauthorized.
	if status, _, err := loginRaw(email, "wrong-password1"); err != nil || status != http.StatusUnauthorized {
		return fmt.Errorf("login (invalid creds) expected 401, got %d err=%v", status, err)
	}

	// Refresh succeeds; a tampered token is forbidden; a missing one unauthorized.
	if status, _, err := refreshRaw(tokens.Refresh); err != nil || status != http.StatusOK {
		return fmt.Errorf("refresh (valid) failed: status=%d err=%v", status, err)
	}
	if status, _, err := refreshRaw("tampered.token.value"); err != nil || status != http.StatusForbidden {
		return fmt.Errorf("refresh (invalid) expected 403, got %d err=%v", status, err)
	}
	if status, _, err := doPostJSON(baseURL+"/auth/refresh", map[string]string{}, ""); err != nil || status != http.StatusUnauthorized {
		return fmt.Errorf("refresh (missing) expected 401, got %d err=%v", status, err)
	}

	// A plain user must not reach the admin surface.
	req, _ := http.NewRequest("GET", baseURL+"/users", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.Access)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		return fmt.Errorf("admin route with user token expected 403, got %d", resp.StatusCode)
	}

	log.Println("endpoint smoke tests passed: register/login/refresh/role-gate verified")
	return nil
}

// concurrentLoginTest hammers the login endpoint and records per-worker results.
func concurrentLoginTest(email, password string, workers int, outCSV string) error {
	results := make(chan loginResult, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			start := time.Now()
			status, _, err := loginRaw(email, password)
			res := loginResult{Worker: worker, Status: status, Elapsed: time.Since(start)}
			if err != nil {
				res.ErrMessage = err.Error()
			}
			results <- res
		}(i)
	}
	wg.Wait()
	close(results)

	csvFile, err := os.Create(outCSV)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	csvWriter := csv.NewWriter(csvFile)
	defer csvWriter.Flush()
	_ = csvWriter.Write([]string{"Worker", "Status", "ErrMessage", "ElapsedMS"})

	ok := 0
	for r := range results {
		if r.Status == 200 {
			ok++
		}
		_ = csvWriter.Write([]string{
			fmt.Sprintf("%d", r.Worker),
			fmt.Sprintf("%d", r.Status),
			r.ErrMessage,
			fmt.Sprintf("%d", r.Elapsed.Milliseconds()),
		})
	}
	log.Printf("concurrent logins: %d/%d succeeded, report=%s\n", ok, workers, outCSV)
	return nil
}

// ======================= main =======================

func main() {
	if v := os.Getenv("SMOKE_BASE_URL"); v != "" {
		baseURL = v
	}

	if err := endpointSmokeTests(); err != nil {
		log.Fatalf("endpoint smoke tests failed: %v", err)
	}

	n := time.Now().UnixNano() % 1_000_000_000
	email := fmt.Sprintf("load%d@example.com", n)
	phone := fmt.Sprintf("9%09d", n)
	if status, data, err := registerRaw(email, phone); err != nil || status != http.StatusCreated {
		log.Fatalf("load-test account registration failed: status=%d err=%v body=%s", status, err, string(data))
	}

	start := time.Now()
	if err := concurrentLoginTest(email, "SmokePwd1", 10, "login_report.csv"); err != nil {
		log.Fatalf("concurrent test failed: %v", err)
	}
	log.Printf("smoke suite finished in %s\n", time.Since(start))
	fmt.Println("All smoke tests completed successfully!")
}
