// Package client is the official Go SDK for the EcoLearn backend. It keeps a
// locally persisted session in sync with the server the same way the web app
// does: a fast cached snapshot backed by a slower authoritative fetch, and a
// polling loop for teacher-parent message threads.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// APIError is any non-2xx response from the backend, carrying the HTTP
// status and the message from the response envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 response. Callers treat it as
// "credential invalid" and tear the session down.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// User is the session-relevant slice of the server's user record.
type User struct {
	ID         uint     `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	Points     int      `json:"points"`
	Level      int      `json:"level"`
	GradeLevel string   `json:"gradeLevel,omitempty"`
	Badges     []Badge  `json:"badges,omitempty"`
}

type Badge struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Message mirrors the server message shape. Pending marks an optimistic
// local insert that has not been confirmed by a poll yet; it never crosses
// the wire.
type Message struct {
	ID          string    `json:"id"`
	SenderID    uint      `json:"senderId"`
	RecipientID uint      `json:"recipientId"`
	SenderRole  string    `json:"senderRole"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	Pending     bool      `json:"-"`
}

type authPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Client is the low-level HTTP transport. It is safe for concurrent use;
// the bearer token may be swapped at any time.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Status: resp.StatusCode, Message: resp.Status}
		}
		return err
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// Me fetches the authoritative user record for the current token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, *User, error) {
	var payload authPayload
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &payload)
	if err != nil {
		return "", nil, err
	}
	return payload.Token, payload.User, nil
}

type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	GradeLevel string `json:"gradeLevel,omitempty"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, *User, error) {
	var payload authPayload
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &payload); err != nil {
		return "", nil, err
	}
	return payload.Token, payload.User, nil
}

// Messages fetches the whole thread with one counterpart, oldest first.
func (c *Client) Messages(ctx context.Context, parentID uint) ([]Message, error) {
	var messages []Message
	path := "/api/teachers/messages?parentId=" + url.QueryEscape(fmt.Sprint(parentID))
	if err := c.do(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) SendMessage(ctx context.Context, parentID uint, content string) (*Message, error) {
	var msg Message
	err := c.do(ctx, http.MethodPost, "/api/teachers/messages", map[string]interface{}{
		"parentId": parentID,
		"content":  content,
	}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// LevelTestStatus is the server's answer to "was this level's placement
// test already taken".
type LevelTestStatus struct {
	Level     string `json:"level"`
	Completed bool   `json:"completed"`
	Score     *int   `json:"score,omitempty"`
	Category  string `json:"category,omitempty"`
}

type LevelTestAnswer struct {
	QuestionID string `json:"questionId"`
	ChoiceID   string `json:"choiceId"`
	IsCorrect  bool   `json:"isCorrect"`
}

type LevelTestResult struct {
	Level    string `json:"level"`
	Score    int    `json:"score"`
	Category string `json:"category"`
}

func (c *Client) LevelTestStatus(ctx context.Context, level string) (*LevelTestStatus, error) {
	var status LevelTestStatus
	path := "/api/level-test/status?level=" + url.QueryEscape(level)
	if err := c.do(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) SubmitLevelTest(ctx context.Context, level string, answers []LevelTestAnswer) (*LevelTestResult, error) {
	var result LevelTestResult
	err := c.do(ctx, http.MethodPost, "/api/level-test/submit", map[string]interface{}{
		"level":   level,
		"answers": answers,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitResult is the server's grading verdict for an exercise or game.
type SubmitResult struct {
	Score         int  `json:"score"`
	MaxScore      int  `json:"maxScore"`
	Passed        bool `json:"passed"`
	PointsAwarded int  `json:"pointsAwarded"`
}

func (c *Client) SubmitExercise(ctx context.Context, courseID, exerciseID uint, answer interface{}) (*SubmitResult, error) {
	var result SubmitResult
	path := fmt.Sprintf("/api/courses/%d/exercises/%d", courseID, exerciseID)
	if err := c.do(ctx, http.MethodPost, path, answer, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SubmitGameScore(ctx context.Context, gameID uint, score, maxScore int) (*SubmitResult, error) {
	var result SubmitResult
	path := fmt.Sprintf("/api/games/%d/submit", gameID)
	err := c.do(ctx, http.MethodPost, path, map[string]int{
		"score":    score,
		"maxScore": maxScore,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

type Notification struct {
	ID    uint   `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Read  bool   `json:"read"`
}

func (c *Client) Notifications(ctx context.Context, unreadOnly bool) ([]Notification, error) {
	path := "/api/notifications"
	if unreadOnly {
		path += "?unreadOnly=true"
	}
	var notifications []Notification
	if err := c.do(ctx, http.MethodGet, path, nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id uint) (*Notification, error) {
	var n Notification
	path := fmt.Sprintf("/api/notifications/%d/read", id)
	if err := c.do(ctx, http.MethodPut, path, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Dashboard loads the student dashboard payload as raw JSON; callers render
// it without the SDK imposing a schema.
func (c *Client) Dashboard(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
