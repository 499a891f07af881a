package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/swadrive/swadrive-backend/internal/auth"
	"github.com/swadrive/swadrive-backend/internal/domain"
	"github.com/swadrive/swadrive-backend/internal/http/middleware"
	"github.com/swadrive/swadrive-backend/internal/repo"
	"github.com/swadrive/swadrive-backend/internal/services"
)

// --- fakes: each method returns the configured error, or a canned value ---

type fakeAccounts struct{ err error }

func (f fakeAccounts) Register(context.Context, services.RegisterInput) (*domain.User, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return &domain.User{ID: "u1"}, "tok", nil
}

func (f fakeAccounts) Login(context.Context, string, string) (*domain.User, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return &domain.User{ID: "u1", Email: "a@example.com"}, "tok", nil
}

type fakeTasks struct {
	err     error
	created services.TaskInput
}

func (f *fakeTasks) Create(_ context.Context, _ string, in services.TaskInput) (*domain.Task, error) {
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Task{ID: "t1"}, nil
}
func (f *fakeTasks) Get(context.Context, string, string) (*domain.Task, error) {
	return &domain.Task{ID: "t1"}, f.err
}
func (f *fakeTasks) GetForHelper(context.Context, string) (*domain.Task, error) {
	return &domain.Task{ID: "t1"}, f.err
}
func (f *fakeTasks) Update(context.Context, string, string, services.TaskInput) error { return f.err }
func (f *fakeTasks) Delete(context.Context, string, string) error                     { return f.err }
func (f *fakeTasks) ListOwn(context.Context, string) ([]domain.Task, error)           { return nil, f.err }
func (f *fakeTasks) ListCompleted(context.Context, string) ([]domain.Task, error)     { return nil, f.err }
func (f *fakeTasks) ListOpen(context.Context) ([]domain.Task, error)                  { return nil, f.err }

type fakeAssignments struct{ err error }

func (f fakeAssignments) Accept(context.Context, string, string) (*domain.Assignment, error) {
	return &domain.Assignment{}, f.err
}
func (f fakeAssignments) Complete(context.Context, string, string) error { return f.err }
func (f fakeAssignments) ListAssigned(context.Context, string) ([]domain.Task, error) {
	return []domain.Task{}, f.err
}

type fakeReviews struct{ err error }

func (f fakeReviews) Submit(context.Context, string, string, int, string) (*domain.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Review{ID: "r1"}, nil
}

type fakeNotifications struct {
	items  []domain.Notification
	latest time.Time
	err    error
}

func (f fakeNotifications) List(context.Context, string) ([]domain.Notification, error) {
	return f.items, f.err
}
func (f fakeNotifications) ListPage(_ context.Context, _ string, page, size int) ([]domain.Notification, int64, error) {
	start := (page - 1) * size
	if start > len(f.items) {
		start = len(f.items)
	}
	end := start + size
	if end > len(f.items) {
		end = len(f.items)
	}
	return f.items[start:end], int64(len(f.items)), f.err
}
func (f fakeNotifications) MarkRead(context.Context, string) error { return f.err }
func (f fakeNotifications) Stats(context.Context, string) (int64, int64, *time.Time, error) {
	return int64(len(f.items)), 0, &f.latest, nil
}

type fakeChats struct {
	err   error
	msgs  []domain.ChatMessage
	sent  int
	start error
}

func (f *fakeChats) Start(_ context.Context, _ auth.Identity, taskID string) (*domain.Chat, error) {
	if f.start != nil {
		return nil, f.start
	}
	return &domain.Chat{ID: "c1", TaskID: taskID}, nil
}
func (f *fakeChats) List(context.Context, string) ([]repo.ChatSummary, error) {
	return []repo.ChatSummary{}, f.err
}
func (f *fakeChats) Messages(context.Context, string, string) ([]domain.ChatMessage, error) {
	return f.msgs, f.err
}
func (f *fakeChats) Message(_ context.Context, _, _, msgID string) (*domain.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.msgs {
		if f.msgs[i].ID == msgID {
			return &f.msgs[i], nil
		}
	}
	return nil, services.ErrMessageNotFound
}
func (f *fakeChats) MessagesPage(context.Context, string, string, int, int) ([]domain.ChatMessage, int64, error) {
	return f.msgs, int64(len(f.msgs)), f.err
}
func (f *fakeChats) Send(_ context.Context, _ auth.Identity, chatID, text string) (*domain.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent++
	m := domain.ChatMessage{ID: fmt.Sprintf("m%d", f.sent), ChatID: chatID, Message: text}
	f.msgs = append(f.msgs, m)
	return &m, nil
}
func (f *fakeChats) Stats(context.Context, string, string) (int64, *time.Time, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.msgs)), nil, nil
}

// --- harness ---

func asUser(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", "u1")
		c.Set("role", role)
		c.Next()
	}
}

func serve(t *testing.T, method, pattern, path string, h gin.HandlerFunc, body any, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, pattern, asUser(domain.RoleCustomer), h)

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return e.Code
}

var someID = uuid.NewString()

// --- tests ---

func TestAccountHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		register bool
		err      error
		want     int
		code     string
	}{
		{"register ok", true, nil, http.StatusOK, ""},
		{"register dup", true, services.ErrDuplicateEmail, http.StatusBadRequest, ErrCodeEmailTaken},
		{"register bad role", true, services.ErrInvalidRole, http.StatusBadRequest, ErrCodeValidationFailed},
		{"register storage", true, errors.New("db down"), http.StatusInternalServerError, ErrCodeInternal},
		{"login ok", false, nil, http.StatusOK, ""},
		{"login unknown", false, services.ErrUserNotFound, http.StatusBadRequest, ErrCodeBadCredentials},
		{"login wrong pw", false, services.ErrWrongPassword, http.StatusBadRequest, ErrCodeBadCredentials},
	}
	for _, tc := range cases {
		h := New(Deps{Accounts: fakeAccounts{err: tc.err}})
		handler, path := h.Login, "/login"
		if tc.register {
			handler, path = h.Register, "/register"
		}
		w := serve(t, http.MethodPost, path, path, handler, map[string]string{"email": "a@example.com", "password": "pw"})
		if w.Code != tc.want {
			t.Errorf("%s: status %d want %d", tc.name, w.Code, tc.want)
			continue
		}
		if tc.code != "" && errCode(t, w) != tc.code {
			t.Errorf("%s: code %q want %q", tc.name, errCode(t, w), tc.code)
		}
	}
}

func TestRegister_MissingFields(t *testing.T) {
	h := New(Deps{Accounts: fakeAccounts{}})
	w := serve(t, http.MethodPost, "/register", "/register", h.Register, map[string]string{"email": "a@example.com"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestLogin_OmitsPasswordHash(t *testing.T) {
	h := New(Deps{Accounts: fakeAccounts{}})
	w := serve(t, http.MethodPost, "/login", "/login", h.Login, map[string]string{"email": "a@example.com", "password": "pw"})
	var out LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Token != "tok" || out.User == nil || out.User.ID != "u1" {
		t.Fatalf("unexpected login body: %s", w.Body.String())
	}
	if bytes.Contains(w.Body.Bytes(), []byte("password")) {
		t.Fatalf("password field leaked: %s", w.Body.String())
	}
}

func TestCreateTask_AcceptsNumericRewardAndAlias(t *testing.T) {
	tasks := &fakeTasks{}
	h := New(Deps{Tasks: tasks})
	w := serve(t, http.MethodPost, "/tasks", "/tasks", h.CreateTask, map[string]any{
		"category": "Car", "mechanicProblem": "Battery", "reward_amount": 150.5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if tasks.created.RewardAmount != "150.5" || tasks.created.SpecificProblem != "Battery" {
		t.Fatalf("input = %+v", tasks.created)
	}

	tasks.err = services.ErrInvalidUrgency
	w = serve(t, http.MethodPost, "/tasks", "/tasks", h.CreateTask, map[string]any{"urgency": "someday"})
	if w.Code != http.StatusBadRequest || errCode(t, w) != ErrCodeValidationFailed {
		t.Fatalf("invalid urgency: %d %s", w.Code, w.Body.String())
	}
}

func TestTaskHandlers_NotFound(t *testing.T) {
	h := New(Deps{Tasks: &fakeTasks{err: services.ErrTaskNotFound}})
	path := "/tasks/" + someID
	for _, tc := range []struct {
		method string
		h      gin.HandlerFunc
		body   any
	}{
		{http.MethodGet, h.GetTask, nil},
		{http.MethodPut, h.UpdateTask, map[string]string{"title": "x"}},
		{http.MethodDelete, h.DeleteTask, nil},
	} {
		if w := serve(t, tc.method, "/tasks/:id", path, tc.h, tc.body); w.Code != http.StatusNotFound {
			t.Errorf("%s: status=%d", tc.method, w.Code)
		}
	}
	if w := serve(t, http.MethodGet, "/helper/tasks/:id", "/helper/tasks/"+someID, h.HelperTask, nil); w.Code != http.StatusNotFound {
		t.Errorf("helper get: status=%d", w.Code)
	}
}

func TestAcceptTask_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
		code string
	}{
		{nil, http.StatusOK, ""},
		{services.ErrTaskNotFound, http.StatusBadRequest, ErrCodeNotFound},
		{services.ErrAlreadyTaken, http.StatusBadRequest, ErrCodeAlreadyTaken},
		{errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range cases {
		h := New(Deps{Assignments: fakeAssignments{err: tc.err}})
		w := serve(t, http.MethodPost, "/tasks/:id/accept", "/tasks/"+someID+"/accept", h.AcceptTask, nil)
		if w.Code != tc.want {
			t.Errorf("%v: status %d want %d", tc.err, w.Code, tc.want)
			continue
		}
		if tc.code != "" && errCode(t, w) != tc.code {
			t.Errorf("%v: code %q", tc.err, errCode(t, w))
		}
	}
}

func TestCompleteTask_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.ErrTaskNotFound, http.StatusNotFound},
		{services.ErrNotAssignedToYou, http.StatusForbidden},
		{services.ErrInvalidTransition, http.StatusBadRequest},
	}
	for _, tc := range cases {
		h := New(Deps{Assignments: fakeAssignments{err: tc.err}})
		w := serve(t, http.MethodPost, "/tasks/:id/complete", "/tasks/"+someID+"/complete", h.CompleteTask, nil)
		if w.Code != tc.want {
			t.Errorf("%v: status %d want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestReviewTask_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
		code string
	}{
		{nil, http.StatusOK, ""},
		{services.ErrInvalidRating, http.StatusBadRequest, ErrCodeValidationFailed},
		{fmt.Errorf("%w: task is not completed", services.ErrNotEligible), http.StatusBadRequest, ErrCodeNotEligible},
	}
	for _, tc := range cases {
		h := New(Deps{Reviews: fakeReviews{err: tc.err}})
		w := serve(t, http.MethodPost, "/tasks/:id/review", "/tasks/"+someID+"/review", h.ReviewTask, map[string]any{"rating": 4})
		if w.Code != tc.want {
			t.Errorf("%v: status %d want %d", tc.err, w.Code, tc.want)
			continue
		}
		if tc.code != "" && errCode(t, w) != tc.code {
			t.Errorf("%v: code %q", tc.err, errCode(t, w))
		}
	}
}

func TestListNotifications_PlainPagedAndETag(t *testing.T) {
	items := make([]domain.Notification, 5)
	for i := range items {
		items[i] = domain.Notification{ID: fmt.Sprintf("n%d", i)}
	}
	h := New(Deps{Notifications: fakeNotifications{items: items, latest: time.Unix(100, 0)}})

	w := serve(t, http.MethodGet, "/notifications", "/notifications", h.ListNotifications, nil)
	var plain []domain.Notification
	if err := json.Unmarshal(w.Body.Bytes(), &plain); err != nil || len(plain) != 5 {
		t.Fatalf("plain list: %v %s", err, w.Body.String())
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	if w := serve(t, http.MethodGet, "/notifications", "/notifications", h.ListNotifications, nil, "If-None-Match", etag); w.Code != http.StatusNotModified {
		t.Fatalf("conditional status=%d", w.Code)
	}

	w = serve(t, http.MethodGet, "/notifications", "/notifications?page=2&page_size=2", h.ListNotifications, nil)
	var paged ListNotificationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &paged); err != nil {
		t.Fatal(err)
	}
	if len(paged.Notifications) != 2 || paged.Notifications[0].ID != "n2" || paged.Pagination.Total != 5 {
		t.Fatalf("paged = %+v", paged)
	}
	if w.Header().Get("ETag") == etag {
		t.Fatal("paged and unpaged listings must not share an ETag")
	}
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	h := New(Deps{Notifications: fakeNotifications{err: services.ErrNotificationNotFound}})
	w := serve(t, http.MethodPut, "/notifications/:id/read", "/notifications/"+someID+"/read", h.MarkNotificationRead, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestStartChat_Mapping(t *testing.T) {
	cases := []struct {
		name string
		body any
		err  error
		want int
	}{
		{"ok", map[string]string{"task_id": someID}, nil, http.StatusOK},
		{"missing", map[string]string{}, nil, http.StatusBadRequest},
		{"bad id", map[string]string{"task_id": "nope"}, nil, http.StatusBadRequest},
		{"unknown task", map[string]string{"task_id": someID}, services.ErrTaskNotFound, http.StatusNotFound},
		{"stranger", map[string]string{"task_id": someID}, services.ErrForbidden, http.StatusForbidden},
	}
	for _, tc := range cases {
		h := New(Deps{Chats: &fakeChats{start: tc.err}})
		if w := serve(t, http.MethodPost, "/chats/start", "/chats/start", h.StartChat, tc.body); w.Code != tc.want {
			t.Errorf("%s: status %d want %d", tc.name, w.Code, tc.want)
		}
	}
}

func TestSendMessage_Mapping(t *testing.T) {
	path := "/chats/" + someID + "/messages"
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.ErrEmptyMessage, http.StatusBadRequest},
		{services.ErrMessageTooLong, http.StatusBadRequest},
		{services.ErrChatNotFound, http.StatusNotFound},
		{services.ErrForbidden, http.StatusForbidden},
	}
	for _, tc := range cases {
		h := New(Deps{Chats: &fakeChats{err: tc.err}})
		if w := serve(t, http.MethodPost, "/chats/:id/messages", path, h.SendMessage, map[string]string{"message": "hi"}); w.Code != tc.want {
			t.Errorf("%v: status %d want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestSendMessage_ReplayReturnsStoredMessage(t *testing.T) {
	chats := &fakeChats{msgs: []domain.ChatMessage{{ID: "m1", Message: "first"}}}
	h := New(Deps{Chats: chats})
	replayed := func(c *gin.Context) {
		c.Set("idem.resource", "m1")
		h.SendMessage(c)
	}
	w := serve(t, http.MethodPost, "/chats/:id/messages", "/chats/"+someID+"/messages", replayed, map[string]string{"message": "again"})
	if w.Code != http.StatusOK || w.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("status=%d replayed=%q", w.Code, w.Header().Get(middleware.HeaderIdempotencyReplayed))
	}
	if chats.sent != 0 {
		t.Fatalf("replay sent a new message")
	}
	var out SendMessageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || out.Message == nil || out.Message.Message != "first" {
		t.Fatalf("body = %s err=%v", w.Body.String(), err)
	}
}

func TestListMessages_ForbiddenBeforeETag(t *testing.T) {
	h := New(Deps{Chats: &fakeChats{err: services.ErrForbidden}})
	w := serve(t, http.MethodGet, "/chats/:id/messages", "/chats/"+someID+"/messages", h.ListMessages, nil)
	if w.Code != http.StatusForbidden || w.Header().Get("ETag") != "" {
		t.Fatalf("status=%d etag=%q", w.Code, w.Header().Get("ETag"))
	}
}

func TestListMessages_Paged(t *testing.T) {
	chats := &fakeChats{msgs: []domain.ChatMessage{{ID: "m1"}, {ID: "m2"}}}
	h := New(Deps{Chats: chats})
	w := serve(t, http.MethodGet, "/chats/:id/messages", "/chats/"+someID+"/messages?page=1", h.ListMessages, nil)
	var out ListMessagesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Messages) != 2 || out.Pagination.PageSize != defaultMessagePageSize {
		t.Fatalf("paged messages = %+v", out)
	}
}
