package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"DMChat/apps/chat/internal/delivery"
	"DMChat/apps/chat/internal/handler"
	"DMChat/apps/chat/internal/manager"
	"DMChat/apps/chat/internal/repository"
	"DMChat/apps/chat/internal/service"
	"DMChat/apps/chat/internal/svc"
	"DMChat/config"
	"DMChat/consts"
	"DMChat/pkg/logger"
	"DMChat/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var routerTestOnce sync.Once

func initRouterTest() {
	routerTestOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		logger.ReplaceGlobal(zap.NewNop())
	})
}

type testApp struct {
	engine    *gin.Engine
	store     *repository.Store
	registry  *manager.PresenceRegistry
	msgRouter *delivery.Router
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	initRouterTest()

	cfg := config.Default()
	cfg.Server.RateLimitRPS = 0

	store := repository.NewMemoryStore()
	sessionRepo := repository.NewSessionRepository(nil)
	userService := service.NewUserService(store.Users, 64)
	relationService := service.NewRelationService(store.Users, store.Links, userService)
	messageService := service.NewMessageService(store.Messages, relationService, true)
	authService := service.NewAuthService(store.Users, sessionRepo, cfg.JWT.TTL)

	registry := manager.NewPresenceRegistry()
	msgRouter := delivery.NewRouter(cfg.Delivery, store.Messages, userService, relationService, registry, util.NewMonotonicClock(nil))
	connectSvc := svc.NewConnectService(authService, sessionRepo)

	engine := InitRouter(cfg.Server, Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Friend:  handler.NewFriendHandler(relationService),
		Message: handler.NewMessageHandler(messageService),
		WS:      handler.NewWSHandler(registry, connectSvc, msgRouter, cfg.Delivery, nil),
	}, authService, nil)
	t.Cleanup(registry.Shutdown)

	return &testApp{engine: engine, store: store, registry: registry, msgRouter: msgRouter}
}

type apiResponse struct {
	Code    int32           `json:"code"`
	Success string          `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (a *testApp) do(t *testing.T, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

type account struct {
	id    int64
	token string
}

func (a *testApp) signup(t *testing.T, name string) account {
	t.Helper()
	w := a.do(t, http.MethodPost, "/register", "", url.Values{
		"email":    {name + "@example.com"},
		"username": {name},
		"password": {"secret123"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int32(consts.CodeSuccess), decode(t, w).Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/login", "", url.Values{
		"email":    {name + "@example.com"},
		"password": {"secret123"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.Equal(t, int32(consts.CodeSuccess), resp.Code, w.Body.String())

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	require.NotEmpty(t, login.Token)
	return account{id: login.User.ID, token: login.Token}
}

func (a *testApp) befriend(t *testing.T, from, to account, toName string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/search_friend", from.token, url.Values{"search_term": {toName}})
	require.Equal(t, int32(consts.CodeSuccess), decode(t, w).Code, w.Body.String())

	links, err := a.store.Links.ListIncomingPending(context.Background(), to.id)
	require.NoError(t, err)
	require.Len(t, links, 1)

	w = a.do(t, http.MethodPost, "/handle_friend_request", to.token, url.Values{
		"request_id": {strconv.FormatInt(links[0].Id, 10)},
		"action":     {service.ActionAccept},
	})
	require.Equal(t, int32(consts.CodeSuccess), decode(t, w).Code, w.Body.String())
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	w := app.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRegisterConflicts(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "alice")

	w := app.do(t, http.MethodPost, "/register", "", url.Values{
		"email": {"alice@example.com"}, "username": {"other"}, "password": {"secret123"},
	})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, int32(consts.CodeEmailTaken), resp.Code)
	assert.Equal(t, consts.GetMessage(consts.CodeEmailTaken), resp.Error)

	w = app.do(t, http.MethodPost, "/register", "", url.Values{
		"email": {"new@example.com"}, "username": {"alice"}, "password": {"secret123"},
	})
	assert.Equal(t, int32(consts.CodeUsernameTaken), decode(t, w).Code)

	w = app.do(t, http.MethodPost, "/register", "", url.Values{"email": {"bad"}})
	assert.Equal(t, int32(consts.CodeParamError), decode(t, w).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "alice")

	w := app.do(t, http.MethodPost, "/login", "", url.Values{
		"email": {"alice@example.com"}, "password": {"wrong-one"},
	})
	assert.Equal(t, int32(consts.CodeInvalidCredentials), decode(t, w).Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/search_friend"},
		{http.MethodPost, "/handle_friend_request"},
		{http.MethodGet, "/friends"},
		{http.MethodGet, "/friend_requests"},
		{http.MethodGet, "/messages/1"},
		{http.MethodPost, "/logout"},
	} {
		w := app.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)

		w = app.do(t, tc.method, tc.path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}
}

func TestFriendRequestFlow(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup(t, "alice")
	bob := app.signup(t, "bob")

	// 空搜索词
	w := app.do(t, http.MethodPost, "/search_friend", alice.token, url.Values{"search_term": {"  "}})
	resp := decode(t, w)
	assert.Equal(t, int32(consts.CodeSearchTermEmpty), resp.Code)
	assert.Equal(t, "请输入邮箱或用户名", resp.Error)

	// 按邮箱查找
	w = app.do(t, http.MethodPost, "/search_friend", alice.token, url.Values{"search_term": {"bob@example.com"}})
	resp = decode(t, w)
	require.Equal(t, int32(consts.CodeSuccess), resp.Code)
	assert.Contains(t, resp.Success, "bob")

	// 反向申请
	w = app.do(t, http.MethodPost, "/search_friend", bob.token, url.Values{"search_term": {"alice"}})
	assert.Equal(t, int32(consts.CodeFriendRequestSent), decode(t, w).Code)

	w = app.do(t, http.MethodGet, "/friend_requests", bob.token, nil)
	resp = decode(t, w)
	var incoming []struct {
		RequestID         int64  `json:"request_id"`
		RequesterID       int64  `json:"requester_id"`
		RequesterUsername string `json:"requester_username"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &incoming))
	require.Len(t, incoming, 1)
	assert.Equal(t, alice.id, incoming[0].RequesterID)
	assert.Equal(t, "alice", incoming[0].RequesterUsername)

	requestID := strconv.FormatInt(incoming[0].RequestID, 10)

	// 申请人无权处理
	w = app.do(t, http.MethodPost, "/handle_friend_request", alice.token, url.Values{"request_id": {requestID}, "action": {"accept"}})
	assert.Equal(t, int32(consts.CodeNotRequestRecipient), decode(t, w).Code)

	w = app.do(t, http.MethodPost, "/handle_friend_request", bob.token, url.Values{"request_id": {requestID}, "action": {"maybe"}})
	resp = decode(t, w)
	assert.Equal(t, int32(consts.CodeUnknownAction), resp.Code)
	assert.Equal(t, "未知操作", resp.Error)

	w = app.do(t, http.MethodPost, "/handle_friend_request", bob.token, url.Values{"request_id": {"999"}, "action": {"accept"}})
	assert.Equal(t, int32(consts.CodeFriendRequestAbsent), decode(t, w).Code)

	w = app.do(t, http.MethodPost, "/handle_friend_request", bob.token, url.Values{"request_id": {requestID}, "action": {"accept"}})
	require.Equal(t, int32(consts.CodeSuccess), decode(t, w).Code)

	for _, acc := range []account{alice, bob} {
		w = app.do(t, http.MethodGet, "/friends", acc.token, nil)
		var friends []struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &friends))
		require.Len(t, friends, 1)
		assert.NotEqual(t, acc.id, friends[0].ID)
	}
}

func TestDeclineAllowsNewRequest(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup(t, "alice")
	bob := app.signup(t, "bob")

	w := app.do(t, http.MethodPost, "/search_friend", alice.token, url.Values{"search_term": {"bob"}})
	require.Equal(t, int32(consts.CodeSuccess), decode(t, w).Code)
	links, err := app.store.Links.ListIncomingPending(context.Background(), bob.id)
	require.NoError(t, err)
	require.Len(t, links, 1)

	w = app.do(t, http.MethodPost, "/handle_friend_request", bob.token, url.Values{
		"request_id": {strconv.FormatInt(links[0].Id, 10)}, "action": {"decline"},
	})
	resp := decode(t, w)
	require.Equal(t, int32(consts.CodeSuccess), resp.Code)
	assert.Equal(t, "已拒绝好友申请", resp.Success)

	w = app.do(t, http.MethodPost, "/search_friend", alice.token, url.Values{"search_term": {"bob"}})
	assert.Equal(t, int32(consts.CodeSuccess), decode(t, w).Code)
}

func TestHistory(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup(t, "alice")
	bob := app.signup(t, "bob")
	carol := app.signup(t, "carol")
	bobPath := "/messages/" + strconv.FormatInt(bob.id, 10)

	w := app.do(t, http.MethodGet, bobPath, alice.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, http.MethodGet, "/messages/abc", alice.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	app.befriend(t, alice, bob, "bob")

	w = app.do(t, http.MethodGet, bobPath, alice.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	_, err := app.msgRouter.Route(context.Background(), alice.id, bob.id, "hi")
	require.NoError(t, err)
	_, err = app.msgRouter.Route(context.Background(), bob.id, alice.id, "hey")
	require.NoError(t, err)

	w = app.do(t, http.MethodGet, bobPath, alice.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fromAlice := w.Body.String()

	w = app.do(t, http.MethodGet, "/messages/"+strconv.FormatInt(alice.id, 10), bob.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fromAlice, w.Body.String())

	var items []struct {
		SenderID   int64  `json:"sender_id"`
		ReceiverID int64  `json:"receiver_id"`
		Message    string `json:"message"`
		Timestamp  string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal([]byte(fromAlice), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "hi", items[0].Message)
	assert.Equal(t, alice.id, items[0].SenderID)
	assert.Equal(t, "hey", items[1].Message)
	assert.Regexp(t, `^\d{2}:\d{2}$`, items[0].Timestamp)

	// 第三方无法查询
	w = app.do(t, http.MethodGet, bobPath, carol.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup(t, "alice")

	w := app.do(t, http.MethodPost, "/logout", alice.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(consts.CodeSuccess), decode(t, w).Code)
}
