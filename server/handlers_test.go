package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"Scrubline/config"
	"Scrubline/core/auth"
	"Scrubline/core/catalog"
	"Scrubline/core/session"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackJSON = `{"trackId":"intro","title":"Intro","duration":100,
"markers":[{"time":75,"title":"Outro"},{"time":50,"title":"Chorus"}]}`

func testConfig() *config.Config {
	return &config.Config{
		TimelineSource: config.SourceFile,
		Deadzone:       10,
		MinTouchTarget: 44,
		HapticsEnabled: true,
		HandleSize:     20,
		TrackHeight:    44,
	}
}

func newTestServer(t *testing.T, tokens *auth.Tokens, cfg *config.Config) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.json"), []byte(trackJSON), 0644))
	files, err := catalog.NewFileSource(dir, nil)
	require.NoError(t, err)

	hub := session.NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)

	srv := httptest.NewServer(NewAPIHandler(cfg, files, tokens, hub).Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, nil, testConfig())

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "file", body["source"])
}

func TestGetTimeline(t *testing.T) {
	srv := newTestServer(t, nil, testConfig())

	resp, err := http.Get(srv.URL + "/api/timelines/intro")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tl catalog.Timeline
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tl))
	assert.Equal(t, 100.0, tl.Duration)
	require.Len(t, tl.Markers, 2)
	assert.Equal(t, "Chorus", tl.Markers[0].Title)

	missing, err := http.Get(srv.URL + "/api/timelines/nope")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestPutTimeline(t *testing.T) {
	srv := newTestServer(t, nil, testConfig())

	body := `{"duration":30,"markers":[{"time":10}]}`
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/timelines/short", strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := http.Get(srv.URL + "/api/timelines/short")
	require.NoError(t, err)
	defer got.Body.Close()
	var tl catalog.Timeline
	require.NoError(t, json.NewDecoder(got.Body).Decode(&tl))
	assert.Equal(t, "short", tl.TrackID)
	assert.Equal(t, 30.0, tl.Duration)
}

func TestTokenDisabled(t *testing.T) {
	srv := newTestServer(t, nil, testConfig())

	resp, err := http.Post(srv.URL+"/api/auth/token", "application/json", strings.NewReader(`{"clientId":"a"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestTokenFlow(t *testing.T) {
	hash, err := auth.HashKey("renderer-key")
	require.NoError(t, err)
	cfg := testConfig()
	cfg.APIKeyHash = hash
	tokens, err := auth.NewTokens("secret", time.Hour)
	require.NoError(t, err)
	srv := newTestServer(t, tokens, cfg)

	post := func(key string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/auth/token", strings.NewReader(`{"clientId":"tv"}`))
		require.NoError(t, err)
		req.Header.Set("X-API-Key", key)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	bad := post("wrong")
	bad.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)

	good := post("renderer-key")
	defer good.Body.Close()
	require.Equal(t, http.StatusOK, good.StatusCode)
	var out map[string]string
	require.NoError(t, json.NewDecoder(good.Body).Decode(&out))
	claims, err := tokens.Parse(out["token"])
	require.NoError(t, err)
	assert.Equal(t, "tv", claims.ClientID)

	// writes need the token once auth is on
	put, err := http.NewRequest(http.MethodPut, srv.URL+"/api/timelines/intro", strings.NewReader(`{"duration":1}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(put)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	put, err = http.NewRequest(http.MethodPut, srv.URL+"/api/timelines/intro", strings.NewReader(`{"duration":1}`))
	require.NoError(t, err)
	put.Header.Set("Authorization", "Bearer "+out["token"])
	resp, err = http.DefaultClient.Do(put)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the socket rejects a missing token before upgrading
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scrub/intro"
	_, wsResp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, wsResp)
	assert.Equal(t, http.StatusUnauthorized, wsResp.StatusCode)
}

func readMessage(t *testing.T, conn *websocket.Conn) session.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg session.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readTypes(t *testing.T, conn *websocket.Conn, n int) []session.MessageType {
	t.Helper()
	types := make([]session.MessageType, 0, n)
	for i := 0; i < n; i++ {
		types = append(types, readMessage(t, conn).Type)
	}
	return types
}

func sendMessage(t *testing.T, conn *websocket.Conn, typ session.MessageType, data interface{}) {
	t.Helper()
	msg, err := session.NewMessage(typ, "", data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(msg))
}

func TestScrubSocket(t *testing.T) {
	srv := newTestServer(t, nil, testConfig())

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scrub/intro"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	hello := readMessage(t, conn)
	require.Equal(t, session.MsgTypeHello, hello.Type)
	var hd session.HelloData
	require.NoError(t, json.Unmarshal(hello.Data, &hd))
	assert.Equal(t, "intro", hd.TrackID)
	assert.NotEmpty(t, hd.SessionID)
	assert.Len(t, hd.Markers, 2)
	assert.Equal(t, 100.0, hd.Layout.Duration)

	sendMessage(t, conn, session.MsgTypeGeometry, map[string]interface{}{
		"trackWidth":  400,
		"trackHeight": 44,
		"handleSize":  map[string]float64{"width": 20, "height": 20},
	})
	assert.Equal(t, []session.MessageType{session.MsgTypeLayout}, readTypes(t, conn, 1))

	// handle sits at the leading inset
	sendMessage(t, conn, session.MsgTypeDown, session.PointerData{PointerID: 1, X: 10, Y: 22})
	assert.Equal(t, []session.MessageType{
		session.MsgTypeHapticPrepare, session.MsgTypeBeginScrub, session.MsgTypeLayout,
	}, readTypes(t, conn, 3))

	// x=210 maps to about 52.6s, past the chorus marker
	sendMessage(t, conn, session.MsgTypeMove, session.PointerData{PointerID: 1, X: 210, Y: 22})
	assert.Equal(t, []session.MessageType{
		session.MsgTypeHapticImpulse, session.MsgTypeHapticPrepare, session.MsgTypeScrub, session.MsgTypeLayout,
	}, readTypes(t, conn, 4))

	sendMessage(t, conn, session.MsgTypeUp, session.PointerData{PointerID: 1})
	types := readTypes(t, conn, 3)
	assert.Equal(t, []session.MessageType{
		session.MsgTypeHapticRelease, session.MsgTypeEndScrub, session.MsgTypeLayout,
	}, types)

	sendMessage(t, conn, session.MsgTypePing, nil)
	assert.Equal(t, session.MsgTypePong, readMessage(t, conn).Type)
}

func TestScrubSocketUnknownTrack(t *testing.T) {
	srv := newTestServer(t, nil, testConfig())

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/scrub/missing"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
