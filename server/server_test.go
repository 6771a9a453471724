package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chomp-local/strategy"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(strategy.NewSelector(strategy.Default())).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postMove(t *testing.T, ts *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/move", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestMoveFullBoard(t *testing.T) {
	ts := newTestServer(t)
	resp, out := postMove(t, ts, `{"board":[0,0,0,0,0]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	want := strategy.Default().Lookup(strategy.Full).Move.Move()
	assert.Equal(t, float64(want.Row), out["row"])
	assert.Equal(t, float64(want.Col), out["col"])
	assert.Equal(t, true, out["forced"])
}

func TestMoveHexBoard(t *testing.T) {
	ts := newTestServer(t)
	// Only the last column is left: eating all of it but the poison wins.
	resp, out := postMove(t, ts, `{"board":"fe,fe,fe,fe,fe"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4), out["row"])
	assert.Equal(t, float64(8), out["col"])
	assert.Equal(t, true, out["forced"])
}

func TestMoveErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"not json", `{"board":`, http.StatusBadRequest},
		{"missing board", `{}`, http.StatusBadRequest},
		{"short board", `{"board":[0,0,0]}`, http.StatusBadRequest},
		{"not a byte", `{"board":[0,0,0,0,300]}`, http.StatusBadRequest},
		{"not a staircase", `{"board":[0,0,0,0,128]}`, http.StatusBadRequest},
		{"bad hex", `{"board":"zz,00,00,00,00"}`, http.StatusBadRequest},
		{"poison only", `{"board":[255,255,255,255,254]}`, http.StatusConflict},
		{"empty", `{"board":[255,255,255,255,255]}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := postMove(t, ts, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestClassify(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/classify?board=ff,ff,ff,fe,fc")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ClassifyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, strategy.Skyline{0, 0, 0, 1, 2}, out.Skyline)
	assert.Equal(t, strategy.Skyline{0, 0, 0, 1, 2}.Index(), out.Index)
	assert.Equal(t, "losing", out.Verdict)
	assert.Nil(t, out.Move)
	assert.Equal(t, "ff,ff,ff,fe,fc", out.Board)

	resp2, err := http.Get(ts.URL + "/v1/classify?board=00,00,00,00,00")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var full ClassifyResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&full))
	assert.Equal(t, "winning", full.Verdict)
	require.NotNil(t, full.Move)
	assert.True(t, full.Move.Forced)

	resp3, err := http.Get(ts.URL + "/v1/classify?board=nope")
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp3.StatusCode)
}

func TestClassifyByIndex(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/classify?index=0x00012")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out ClassifyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, strategy.Skyline{0, 0, 0, 1, 2}, out.Skyline)
	assert.Equal(t, "ff,ff,ff,fe,fc", out.Board)
	assert.Equal(t, "losing", out.Verdict)

	resp2, err := http.Get(ts.URL + "/v1/classify?index=559240")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var full ClassifyResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&full))
	assert.Equal(t, strategy.Full, full.Skyline)
	assert.Equal(t, "winning", full.Verdict)

	for _, bad := range []string{"0x99999", "0x00021", "nope", "0x100000"} {
		r, err := http.Get(ts.URL + "/v1/classify?index=" + bad)
		require.NoError(t, err)
		r.Body.Close()
		assert.Equal(t, http.StatusBadRequest, r.StatusCode, bad)
	}
}

func TestWebsocket(t *testing.T) {
	ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`[254,254,254,254,254]`)))
	var mv strategy.Move
	require.NoError(t, conn.ReadJSON(&mv))
	assert.Equal(t, strategy.Move{Row: 4, Col: 8, Forced: true}, mv)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"board":"ff,ff,ff,ff,fe"}`)))
	var errResp map[string]string
	require.NoError(t, conn.ReadJSON(&errResp))
	assert.Contains(t, errResp["error"], "game over")

	// The connection survives a bad message.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`"ff,ff"`)))
	errResp = nil
	require.NoError(t, conn.ReadJSON(&errResp))
	assert.Contains(t, errResp["error"], "malformed board")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`"00,00,00,00,00"`)))
	require.NoError(t, conn.ReadJSON(&mv))
	assert.True(t, mv.Forced)
}

func TestParseBoard(t *testing.T) {
	m, err := ParseBoard(json.RawMessage(`[1,2,3,4,5]`))
	require.NoError(t, err)
	assert.Equal(t, strategy.Mask{1, 2, 3, 4, 5}, m)

	m, err = ParseBoard(json.RawMessage(`"ff,ff,ff,ff,fe"`))
	require.NoError(t, err)
	assert.Equal(t, strategy.Mask{0xff, 0xff, 0xff, 0xff, 0xfe}, m)

	_, err = ParseBoard(nil)
	assert.ErrorIs(t, err, strategy.ErrMalformedBoard)
	_, err = ParseBoard(json.RawMessage(`{"x":1}`))
	assert.ErrorIs(t, err, strategy.ErrMalformedBoard)
}
