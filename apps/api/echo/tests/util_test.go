package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	. "github.com/trezcool/masomo-dashboard/apps/api/echo"
	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/storage/kv"
	"github.com/trezcool/masomo-dashboard/storage/kv/inmem"
)

const clientCookie = "masomo_cid"

type testApp struct {
	*Server
	kv kv.Store
}

func setup(t *testing.T) testApp {
	t.Helper()

	conf := &core.Config{
		Env:      "TEST",
		TestMode: true,
		Server: core.ServerConfig{
			Address:        ":0",
			DisableReqLogs: true,
		},
		Session: core.SessionConfig{
			Backend:      core.BackendMemory,
			ClientCookie: clientCookie,
			UserKey:      "user",
		},
	}
	store := inmemkv.Open()
	validate, translator := core.NewValidator()

	srv := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     core.NopLogger{},
		KV:         store,
		Registry:   prometheus.NewRegistry(),
		Validate:   validate,
		Translator: translator,
	})
	t.Cleanup(func() {
		_ = srv.Close()
		_ = store.Close()
	})
	return testApp{Server: srv, kv: store}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

// browser keeps the cookies a browser profile would between requests.
type browser struct {
	app     testApp
	cookies map[string]*http.Cookie
}

func newBrowser(app testApp) *browser {
	return &browser{app: app, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, data...)
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	b.app.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
		} else {
			b.cookies[c.Name] = c
		}
	}
	return rec
}

func (b *browser) clientID() string {
	if c, ok := b.cookies[clientCookie]; ok {
		return c.Value
	}
	return ""
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		if rec.Body.Len() != 0 {
			t.Errorf("failed! data = %v; want no data", rec.Body.String())
		}
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
