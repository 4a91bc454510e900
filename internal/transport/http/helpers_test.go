package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/signalrelay/internal/config"
	"github.com/vovakirdan/signalrelay/internal/core"
	"github.com/vovakirdan/signalrelay/internal/metrics"
	"github.com/vovakirdan/signalrelay/internal/proto"
)

const testIndexHTML = "<!doctype html><title>relay</title>"

type rawOutbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(testIndexHTML), 0o600); err != nil {
		t.Fatalf("write index: %v", err)
	}

	cfg := config.Default()
	cfg.Port = 0
	cfg.StaticDir = dir
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func startTestServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()

	collector := metrics.New()
	hub := core.NewHub(nil, collector)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	disabledLogger := zerolog.Nop()
	server := NewServer(hub, collector.Handler(), &cfg, &disabledLogger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

type wsPeer struct {
	t    *testing.T
	ctx  context.Context
	conn *websocket.Conn
	id   string
}

// dialPeer connects and consumes the connected event.
func dialPeer(t *testing.T, ctx context.Context, ts *httptest.Server) *wsPeer {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	p := &wsPeer{t: t, ctx: ctx, conn: conn}
	var hello proto.EventConnectedData
	p.expectEvent(proto.EventConnected, &hello)
	if hello.ID == "" || hello.Protocol != proto.ProtocolVersion {
		t.Fatalf("unexpected connected payload: %+v", hello)
	}
	p.id = hello.ID
	return p
}

func (p *wsPeer) send(typ string, data any) {
	p.t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		p.t.Fatalf("marshal %s: %v", typ, err)
	}
	if err := wsjson.Write(p.ctx, p.conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
		p.t.Fatalf("send %s: %v", typ, err)
	}
}

func (p *wsPeer) read() rawOutbound {
	p.t.Helper()

	var out rawOutbound
	if err := wsjson.Read(p.ctx, p.conn, &out); err != nil {
		p.t.Fatalf("read outbound: %v", err)
	}
	return out
}

// expectEvent reads frames until the named event arrives and decodes its data.
func (p *wsPeer) expectEvent(event string, into any) {
	p.t.Helper()

	for {
		out := p.read()
		if out.Type != proto.OutboundTypeEvent || out.Event != event {
			continue
		}
		if into != nil {
			if err := json.Unmarshal(out.Data, into); err != nil {
				p.t.Fatalf("decode %s: %v", event, err)
			}
		}
		return
	}
}

// expectError reads the next frame and requires it to be an error with code.
func (p *wsPeer) expectError(code string) {
	p.t.Helper()

	out := p.read()
	if out.Type != proto.OutboundTypeError || out.Error == nil || out.Error.Code != code {
		p.t.Fatalf("expected %s error, got %+v", code, out)
	}
}

func (p *wsPeer) join(room string) []string {
	p.t.Helper()

	p.send(proto.InboundTypeJoin, proto.JoinData{Room: room})
	var users proto.EventRoomUsersData
	p.expectEvent(proto.EventRoomUsers, &users)
	if users.Room != room {
		p.t.Fatalf("room-users for %q, want %q", users.Room, room)
	}
	return users.Users
}
