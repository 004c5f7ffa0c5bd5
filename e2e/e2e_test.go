package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/assets"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

func writeStatics(t *testing.T, dir string) {
	t.Helper()
	for _, name := range assets.StaticNames {
		img := image.NewRGBA(image.Rect(0, 0, 32, 24))
		for i := range img.Pix {
			img.Pix[i] = 128
		}
		img.Set(0, 0, color.Black)
		f, err := os.Create(filepath.Join(dir, name+".png"))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
}

func TestE2E_SettingsToReaction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	assetDir := filepath.Join(tmpDir, "assets")
	if err := os.MkdirAll(assetDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeStatics(t, assetDir)

	st, err := store.New(filepath.Join(tmpDir, "data", "mudra.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	srv := server.New(server.Config{Store: st})
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	t.Run("StoreAssetDir", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/settings/asset_dir",
			strings.NewReader(`{"value":"`+assetDir+`"}`))
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("PUT error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})

	cfg, err := config.Config{}.Merge(st.Settings(), store.IsNotFound)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if cfg.AssetDir != assetDir {
		t.Fatalf("merged AssetDir = %q, want %q", cfg.AssetDir, assetDir)
	}

	lib := assets.Load(cfg.AssetDir)
	defer lib.Close()
	// Only the animations and the cue are missing.
	if got := len(lib.Missing()); got != 3 {
		t.Errorf("Missing() has %d entries, want 3: %v", got, lib.Missing())
	}

	cam := capture.NewBlankMockCamera(40)
	defer cam.Release()

	det := detector.NewMockDetector()
	det.SetFace(detector.SmilingFace())
	det.SetHands([]detector.HandLandmarks{detector.SaluteLandmarks()})

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	application := app.New(app.Config{
		Camera:   cam,
		Detector: det,
		Assets:   lib,
		Mirror:   true,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now: func() time.Time {
			clock = clock.Add(33 * time.Millisecond)
			return clock
		},
	})
	if application.EngineConfig().CompositeEnabled {
		t.Error("composite must be disabled without its assets")
	}

	live := server.New(server.Config{Store: st, State: application})
	application.AddSink(live.Events())
	application.AddFrameSink(live.Stream())
	lts := httptest.NewServer(live)
	defer lts.Close()

	url := "ws" + strings.TrimPrefix(lts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial events: %v", err)
	}
	defer conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for live.Events().Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	err = application.Run(context.Background())
	if !errors.Is(err, capture.ErrCaptureFailed) {
		t.Fatalf("Run() error = %v, want ErrCaptureFailed once frames run out", err)
	}

	t.Run("StateShowsHeldSalute", func(t *testing.T) {
		resp, err := lts.Client().Get(lts.URL + "/api/state")
		if err != nil {
			t.Fatalf("GET /api/state error = %v", err)
		}
		defer resp.Body.Close()

		var state struct {
			Seq     uint64 `json:"seq"`
			Display struct {
				Kind string `json:"kind"`
			} `json:"display"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if state.Seq != 40 {
			t.Errorf("seq = %d, want 40", state.Seq)
		}
		if state.Display.Kind != "salute" {
			t.Errorf("display = %q, want salute after the hold time", state.Display.Kind)
		}
	})

	t.Run("EventsSawSmileThenSalute", func(t *testing.T) {
		var kinds []string
		for len(kinds) < 2 {
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("read event: %v (got %v)", err, kinds)
			}
			var ev struct {
				Display struct {
					Kind       string `json:"kind"`
					Expression string `json:"expression"`
				} `json:"display"`
			}
			if err := json.Unmarshal(msg, &ev); err != nil {
				t.Fatal(err)
			}
			kinds = append(kinds, ev.Display.Kind+":"+ev.Display.Expression)
		}
		if kinds[0] != "expression:smile" || kinds[1] != "salute:" {
			t.Errorf("events = %v, want [expression:smile salute:]", kinds)
		}
	})
}
