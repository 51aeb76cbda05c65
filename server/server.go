package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// ScoreSource serves the scores endpoint
type ScoreSource interface {
	HighScore(ctx context.Context) (int, error)
}

// Routes holds what the HTTP handlers need. Scores and ClientDir are
// optional.
type Routes struct {
	Hub       *Hub
	Pairing   *Pairing
	Scores    ScoreSource
	ClientDir string
	Logger    *zap.Logger
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// SetupRoutes configures HTTP routes
func SetupRoutes(rt Routes) *http.ServeMux {
	if rt.Logger == nil {
		rt.Logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	if rt.ClientDir != "" {
		fs := http.FileServer(http.Dir(rt.ClientDir))
		mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			if r.URL.Path == "/" || r.URL.Path == "/controller" {
				http.ServeFile(w, r, filepath.Join(rt.ClientDir, "index.html"))
				return
			}
			fs.ServeHTTP(w, r)
		}))
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]int{
			"viewers":     rt.Hub.Count(RoleViewer),
			"controllers": rt.Hub.Count(RoleController),
		})
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		role := RoleViewer
		if token := r.URL.Query().Get("token"); token != "" {
			if rt.Pairing == nil {
				http.Error(w, "pairing disabled", http.StatusNotFound)
				return
			}
			if _, err := rt.Pairing.Verify(token); err != nil {
				http.Error(w, "invalid pairing token", http.StatusUnauthorized)
				return
			}
			role = RoleController
		}

		ip := extractIP(r)
		if !rt.Hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			rt.Logger.Debug("upgrade", zap.Error(err))
			return
		}
		rt.Hub.TrackConnect(ip)

		client := NewClient(rt.Hub, conn, role, ip)
		client.SendJSON(Envelope{T: MsgWelcome, Data: WelcomeMsg{
			Role:      role,
			World:     rt.Hub.controls.World(),
			HighScore: rt.Hub.HighScore(),
		}})
		if !rt.Hub.join(client) {
			rt.Hub.TrackDisconnect(ip)
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	})

	if rt.Pairing != nil {
		mux.HandleFunc("/pair/token", func(w http.ResponseWriter, r *http.Request) {
			token, exp, err := rt.Pairing.Issue()
			if err != nil {
				rt.Logger.Error("issue pairing token", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, PairResponse{Token: token, URL: rt.Pairing.URL(requestBase(r), token), ExpiresAt: exp.Unix()})
		})

		mux.HandleFunc("/pair", func(w http.ResponseWriter, r *http.Request) {
			token, _, err := rt.Pairing.Issue()
			if err != nil {
				rt.Logger.Error("issue pairing token", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			png, err := QRCode(rt.Pairing.URL(requestBase(r), token))
			if err != nil {
				rt.Logger.Error("pairing qr", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "image/png")
			w.Header().Set("Cache-Control", "no-store")
			w.Write(png)
		})
	}

	if rt.Scores != nil {
		mux.HandleFunc("/scores", func(w http.ResponseWriter, r *http.Request) {
			high, err := rt.Scores.HighScore(r.Context())
			if err != nil {
				rt.Logger.Error("read high score", zap.Error(err))
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, ScoresResponse{HighScore: high, Live: max(high, rt.Hub.HighScore())})
		})
	}

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Serve runs an HTTP server on addr until ctx is done, then shuts it down
func Serve(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
