// Package server exposes aggregation snapshots to the external visualizer
// over a websocket feed. It is read-only: no request mutates the store.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/xhad/leaksift/pkg/analysis"
	"github.com/xhad/leaksift/pkg/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Be careful with this in production
	},
}

type Message struct {
	Type    string      `json:"type"`
	Content string      `json:"content,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type Config struct {
	Addr          string
	ExpectedTotal int
	TopDomains    int
}

type ReportServer struct {
	config     Config
	store      *store.Store
	aggregator *analysis.Aggregator
	log        zerolog.Logger
}

func NewReportServer(config Config, s *store.Store, log zerolog.Logger) *ReportServer {
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	if config.TopDomains == 0 {
		config.TopDomains = 20
	}

	return &ReportServer{
		config:     config,
		store:      s,
		aggregator: analysis.New(s),
		log:        log,
	}
}

func (s *ReportServer) ListenAndServe() error {
	http.HandleFunc("/ws", s.handleWebSocket)
	s.log.Info().Str("addr", s.config.Addr).Msg("report server listening")
	return http.ListenAndServe(s.config.Addr, nil)
}

func (s *ReportServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.log.Debug().Err(err).Msg("websocket closed")
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			s.sendMessage(conn, "error", fmt.Sprintf("bad request: %v", err), nil)
			continue
		}

		s.handleMessage(conn, msg)
	}
}

// handleMessage answers one query message with the matching aggregation
// snapshot. Unknown types get an error message, never a dropped connection.
func (s *ReportServer) handleMessage(conn *websocket.Conn, msg Message) {
	ctx := context.Background()

	switch msg.Type {
	case "stats":
		stats, err := s.store.FetchStats(ctx, s.config.ExpectedTotal)
		s.reply(conn, "stats", stats, err)
	case "top_domains":
		top, err := s.aggregator.TopDomains(ctx, s.config.TopDomains)
		s.reply(conn, "top_domains", top, err)
	case "domain_breakdown":
		breakdown, err := s.aggregator.CompromisesByDomain(ctx, msg.Content)
		s.reply(conn, "domain_breakdown", breakdown, err)
	case "os_distribution":
		dist, err := s.aggregator.OSDistribution(ctx)
		s.reply(conn, "os_distribution", dist, err)
	case "windows_versions":
		dist, err := s.aggregator.WindowsDistribution(ctx)
		s.reply(conn, "windows_versions", dist, err)
	default:
		s.sendMessage(conn, "error", fmt.Sprintf("unknown query type: %s", msg.Type), nil)
	}
}

func (s *ReportServer) reply(conn *websocket.Conn, msgType string, data interface{}, err error) {
	if err != nil {
		s.log.Warn().Err(err).Str("type", msgType).Msg("query failed")
		s.sendMessage(conn, "error", err.Error(), nil)
		return
	}
	s.sendMessage(conn, msgType, "", data)
}

func (s *ReportServer) sendMessage(conn *websocket.Conn, msgType, content string, data interface{}) {
	if err := conn.WriteJSON(Message{Type: msgType, Content: content, Data: data}); err != nil {
		s.log.Warn().Err(err).Msg("websocket write failed")
	}
}
