// Package ws streams live import progress to connected clients.
//
// Each connection is served by its own goroutine; a batch triggered by
// START_LIST_PROCESSING runs to completion before the next inbound
// message is read, so frames for one run are strictly ordered.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mnfst/outreach/internal/importer"
	"github.com/mnfst/outreach/internal/metrics"
	"github.com/mnfst/outreach/internal/models"
	"github.com/mnfst/outreach/internal/normalize"
)

// ListStore persists the list record created for each processed batch.
type ListStore interface {
	Create(list *models.List) error
}

// Hub owns the registry of open progress connections and runs list
// imports on their behalf.
type Hub struct {
	engine   *importer.Engine
	lists    ListStore
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]*websocket.Conn
}

func NewHub(engine *importer.Engine, lists ListStore, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		engine: engine,
		lists:  lists,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[string]*websocket.Conn),
	}
}

// ConnectionCount reports the number of currently registered connections.
func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) register(conn *websocket.Conn) string {
	id := uuid.New().String()
	h.mu.Lock()
	h.conns[id] = conn
	h.mu.Unlock()
	metrics.IncWSConnections()
	return id
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
	metrics.DecWSConnections()
}

// ServeHTTP upgrades the request and serves the connection until the
// client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := h.register(conn)
	defer func() {
		h.unregister(id)
		conn.Close()
	}()

	h.logger.Info("progress channel connected", "conn_id", id)

	if err := conn.WriteJSON(connectedFrame{Type: TypeConnected, Message: "connected to import progress channel"}); err != nil {
		h.logger.Error("failed to send connected frame", "conn_id", id, "error", err)
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Error("progress channel read failed", "conn_id", id, "error", err)
			}
			return
		}

		// A message that fails to parse gets a typed error frame; the
		// connection stays open for the next one.
		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.logger.Warn("discarding malformed frame", "conn_id", id, "error", err)
			if err := conn.WriteJSON(errorFrame{Type: TypeProcessingError, Error: err.Error(), Timestamp: timestamp()}); err != nil {
				h.logger.Error("failed to send error frame", "conn_id", id, "error", err)
				return
			}
			continue
		}

		switch frame.Type {
		case TypeStartListProcessing:
			h.processList(r.Context(), conn, id, &frame)
		default:
			h.logger.Warn("ignoring unknown frame type", "conn_id", id, "type", frame.Type)
		}
	}
}

// processList runs one batch import, streaming progress back on the
// same connection. Once the sender sees a write failure no further
// frames are attempted; inserts already made are kept.
func (h *Hub) processList(ctx context.Context, conn *websocket.Conn, connID string, frame *inboundFrame) {
	sender := &frameSender{conn: conn, logger: h.logger, connID: connID}

	// The started frame goes out before the batch is validated, so every
	// run ends in exactly one terminal frame after a started frame.
	sender.send(startedFrame{Type: TypeProcessingStarted, ListName: frame.ListName, Timestamp: timestamp()})

	if frame.TenantID == "" {
		sender.send(errorFrame{Type: TypeProcessingError, ListName: frame.ListName, Error: "tenantId is required", Timestamp: timestamp()})
		return
	}
	if frame.NormalizedData == nil || frame.NormalizedData.List == nil {
		sender.send(errorFrame{Type: TypeProcessingError, ListName: frame.ListName, Error: "normalizedData.list is required", Timestamp: timestamp()})
		return
	}

	list := &models.List{
		TenantID: frame.TenantID,
		Name:     frame.ListName,
		Tags:     models.StringList(frame.ListTags),
	}
	if err := h.lists.Create(list); err != nil {
		h.logger.Error("failed to create list", "conn_id", connID, "list", frame.ListName, "error", err)
		sender.send(errorFrame{Type: TypeProcessingError, ListName: frame.ListName, Error: "failed to create list", Timestamp: timestamp()})
		return
	}

	records := make([]normalize.Record, len(frame.NormalizedData.List))
	for i, raw := range frame.NormalizedData.List {
		records[i] = normalize.Record(raw)
	}

	batch := importer.Batch{
		TenantID: frame.TenantID,
		ListID:   list.ID,
		ListName: frame.ListName,
		Defaults: normalize.Defaults{
			JobTitle: frame.DefaultJobTitle,
			Location: frame.DefaultLocation,
		},
		Records: records,
	}

	progress := func(processed, total int) {
		sender.send(progressFrame{
			Type:      TypeProcessingProgress,
			ListName:  frame.ListName,
			Processed: processed,
			Total:     total,
			Timestamp: timestamp(),
		})
	}

	result, err := h.engine.Run(ctx, batch, progress)
	if err != nil {
		h.logger.Error("list processing aborted", "conn_id", connID, "list", frame.ListName, "error", err)
		sender.send(errorFrame{Type: TypeProcessingError, ListName: frame.ListName, Error: err.Error(), Timestamp: timestamp()})
		return
	}

	h.logger.Info("list processing finished",
		"conn_id", connID,
		"list", frame.ListName,
		"added", result.Added,
		"duplicates", result.Duplicates)

	sender.send(completedFrame{
		Type:           TypeProcessingCompleted,
		ListName:       frame.ListName,
		AddedCount:     result.Added,
		DuplicateCount: result.Duplicates,
		Timestamp:      timestamp(),
	})
}

// frameSender writes outbound frames, going quiet after the first
// failed write.
type frameSender struct {
	conn   *websocket.Conn
	logger *slog.Logger
	connID string
	failed bool
}

func (s *frameSender) send(frame any) {
	if s.failed {
		return
	}
	if err := s.conn.WriteJSON(frame); err != nil {
		s.logger.Warn("dropping progress frames, client gone", "conn_id", s.connID, "error", err)
		s.failed = true
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
