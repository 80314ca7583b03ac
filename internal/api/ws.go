package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/aezell/crev/internal/model"
	"github.com/aezell/crev/internal/request"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool; the server binds to loopback by default
	},
}

// WebSocket message types from client.
const (
	wsMsgUpload  = "upload"
	wsMsgAnalyze = "analyze"
	wsMsgReset   = "reset"
	wsMsgHistory = "history"
	wsMsgSelect  = "select"
)

// WebSocket message types to client.
const (
	wsMsgRequest = "request"
	wsMsgStatus  = "status"
	wsMsgReport  = "report"
	wsMsgError   = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsSelectMsg is the payload for "select" messages.
type wsSelectMsg struct {
	ID string `json:"id"`
}

// wsStatusResponse reports a request's lifecycle change.
type wsStatusResponse struct {
	ID     string       `json:"id"`
	Status model.Status `json:"status"`
}

// wsErrorResponse carries a failure; RequestID is set when an analysis failed.
type wsErrorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// wsClient is the per-connection view of the session: the uploaded request
// awaiting analysis. History is shared with the REST API.
type wsClient struct {
	srv     *Server
	conn    *websocket.Conn
	current *model.ReviewRequest
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	c := &wsClient{srv: s, conn: conn}
	ctx := r.Context()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Printf("websocket read: %v", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid message format", "")
			continue
		}

		switch msg.Type {
		case wsMsgUpload:
			c.upload(msg.Data)
		case wsMsgAnalyze:
			c.analyze(ctx)
		case wsMsgReset:
			c.current = nil
			c.send(wsMsgStatus, map[string]string{"status": "reset"})
		case wsMsgHistory:
			c.history()
		case wsMsgSelect:
			c.selectReview(msg.Data)
		default:
			c.sendError("unknown message type: "+msg.Type, "")
		}
	}
}

func (c *wsClient) upload(data json.RawMessage) {
	var u uploadJSON
	if err := json.Unmarshal(data, &u); err != nil {
		c.sendError("invalid upload data", "")
		return
	}
	f, err := c.srv.ingest(u)
	if err != nil {
		c.sendError(err.Error(), "")
		return
	}
	req := request.New(f)
	c.current = &req
	c.send(wsMsgRequest, req)
}

func (c *wsClient) analyze(ctx context.Context) {
	if c.current == nil {
		c.sendError("no file uploaded", "")
		return
	}
	req := *c.current
	c.current = nil

	c.send(wsMsgStatus, wsStatusResponse{ID: req.ID, Status: model.StatusAnalyzing})

	rev, err := c.srv.sess.Run(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.sendError(err.Error(), req.ID)
		c.send(wsMsgStatus, wsStatusResponse{ID: req.ID, Status: model.StatusFailed})
		return
	}
	c.send(wsMsgReport, toReviewJSON(rev))
}

func (c *wsClient) history() {
	history := c.srv.sess.History()
	out := make([]reviewSummaryJSON, 0, len(history))
	for _, rev := range history {
		out = append(out, toSummaryJSON(rev))
	}
	c.send(wsMsgHistory, out)
}

func (c *wsClient) selectReview(data json.RawMessage) {
	var sel wsSelectMsg
	if err := json.Unmarshal(data, &sel); err != nil || sel.ID == "" {
		c.sendError("invalid select data", "")
		return
	}
	rev, ok := c.srv.sess.Get(sel.ID)
	if !ok {
		c.sendError("review not found: "+sel.ID, "")
		return
	}
	c.send(wsMsgReport, toReviewJSON(rev))
}

func (c *wsClient) send(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.srv.log.Printf("ws marshal: %v", err)
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := c.conn.WriteJSON(msg); err != nil {
		c.srv.log.Printf("ws write: %v", err)
	}
}

func (c *wsClient) sendError(errMsg, requestID string) {
	c.send(wsMsgError, wsErrorResponse{Message: errMsg, RequestID: requestID})
}
