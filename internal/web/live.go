package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/erazemk/lostfound/internal/advisor"
)

const (
	liveWriteWait = 10 * time.Second
	livePongWait  = 60 * time.Second
	livePingEvery = (livePongWait * 9) / 10
	liveReadLimit = 16 << 10
)

// Frame types on the live advisor socket.
const (
	frameInput   = "input"
	framePredict = "predict"
	frameApply   = "apply"
	frameState   = "state"
	frameApplied = "applied"
	frameError   = "error"
)

type liveInbound struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ItemType    string `json:"itemType"`
}

type liveOutbound struct {
	Type string `json:"type"`
	*advisor.State
	Description string `json:"description,omitempty"`
	Message     string `json:"message,omitempty"`
}

// LiveHandler runs a description advisor for each report page over a websocket.
type LiveHandler struct {
	analyzer advisor.Analyzer
	opts     []advisor.Option
	upgrader websocket.Upgrader
}

// NewLiveHandler returns a handler whose advisors use analyzer.
func NewLiveHandler(analyzer advisor.Analyzer, opts ...advisor.Option) *LiveHandler {
	return &LiveHandler{
		analyzer: analyzer,
		opts:     opts,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
}

// ServeHTTP handles GET /report/live.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("live advisor upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(liveReadLimit)
	if err := conn.SetReadDeadline(time.Now().Add(livePongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	writeCh := make(chan liveOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(livePingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(liveWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	opts := append([]advisor.Option{advisor.OnChange(func(s advisor.State) {
		push(writeCh, liveOutbound{Type: frameState, State: &s})
	})}, h.opts...)
	adv := advisor.New(ctx, h.analyzer, opts...)

	var predictions sync.WaitGroup
	defer func() {
		cancel()
		adv.Close()
		predictions.Wait()
		<-writerDone
	}()

	initial := adv.Snapshot()
	push(writeCh, liveOutbound{Type: frameState, State: &initial})

	for {
		var in liveInbound
		if err := conn.ReadJSON(&in); err != nil {
			return
		}

		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case frameInput:
			adv.Update(advisor.Input{
				Title:       in.Title,
				Description: in.Description,
				ItemType:    in.ItemType,
			})
		case framePredict:
			predictions.Add(1)
			go func() {
				defer predictions.Done()
				p, err := adv.Predict(ctx)
				switch {
				case errors.Is(err, advisor.ErrTitleRequired), errors.Is(err, advisor.ErrPredictionPending):
					push(writeCh, liveOutbound{Type: frameError, Message: err.Error()})
				case err != nil:
					slog.Warn("description prediction failed", "error", err)
					push(writeCh, liveOutbound{Type: frameError, Message: "Failed to generate a description. Please try again."})
				case !p.OK():
					push(writeCh, liveOutbound{Type: frameError, Message: "No description could be suggested."})
				}
			}()
		case frameApply:
			if desc, ok := adv.Apply(); ok {
				push(writeCh, liveOutbound{Type: frameApplied, Description: desc})
			}
		default:
			push(writeCh, liveOutbound{Type: frameError, Message: "unknown frame type"})
		}
	}
}

// push queues out without blocking, dropping the oldest queued frame if full.
func push(ch chan liveOutbound, out liveOutbound) {
	select {
	case ch <- out:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- out:
	default:
	}
}
