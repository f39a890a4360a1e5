// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/metanode/stake/api/events"
	"github.com/metanode/stake/api/utils"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/log"
	"github.com/metanode/stake/metrics"
)

var (
	logger                = log.WithContext("pkg", "subscriptions")
	metricActiveWebsocket = metrics.LazyLoadGauge("api_active_websocket_count")
)

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
)

// Subscriptions streams committed events over websocket.
type Subscriptions struct {
	ledger   *ledger.Ledger
	upgrader *websocket.Upgrader
	mu       sync.Mutex
	closed   bool
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(l *ledger.Ledger, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		ledger: l,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// handleSubscribeEvents streams events matching the query filter. Without a from parameter
// only events committed after the subscription are sent.
func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	logDB := s.ledger.LogDB()
	if logDB == nil {
		return utils.Forbidden(errors.New("event index disabled"))
	}
	filter, err := events.ParseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	// registered before the first read so no commit is missed
	committed := s.ledger.Committed()
	var reader *eventReader
	if filter.Range != nil {
		reader = newEventReader(logDB, filter, filter.Range.From)
	} else {
		// skip what the head block already indexed
		reader = newEventReader(logDB, filter, s.ledger.Head().Block)
		if _, err := reader.Read(req.Context()); err != nil {
			return err
		}
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return conn.Close()
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()
	metricActiveWebsocket().Add(1)
	defer metricActiveWebsocket().Add(-1)

	if err := s.pipe(req.Context(), conn, reader, committed); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	} else {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}
	return conn.Close()
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader, committed <-chan struct{}) error {
	closed := make(chan struct{})
	// the read loop handles pongs and close frames
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return err
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		found, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, ev := range found {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(ev); err != nil {
				return err
			}
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ctx.Done():
			return nil
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-committed:
			committed = s.ledger.Committed()
		}
	}
}

// Close ends all subscriptions and waits for them to return.
func (s *Subscriptions) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
