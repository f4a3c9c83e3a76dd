package lnm

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/drakos74/free-fall/internal/metrics"
	"github.com/drakos74/free-fall/internal/model"
	cointime "github.com/drakos74/free-fall/internal/time"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	priceChannel = "futures:btc_usd:last-price"
	pingInterval = 5 * time.Second
)

type subscribeRequest struct {
	JSONRPC string   `json:"jsonrpc"`
	Method  string   `json:"method"`
	Params  []string `json:"params"`
	ID      string   `json:"id"`
}

type socketMessage struct {
	Params struct {
		Data json.RawMessage `json:"data"`
	} `json:"params"`
}

// SocketSource streams the last price over the public websocket.
// A dropped connection surfaces as a closed tick channel, the caller
// decides whether to resubscribe.
type SocketSource struct {
	coin   model.Coin
	wsURL  string
	method string
	dialer *websocket.Dialer
}

// NewSocketSource creates a tick source for the given websocket endpoint.
func NewSocketSource(coin model.Coin, wsURL, method string) *SocketSource {
	return &SocketSource{
		coin:   coin,
		wsURL:  wsURL,
		method: method,
		dialer: websocket.DefaultDialer,
	}
}

// Ticks connects, subscribes to the last-price channel and returns the
// tick stream. The stream closes when the stop channel closes or the
// connection drops.
func (s *SocketSource) Ticks(stop <-chan struct{}) (model.TickSource, error) {
	conn, _, err := s.dialer.Dial(s.wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", s.wsURL, err)
	}

	request := subscribeRequest{
		JSONRPC: "2.0",
		Method:  s.method,
		Params:  []string{priceChannel},
		ID:      uuid.New().String(),
	}
	if err := conn.WriteJSON(request); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("could not subscribe to %s: %w", priceChannel, err)
	}
	log.Info().Str("coin", string(s.coin)).Str("channel", priceChannel).Msg("subscribed to price feed")

	out := make(model.TickSource)
	received := make(chan struct{}, 1)

	// single writer for pings and the close frame, the read loop never writes.
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		idle := false
		for {
			select {
			case <-stop:
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				_ = conn.Close()
				return
			case <-received:
				idle = false
			case <-ticker.C:
				if idle {
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						log.Warn().Err(err).Str("coin", string(s.coin)).Msg("price feed ping failed")
						_ = conn.Close()
						return
					}
				}
				idle = true
			}
		}
	}()

	go func() {
		defer close(out)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				select {
				case <-stop:
					log.Info().Str("coin", string(s.coin)).Msg("price feed stopped")
				default:
					log.Warn().Err(err).Str("coin", string(s.coin)).Msg("price feed interrupted")
				}
				return
			}

			select {
			case received <- struct{}{}:
			default:
			}

			var message socketMessage
			if err := json.Unmarshal(raw, &message); err != nil || len(message.Params.Data) == 0 {
				continue
			}
			var data tickData
			if err := json.Unmarshal(message.Params.Data, &data); err != nil {
				log.Warn().Err(err).Str("coin", string(s.coin)).Msg("could not parse tick")
				continue
			}

			tick := &model.Tick{
				Price:     data.LastPrice,
				Direction: data.LastTickDirection,
				Time:      cointime.FromMilli(data.Time),
			}
			select {
			case out <- tick:
				metrics.Observer.IncrementTicks(string(s.coin), Name)
			case <-stop:
				return
			}
		}
	}()

	return out, nil
}
