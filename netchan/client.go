package netchan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/milk9111/raidsim/geom"
	"go.uber.org/zap"
)

var (
	ErrClosed            = errors.New("netchan: closed")
	ErrMissingPayload    = errors.New("netchan: missing payload")
	ErrInvalidVfxPath    = errors.New("netchan: invalid vfx path")
	ErrUnsupportedAction = errors.New("netchan: unsupported action")
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
	queueSize      = 64
)

// Client is one connection to the relay. Received messages arrive on
// Messages; the simulation drains them between frames.
type Client struct {
	conn *websocket.Conn
	log  *zap.Logger

	send chan Message
	recv chan Message
	done chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Dial connects to the relay at url.
func Dial(ctx context.Context, url string, log *zap.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("netchan: dial %s: %w", url, err)
	}
	return NewClient(conn, log), nil
}

// NewClient takes over conn and starts its pumps.
func NewClient(conn *websocket.Conn, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		conn: conn,
		log:  log,
		send: make(chan Message, queueSize),
		recv: make(chan Message, queueSize),
		done: make(chan struct{}),
	}
	c.wg.Add(2)
	go c.readPump()
	go c.writePump()
	return c
}

// Messages yields every valid message received. It is closed when the
// connection ends.
func (c *Client) Messages() <-chan Message { return c.recv }

// Done is closed once the client shuts down.
func (c *Client) Done() <-chan struct{} { return c.done }

// Send queues m for the relay.
func (c *Client) Send(m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.send <- m:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// StartMechanic asks every viewer to start mechanic id at pos facing
// rotation, and returns the request id. A nil pos lets each viewer use its
// own player's position.
func (c *Client) StartMechanic(id uint32, pos *geom.Vec3, rotation *float64) (string, error) {
	p := &StartMechanicPayload{RequestID: uuid.NewString(), MechanicID: id, Rotation: rotation}
	if pos != nil {
		x, y, z := pos.X, pos.Y, pos.Z
		p.X, p.Y, p.Z = &x, &y, &z
	}
	if err := c.Send(Message{Action: ActionStartMechanic, StartMechanic: p}); err != nil {
		return "", err
	}
	return p.RequestID, nil
}

func (c *Client) ClearMechanics() error {
	return c.Send(Message{Action: ActionClearMechanics})
}

// ShareSeed hands seed to every viewer so they roll the same mechanics.
func (c *Client) ShareSeed(seed string) error {
	return c.Send(Message{Action: ActionSeed, Seed: &SeedPayload{Value: seed}})
}

// Close ends the connection and waits for both pumps.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		err = c.conn.Close()
	})
	c.wg.Wait()
	return err
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) readPump() {
	defer c.wg.Done()
	defer close(c.recv)
	defer c.shutdown()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var m Message
		if err := c.conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("relay connection lost", zap.Error(err))
			}
			return
		}
		if err := m.Validate(); err != nil {
			c.log.Error("dropping relay message", zap.Error(err))
			continue
		}
		select {
		case c.recv <- m:
		case <-c.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case m := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(m); err != nil {
				c.log.Warn("relay write failed", zap.Stringer("action", m.Action), zap.Error(err))
				c.shutdown()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown()
				return
			}
		case <-c.done:
			return
		}
	}
}
