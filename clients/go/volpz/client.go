// Package volpz provides a websocket client for the Volpz chat protocol,
// used by bots and by the server's own tests.
package volpz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultReadTimeout bounds how long Expect waits for a matching event.
const DefaultReadTimeout = 5 * time.Second

// ErrTimeout is returned when no matching event arrives in time.
var ErrTimeout = errors.New("timed out waiting for event")

// Frame is the wire envelope shared by requests and events.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// User mirrors the account projection carried by loginSuccess and usersList.
type User struct {
	CPF    string `json:"cpf"`
	Name   string `json:"nome"`
	Sector string `json:"setor"`
	Role   string `json:"cargo"`
	Online bool   `json:"online"`
}

// Client is a Volpz chat client over one websocket connection.
type Client struct {
	conn *websocket.Conn

	// ReadTimeout applies to each Read/Expect call.
	ReadTimeout time.Duration
}

// Dial connects to a Volpz server. url must be the websocket endpoint, e.g.
// "ws://chat.internal:8080/ws".
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return &Client{conn: conn, ReadTimeout: DefaultReadTimeout}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}

// Send writes one typed frame.
func (c *Client) Send(frameType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.conn.WriteJSON(Frame{Type: frameType, Data: payload})
}

// Read returns the next event frame.
func (c *Client) Read() (*Frame, error) {
	timeout := c.ReadTimeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}

	var frame Frame
	if err := c.conn.ReadJSON(&frame); err != nil {
		return nil, err
	}
	return &frame, nil
}

// Expect reads events until one of the wanted types arrives, discarding
// everything else. It fails with ErrTimeout when the deadline passes first.
func (c *Client) Expect(types ...string) (*Frame, error) {
	deadline := time.Now().Add(c.ReadTimeout)
	for time.Now().Before(deadline) {
		frame, err := c.Read()
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				return nil, ErrTimeout
			}
			return nil, err
		}
		for _, t := range types {
			if frame.Type == t {
				return frame, nil
			}
		}
	}
	return nil, ErrTimeout
}

// Login authenticates the connection and returns the account summary.
func (c *Client) Login(cpf, password string) (*User, error) {
	err := c.Send("login", map[string]string{"cpf": cpf, "senha": password})
	if err != nil {
		return nil, err
	}

	frame, err := c.Expect("loginSuccess", "loginError")
	if err != nil {
		return nil, err
	}
	if frame.Type == "loginError" {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(frame.Data, &e)
		return nil, fmt.Errorf("login rejected: %s", e.Message)
	}

	var success struct {
		User User `json:"user"`
	}
	if err := json.Unmarshal(frame.Data, &success); err != nil {
		return nil, err
	}
	return &success.User, nil
}

// Register creates a new account; the logged-in caller must belong to the
// privileged sector.
func (c *Client) Register(cpf, password, name, sector, role string) error {
	err := c.Send("register", map[string]string{
		"cpf":   cpf,
		"senha": password,
		"nome":  name,
		"setor": sector,
		"cargo": role,
	})
	if err != nil {
		return err
	}

	frame, err := c.Expect("registerSuccess", "registerError")
	if err != nil {
		return err
	}
	if frame.Type == "registerError" {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(frame.Data, &e)
		return fmt.Errorf("registration rejected: %s", e.Message)
	}
	return nil
}

// GetUsers fetches every other account with its online flag.
func (c *Client) GetUsers() ([]User, error) {
	if err := c.Send("getUsers", struct{}{}); err != nil {
		return nil, err
	}

	frame, err := c.Expect("usersList")
	if err != nil {
		return nil, err
	}

	var users []User
	if err := json.Unmarshal(frame.Data, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// StartConversation opens (or resumes) the direct conversation with
// targetCPF and returns its id.
func (c *Client) StartConversation(targetCPF string) (string, error) {
	err := c.Send("startConversation", map[string]string{"targetCpf": targetCPF})
	if err != nil {
		return "", err
	}

	frame, err := c.Expect("conversationStarted")
	if err != nil {
		return "", err
	}

	var started struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.Unmarshal(frame.Data, &started); err != nil {
		return "", err
	}
	return started.ConversationID, nil
}

// SendMessage posts content into a conversation or group. Delivery is
// fire-and-forget; the echo arrives as a newMessage event.
func (c *Client) SendMessage(conversationID, content string, isGroup bool) error {
	return c.Send("sendMessage", map[string]any{
		"conversationId": conversationID,
		"content":        content,
		"isGroup":        isGroup,
	})
}

// CreateGroup creates a group with the given members and returns its id from
// the groupCreated event.
func (c *Client) CreateGroup(name string, participants []string) (string, error) {
	err := c.Send("createGroup", map[string]any{
		"groupName":    name,
		"participants": participants,
	})
	if err != nil {
		return "", err
	}

	frame, err := c.Expect("groupCreated")
	if err != nil {
		return "", err
	}

	var created struct {
		Group struct {
			ID string `json:"id"`
		} `json:"group"`
	}
	if err := json.Unmarshal(frame.Data, &created); err != nil {
		return "", err
	}
	return created.Group.ID, nil
}

// JoinGroup fetches a snapshot of an existing group. It does not change the
// group's membership.
func (c *Client) JoinGroup(groupID string) (*Frame, error) {
	if err := c.Send("joinGroup", map[string]string{"groupId": groupID}); err != nil {
		return nil, err
	}
	return c.Expect("groupJoined")
}
