package router

import (
	"encoding/json"

	"github.com/SergioPauloA/Volpz/internal/models"
)

// Frame is the wire envelope for every request and event: a UTF-8 JSON text
// frame of shape {"type": string, "data": object}.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Request frame types accepted from clients.
const (
	TypeLogin             = "login"
	TypeRegister          = "register"
	TypeGetUsers          = "getUsers"
	TypeStartConversation = "startConversation"
	TypeSendMessage       = "sendMessage"
	TypeCreateGroup       = "createGroup"
	TypeJoinGroup         = "joinGroup"
)

// Event frame types sent to clients.
const (
	TypeLoginSuccess        = "loginSuccess"
	TypeLoginError          = "loginError"
	TypeRegisterSuccess     = "registerSuccess"
	TypeRegisterError       = "registerError"
	TypeUsersList           = "usersList"
	TypeConversationStarted = "conversationStarted"
	TypeNewMessage          = "newMessage"
	TypeGroupCreated        = "groupCreated"
	TypeGroupJoined         = "groupJoined"
)

// User-facing message texts. The frontend renders these verbatim, so they
// stay in the product language.
const (
	msgInvalidCredentials = "CPF ou senha incorretos"
	msgPermissionDenied   = "Acesso negado. Apenas usuários do setor T.I podem cadastrar novos usuários."
	msgDuplicateIdentity  = "CPF já cadastrado"
	msgRegisterSuccess    = "Usuário cadastrado com sucesso"
)

type loginRequest struct {
	CPF      string `json:"cpf"`
	Password string `json:"senha"`
}

type registerRequest struct {
	CPF      string `json:"cpf"`
	Password string `json:"senha"`
	Name     string `json:"nome"`
	Sector   string `json:"setor"`
	Role     string `json:"cargo"`
}

type startConversationRequest struct {
	TargetCPF string `json:"targetCpf"`
}

type sendMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	IsGroup        bool   `json:"isGroup"`
}

type createGroupRequest struct {
	GroupName    string   `json:"groupName"`
	Participants []string `json:"participants"`
}

type joinGroupRequest struct {
	GroupID string `json:"groupId"`
}

// userInfo is the full public projection of an account (login event).
type userInfo struct {
	CPF    string `json:"cpf"`
	Name   string `json:"nome"`
	Sector string `json:"setor"`
	Role   string `json:"cargo"`
}

// userSummary extends userInfo with live-online status (usersList event).
type userSummary struct {
	CPF    string `json:"cpf"`
	Name   string `json:"nome"`
	Sector string `json:"setor"`
	Role   string `json:"cargo"`
	Online bool   `json:"online"`
}

// targetUser is the projection used by conversationStarted; it carries the
// sector but not the role.
type targetUser struct {
	CPF    string `json:"cpf"`
	Name   string `json:"nome"`
	Sector string `json:"setor"`
}

// participantInfo identifies a group member.
type participantInfo struct {
	CPF  string `json:"cpf"`
	Name string `json:"nome"`
}

type loginSuccessEvent struct {
	User userInfo `json:"user"`
}

type noticeEvent struct {
	Message string `json:"message"`
}

type conversationStartedEvent struct {
	ConversationID string           `json:"conversationId"`
	TargetUser     targetUser       `json:"targetUser"`
	Messages       []models.Message `json:"messages"`
}

type newMessageEvent struct {
	ConversationID string         `json:"conversationId"`
	Message        models.Message `json:"message"`
	IsGroup        bool           `json:"isGroup"`
}

type groupInfo struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Participants []participantInfo `json:"participants"`
}

type groupCreatedEvent struct {
	Group groupInfo `json:"group"`
}

type groupJoinedEvent struct {
	GroupID      string            `json:"groupId"`
	GroupName    string            `json:"groupName"`
	Messages     []models.Message  `json:"messages"`
	Participants []participantInfo `json:"participants"`
}

// marshalEvent wraps an event payload in the wire envelope.
func marshalEvent(eventType string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Type: eventType, Data: payload})
}
