package router

import (
	"encoding/json"
	"errors"

	"github.com/SergioPauloA/Volpz/internal/metrics"
	"github.com/SergioPauloA/Volpz/internal/models"
	"github.com/SergioPauloA/Volpz/internal/store"
)

// handleLogin validates credentials and binds the channel to the account.
// Success and failure are both answered to the caller only.
func (r *Router) handleLogin(c Conn, data json.RawMessage) {
	var req loginRequest
	if err := json.Unmarshal(data, &req); err != nil {
		r.malformed(TypeLogin, err)
		return
	}

	account, err := r.identities.VerifyCredentials(req.CPF, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		r.send(c, TypeLoginError, noticeEvent{Message: msgInvalidCredentials})
		return
	}

	r.presence.Bind(account.CPF, c)
	c.SetIdentity(account.CPF)

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	r.log.Info().Str("cpf", account.CPF).Str("name", account.Name).Msg("login")

	r.send(c, TypeLoginSuccess, loginSuccessEvent{User: userInfo{
		CPF:    account.CPF,
		Name:   account.Name,
		Sector: account.Sector,
		Role:   account.Role,
	}})
}

// handleRegister inserts a new account on behalf of the caller. Unlike the
// other protected requests, a failed authorization here does answer with an
// error event.
func (r *Router) handleRegister(c Conn, data json.RawMessage) {
	var req registerRequest
	if err := json.Unmarshal(data, &req); err != nil {
		r.malformed(TypeRegister, err)
		return
	}

	account := models.Account{
		CPF:      req.CPF,
		Password: req.Password,
		Name:     req.Name,
		Sector:   req.Sector,
		Role:     req.Role,
	}

	created, err := r.identities.Register(account, c.Identity())
	switch {
	case errors.Is(err, store.ErrPermissionDenied):
		r.send(c, TypeRegisterError, noticeEvent{Message: msgPermissionDenied})
		return
	case errors.Is(err, store.ErrDuplicateIdentity):
		r.send(c, TypeRegisterError, noticeEvent{Message: msgDuplicateIdentity})
		return
	case err != nil:
		r.log.Error().Err(err).Msg("registration failed")
		return
	}

	metrics.AccountsRegistered.Inc()
	r.log.Info().Str("cpf", created.CPF).Str("name", created.Name).Msg("account registered")

	r.send(c, TypeRegisterSuccess, noticeEvent{Message: msgRegisterSuccess})
}
