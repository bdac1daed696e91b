package router

import (
	"github.com/samber/lo"

	"github.com/SergioPauloA/Volpz/internal/models"
)

// handleGetUsers answers with every account except the caller's, each
// annotated with live-online status from the connection registry.
func (r *Router) handleGetUsers(c Conn) {
	account := r.caller(c)
	if account == nil {
		return
	}

	list := lo.Map(r.identities.ListOthers(account.CPF), func(a models.Account, _ int) userSummary {
		return userSummary{
			CPF:    a.CPF,
			Name:   a.Name,
			Sector: a.Sector,
			Role:   a.Role,
			Online: r.presence.IsOnline(a.CPF),
		}
	})

	r.send(c, TypeUsersList, list)
}
