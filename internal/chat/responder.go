// Package chat provides canned replies for common support questions so the
// central only handles messages that actually need a human.
package chat

import (
	"strings"
	"time"
)

// AutoResponse matches a message against known question patterns and returns
// a canned reply, or "" when a human must answer.
func AutoResponse(message string) string {
	msg := strings.ToLower(message)

	switch {
	case strings.Contains(msg, "status") || strings.Contains(msg, "onde está"):
		return "Seu pedido está em andamento. Acompanhe em tempo real pelo painel."
	case strings.Contains(msg, "cancelar"):
		return "Para cancelar, entre em contato com a central. Pedidos já aceitos podem ter taxa de cancelamento."
	case strings.Contains(msg, "preço") || strings.Contains(msg, "valor"):
		return "O valor é calculado automaticamente baseado na distância e horário. Consulte a taxa no pedido."
	case strings.Contains(msg, "urgente"):
		return "Pedidos urgentes têm prioridade. A taxa pode ser ajustada conforme disponibilidade."
	}
	return ""
}

// Responder is the cache-fronted entry point used by the chat endpoint.
type Responder struct {
	cache *Cache
}

func NewResponder(ttl time.Duration) *Responder {
	return &Responder{cache: NewCache(ttl)}
}

// Reply returns an automatic reply for the message, consulting the cache
// first. ok is false when no pattern matches.
func (r *Responder) Reply(message, category string) (string, bool) {
	if v, ok := r.cache.Get(message, category); ok {
		return v, true
	}
	reply := AutoResponse(message)
	if reply == "" {
		return "", false
	}
	r.cache.Set(message, category, reply)
	return reply, true
}
