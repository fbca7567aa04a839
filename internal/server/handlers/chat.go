// Package handlers contains the gin handlers of the policy gateway.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/correia-crespo/triagem/internal/models"
	"github.com/correia-crespo/triagem/internal/policy"
	"github.com/correia-crespo/triagem/internal/server/llm"
)

// Fixed user-safe error messages. Raw upstream error text never reaches the
// client.
const (
	errUnconfigured = "Assistente indisponível. OPENAI_API_KEY não está configurada no servidor."
	errMissing      = "Mensagens em falta."
	errInvalid      = "Mensagens inválidas."
	errPII          = "Remova dados pessoais identificativos (nome, morada, NIF, email, telefone) e reformule de forma geral."
	errEmptyReply   = "Resposta vazia da IA."
	errQuota        = "Serviço temporariamente indisponível por limite de utilização. Por favor, marque consulta para análise do caso concreto."
	errUpstream     = "Serviço temporariamente indisponível. Tente novamente."
)

type chatRequest struct {
	Messages []models.Message `json:"messages"`
}

// HandleChat is the only path with authority to call the completion API. It
// never trusts client-declared state: the message list is re-validated, the
// PII scan re-runs server-side, and the system instruction is attached here.
func HandleChat(completer llm.Completer, detector policy.Detector, upstreamTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Missing upstream credentials: answer before reading anything.
		if completer == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errUnconfigured})
			return
		}

		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Error("failed to parse chat request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalid})
			return
		}

		cleaned, verdict := policy.Evaluate(req.Messages, detector)
		switch verdict {
		case policy.RejectedEmpty:
			c.JSON(http.StatusBadRequest, gin.H{"error": errMissing})
			return
		case policy.RejectedMalformed:
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalid})
			return
		case policy.RejectedPII:
			// Rejected before any external call; no tokens spent.
			slog.Warn("blocked chat request containing PII")
			c.JSON(http.StatusBadRequest, gin.H{"error": errPII})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamTimeout)
		defer cancel()

		reply, err := completer.Complete(ctx, cleaned)
		if err != nil {
			slog.Error("completion failed", "error", err)
			if errors.Is(err, llm.ErrQuotaExceeded) {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": errQuota})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": errUpstream})
			return
		}
		if reply == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": errEmptyReply})
			return
		}

		c.JSON(http.StatusOK, gin.H{"reply": policy.PostProcess(reply)})
	}
}
