package server

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kavirubc/gh-scout/internal/github"
	"github.com/Kavirubc/gh-scout/internal/logger"
)

const signaturePrefix = "sha256="

// Response statuses
const (
	StatusProcessed      = github.IgnoredEvent
	StatusAccepted       = "Webhook accepted"
	StatusIncomplete     = "Incomplete data"
	StatusBadSignature   = "Request signatures didn't match"
	StatusNoSignature    = "X-Hub-Signature-256 header is missing"
	StatusNoSecret       = "Webhook secret not configured"
	StatusNoEvent        = "X-GitHub-Event header is missing"
	StatusInvalidPayload = "Invalid payload"
)

// WebhookHandler verifies and dispatches GitHub deliveries
type WebhookHandler struct {
	secret string
	proc   Processor
	async  bool
	logger *zap.Logger

	inflight sync.WaitGroup
}

// NewWebhookHandler creates a handler. With async set, deliveries are
// acknowledged before processing.
func NewWebhookHandler(secret string, proc Processor, async bool, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret: secret,
		proc:   proc,
		async:  async,
		logger: logger.OrNop(log),
	}
}

// HandleEvent is the gin handler for POST deliveries
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	signature := c.GetHeader(github.HeaderSignature)
	if signature == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": StatusNoSignature})
		return
	}

	if h.secret == "" {
		h.logger.Error("webhook secret not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": StatusNoSecret})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": StatusInvalidPayload})
		return
	}

	if !VerifySignature(h.secret, body, signature) {
		h.logger.Warn("webhook signature mismatch")
		c.JSON(http.StatusForbidden, gin.H{"error": StatusBadSignature})
		return
	}

	eventType := c.GetHeader(github.HeaderEvent)
	if eventType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": StatusNoEvent})
		return
	}

	deliveryID := c.GetHeader(github.HeaderDelivery)
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}
	log := h.logger.With(
		zap.String(logger.FieldDelivery, deliveryID),
		zap.String("event", eventType),
	)

	event, err := github.ParseEvent(eventType, body)
	if err != nil {
		log.Warn("failed to parse webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": StatusInvalidPayload})
		return
	}

	if reason := event.IgnoreReason(); reason != "" {
		log.Debug("delivery ignored", zap.String("reason", reason))
		c.JSON(http.StatusOK, gin.H{"status": reason})
		return
	}

	if err := event.Validate(); err != nil {
		log.Warn("incomplete webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": StatusIncomplete})
		return
	}

	// A started delivery runs to completion even if the sender disconnects.
	ctx := context.WithoutCancel(c.Request.Context())

	if h.async {
		h.inflight.Add(1)
		go func() {
			defer h.inflight.Done()
			h.process(ctx, log, event, deliveryID)
		}()
		c.JSON(http.StatusOK, gin.H{"status": StatusAccepted})
		return
	}

	h.process(ctx, log, event, deliveryID)
	c.JSON(http.StatusOK, gin.H{"status": StatusProcessed})
}

// Wait blocks until background deliveries complete
func (h *WebhookHandler) Wait() {
	h.inflight.Wait()
}

// process runs the delivery. Failures were already reported on the issue by
// the processor, so they only reach the log here.
func (h *WebhookHandler) process(ctx context.Context, log *zap.Logger, event *github.Event, deliveryID string) {
	result, err := h.proc.Process(ctx, event, deliveryID)
	if err != nil {
		log.Error("delivery failed", zap.Error(err))
		return
	}
	if result == nil {
		return
	}
	if result.Skipped {
		log.Info("delivery skipped", zap.String("reason", result.SkipReason))
		return
	}
	if result.Report != nil {
		log.Info("delivery processed",
			zap.Float64("score", result.Report.Total),
			zap.String("tier", string(result.Report.Tier)),
			zap.Bool("cache_hit", result.CacheHit),
			zap.Bool("comment_posted", result.CommentPosted),
		)
	}
}

// VerifySignature checks an X-Hub-Signature-256 value against body
func VerifySignature(secret string, body []byte, signature string) bool {
	if !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(signature, signaturePrefix))
	if err != nil {
		return false
	}
	return hmac.Equal(got, Sign(secret, body))
}

// Sign computes the raw HMAC-SHA256 digest of body
func Sign(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
