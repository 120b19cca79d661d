package server_test

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Kavirubc/gh-scout/internal/config"
	"github.com/Kavirubc/gh-scout/internal/github"
	"github.com/Kavirubc/gh-scout/internal/pipeline/core"
	"github.com/Kavirubc/gh-scout/internal/server"
)

const secret = "It's a Secret to Everybody"

type fakeProcessor struct {
	mu         sync.Mutex
	events     []*github.Event
	deliveries []string
	err        error
}

func (f *fakeProcessor) Process(ctx context.Context, event *github.Event, deliveryID string) (*core.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	f.deliveries = append(f.deliveries, deliveryID)
	if f.err != nil {
		return nil, f.err
	}
	return &core.Result{DeliveryID: deliveryID, CommentPosted: true}, nil
}

func (f *fakeProcessor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func commentPayload(action, userType string) []byte {
	body := map[string]interface{}{
		"action": action,
		"comment": map[string]interface{}{
			"id":   1,
			"body": "I can take this one, I'll add a retry around the upload.",
			"user": map[string]interface{}{"login": "alice", "type": userType},
		},
		"issue":        map[string]interface{}{"number": 42, "title": "Upload fails"},
		"repository":   map[string]interface{}{"full_name": "octo/hello", "name": "hello", "owner": map[string]interface{}{"login": "octo"}},
		"installation": map[string]interface{}{"id": 7},
	}
	payload, _ := json.Marshal(body)
	return payload
}

func sign(payload []byte) string {
	return "sha256=" + hex.EncodeToString(server.Sign(secret, payload))
}

func decode(w *httptest.ResponseRecorder) map[string]string {
	var out map[string]string
	Expect(json.Unmarshal(w.Body.Bytes(), &out)).To(Succeed())
	return out
}

var _ = Describe("WebhookHandler", func() {
	var (
		router *gin.Engine
		proc   *fakeProcessor
		cfg    config.ServerConfig
		srv    *server.Server
	)

	newRequest := func(payload []byte, event, signature string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		if event != "" {
			req.Header.Set(github.HeaderEvent, event)
		}
		if signature != "" {
			req.Header.Set(github.HeaderSignature, signature)
		}
		return req
	}

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		proc = &fakeProcessor{}
		cfg = config.ServerConfig{WebhookPath: "/webhook", WebhookSecret: secret}
	})

	JustBeforeEach(func() {
		srv = server.New(cfg, proc, nil)
		router = srv.Router()
	})

	It("processes a signed issue comment", func() {
		payload := commentPayload("created", "User")
		req := newRequest(payload, github.EventIssueComment, sign(payload))
		req.Header.Set(github.HeaderDelivery, "abc-123")

		w := serve(req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["status"]).To(Equal(server.StatusProcessed))
		Expect(proc.calls()).To(Equal(1))
		Expect(proc.deliveries[0]).To(Equal("abc-123"))
		Expect(proc.events[0].Commenter()).To(Equal("alice"))
		Expect(proc.events[0].IssueNumber()).To(Equal(42))
	})

	It("generates a delivery id when the header is absent", func() {
		payload := commentPayload("created", "User")

		w := serve(newRequest(payload, github.EventIssueComment, sign(payload)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(proc.deliveries).To(HaveLen(1))
		Expect(proc.deliveries[0]).NotTo(BeEmpty())
	})

	It("answers 200 even when processing fails", func() {
		proc.err = errors.New("step fetch_profile failed: boom")
		payload := commentPayload("created", "User")

		w := serve(newRequest(payload, github.EventIssueComment, sign(payload)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["status"]).To(Equal(server.StatusProcessed))
	})

	It("rejects a missing signature", func() {
		payload := commentPayload("created", "User")

		w := serve(newRequest(payload, github.EventIssueComment, ""))

		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(proc.calls()).To(BeZero())
	})

	It("rejects a mismatched signature", func() {
		payload := commentPayload("created", "User")
		tampered := append([]byte(nil), payload...)
		tampered[len(tampered)-2] = ' '

		w := serve(newRequest(tampered, github.EventIssueComment, sign(payload)))

		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(decode(w)["error"]).To(Equal(server.StatusBadSignature))
		Expect(proc.calls()).To(BeZero())
	})

	It("rejects a signature without the sha256 prefix", func() {
		payload := commentPayload("created", "User")
		raw := hex.EncodeToString(server.Sign(secret, payload))

		w := serve(newRequest(payload, github.EventIssueComment, raw))

		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("rejects a missing event header", func() {
		payload := commentPayload("created", "User")

		w := serve(newRequest(payload, "", sign(payload)))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(proc.calls()).To(BeZero())
	})

	It("rejects a malformed payload", func() {
		payload := []byte("{not json")

		w := serve(newRequest(payload, github.EventIssueComment, sign(payload)))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("ignores other event types", func() {
		payload := []byte(`{"action":"opened"}`)

		w := serve(newRequest(payload, "issues", sign(payload)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["status"]).To(Equal(github.IgnoredEvent))
		Expect(proc.calls()).To(BeZero())
	})

	It("ignores edited comments", func() {
		payload := commentPayload("edited", "User")

		w := serve(newRequest(payload, github.EventIssueComment, sign(payload)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(proc.calls()).To(BeZero())
	})

	It("ignores bot comments", func() {
		payload := commentPayload("created", "Bot")

		w := serve(newRequest(payload, github.EventIssueComment, sign(payload)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["status"]).To(Equal(github.IgnoredBot))
		Expect(proc.calls()).To(BeZero())
	})

	It("rejects a comment event missing the installation", func() {
		payload := []byte(`{"action":"created","comment":{"body":"hi","user":{"login":"alice","type":"User"}},` +
			`"issue":{"number":3},"repository":{"full_name":"octo/hello"}}`)

		w := serve(newRequest(payload, github.EventIssueComment, sign(payload)))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(w)["error"]).To(Equal(server.StatusIncomplete))
		Expect(proc.calls()).To(BeZero())
	})

	It("serves the health check", func() {
		w := serve(httptest.NewRequest(http.MethodGet, "/health", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["status"]).To(Equal("ok"))
	})

	Context("without a configured secret", func() {
		BeforeEach(func() {
			cfg.WebhookSecret = ""
		})

		It("answers 500", func() {
			payload := commentPayload("created", "User")

			w := serve(newRequest(payload, github.EventIssueComment, sign(payload)))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(proc.calls()).To(BeZero())
		})
	})

	Context("in async mode", func() {
		BeforeEach(func() {
			cfg.Async = true
		})

		It("acknowledges and processes in the background", func() {
			payload := commentPayload("created", "User")

			w := serve(newRequest(payload, github.EventIssueComment, sign(payload)))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["status"]).To(Equal(server.StatusAccepted))
			srv.Wait()
			Expect(proc.calls()).To(Equal(1))
		})
	})

	Context("with a custom webhook path", func() {
		BeforeEach(func() {
			cfg.WebhookPath = "/github/events"
		})

		It("routes deliveries to it", func() {
			payload := commentPayload("created", "User")
			req := httptest.NewRequest(http.MethodPost, "/github/events", bytes.NewBuffer(payload))
			req.Header.Set(github.HeaderEvent, github.EventIssueComment)
			req.Header.Set(github.HeaderSignature, sign(payload))

			w := serve(req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(proc.calls()).To(Equal(1))
		})
	})
})

var _ = Describe("VerifySignature", func() {
	It("accepts the GitHub documented example", func() {
		payload := []byte("Hello, World!")
		sig := "sha256=757107ea0eb2509fc211221cce984b8a37570b6d7586c22c46f4379c8b043e17"

		Expect(server.VerifySignature(secret, payload, sig)).To(BeTrue())
	})

	It("rejects non-hex digests", func() {
		Expect(server.VerifySignature(secret, []byte("x"), "sha256=zz")).To(BeFalse())
	})
})
