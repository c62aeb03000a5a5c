package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/quizly-app/quizly-api/internal/dto"
)

const appealEventBufferSize = 16

// AppealNotifier fans appeal resolutions out to interested listeners: a NATS
// subject for other services and an in-process broker feeding the websocket
// stream. Professor feedback is sanitized before it leaves the process.
type AppealNotifier interface {
	NotifyResolved(ctx context.Context, event dto.AppealResolvedEvent)
	Subscribe(userID uint) (<-chan dto.AppealResolvedEvent, func())
}

type appealNotifier struct {
	nats      *nats.Conn
	subject   string
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger

	mu          sync.RWMutex
	subscribers map[uint]map[chan dto.AppealResolvedEvent]struct{}
}

// NewAppealNotifier constructs the notifier. The NATS connection may be nil,
// in which case events are only delivered in-process.
func NewAppealNotifier(natsConn *nats.Conn, subject string, logger zerolog.Logger) AppealNotifier {
	if subject == "" {
		subject = "quizly.appeals.resolved"
	}

	return &appealNotifier{
		nats:        natsConn,
		subject:     subject,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "appeal_notifier").Str("node_id", uuid.NewString()).Logger(),
		subscribers: make(map[uint]map[chan dto.AppealResolvedEvent]struct{}),
	}
}

func (n *appealNotifier) NotifyResolved(ctx context.Context, event dto.AppealResolvedEvent) {
	event.ProfessorFeedback = strings.TrimSpace(n.sanitizer.Sanitize(event.ProfessorFeedback))

	n.deliverLocal(event)

	if n.nats == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error().Err(err).Msg("failed to encode appeal event")
		return
	}

	if err := n.nats.Publish(n.subject, payload); err != nil {
		n.logger.Warn().Err(err).Str("subject", n.subject).Msg("failed to publish appeal event")
	}
}

func (n *appealNotifier) deliverLocal(event dto.AppealResolvedEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.subscribers[event.UserID] {
		select {
		case ch <- event:
		default:
			n.logger.Warn().Uint("user_id", event.UserID).Msg("dropping appeal event, subscriber too slow")
		}
	}
}

func (n *appealNotifier) Subscribe(userID uint) (<-chan dto.AppealResolvedEvent, func()) {
	ch := make(chan dto.AppealResolvedEvent, appealEventBufferSize)

	n.mu.Lock()
	if n.subscribers[userID] == nil {
		n.subscribers[userID] = make(map[chan dto.AppealResolvedEvent]struct{})
	}
	n.subscribers[userID][ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		delete(n.subscribers[userID], ch)
		if len(n.subscribers[userID]) == 0 {
			delete(n.subscribers, userID)
		}
		n.mu.Unlock()
		close(ch)
	}

	return ch, cancel
}
