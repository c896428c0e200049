package audit

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/analysis"
	"github.com/Santosdevbjj/analiseRiscosAtrasoObras/internal/logging"
)

// Publisher appends one entry per completed analysis onto a durable queue.
// Downstream consumers own the history; the bot never reads it back, so a
// publish failure is logged and otherwise ignored.
type Publisher struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	queue   string
	log     *logging.Logger
	entropy *ulid.MonotonicEntropy
}

type Entry struct {
	AnalysisID string    `json:"analysis_id"`
	CallerID   int64     `json:"caller_id"`
	Identifier string    `json:"identifier"`
	MeanRisk   float64   `json:"mean_risk"`
	Status     string    `json:"status"`
	Mode       string    `json:"mode"`
	At         time.Time `json:"at"`
}

func NewPublisher(url, queue string, log *logging.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{
		conn:    conn,
		ch:      ch,
		queue:   queue,
		log:     log,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}, nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// RecordAnalysis publishes one audit entry. Implements analysis.Auditor.
func (p *Publisher) RecordAnalysis(ctx context.Context, callerID int64, s analysis.Summary) {
	now := time.Now()
	entry := Entry{
		AnalysisID: ulid.MustNew(ulid.Timestamp(now), p.entropy).String(),
		CallerID:   callerID,
		Identifier: s.Identifier,
		MeanRisk:   s.MeanRisk,
		Status:     string(s.Status),
		Mode:       s.Mode,
		At:         now,
	}
	body, err := json.Marshal(entry)
	if err != nil {
		p.log.Error("audit marshal failed", "identifier", s.Identifier, "error", err)
		return
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(cctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    now,
		},
	)
	if err != nil {
		p.log.Warn("audit publish failed", "analysis_id", entry.AnalysisID, "error", err)
	}
}
