package submissionqueue

import (
	"context"
	"fmt"
	"mindhub-service/internal/app/config"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/responses"
	"mindhub-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// SubmissionMessage is a completed assessment waiting to reach the clinical
// backend.
type SubmissionMessage struct {
	ID                 string                 `json:"id"`
	AssessmentID       string                 `json:"assessment_id"`
	RemoteAssessmentID string                 `json:"remote_assessment_id"`
	Responses          map[string]interface{} `json:"responses"`
	CompletedAt        string                 `json:"completed_at"`
	RequestID          string                 `json:"request_id,omitempty"`
	FailedCount        int                    `json:"failed_count"`
	// Results is set once the backend has scored the submission but the
	// session could not be updated yet.
	Results *responses.AssessmentResults `json:"results,omitempty"`
}

// channel is the part of *amqp.Channel the service uses after setup.
type channel interface {
	Get(queue string, autoAck bool) (amqp.Delivery, bool, error)
	Ack(tag uint64, multiple bool) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Service manages the submission queue and its dead-letter queue.
type Service struct {
	ch        channel
	log       *zap.Logger
	queueName string
	deadQueue string
	confirms  chan amqp.Confirmation
	mu        sync.Mutex
}

// NewService declares both durable queues, sets QoS and enables publisher
// confirms on a dedicated channel.
func NewService(conn *amqp.Connection, log *zap.Logger, cfg *config.InternalConfig, prefetch int) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	for _, name := range []string{cfg.Queue.SubmissionQueue, cfg.Queue.SubmissionDeadQueue} {
		_, err = ch.QueueDeclare(
			name,  // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return nil, err
		}
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		ch:        ch,
		log:       log,
		queueName: cfg.Queue.SubmissionQueue,
		deadQueue: cfg.Queue.SubmissionDeadQueue,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

type EnqueueInput struct {
	Message SubmissionMessage
}

type EnqueueOutput struct{}

type EnqueueToDLQInput struct {
	Message SubmissionMessage
}

type EnqueueToDLQOutput struct{}

// ReenqueueInput carries a message going back to the tail of the queue,
// usually with FailedCount bumped.
type ReenqueueInput struct {
	Message SubmissionMessage
}

type ReenqueueOutput struct{}

type FetchNInput struct {
	Max int
}

// QueuedItem is a fetched delivery and its decoded payload.
type QueuedItem struct {
	DeliveryTag uint64
	Message     SubmissionMessage
}

type FetchNOutput struct {
	Items []QueuedItem
}

type AckMessageInput struct {
	DeliveryTag uint64
}

type AckMessageOutput struct{}

func (s *Service) Enqueue(ctx context.Context, in *EnqueueInput) (*EnqueueOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("SubmissionQueue.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, in.Message.AssessmentID),
	)

	if err := s.publishMessage(ctx, s.queueName, in.Message); err != nil {
		return nil, err
	}
	return &EnqueueOutput{}, nil
}

func (s *Service) Reenqueue(ctx context.Context, in *ReenqueueInput) (*ReenqueueOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("SubmissionQueue.Reenqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, in.Message.AssessmentID),
		zap.Int(constvars.LoggingFailedCountKey, in.Message.FailedCount),
	)

	if err := s.publishMessage(ctx, s.queueName, in.Message); err != nil {
		return nil, err
	}
	return &ReenqueueOutput{}, nil
}

func (s *Service) EnqueueToDeadQueue(ctx context.Context, in *EnqueueToDLQInput) (*EnqueueToDLQOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Warn("SubmissionQueue.EnqueueToDeadQueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAssessmentIDKey, in.Message.AssessmentID),
		zap.Int(constvars.LoggingFailedCountKey, in.Message.FailedCount),
	)

	if err := s.publishMessage(ctx, s.deadQueue, in.Message); err != nil {
		return nil, err
	}
	return &EnqueueToDLQOutput{}, nil
}

// FetchN retrieves up to N messages using basic.get without auto-ack.
func (s *Service) FetchN(ctx context.Context, in *FetchNInput) (*FetchNOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("SubmissionQueue.FetchN called", zap.String(constvars.LoggingRequestIDKey, requestID))

	n := in.Max
	if n <= 0 {
		n = 1
	}
	items := make([]QueuedItem, 0, n)

	for i := 0; i < n; i++ {
		d, ok, err := s.ch.Get(s.queueName, false)
		if err != nil {
			return nil, exceptions.ErrRabbitMQConsumeMessage(err, s.queueName)
		}
		if !ok {
			break
		}
		var payload SubmissionMessage
		if err := json.Unmarshal(d.Body, &payload); err != nil {
			// Poison message: park it in the DLQ instead of looping on it.
			s.log.Warn("SubmissionQueue.FetchN undecodable message, moving to DLQ",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			if perr := s.publish(ctx, s.deadQueue, d.Body); perr != nil {
				s.log.Error("SubmissionQueue.FetchN DLQ publish failed, leaving message unacked",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(perr),
				)
				break
			}
			if aerr := s.ch.Ack(d.DeliveryTag, false); aerr != nil {
				s.log.Error("SubmissionQueue.FetchN ack of undecodable message failed",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(aerr),
				)
			}
			continue
		}
		items = append(items, QueuedItem{DeliveryTag: d.DeliveryTag, Message: payload})
	}

	return &FetchNOutput{Items: items}, nil
}

func (s *Service) AckMessage(ctx context.Context, in *AckMessageInput) (*AckMessageOutput, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("SubmissionQueue.AckMessage called", zap.String(constvars.LoggingRequestIDKey, requestID))
	if err := s.ch.Ack(in.DeliveryTag, false); err != nil {
		return nil, exceptions.ErrRabbitMQConsumeMessage(err, s.queueName)
	}
	return &AckMessageOutput{}, nil
}

func (s *Service) publishMessage(ctx context.Context, queue string, message SubmissionMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return s.publish(ctx, queue, body)
}

// publish sends a persistent message and waits for the broker confirm.
func (s *Service) publish(ctx context.Context, queue string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	if err := s.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}
