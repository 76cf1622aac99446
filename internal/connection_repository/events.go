package connection_repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/RedHatInsights/connection-catalog/internal/config"
	"github.com/RedHatInsights/connection-catalog/internal/domain"
	"github.com/RedHatInsights/connection-catalog/internal/platform/logger"
	"github.com/RedHatInsights/connection-catalog/internal/platform/queue"

	"github.com/google/uuid"
	kafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type EventType string

const (
	ConnectionCreated EventType = "created"
	ConnectionUpdated EventType = "updated"
	ConnectionDeleted EventType = "deleted"
)

// ConnectionEventAnnouncer publishes connection lifecycle events.  Event
// delivery is best effort - a failed announcement never fails the store
// operation that triggered it.
type ConnectionEventAnnouncer interface {
	AnnounceEvent(context.Context, EventType, domain.Connection) error
}

func NewConnectionEventAnnouncer(impl string, cfg *config.Config) (ConnectionEventAnnouncer, error) {

	switch impl {
	case "kafka":
		kafkaProducerCfg := &queue.ProducerConfig{
			Brokers:    cfg.ConnectionEventsKafkaBrokers,
			Topic:      cfg.ConnectionEventsKafkaTopic,
			BatchSize:  cfg.ConnectionEventsKafkaBatchSize,
			BatchBytes: cfg.ConnectionEventsKafkaBatchBytes,
		}

		kafkaProducer := queue.StartProducer(kafkaProducerCfg)

		connectionEventAnnouncer := KafkaBasedConnectionEventAnnouncer{
			kafkaWriter: kafkaProducer,

			kafkaWriterGoRoutineGauge: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "connection_catalog_event_kafka_writer_go_routine_count",
				Help: "The total number of active kafka event writer go routines",
			}),

			kafkaWriterSuccessCounter: promauto.NewCounter(prometheus.CounterOpts{
				Name: "connection_catalog_event_kafka_writer_success_count",
				Help: "The number of events that were sent to the kafka topic",
			}),

			kafkaWriterFailureCounter: promauto.NewCounter(prometheus.CounterOpts{
				Name: "connection_catalog_event_kafka_writer_failure_count",
				Help: "The number of events that failed to get produced to the kafka topic",
			}),
		}

		return &connectionEventAnnouncer, nil
	case "fake":
		return &FakeConnectionEventAnnouncer{}, nil
	default:
		return nil, errors.New("Invalid ConnectionEventAnnouncer impl requested")
	}
}

type KafkaBasedConnectionEventAnnouncer struct {
	kafkaWriter               *kafka.Writer
	kafkaWriterGoRoutineGauge prometheus.Gauge
	kafkaWriterSuccessCounter prometheus.Counter
	kafkaWriterFailureCounter prometheus.Counter
}

type connectionEventEnvelope struct {
	EventID     string    `json:"event_id"`
	EventType   EventType `json:"event_type"`
	Namespace   string    `json:"namespace"`
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	EventedTime int64     `json:"evented_time"`
}

func (kbcea *KafkaBasedConnectionEventAnnouncer) AnnounceEvent(ctx context.Context, eventType EventType, connection domain.Connection) error {

	log := logger.Log.WithFields(logrus.Fields{"namespace": connection.Namespace, "connection_id": connection.ID})

	eventID, err := uuid.NewRandom()
	if err != nil {
		logger.LogWithError(log, "Unable to generate an event id", err)
		return err
	}

	envelope := connectionEventEnvelope{
		EventID:     eventID.String(),
		EventType:   eventType,
		Namespace:   connection.Namespace.String(),
		ID:          connection.ID.String(),
		Type:        connection.Type.String(),
		Name:        connection.Name,
		EventedTime: connection.Updated,
	}

	jsonMessage, err := json.Marshal(envelope)
	if err != nil {
		logger.LogWithError(log, "JSON marshal of connection event message failed", err)
		return err
	}

	headers := []kafka.Header{
		{Key: "namespace", Value: []byte(connection.Namespace)},
		{Key: "connection_id", Value: []byte(connection.ID)},
		{Key: "type", Value: []byte(eventType)},
	}

	go func() {
		kbcea.kafkaWriterGoRoutineGauge.Inc()
		defer kbcea.kafkaWriterGoRoutineGauge.Dec()

		err = kbcea.kafkaWriter.WriteMessages(ctx,
			kafka.Message{
				Key:     []byte(connection.Namespace.String() + ":" + connection.ID.String()),
				Value:   jsonMessage,
				Headers: headers,
			})

		log.Debug("Connection event kafka message written")

		if err != nil {
			logger.LogWithError(log, "Error writing connection event message to kafka", err)

			if errors.Is(err, context.Canceled) != true {
				kbcea.kafkaWriterFailureCounter.Inc()
			}
		} else {
			kbcea.kafkaWriterSuccessCounter.Inc()
		}
	}()

	return nil
}

type FakeConnectionEventAnnouncer struct {
}

func (fcea *FakeConnectionEventAnnouncer) AnnounceEvent(ctx context.Context, eventType EventType, connection domain.Connection) error {
	log := logger.Log.WithFields(logrus.Fields{"namespace": connection.Namespace, "connection_id": connection.ID})

	log.Debug("FAKE: connection event type: ", eventType, " - ", connection.Name)

	return nil
}
