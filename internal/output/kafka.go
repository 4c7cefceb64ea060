package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/chrisdamba/fooder/internal/logging"
	"github.com/chrisdamba/fooder/internal/models"
)

// KafkaOutput publishes each message synchronously to the topic of the same name.
type KafkaOutput struct {
	producer sarama.SyncProducer
}

func NewKafkaOutput(config *models.Config) (*KafkaOutput, error) {
	timeout := config.KafkaTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = "fooder"
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = timeout
	saramaConfig.Net.ReadTimeout = timeout
	saramaConfig.Net.WriteTimeout = timeout

	brokerList := strings.Split(config.KafkaBrokerList, ",")
	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	log := logging.With("output")
	log.Info().Strs("brokers", brokerList).Msg("kafka producer created")
	return NewKafkaOutputFromProducer(producer), nil
}

func NewKafkaOutputFromProducer(producer sarama.SyncProducer) *KafkaOutput {
	return &KafkaOutput{producer: producer}
}

func (k *KafkaOutput) WriteMessage(topic string, msg []byte) error {
	if k.producer == nil {
		return fmt.Errorf("kafka producer is closed")
	}
	_, _, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}
	return nil
}

func (k *KafkaOutput) Close() error {
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
