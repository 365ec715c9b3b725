package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"listfetch/internal/logging"
	"listfetch/internal/state"
	"listfetch/internal/transform"
	"listfetch/sink"
)

type Config struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	Acks     int16    `yaml:"required_acks"` // 0,1,-1
	ClientID string   `yaml:"client_id"`
}

// Message is the JSON value published per snapshot; the message key is the
// snapshot id.
type Message struct {
	ID        string                  `json:"id"`
	FetchedAt time.Time               `json:"fetched_at"`
	Stats     transform.Stats         `json:"stats"`
	Groups    transform.GroupedResult `json:"groups"`
}

type driver struct {
	cfg Config
	p   sarama.SyncProducer
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return errors.New("kafka-sink: brokers and topic are required")
	}
	d.cfg = cfg

	p, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig(cfg))
	if err != nil {
		return fmt.Errorf("kafka-sink: %w", err)
	}
	d.p = p
	return nil
}

func saramaConfig(cfg Config) *sarama.Config {
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	if cfg.ClientID != "" {
		sc.ClientID = cfg.ClientID
	}
	return sc
}

func (d *driver) Push(ctx context.Context, snap state.Snapshot) error {
	if d.p == nil {
		return errors.New("kafka-sink: not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := json.Marshal(Message{
		ID:        snap.ID,
		FetchedAt: snap.FetchedAt,
		Stats:     snap.Stats,
		Groups:    snap.Groups,
	})
	if err != nil {
		return fmt.Errorf("kafka-sink: encode: %w", err)
	}
	part, off, err := d.p.SendMessage(&sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(snap.ID),
		Value: sarama.ByteEncoder(val),
		Headers: []sarama.RecordHeader{
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka-sink: send: %w", err)
	}
	logging.L().Debug("kafka-sink: published snapshot", "topic", d.cfg.Topic, "partition", part, "offset", off, "snapshot", snap.ID)
	return nil
}

func (d *driver) Close() error {
	if d.p == nil {
		return nil
	}
	p := d.p
	d.p = nil
	return p.Close()
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
