// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package events

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/segmentio/kafka-go"
)

// kafkaWriter is the part of *kafka.Writer the publisher uses.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher is a Watermill message.Publisher backed by kafka-go.
// The message UUID is the record key and metadata becomes headers.
type KafkaPublisher struct {
	writer       kafkaWriter
	writeTimeout time.Duration
}

// NewKafkaPublisher creates a synchronous writer to brokers. Topics are
// taken per message, so one writer serves every event type.
func NewKafkaPublisher(brokers []string, writeTimeout time.Duration) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			WriteTimeout:           writeTimeout,
		},
		writeTimeout: writeTimeout,
	}
}

// Publish writes msgs to topic in one batch.
func (p *KafkaPublisher) Publish(topic string, msgs ...*message.Message) error {
	records := make([]kafka.Message, 0, len(msgs))
	for _, msg := range msgs {
		records = append(records, toKafkaMessage(topic, msg))
	}

	ctx := context.Background()
	if len(msgs) > 0 && msgs[0].Context() != nil {
		ctx = msgs[0].Context()
	}
	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}
	return p.writer.WriteMessages(ctx, records...)
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toKafkaMessage(topic string, msg *message.Message) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Metadata)+1)
	headers = append(headers, kafka.Header{Key: "_watermill_message_uuid", Value: []byte(msg.UUID)})
	for k, v := range msg.Metadata {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return kafka.Message{
		Topic:   topic,
		Key:     []byte(msg.UUID),
		Value:   msg.Payload,
		Headers: headers,
		Time:    time.Now().UTC(),
	}
}

var _ message.Publisher = (*KafkaPublisher)(nil)
