package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"railres/internal/shared/config"
	"railres/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer pulls notification messages off the bus and hands them to the
// email sender. Delivery failures are logged and the message is skipped;
// they never affect booking state.
type Consumer struct {
	group  sarama.ConsumerGroup
	topics []string
	sender EmailSender
	log    *logger.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewConsumer creates a new Kafka notification consumer
func NewConsumer(cfg config.KafkaConfig, sender EmailSender, log *logger.Logger) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:  group,
		topics: []string{cfg.NotificationTopic},
		sender: sender,
		log:    log,
		done:   make(chan struct{}),
	}, nil
}

// Start begins consuming in the background until Stop is called.
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		defer close(c.done)
		for {
			if err := c.group.Consume(ctx, c.topics, c); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				c.log.Error("notification consumer error", "error", err.Error())
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

// Stop shuts the consumer down and waits for the run loop to exit.
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	err := c.group.Close()
	<-c.done
	return err
}

// Setup implements sarama.ConsumerGroupHandler
func (c *Consumer) Setup(sarama.ConsumerGroupSession) error { return nil }

// Cleanup implements sarama.ConsumerGroupHandler
func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim implements sarama.ConsumerGroupHandler
func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for kafkaMsg := range claim.Messages() {
		var msg Message
		if err := json.Unmarshal(kafkaMsg.Value, &msg); err != nil {
			c.log.Error("dropping malformed notification", "error", err.Error(),
				"offset", kafkaMsg.Offset)
			session.MarkMessage(kafkaMsg, "")
			continue
		}

		if err := c.sender.Send(&msg); err != nil {
			c.log.Error("failed to deliver notification", "error", err.Error(),
				"type", string(msg.Type), "pnr", msg.PNR)
		}
		session.MarkMessage(kafkaMsg, "")
	}
	return nil
}
