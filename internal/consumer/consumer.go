package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/IBM/sarama"

	"github.com/gabrielvps/PintClub/internal/services"
)

// PintEventConsumer applies pint-created events: each event awards the
// share's points to the sharer's membership row in the target group.
type PintEventConsumer struct {
	pintService *services.PintService
}

func NewPintEventConsumer(pintService *services.PintService) *PintEventConsumer {
	return &PintEventConsumer{
		pintService: pintService,
	}
}

// Setup is run at the beginning of a new session, before ConsumeClaim
func (consumer *PintEventConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited
func (consumer *PintEventConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
func (consumer *PintEventConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event services.PintCreatedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("failed to decode pint event: %v", err)
			session.MarkMessage(message, "")
			continue
		}

		if err := consumer.pintService.AwardPoints(event.GroupID, event.UserID, event.Points); err != nil {
			// Mark anyway to avoid a poison-message loop; the award can be
			// reconciled from the pints table.
			log.Printf("failed to award points for pint %d: %v", event.PintID, err)
		}

		session.MarkMessage(message, "")
	}
	return nil
}

// StartConsumer runs the consumer group loop in the background.
func StartConsumer(brokers []string, groupID string, topic string, consumer *PintEventConsumer) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	client, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		log.Fatalf("failed to create consumer group client: %v", err)
	}

	ctx := context.Background()
	go func() {
		for {
			if err := client.Consume(ctx, []string{topic}, consumer); err != nil {
				log.Printf("consumer error: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}
