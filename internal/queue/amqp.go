package queue

import (
	"encoding/json"
	"log"

	"github.com/streadway/amqp"
)

// Job is the wire payload for queued campaign sends.
type Job struct {
	CampaignID int `json:"campaign_id"`
}

// AMQPQueue is the RabbitMQ-backed Queue used between cmd/worker's
// scheduler loop and its consumer.
type AMQPQueue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// DialAMQP connects to RabbitMQ.
func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &AMQPQueue{conn: conn, ch: ch}, nil
}

// Close tears down the channel and connection.
func (q *AMQPQueue) Close() {
	if q.ch != nil {
		q.ch.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *AMQPQueue) declare(topic string) (amqp.Queue, error) {
	return q.ch.QueueDeclare(
		topic,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

// Publish enqueues one campaign id as a durable JSON message.
func (q *AMQPQueue) Publish(topic string, campaignID int) error {
	queue, err := q.declare(topic)
	if err != nil {
		return err
	}

	body, err := json.Marshal(Job{CampaignID: campaignID})
	if err != nil {
		return err
	}

	return q.ch.Publish(
		"",
		queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// Subscribe consumes the topic and feeds campaign ids to the handler.
// Handler errors are acked anyway: the dispatch path is guarded by the
// status transition, so replaying a failed job cannot double-send and a
// malformed job can never succeed on retry.
func (q *AMQPQueue) Subscribe(topic string, handler func(campaignID int) error) error {
	queue, err := q.declare(topic)
	if err != nil {
		return err
	}

	msgs, err := q.ch.Consume(
		queue.Name,
		"",
		false, // autoAck off for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			var job Job
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Println("⚠️ invalid job payload:", err)
				d.Ack(false)
				continue
			}

			if err := handler(job.CampaignID); err != nil {
				log.Println("⚠️ job for campaign", job.CampaignID, "failed:", err)
			}
			d.Ack(false)
		}
	}()

	return nil
}

var _ Queue = (*AMQPQueue)(nil)
