package pubsub

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeName = "dinehub.orders"

// AMQPPublisher mirrors hub events onto a RabbitMQ topic exchange so
// out-of-process consumers (push gateways, analytics) see the same
// stream. Routing key = topic.
type AMQPPublisher struct {
	conn *amqp.Connection
}

// DialAMQP connects and declares the topic exchange.
func DialAMQP(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	// name, type, durable, auto-deleted, internal, no-wait, arguments
	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn}, nil
}

func (p *AMQPPublisher) Publish(topic string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ch, err := p.conn.Channel()
	if err != nil {
		log.Println("amqp channel:", err)
		return
	}
	defer ch.Close()

	err = ch.PublishWithContext(context.Background(),
		exchangeName, // exchange
		topic,        // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		log.Println("amqp publish:", err)
	}
}

func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}
