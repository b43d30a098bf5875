package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/stayhub/stayhub-backend/internal/booking"
	"github.com/stayhub/stayhub-backend/internal/config"
)

const (
	receiveWaitSeconds = 20 // long poll
	receiveBatchSize   = 1
)

// SQSQueue implements booking.Queue on top of AWS SQS.
type SQSQueue struct {
	client   *sqs.SQS
	queueURL string
}

func NewBookingQueue(cfg config.Config) (*SQSQueue, error) {
	if cfg.BookingQueueURL == "" {
		return nil, fmt.Errorf("booking queue URL not configured")
	}

	awsCfg := aws.NewConfig().WithRegion(cfg.AWSRegion)
	if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(
			cfg.AWSAccessKey,
			cfg.AWSSecretKey,
			"", // Token (optional)
		))
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %v", err)
	}

	return &SQSQueue{client: sqs.New(sess), queueURL: cfg.BookingQueueURL}, nil
}

func (q *SQSQueue) Send(ctx context.Context, body []byte) error {
	_, err := q.client.SendMessageWithContext(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(string(body)),
	})
	return err
}

// Receive long-polls for a single message and returns nil when the wait
// times out empty.
func (q *SQSQueue) Receive(ctx context.Context) (*booking.QueueMessage, error) {
	out, err := q.client.ReceiveMessageWithContext(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: aws.Int64(receiveBatchSize),
		WaitTimeSeconds:     aws.Int64(receiveWaitSeconds),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}

	msg := out.Messages[0]
	return &booking.QueueMessage{
		Body:          []byte(aws.StringValue(msg.Body)),
		ReceiptHandle: aws.StringValue(msg.ReceiptHandle),
	}, nil
}

func (q *SQSQueue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.client.DeleteMessageWithContext(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	return err
}
