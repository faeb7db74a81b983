package events

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type TopicPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// EmailSink sends the student a confirmation email through SES.
type EmailSink struct {
	sender EmailSender
	from   string
}

func NewEmailSink(sender EmailSender, from string) *EmailSink {
	return &EmailSink{sender: sender, from: from}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Deliver(ctx context.Context, event RosterEvent) error {
	subject, body := renderEmail(event)

	_, err := s.sender.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{event.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}

func renderEmail(event RosterEvent) (subject, body string) {
	if event.Type == "unregistered" {
		return fmt.Sprintf("You have left %s", event.Activity),
			fmt.Sprintf("%s has been removed from %s.\n", event.Email, event.Activity)
	}
	return fmt.Sprintf("You are signed up for %s", event.Activity),
		fmt.Sprintf("%s is now registered for %s (%d of %d spots taken).\n",
			event.Email, event.Activity, event.Participants, event.MaxParticipants)
}

// SNSSink publishes the event JSON to a topic.
type SNSSink struct {
	publisher TopicPublisher
	topicARN  string
}

func NewSNSSink(publisher TopicPublisher, topicARN string) *SNSSink {
	return &SNSSink{publisher: publisher, topicARN: topicARN}
}

func (s *SNSSink) Name() string { return "sns" }

func (s *SNSSink) Deliver(ctx context.Context, event RosterEvent) error {
	payload, err := event.JSON()
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = s.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Type),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
