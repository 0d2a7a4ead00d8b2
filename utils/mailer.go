package utils

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesClient *ses.Client

func InitMailer() {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("AWS config load failed: %v", err)
	}
	sesClient = ses.NewFromConfig(cfg)
}

// generic SES sender. A nil client (mailer never initialised, e.g. in tests)
// silently skips sending: notification mail is best-effort everywhere.
func sendEmail(to string, subject string, body string) error {
	if sesClient == nil {
		return nil
	}

	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	_, err := sesClient.SendEmail(context.TODO(), input)
	if err != nil {
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

// SendGroupInviteEmail notifies a user that a leader added them to a group.
func SendGroupInviteEmail(to, groupName, leaderName string) error {
	subject := fmt.Sprintf("You were added to the group %q", groupName)
	body := fmt.Sprintf("%s added you to the group %q.\n\nYour latest weight and BMI records are now visible to the group leader.", leaderName, groupName)
	return sendEmail(to, subject, body)
}
