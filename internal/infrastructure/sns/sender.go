package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/vape-shop-api/internal/config"
	"github.com/vape-shop-api/internal/domain"
)

// publisher is the subset of *sns.Client the sender uses.
type publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender delivers login codes as transactional SMS through AWS SNS.
type Sender struct {
	client publisher
}

func NewSender(ctx context.Context, cfg *config.Config) (*Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SNSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Sender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *Sender) Name() string { return "sns" }

// ChannelID is the user's phone in E.164 form.
func (s *Sender) ChannelID(u *domain.User) string {
	if u.Phone == "" {
		return ""
	}
	return "+" + u.Phone
}

func (s *Sender) Send(ctx context.Context, to, message string) error {
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	if out.MessageId == nil || *out.MessageId == "" {
		return fmt.Errorf("sns publish: no message id: %w", domain.ErrNotDelivered)
	}
	return nil
}
