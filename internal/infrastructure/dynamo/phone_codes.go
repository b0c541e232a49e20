package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/vape-shop-api/internal/domain"
)

// phoneCodeItem is the stored shape of a code. expires_at is unix
// milliseconds for exact comparisons; ttl is unix seconds for DynamoDB's
// native expiry, which lags and is never relied on for validity.
type phoneCodeItem struct {
	Phone     string `dynamodbav:"phone"`
	CodeID    string `dynamodbav:"code_id"`
	Code      string `dynamodbav:"code"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
	Used      bool   `dynamodbav:"used"`
	CreatedAt int64  `dynamodbav:"created_at"`
	TTL       int64  `dynamodbav:"ttl"`
}

func (it *phoneCodeItem) toDomain() *domain.PhoneCode {
	return &domain.PhoneCode{
		CodeID:    it.CodeID,
		Phone:     it.Phone,
		Code:      it.Code,
		ExpiresAt: time.UnixMilli(it.ExpiresAt).UTC(),
		Used:      it.Used,
		CreatedAt: time.UnixMilli(it.CreatedAt).UTC(),
	}
}

// PhoneCodeRepo manages one-time login codes.
// PK: phone, SK: code_id
type PhoneCodeRepo struct {
	client    API
	tableName string
}

func NewPhoneCodeRepo(client API, tableName string) *PhoneCodeRepo {
	return &PhoneCodeRepo{client: client, tableName: tableName}
}

func (r *PhoneCodeRepo) Create(ctx context.Context, c *domain.PhoneCode) error {
	item, err := attributevalue.MarshalMap(phoneCodeItem{
		Phone:     c.Phone,
		CodeID:    c.CodeID,
		Code:      c.Code,
		ExpiresAt: c.ExpiresAt.UnixMilli(),
		Used:      c.Used,
		CreatedAt: c.CreatedAt.UnixMilli(),
		TTL:       c.ExpiresAt.Add(time.Hour).Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal phone code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#sk)"),
		ExpressionAttributeNames: map[string]string{
			"#sk": fieldCodeID,
		},
	})
	return err
}

func (r *PhoneCodeRepo) FindValid(ctx context.Context, phone, code string, now time.Time) (*domain.PhoneCode, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#p = :p"),
		FilterExpression:       aws.String("#c = :c AND #u = :f AND #e > :now"),
		ExpressionAttributeNames: map[string]string{
			"#p": fieldPhone,
			"#c": fieldCode,
			"#u": fieldUsed,
			"#e": fieldExpiresAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p":   &types.AttributeValueMemberS{Value: phone},
			":c":   &types.AttributeValueMemberS{Value: code},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
			":now": &types.AttributeValueMemberN{Value: fmt.Sprint(now.UnixMilli())},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("phone code not found: %w", domain.ErrNotFound)
	}
	var it phoneCodeItem
	if err := attributevalue.UnmarshalMap(items[0], &it); err != nil {
		return nil, err
	}
	return it.toDomain(), nil
}

// MarkUsed is a conditional write; of concurrent callers only one passes
// the condition, the others get ErrNotFound.
func (r *PhoneCodeRepo) MarkUsed(ctx context.Context, c *domain.PhoneCode, now time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey(fieldPhone, c.Phone, fieldCodeID, c.CodeID),
		UpdateExpression:    aws.String("SET #u = :t"),
		ConditionExpression: aws.String("attribute_exists(#sk) AND #u = :f AND #e > :now AND #c = :c"),
		ExpressionAttributeNames: map[string]string{
			"#sk": fieldCodeID,
			"#u":  fieldUsed,
			"#e":  fieldExpiresAt,
			"#c":  fieldCode,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t":   &types.AttributeValueMemberBOOL{Value: true},
			":f":   &types.AttributeValueMemberBOOL{Value: false},
			":now": &types.AttributeValueMemberN{Value: fmt.Sprint(now.UnixMilli())},
			":c":   &types.AttributeValueMemberS{Value: c.Code},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("phone code already used or expired: %w", domain.ErrNotFound)
		}
		return err
	}
	c.Used = true
	return nil
}

func (r *PhoneCodeRepo) Delete(ctx context.Context, c *domain.PhoneCode) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldPhone, c.Phone, fieldCodeID, c.CodeID),
	})
	return err
}

// DeleteExpiredOrUsed queries a single phone partition, or scans the whole
// table when phone is empty, and batch-deletes the matching keys.
func (r *PhoneCodeRepo) DeleteExpiredOrUsed(ctx context.Context, phone string, now time.Time) (int64, error) {
	names := map[string]string{
		"#p":  fieldPhone,
		"#sk": fieldCodeID,
		"#u":  fieldUsed,
		"#e":  fieldExpiresAt,
	}
	values := map[string]types.AttributeValue{
		":t":   &types.AttributeValueMemberBOOL{Value: true},
		":now": &types.AttributeValueMemberN{Value: fmt.Sprint(now.UnixMilli())},
	}
	filter := aws.String("#u = :t OR #e <= :now")
	projection := aws.String("#p, #sk")

	var (
		items []map[string]types.AttributeValue
		err   error
	)
	if phone == "" {
		items, err = scanAll(ctx, r.client, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          filter,
			ProjectionExpression:      projection,
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		})
	} else {
		values[":p"] = &types.AttributeValueMemberS{Value: phone}
		items, err = queryAll(ctx, r.client, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    aws.String("#p = :p"),
			FilterExpression:          filter,
			ProjectionExpression:      projection,
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		})
	}
	if err != nil {
		return 0, err
	}
	return r.deleteKeys(ctx, items)
}

func (r *PhoneCodeRepo) DeleteByPhone(ctx context.Context, phone string) (int64, error) {
	items, err := queryAll(ctx, r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("#p = :p"),
		ProjectionExpression:   aws.String("#p, #sk"),
		ExpressionAttributeNames: map[string]string{
			"#p":  fieldPhone,
			"#sk": fieldCodeID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: phone},
		},
	})
	if err != nil {
		return 0, err
	}
	return r.deleteKeys(ctx, items)
}

func (r *PhoneCodeRepo) deleteKeys(ctx context.Context, items []map[string]types.AttributeValue) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	reqs := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		reqs = append(reqs, deleteRequest(map[string]types.AttributeValue{
			fieldPhone:  item[fieldPhone],
			fieldCodeID: item[fieldCodeID],
		}))
	}
	return batchWrite(ctx, r.client, r.tableName, reqs)
}
