package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/vape-shop-api/internal/domain"
)

// HomeBlockRepo stores homepage section settings. PK: block_key.
type HomeBlockRepo struct {
	client    API
	tableName string
}

func NewHomeBlockRepo(client API, tableName string) *HomeBlockRepo {
	return &HomeBlockRepo{client: client, tableName: tableName}
}

// List scans the (small) table and orders blocks by position.
func (r *HomeBlockRepo) List(ctx context.Context) ([]domain.HomeBlock, error) {
	items, err := scanAll(ctx, r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var out []domain.HomeBlock
	if err := attributevalue.UnmarshalListOfMaps(items, &out); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *HomeBlockRepo) SaveAll(ctx context.Context, blocks []domain.HomeBlock) error {
	reqs := make([]types.WriteRequest, 0, len(blocks))
	for i := range blocks {
		item, err := attributevalue.MarshalMap(blocks[i])
		if err != nil {
			return fmt.Errorf("marshal home block %s: %w", blocks[i].Key, err)
		}
		reqs = append(reqs, putRequest(item))
	}
	_, err := batchWrite(ctx, r.client, r.tableName, reqs)
	return err
}
