package adapters

import (
	"context"
	"time"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

type dynamoSlotItem struct {
	Slot      string `dynamodbav:"slot"`
	Value     string `dynamodbav:"value"`
	UpdatedAt int64  `dynamodbav:"updated_at"`
}

type dynamoKeyValueStore struct {
	logger       outbound.LoggerPort
	dynamoSvc    dynamodbiface.DynamoDBAPI
	dynamoConfig *config.DynamoConfig
	now          func() int64
}

func NewDynamoKeyValueStore(logger outbound.LoggerPort, dynamoSvc dynamodbiface.DynamoDBAPI, dynamoConfig *config.DynamoConfig) outbound.KeyValueStorePort {
	return &dynamoKeyValueStore{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
		now:          func() int64 { return time.Now().Unix() },
	}
}

func (c *dynamoKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := c.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.dynamoConfig.TableName),
		Key:            c.key(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to get slot item", map[string]interface{}{"slot": key})
		return "", false, err
	}
	if len(out.Item) == 0 {
		return "", false, nil
	}

	var item dynamoSlotItem
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		c.logger.ErrorWithFields(err, "Failed to unmarshal slot item", map[string]interface{}{"slot": key})
		return "", false, err
	}
	return item.Value, true, nil
}

func (c *dynamoKeyValueStore) Set(ctx context.Context, key string, value string) error {
	item := dynamoSlotItem{
		Slot:      key,
		Value:     value,
		UpdatedAt: c.now(),
	}
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to marshal slot item", map[string]interface{}{
			"slot": key,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(c.dynamoConfig.TableName),
	}

	_, err = c.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to save slot item", map[string]interface{}{
			"slot": key,
		})
		return err
	}
	return nil
}

func (c *dynamoKeyValueStore) Remove(ctx context.Context, key string) error {
	_, err := c.dynamoSvc.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.dynamoConfig.TableName),
		Key:       c.key(key),
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to delete slot item", map[string]interface{}{"slot": key})
		return err
	}
	return nil
}

func (c *dynamoKeyValueStore) key(slot string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"slot": {S: aws.String(slot)},
	}
}
